// Package errors defines error types for pipechild.
//
// This package provides structured error types for the failure kinds of a
// pipe session: descriptor or process exhaustion, a failed program launch,
// and stream I/O failures. All error types support error unwrapping and can
// be checked using errors.Is, errors.As, and errors.AsType.
package errors
