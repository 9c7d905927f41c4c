package errors

import (
	"errors"
	"fmt"
	"io"
)

// PipeChildError is the base interface for all pipechild errors.
type PipeChildError interface {
	error
	IsPipeChildError() bool
}

// Compile-time verification that all error types implement PipeChildError.
var (
	_ PipeChildError = (*ResourceExhaustedError)(nil)
	_ PipeChildError = (*LaunchFailedError)(nil)
	_ PipeChildError = (*IOError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrEndOfData indicates every writer of a stream has closed and all
	// buffered bytes were consumed. It is not a failure and matches io.EOF.
	ErrEndOfData = fmt.Errorf("end of data: %w", io.EOF)

	// ErrNotOffspring indicates the offspring entry point ran in a process
	// that was not launched by Spawn.
	ErrNotOffspring = errors.New("process was not launched in the offspring role")

	// ErrOffspringRole indicates Spawn was called from the offspring role.
	ErrOffspringRole = errors.New("spawn called from the offspring role")
)

// ResourceExhaustedError indicates the OS refused to create a pipe or a process.
type ResourceExhaustedError struct {
	Op  string
	Err error
}

func (e *ResourceExhaustedError) Error() string {
	return fmt.Sprintf("resource exhausted: %s: %v", e.Op, e.Err)
}

func (e *ResourceExhaustedError) Unwrap() error {
	return e.Err
}

// IsPipeChildError implements PipeChildError.
func (e *ResourceExhaustedError) IsPipeChildError() bool { return true }

// LaunchFailedError indicates the offspring could not replace its image
// with the target program.
type LaunchFailedError struct {
	Program string
	Reason  string
}

func (e *LaunchFailedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("launch %s failed", e.Program)
	}

	return fmt.Sprintf("launch %s failed: %s", e.Program, e.Reason)
}

// IsPipeChildError implements PipeChildError.
func (e *LaunchFailedError) IsPipeChildError() bool { return true }

// IOError indicates a read or write on a text stream failed at the OS level.
type IOError struct {
	Op     string
	Stream string
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s stream: %v", e.Op, e.Stream, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsPipeChildError implements PipeChildError.
func (e *IOError) IsPipeChildError() bool { return true }
