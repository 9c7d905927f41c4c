package pipechild

import "github.com/wagiedev/pipechild/internal/errors"

// Re-export error types from internal package

// ResourceExhaustedError indicates the OS refused to create a pipe or a process.
type ResourceExhaustedError = errors.ResourceExhaustedError

// LaunchFailedError indicates the offspring could not execute the program.
type LaunchFailedError = errors.LaunchFailedError

// IOError indicates a read or write on a text stream failed.
type IOError = errors.IOError

// PipeChildError is the base interface for all pipechild errors.
type PipeChildError = errors.PipeChildError

// Re-export sentinel errors from internal package.
var (
	// ErrEndOfData indicates a stream was drained after its writers closed.
	ErrEndOfData = errors.ErrEndOfData

	// ErrNotOffspring indicates RunOffspring was called outside the offspring role.
	ErrNotOffspring = errors.ErrNotOffspring

	// ErrOffspringRole indicates Run was called from the offspring role.
	ErrOffspringRole = errors.ErrOffspringRole
)
