// Package config provides configuration types for pipechild.
package config

import (
	"context"

	"github.com/wagiedev/pipechild/internal/pipe"
)

// Process is the original's handle to a running offspring.
type Process interface {
	// Pid returns the offspring's process id.
	Pid() int

	// Wait blocks until the offspring exits and returns its exit code,
	// -1 if it was killed by a signal.
	Wait() (int, error)

	// Kill terminates the offspring. Killing an exited offspring is not
	// an error.
	Kill() error
}

// Launcher starts the offspring on a pipe triple.
// Implement this to drive a session against something other than a real
// child process, for example in tests.
//
// The default implementation re-executes the current binary in the
// offspring role and replaces its image with the target program.
type Launcher interface {
	// Launch starts the offspring. On return the offspring's ends of triple
	// (input read, output write, error write) are closed in the caller,
	// whether or not the launch succeeded.
	//
	// Returns ResourceExhaustedError if no process could be created and
	// LaunchFailedError if the program could not be executed.
	Launch(ctx context.Context, triple *pipe.Triple) (Process, error)
}
