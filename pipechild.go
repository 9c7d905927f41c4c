package pipechild

import (
	"context"
	"log/slog"

	"github.com/wagiedev/pipechild/internal/launch"
	"github.com/wagiedev/pipechild/internal/session"
)

// Result is the outcome of one session.
type Result = session.Result

// State is a step of the session state machine.
type State = session.State

// Session states.
const (
	StateInit         = session.StateInit
	StatePipesCreated = session.StatePipesCreated
	StateLaunched     = session.StateLaunched
	StateWroteInput   = session.StateWroteInput
	StateReadOutput   = session.StateReadOutput
	StateReadError    = session.StateReadError
	StateCleanup      = session.StateCleanup
	StateDone         = session.StateDone
	StateLaunchFailed = session.StateLaunchFailed
	StateFailed       = session.StateFailed
)

// Role tells which side of the launch the calling process is on.
type Role = launch.Role

const (
	// RoleOriginal is the controlling process.
	RoleOriginal = launch.RoleOriginal
	// RoleOffspring is a re-executed process about to become the program.
	RoleOffspring = launch.RoleOffspring
)

// CurrentRole reports the role of the calling process.
func CurrentRole() Role {
	return launch.CurrentRole()
}

// RunOffspring performs the offspring role and never returns in it.
// It returns ErrNotOffspring when called from the original.
func RunOffspring(log *slog.Logger) error {
	return launch.RunOffspring(log)
}

// Run performs one session with the given options.
//
// Once the session has started the Result is non-nil even when an error
// is returned, so the reached state can be inspected.
func Run(ctx context.Context, opts ...Option) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if CurrentRole() == RoleOffspring {
		return nil, ErrOffspringRole
	}

	return session.New(applyOptions(opts)).Run(ctx)
}
