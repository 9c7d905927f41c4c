//go:build unix

package launch

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/wagiedev/pipechild/internal/errors"
	"github.com/wagiedev/pipechild/internal/notify"
)

// exitLaunchFailed is the offspring's exit status when the program could
// not be executed.
const exitLaunchFailed = 127

// RunOffspring performs the offspring role: rewire the standard streams,
// close the inherited pipe ends and replace the process image.
//
// It returns ErrNotOffspring when the process was not started by Spawn.
// In the offspring role it never returns: it either becomes the target
// program or exits with status 127 after notifying the original.
func RunOffspring(log *slog.Logger) error {
	if CurrentRole() != RoleOffspring {
		return errors.ErrNotOffspring
	}

	log = log.With("component", "offspring", "pid", os.Getpid())

	n, err := notify.NewNotifier(notifyFd)
	if err != nil {
		// Without the channel the original sees end-of-data on it and then
		// end-of-data on every stream once this process exits.
		log.Error("Notification channel missing", "error", err)
		os.Exit(exitLaunchFailed)
	}

	// replaceImage only returns on failure.
	err = replaceImage(log)
	if nerr := n.Notify(err.Error()); nerr != nil {
		log.Error("Failed to notify original", "error", nerr)
	}

	os.Exit(exitLaunchFailed)

	return nil
}

func replaceImage(log *slog.Logger) error {
	if len(os.Args) < 2 || os.Args[1] == "" {
		return stderrors.New("no program given")
	}

	program := os.Args[1]

	log.Debug("Rewiring standard streams", "program", program)

	rewire := [...]struct{ from, to int }{
		{inputFd, unix.Stdin},
		{outputFd, unix.Stdout},
		{errorFd, unix.Stderr},
	}

	for _, r := range rewire {
		if err := dupOnto(r.from, r.to); err != nil {
			return fmt.Errorf("dup %d onto %d: %w", r.from, r.to, err)
		}
	}

	// Stderr is now the error pipe; nothing below may log.
	for _, r := range rewire {
		if err := unix.Close(r.from); err != nil {
			return fmt.Errorf("close %d: %w", r.from, err)
		}
	}

	argv := []string{filepath.Base(program)}

	err := unix.Exec(program, argv, withoutRole(os.Environ()))

	return fmt.Errorf("exec %s: %w", program, err)
}
