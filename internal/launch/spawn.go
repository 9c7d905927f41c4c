package launch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wagiedev/pipechild/internal/config"
	"github.com/wagiedev/pipechild/internal/errors"
	"github.com/wagiedev/pipechild/internal/fd"
	"github.com/wagiedev/pipechild/internal/notify"
	"github.com/wagiedev/pipechild/internal/pipe"
)

// Config configures a launch.
type Config struct {
	// Program is the path of the external program. It is passed to execve
	// unchanged, so a bare name is not looked up in PATH.
	Program string

	// Self is the binary re-executed as the offspring.
	// If empty, the running executable is used.
	Self string
}

// Process is the original's handle to a launched offspring.
type Process struct {
	log  *slog.Logger
	proc *os.Process
}

// Pid returns the offspring's process id.
func (p *Process) Pid() int {
	return p.proc.Pid
}

// Wait blocks until the offspring exits and returns its exit code.
// The code is -1 when the offspring was terminated by a signal.
func (p *Process) Wait() (int, error) {
	state, err := p.proc.Wait()
	if err != nil {
		return -1, fmt.Errorf("wait for offspring (pid %d): %w", p.proc.Pid, err)
	}

	p.log.Debug("Offspring exited", "pid", p.proc.Pid, "state", state.String())

	return state.ExitCode(), nil
}

// Kill terminates the offspring with SIGKILL.
func (p *Process) Kill() error {
	if err := p.proc.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill offspring (pid %d): %w", p.proc.Pid, err)
	}

	return nil
}

// Spawn starts the offspring with the triple's child-side ends as its
// standard streams.
//
// On return the original holds only its own ends: the input write end, the
// output read end and the error read end. The offspring's ends are closed
// in the original whether or not the launch succeeded.
//
// Spawn blocks until the offspring has replaced its image. It returns
// ResourceExhaustedError if the process cannot be created and
// LaunchFailedError if the target program cannot be executed. In the latter
// case the offspring has already been reaped.
func Spawn(ctx context.Context, log *slog.Logger, cfg Config, triple *pipe.Triple) (*Process, error) {
	log = log.With("component", "launcher")

	if CurrentRole() == RoleOffspring {
		return nil, errors.ErrOffspringRole
	}

	if err := ctx.Err(); err != nil {
		closeOffspringEnds(log, triple, nil)

		return nil, err
	}

	self := cfg.Self
	if self == "" {
		var err error

		self, err = os.Executable()
		if err != nil {
			closeOffspringEnds(log, triple, nil)

			return nil, fmt.Errorf("locate own executable: %w", err)
		}
	}

	listener, notifyEnd, err := notify.NewChannel(log, cfg.Program)
	if err != nil {
		closeOffspringEnds(log, triple, nil)

		return nil, err
	}

	attr := &os.ProcAttr{
		Env: offspringEnv(os.Environ()),
		Files: []*os.File{
			os.Stdin,
			os.Stdout,
			os.Stderr,
			inputFd:  triple.Input.Read.File(),
			outputFd: triple.Output.Write.File(),
			errorFd:  triple.Error.Write.File(),
			notifyFd: notifyEnd.File(),
		},
	}

	log.Debug("Starting offspring", "self", self, "program", cfg.Program)

	proc, err := os.StartProcess(self, []string{offspringArg0, cfg.Program}, attr)

	// The offspring holds its own copies now. Keeping ours open would hide
	// end-of-data from both sides.
	closeOffspringEnds(log, triple, notifyEnd)

	if err != nil {
		_ = listener.Close()

		log.Error("Failed to start offspring", "error", err)

		return nil, &errors.ResourceExhaustedError{Op: "start offspring", Err: err}
	}

	p := &Process{log: log, proc: proc}

	log.Info("Offspring started", "pid", proc.Pid)

	if err := listener.Await(); err != nil {
		code, waitErr := p.Wait()
		log.Error("Offspring failed to launch program",
			"pid", proc.Pid,
			"program", cfg.Program,
			"exit_code", code,
			"error", err,
		)

		if waitErr != nil {
			log.Warn("Failed to reap offspring", "error", waitErr)
		}

		return nil, err
	}

	log.Info("Offspring running program", "pid", proc.Pid, "program", cfg.Program)

	return p, nil
}

// closeOffspringEnds closes the ends that belong to the offspring.
func closeOffspringEnds(log *slog.Logger, triple *pipe.Triple, notifyEnd *fd.WriteEnd) {
	ends := []io.Closer{
		triple.Input.Read,
		triple.Output.Write,
		triple.Error.Write,
	}

	if notifyEnd != nil {
		ends = append(ends, notifyEnd)
	}

	for _, end := range ends {
		if err := end.Close(); err != nil {
			log.Warn("Failed to close offspring pipe end", "error", err)
		}
	}
}

// Launcher implements config.Launcher with Spawn.
type Launcher struct {
	log *slog.Logger
	cfg Config
}

// Compile-time verification that Launcher implements config.Launcher.
var _ config.Launcher = (*Launcher)(nil)

// NewLauncher creates a launcher for cfg.
func NewLauncher(log *slog.Logger, cfg Config) *Launcher {
	return &Launcher{log: log, cfg: cfg}
}

// Launch implements config.Launcher.
func (l *Launcher) Launch(ctx context.Context, triple *pipe.Triple) (config.Process, error) {
	p, err := Spawn(ctx, l.log, l.cfg, triple)
	if err != nil {
		return nil, err
	}

	return p, nil
}
