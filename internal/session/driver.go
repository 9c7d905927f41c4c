package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/pipechild/internal/config"
	"github.com/wagiedev/pipechild/internal/errors"
	"github.com/wagiedev/pipechild/internal/launch"
	"github.com/wagiedev/pipechild/internal/metrics"
	"github.com/wagiedev/pipechild/internal/pipe"
	"github.com/wagiedev/pipechild/internal/textio"
)

// Result is the outcome of one session.
type Result struct {
	// SessionID identifies the session in logs.
	SessionID string

	// Output is the first line the offspring wrote to stdout.
	Output string
	// OutputEOF is set when stdout reached end-of-data before any line.
	OutputEOF bool

	// Error is the first line the offspring wrote to stderr.
	Error string
	// ErrorEOF is set when stderr reached end-of-data before any line.
	ErrorEOF bool

	// ExitCode is the offspring's exit code, -1 if killed by a signal.
	ExitCode int

	// Transitions lists every state the session entered, in order.
	Transitions []State

	// Duration is the wall time of the whole session.
	Duration time.Duration
}

// State returns the last state the session entered.
func (r *Result) State() State {
	if len(r.Transitions) == 0 {
		return StateInit
	}

	return r.Transitions[len(r.Transitions)-1]
}

// Driver runs sessions. A Driver holds no per-session state and may run
// several sessions one after another.
type Driver struct {
	log      *slog.Logger
	opts     *config.Options
	alloc    *pipe.Allocator
	launcher config.Launcher
	metrics  *metrics.Collector
}

// New creates a driver from opts. Unset options take their defaults.
func New(opts *config.Options) *Driver {
	opts = opts.WithDefaults()

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	launcher := opts.Launcher
	if launcher == nil {
		launcher = launch.NewLauncher(log, launch.Config{Program: opts.Program})
	}

	return &Driver{
		log:      log.With("component", "session"),
		opts:     opts,
		alloc:    pipe.NewAllocator(log),
		launcher: launcher,
		metrics:  opts.Metrics,
	}
}

// NewWithAllocator creates a driver that allocates pipes with alloc.
func NewWithAllocator(opts *config.Options, alloc *pipe.Allocator) *Driver {
	d := New(opts)
	d.alloc = alloc

	return d
}

// Run performs one session.
//
// The returned Result is non-nil even on failure, so callers can inspect
// the transitions. Errors are ResourceExhaustedError, LaunchFailedError,
// IOError, or a wrapped wait failure. Every descriptor the session created
// is closed before Run returns.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	r := &run{
		d: d,
		res: &Result{
			SessionID:   ulid.Make().String(),
			Transitions: []State{StateInit},
		},
	}
	r.log = d.log.With("session_id", r.res.SessionID)

	err := r.execute(ctx)

	r.res.Duration = time.Since(start)
	d.metrics.ObserveSession(outcome(err), r.res.Duration)

	if err != nil {
		r.log.Error("Session failed", "state", r.state().String(), "error", err)

		return r.res, err
	}

	r.log.Info("Session completed", "exit_code", r.res.ExitCode, "duration", r.res.Duration)

	return r.res, nil
}

// run holds the state of a single session.
type run struct {
	d   *Driver
	log *slog.Logger
	res *Result
}

func (r *run) state() State {
	return r.res.State()
}

func (r *run) transition(to State) {
	from := r.state()
	if !from.CanTransition(to) {
		r.log.Error("Illegal state transition", "from", from.String(), "to", to.String())
	}

	r.res.Transitions = append(r.res.Transitions, to)
	r.log.Debug("State transition", "from", from.String(), "to", to.String())
}

func (r *run) execute(ctx context.Context) error {
	triple, err := r.d.alloc.Allocate()
	if err != nil {
		r.transition(StateFailed)

		return err
	}

	r.transition(StatePipesCreated)

	// Closes every retained end on every exit path. Ends closed earlier are
	// skipped.
	defer func() {
		if err := triple.Close(); err != nil {
			r.log.Warn("Failed to close pipe triple", "error", err)
		}
	}()

	proc, err := r.d.launcher.Launch(ctx, triple)
	if err != nil {
		if _, ok := stderrors.AsType[*errors.LaunchFailedError](err); ok {
			r.transition(StateLaunchFailed)
		} else {
			r.transition(StateFailed)
		}

		return err
	}

	r.transition(StateLaunched)
	r.log.Info("Offspring launched", "pid", proc.Pid(), "program", r.d.opts.Program)

	if err := r.writeInput(triple); err != nil {
		return r.abort(proc, triple, err)
	}

	r.transition(StateWroteInput)

	if err := r.readReplies(triple); err != nil {
		return r.abort(proc, triple, err)
	}

	r.log.Info("Offspring replied",
		"stdout", r.res.Output,
		"stdout_eof", r.res.OutputEOF,
		"stderr", r.res.Error,
		"stderr_eof", r.res.ErrorEOF,
	)

	r.transition(StateCleanup)

	if err := triple.Close(); err != nil {
		r.log.Warn("Failed to close pipe triple", "error", err)
	}

	code, err := proc.Wait()
	if err != nil {
		r.transition(StateFailed)

		return err
	}

	r.res.ExitCode = code
	r.d.metrics.ObserveExit(code)
	r.transition(StateDone)

	return nil
}

// writeInput sends the message and closes the input end, so the offspring
// sees end-of-data after the line.
func (r *run) writeInput(triple *pipe.Triple) error {
	w := textio.NewLineWriter(triple.Input.Write, "stdin")

	if err := w.WriteLine(r.d.opts.Message); err != nil {
		return err
	}

	if err := w.Flush(); err != nil {
		return err
	}

	r.d.metrics.ObserveLine("stdin")

	if err := triple.Input.Write.Close(); err != nil {
		return &errors.IOError{Op: "close", Stream: "stdin", Err: err}
	}

	return nil
}

func (r *run) readReplies(triple *pipe.Triple) error {
	out := textio.NewLineReader(triple.Output.Read, "stdout")
	errs := textio.NewLineReader(triple.Error.Read, "stderr")

	if r.d.opts.ReadOrder == config.ReadSequential {
		if err := r.readOne(out, "stdout", &r.res.Output, &r.res.OutputEOF); err != nil {
			return err
		}

		r.transition(StateReadOutput)

		if err := r.readOne(errs, "stderr", &r.res.Error, &r.res.ErrorEOF); err != nil {
			return err
		}

		r.transition(StateReadError)

		return nil
	}

	var g errgroup.Group

	g.Go(func() error { return r.readOne(out, "stdout", &r.res.Output, &r.res.OutputEOF) })
	g.Go(func() error { return r.readOne(errs, "stderr", &r.res.Error, &r.res.ErrorEOF) })

	if err := g.Wait(); err != nil {
		return err
	}

	r.transition(StateReadOutput)
	r.transition(StateReadError)

	return nil
}

func (r *run) readOne(lr *textio.LineReader, stream string, line *string, eof *bool) error {
	l, err := lr.ReadLine()
	if stderrors.Is(err, errors.ErrEndOfData) {
		r.log.Warn("Stream ended before a line arrived", "stream", stream)

		*eof = true

		return nil
	}

	if err != nil {
		return err
	}

	r.d.metrics.ObserveLine(stream)
	*line = l

	return nil
}

// abort ends a session after launch: release the ends so the offspring sees
// end-of-data or EPIPE, kill it and reap it.
func (r *run) abort(proc config.Process, triple *pipe.Triple, cause error) error {
	r.transition(StateFailed)

	if err := triple.Close(); err != nil {
		r.log.Warn("Failed to close pipe triple", "error", err)
	}

	if err := proc.Kill(); err != nil {
		r.log.Warn("Failed to kill offspring", "error", err)
	}

	if code, err := proc.Wait(); err != nil {
		r.log.Warn("Failed to reap offspring", "error", err)
	} else {
		r.res.ExitCode = code
	}

	return cause
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}

	if _, ok := stderrors.AsType[*errors.LaunchFailedError](err); ok {
		return metrics.OutcomeLaunchFailed
	}

	if _, ok := stderrors.AsType[*errors.ResourceExhaustedError](err); ok {
		return metrics.OutcomeResourceExhausted
	}

	if _, ok := stderrors.AsType[*errors.IOError](err); ok {
		return metrics.OutcomeIOError
	}

	return metrics.OutcomeOther
}

// String renders the transitions as "init -> pipes_created -> ...".
func (r *Result) String() string {
	names := make([]string, len(r.Transitions))
	for i, st := range r.Transitions {
		names[i] = st.String()
	}

	return fmt.Sprintf("session %s: %s", r.SessionID, strings.Join(names, " -> "))
}
