package pipe

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/wagiedev/pipechild/internal/errors"
	"github.com/wagiedev/pipechild/internal/fd"
)

// Pipe is a unidirectional byte channel. Bytes written to Write are read
// from Read in FIFO order with no message framing.
type Pipe struct {
	Read  *fd.ReadEnd
	Write *fd.WriteEnd
}

// Close closes both ends. Ends already closed are skipped.
func (p *Pipe) Close() error {
	return stderrors.Join(p.Read.Close(), p.Write.Close())
}

// Triple holds the pipes bound to a child's stdin, stdout and stderr.
type Triple struct {
	Input  *Pipe
	Output *Pipe
	Error  *Pipe
}

// Close closes all six ends. It is safe to call after some ends were
// already closed or handed to a child.
func (t *Triple) Close() error {
	return stderrors.Join(t.Input.Close(), t.Output.Close(), t.Error.Close())
}

// Func creates one pipe and returns its read and write descriptors.
type Func func() (r, w int, err error)

// Allocator creates pipe triples.
type Allocator struct {
	log  *slog.Logger
	pipe Func
}

// NewAllocator creates an allocator backed by the OS pipe call.
func NewAllocator(log *slog.Logger) *Allocator {
	return NewAllocatorWithFunc(log, osPipe)
}

// NewAllocatorWithFunc creates an allocator backed by fn. Tests use it to
// simulate descriptor exhaustion.
func NewAllocatorWithFunc(log *slog.Logger, fn Func) *Allocator {
	return &Allocator{
		log:  log.With("component", "pipe_allocator"),
		pipe: fn,
	}
}

// Allocate creates the input, output and error pipes.
//
// Returns ResourceExhaustedError if any pipe cannot be created. In that case
// no descriptor from this call remains open.
func (a *Allocator) Allocate() (*Triple, error) {
	names := [3]string{"stdin", "stdout", "stderr"}

	var pipes [3]*Pipe

	for i, name := range names {
		p, err := a.open(name)
		if err != nil {
			a.log.Error("Failed to create pipe", "stream", name, "error", err)

			for _, created := range pipes[:i] {
				_ = created.Close()
			}

			return nil, &errors.ResourceExhaustedError{
				Op:  fmt.Sprintf("create %s pipe", name),
				Err: err,
			}
		}

		pipes[i] = p
	}

	a.log.Debug("Created pipe triple",
		"stdin", [2]int{pipes[0].Read.Fd(), pipes[0].Write.Fd()},
		"stdout", [2]int{pipes[1].Read.Fd(), pipes[1].Write.Fd()},
		"stderr", [2]int{pipes[2].Read.Fd(), pipes[2].Write.Fd()},
	)

	return &Triple{Input: pipes[0], Output: pipes[1], Error: pipes[2]}, nil
}

func (a *Allocator) open(name string) (*Pipe, error) {
	r, w, err := a.pipe()
	if err != nil {
		return nil, err
	}

	return &Pipe{
		Read:  fd.NewReadEnd(r, name+"|r"),
		Write: fd.NewWriteEnd(w, name+"|w"),
	}, nil
}

// New creates a single close-on-exec pipe.
func New(name string) (*Pipe, error) {
	r, w, err := osPipe()
	if err != nil {
		return nil, &errors.ResourceExhaustedError{Op: "create " + name + " pipe", Err: err}
	}

	return &Pipe{
		Read:  fd.NewReadEnd(r, name+"|r"),
		Write: fd.NewWriteEnd(w, name+"|w"),
	}, nil
}
