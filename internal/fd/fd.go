// Package fd provides owned handles for raw pipe descriptors.
//
// A ReadEnd can only be read and a WriteEnd can only be written, so a pipe
// end cannot be used in the wrong direction. Each handle releases its
// descriptor exactly once no matter how many times Close is called.
package fd

import (
	"io"
	"os"
	"sync"
)

// owned holds the descriptor state shared by both handle kinds.
type owned struct {
	file      *os.File
	fd        int
	closeOnce sync.Once
	closeErr  error
}

func newOwned(fd int, name string) *owned {
	return &owned{
		file: os.NewFile(uintptr(fd), name),
		fd:   fd,
	}
}

// Close releases the descriptor. Only the first call has an effect.
func (o *owned) Close() error {
	o.closeOnce.Do(func() {
		o.closeErr = o.file.Close()
	})

	return o.closeErr
}

// File returns the underlying file for hand-off to a child process.
// The handle keeps ownership.
func (o *owned) File() *os.File {
	return o.file
}

// Fd returns the descriptor number the handle was created with.
func (o *owned) Fd() int {
	return o.fd
}

// Name returns the descriptive name given at creation.
func (o *owned) Name() string {
	return o.file.Name()
}

// ReadEnd is the read side of a pipe.
type ReadEnd struct {
	*owned
}

// Compile-time verification that ReadEnd is a read-only stream.
var _ io.ReadCloser = (*ReadEnd)(nil)

// NewReadEnd takes ownership of fd as a read-only handle.
func NewReadEnd(fd int, name string) *ReadEnd {
	return &ReadEnd{owned: newOwned(fd, name)}
}

func (r *ReadEnd) Read(p []byte) (int, error) {
	return r.file.Read(p)
}

// WriteEnd is the write side of a pipe.
type WriteEnd struct {
	*owned
}

// Compile-time verification that WriteEnd is a write-only stream.
var _ io.WriteCloser = (*WriteEnd)(nil)

// NewWriteEnd takes ownership of fd as a write-only handle.
func NewWriteEnd(fd int, name string) *WriteEnd {
	return &WriteEnd{owned: newOwned(fd, name)}
}

func (w *WriteEnd) Write(p []byte) (int, error) {
	return w.file.Write(p)
}
