// Package textio adapts raw byte streams into buffered, line-oriented text
// streams.
//
// Streams never own the descriptor they wrap. They have no Close method;
// the caller closes the descriptor once the stream is no longer used.
package textio

import (
	"bufio"
	stderrors "errors"
	"io"
	"strings"

	"github.com/wagiedev/pipechild/internal/errors"
)

// LineReader reads newline-terminated lines from a byte stream.
type LineReader struct {
	name string
	r    *bufio.Reader
}

// NewLineReader wraps r. The name identifies the stream in errors.
func NewLineReader(r io.Reader, name string) *LineReader {
	return &LineReader{
		name: name,
		r:    bufio.NewReader(r),
	}
}

// ReadLine blocks until a full line, end-of-data, or an error.
//
// The line terminator (and a preceding carriage return) is stripped. A
// trailing fragment without a terminator is returned as a line. Once the
// stream is drained ReadLine returns errors.ErrEndOfData, so an empty line
// and end-of-data stay distinguishable.
func (l *LineReader) ReadLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil {
		if !stderrors.Is(err, io.EOF) {
			return "", &errors.IOError{Op: "read", Stream: l.name, Err: err}
		}

		if line == "" {
			return "", errors.ErrEndOfData
		}
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	return line, nil
}

// Buffered returns the number of bytes read from the descriptor but not yet
// returned as lines.
func (l *LineReader) Buffered() int {
	return l.r.Buffered()
}

// LineWriter writes text to a byte stream through a buffer.
type LineWriter struct {
	name string
	w    *bufio.Writer
}

// NewLineWriter wraps w. The name identifies the stream in errors.
func NewLineWriter(w io.Writer, name string) *LineWriter {
	return &LineWriter{
		name: name,
		w:    bufio.NewWriter(w),
	}
}

// WriteString buffers s as-is.
func (l *LineWriter) WriteString(s string) error {
	if _, err := l.w.WriteString(s); err != nil {
		return &errors.IOError{Op: "write", Stream: l.name, Err: err}
	}

	return nil
}

// WriteLine buffers s and appends a newline if s does not end with one.
func (l *LineWriter) WriteLine(s string) error {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}

	return l.WriteString(s)
}

// Flush pushes buffered bytes to the underlying stream. It must be called
// before the descriptor is closed.
func (l *LineWriter) Flush() error {
	if err := l.w.Flush(); err != nil {
		return &errors.IOError{Op: "flush", Stream: l.name, Err: err}
	}

	return nil
}

// Buffered returns the number of bytes waiting for Flush.
func (l *LineWriter) Buffered() int {
	return l.w.Buffered()
}
