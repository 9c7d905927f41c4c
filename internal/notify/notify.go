// Package notify carries the single "launch failed" notification from the
// offspring to the original process over a dedicated control pipe.
//
// The offspring marks its write end close-on-exec right before replacing its
// image. A successful exec therefore closes the last write end and the
// original reads end-of-data. A failed exec leaves the offspring running, and
// it writes a status byte followed by the failure reason instead.
package notify

import (
	"io"
	"log/slog"

	"golang.org/x/sys/unix"

	"github.com/wagiedev/pipechild/internal/errors"
	"github.com/wagiedev/pipechild/internal/fd"
	"github.com/wagiedev/pipechild/internal/pipe"
)

const (
	// launchFailedByte prefixes a failure notification.
	launchFailedByte byte = 0x01

	// maxReasonSize keeps a notification below PIPE_BUF so the write is atomic.
	maxReasonSize = 512
)

// Listener is the original's side of the channel.
type Listener struct {
	log     *slog.Logger
	program string
	r       *fd.ReadEnd
}

// NewChannel creates the control pipe. The returned write end must be handed
// to the offspring and then closed by the caller, otherwise Await never sees
// end-of-data.
func NewChannel(log *slog.Logger, program string) (*Listener, *fd.WriteEnd, error) {
	p, err := pipe.New("notify")
	if err != nil {
		return nil, nil, err
	}

	return &Listener{
		log:     log.With("component", "notify_listener"),
		program: program,
		r:       p.Read,
	}, p.Write, nil
}

// Await blocks until the offspring either replaced its image or reported a
// failure. It returns nil on success and LaunchFailedError otherwise. The
// read end is closed before Await returns.
func (l *Listener) Await() error {
	defer l.r.Close()

	data, err := io.ReadAll(l.r)
	if err != nil {
		return &errors.IOError{Op: "read", Stream: "notify", Err: err}
	}

	if len(data) == 0 {
		l.log.Debug("Offspring replaced its image")

		return nil
	}

	if data[0] != launchFailedByte {
		l.log.Warn("Unexpected notification from offspring", "data_len", len(data))

		return &errors.LaunchFailedError{Program: l.program, Reason: "unexpected notification"}
	}

	reason := string(data[1:])
	l.log.Debug("Offspring reported launch failure", "reason", reason)

	return &errors.LaunchFailedError{Program: l.program, Reason: reason}
}

// Close releases the read end without waiting.
func (l *Listener) Close() error {
	return l.r.Close()
}

// Notifier is the offspring's side of the channel. It works on the raw
// inherited descriptor because the offspring is about to exec.
type Notifier struct {
	fd int
}

// NewNotifier adopts an inherited descriptor and marks it close-on-exec.
func NewNotifier(fd int) (*Notifier, error) {
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, unix.FD_CLOEXEC); err != nil {
		return nil, err
	}

	return &Notifier{fd: fd}, nil
}

// Notify reports a failed launch and closes the descriptor.
func (n *Notifier) Notify(reason string) error {
	if len(reason) > maxReasonSize {
		reason = reason[:maxReasonSize]
	}

	msg := make([]byte, 0, len(reason)+1)
	msg = append(msg, launchFailedByte)
	msg = append(msg, reason...)

	_, err := unix.Write(n.fd, msg)
	if cerr := unix.Close(n.fd); err == nil {
		err = cerr
	}

	return err
}
