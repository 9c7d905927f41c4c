package config

import (
	"log/slog"

	"github.com/wagiedev/pipechild/internal/metrics"
)

const (
	// DefaultProgram is the external program run by the offspring.
	DefaultProgram = "./program"

	// DefaultMessage is the line sent to the offspring's stdin.
	DefaultMessage = "Hello Child!"
)

// Options configures a session.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Program is the path of the external program. It is executed without
	// PATH lookup and with no arguments beyond its name.
	// Defaults to DefaultProgram.
	Program string

	// Message is the line written to the offspring's stdin. A newline is
	// appended if missing. Defaults to DefaultMessage.
	Message string

	// ReadOrder selects how stdout and stderr are drained.
	// Defaults to ReadConcurrent.
	ReadOrder ReadOrder

	// Metrics receives session metrics. If nil, nothing is recorded.
	Metrics *metrics.Collector

	// Launcher starts the offspring. If nil, the re-exec launcher is used.
	Launcher Launcher `json:"-"`
}

// WithDefaults returns a copy of o with unset fields filled in.
func (o *Options) WithDefaults() *Options {
	out := &Options{}
	if o != nil {
		*out = *o
	}

	if out.Program == "" {
		out.Program = DefaultProgram
	}

	if out.Message == "" {
		out.Message = DefaultMessage
	}

	if out.ReadOrder == "" {
		out.ReadOrder = ReadConcurrent
	}

	return out
}
