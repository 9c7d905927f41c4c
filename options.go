package pipechild

import (
	"log/slog"

	"github.com/wagiedev/pipechild/internal/config"
	"github.com/wagiedev/pipechild/internal/metrics"
)

// Options configures a session.
type Options = config.Options

// ReadOrder selects how stdout and stderr are drained.
type ReadOrder = config.ReadOrder

// Launcher starts the offspring. Implement it to run sessions against a fake.
type Launcher = config.Launcher

// Process is a handle to a launched offspring.
type Process = config.Process

// MetricsCollector records session metrics.
type MetricsCollector = metrics.Collector

const (
	// ReadConcurrent drains stdout and stderr at the same time.
	ReadConcurrent = config.ReadConcurrent
	// ReadSequential reads stdout first, then stderr.
	ReadSequential = config.ReadSequential

	// DefaultProgram is the program run when WithProgram is not given.
	DefaultProgram = config.DefaultProgram
	// DefaultMessage is the line sent when WithMessage is not given.
	DefaultMessage = config.DefaultMessage
)

// ParseReadOrder maps a name such as "concurrent" or "sequential" to a ReadOrder.
func ParseReadOrder(s string) (ReadOrder, error) {
	return config.ParseReadOrder(s)
}

// NewMetricsCollector creates a collector on a private registry.
func NewMetricsCollector() *MetricsCollector {
	return metrics.NewCollector()
}

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to an Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithProgram sets the path of the external program.
// The path is not looked up in PATH.
func WithProgram(path string) Option {
	return func(o *Options) {
		o.Program = path
	}
}

// WithMessage sets the line written to the program's stdin.
func WithMessage(msg string) Option {
	return func(o *Options) {
		o.Message = msg
	}
}

// WithReadOrder sets how stdout and stderr are drained.
func WithReadOrder(order ReadOrder) Option {
	return func(o *Options) {
		o.ReadOrder = order
	}
}

// WithMetrics records session metrics on c.
func WithMetrics(c *MetricsCollector) Option {
	return func(o *Options) {
		o.Metrics = c
	}
}

// WithLauncher replaces the process launcher.
func WithLauncher(l Launcher) Option {
	return func(o *Options) {
		o.Launcher = l
	}
}
