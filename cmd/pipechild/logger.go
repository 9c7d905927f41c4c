package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/wagiedev/pipechild"
)

// newLogger builds the session logger from the --logfmt and --loglvl flags.
func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "none":
		return pipechild.NopLogger(), nil
	default:
		return nil, fmt.Errorf("invalid log format %q: want text, json or none", format)
	}
}

// offspringLogger logs offspring failures to the inherited stderr before it
// is rewired. It honours PIPECHILD_LOGLVL because flags are not parsed in
// the offspring.
func offspringLogger() *slog.Logger {
	lvl := slog.LevelError
	if s := os.Getenv("PIPECHILD_LOGLVL"); s != "" {
		_ = lvl.UnmarshalText([]byte(s))
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
