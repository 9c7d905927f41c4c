// Command pipechild sends one line to a child program over its stdin and
// reports the first line the child writes to stdout and to stderr.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/wagiedev/pipechild"
)

var flags = []cli.Flag{
	&cli.PathFlag{
		Name:    "program",
		Aliases: []string{"p"},
		Usage:   "run the child program at `path` (no PATH lookup)",
		Value:   pipechild.DefaultProgram,
		EnvVars: []string{"PIPECHILD_PROGRAM"},
	},
	&cli.StringFlag{
		Name:    "message",
		Aliases: []string{"m"},
		Usage:   "send `text` as the line written to the child's stdin",
		Value:   pipechild.DefaultMessage,
		EnvVars: []string{"PIPECHILD_MESSAGE"},
	},
	&cli.StringFlag{
		Name:    "read-order",
		Usage:   "drain stdout and stderr in `order`: concurrent or sequential",
		Value:   string(pipechild.ReadConcurrent),
		EnvVars: []string{"PIPECHILD_READ_ORDER"},
	},
	// Logging
	&cli.StringFlag{
		Name:    "logfmt",
		Aliases: []string{"f"},
		Usage:   "`format` logs as text, json or none",
		Value:   "text",
		EnvVars: []string{"PIPECHILD_LOGFMT"},
	},
	&cli.StringFlag{
		Name:    "loglvl",
		Usage:   "set logging `level` to debug, info, warn or error",
		Value:   "error",
		EnvVars: []string{"PIPECHILD_LOGLVL"},
	},
	// Metrics
	&cli.PathFlag{
		Name:        "metrics-textfile",
		Usage:       "write session metrics to `path` in Prometheus text format",
		DefaultText: "disabled",
		EnvVars:     []string{"PIPECHILD_METRICS_TEXTFILE"},
	},
}

func main() {
	// The offspring is this binary re-executed; it must not run the app.
	if pipechild.CurrentRole() == pipechild.RoleOffspring {
		_ = pipechild.RunOffspring(offspringLogger())
	}

	run(newApp(os.Stdout, os.Stderr))
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "pipechild",
		Usage:     "talk to a child process over stdin, stdout and stderr pipes",
		UsageText: "pipechild [global options]",
		Flags:     flags,
		Action:    session,
		Writer:    stdout,
		ErrWriter: stderr,
	}
}

func run(app *cli.App) {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(app.ErrWriter, err)
		os.Exit(1)
	}
}
