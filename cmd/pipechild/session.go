package main

import (
	stderrors "errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/wagiedev/pipechild"
)

func session(c *cli.Context) error {
	log, err := newLogger(c.App.ErrWriter, c.String("logfmt"), c.String("loglvl"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	order, err := pipechild.ParseReadOrder(c.String("read-order"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	opts := []pipechild.Option{
		pipechild.WithLogger(log),
		pipechild.WithProgram(c.Path("program")),
		pipechild.WithMessage(c.String("message")),
		pipechild.WithReadOrder(order),
	}

	var collector *pipechild.MetricsCollector
	if c.IsSet("metrics-textfile") {
		collector = pipechild.NewMetricsCollector()
		opts = append(opts, pipechild.WithMetrics(collector))
	}

	out := c.App.Writer
	fmt.Fprintln(out, "Parent: I'll send the child a message.")

	res, err := pipechild.Run(c.Context, opts...)

	if collector != nil {
		if werr := collector.WriteTextfile(c.Path("metrics-textfile")); werr != nil {
			log.Warn("Failed to write metrics", "path", c.Path("metrics-textfile"), "error", werr)
		}
	}

	if err != nil {
		return cli.Exit(diagnostic(err), 1)
	}

	fmt.Fprintf(out, "Parent: Child just said through stdout:\n\t\"%s\"\n", res.Output)
	fmt.Fprintf(out, "Parent: Child just said through stderr:\n\t\"%s\"\n", res.Error)

	return nil
}

// diagnostic renders a fatal error for the operator.
func diagnostic(err error) string {
	if _, ok := stderrors.AsType[*pipechild.LaunchFailedError](err); ok {
		return "Exec failed. Child process couldn't be launched: " + err.Error()
	}

	if _, ok := stderrors.AsType[*pipechild.ResourceExhaustedError](err); ok {
		return "Error setting up the child: " + err.Error()
	}

	if _, ok := stderrors.AsType[*pipechild.IOError](err); ok {
		return "Error talking to the child: " + err.Error()
	}

	return "Error: " + err.Error()
}
