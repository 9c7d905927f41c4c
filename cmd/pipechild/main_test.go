package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/wagiedev/pipechild"
)

func TestMain(m *testing.M) {
	if pipechild.CurrentRole() == pipechild.RoleOffspring {
		_ = pipechild.RunOffspring(offspringLogger())
	}

	os.Exit(m.Run())
}

func writeProgram(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "program")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))

	return path
}

// runApp runs the app with args and returns stdout, stderr and the error the
// app would have exited with.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	app := newApp(&stdout, &stderr)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"pipechild"}, args...))

	return stdout.String(), stderr.String(), err
}

func TestSession_Report(t *testing.T) {
	program := writeProgram(t, `read line
echo "Got it"
echo "debug" >&2
`)

	stdout, _, err := runApp(t, "--program", program, "--logfmt", "none")
	require.NoError(t, err)
	require.Equal(t, "Parent: I'll send the child a message.\n"+
		"Parent: Child just said through stdout:\n"+
		"\t\"Got it\"\n"+
		"Parent: Child just said through stderr:\n"+
		"\t\"debug\"\n", stdout)
}

func TestSession_LaunchFailedExitsNonZero(t *testing.T) {
	stdout, _, err := runApp(t, "--program", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok)
	require.Equal(t, 1, exitErr.ExitCode())
	require.Contains(t, exitErr.Error(), "Exec failed. Child process couldn't be launched")
	require.NotContains(t, stdout, "Child just said")
}

func TestSession_EnvConfiguresMessage(t *testing.T) {
	program := writeProgram(t, `read line
echo "$line"
echo "ok" >&2
`)

	t.Setenv("PIPECHILD_PROGRAM", program)
	t.Setenv("PIPECHILD_MESSAGE", "from env")
	t.Setenv("PIPECHILD_READ_ORDER", "sequential")

	stdout, _, err := runApp(t)
	require.NoError(t, err)
	require.Contains(t, stdout, "\t\"from env\"\n")
}

func TestSession_WritesMetricsTextfile(t *testing.T) {
	program := writeProgram(t, "read line\necho a\necho b >&2\n")
	path := filepath.Join(t.TempDir(), "pipechild.prom")

	_, _, err := runApp(t, "--program", program, "--metrics-textfile", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `pipechild_sessions_total{outcome="success"} 1`)
}

func TestSession_RejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "read order", args: []string{"--read-order", "sideways"}, want: "unknown read order"},
		{name: "log format", args: []string{"--logfmt", "xml"}, want: "invalid log format"},
		{name: "log level", args: []string{"--loglvl", "loud"}, want: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runApp(t, tt.args...)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	log, err := newLogger(&buf, "json", "info")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown", "k", "v")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"k":"v"`)
}
