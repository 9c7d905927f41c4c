package launch

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wagiedev/pipechild/internal/errors"
	"github.com/wagiedev/pipechild/internal/pipe"
	"github.com/wagiedev/pipechild/internal/textio"
)

const echoProgram = `read line
echo "Got it"
echo "debug" >&2
`

func newTriple(t *testing.T) *pipe.Triple {
	t.Helper()

	triple, err := pipe.NewAllocator(slog.Default()).Allocate()
	require.NoError(t, err)

	t.Cleanup(func() { _ = triple.Close() })

	return triple
}

func TestSpawn_RoundTrip(t *testing.T) {
	triple := newTriple(t)
	program := writeProgram(t, echoProgram)

	proc, err := Spawn(context.Background(), slog.Default(), Config{Program: program}, triple)
	require.NoError(t, err)
	require.Positive(t, proc.Pid())

	in := textio.NewLineWriter(triple.Input.Write, "stdin")
	require.NoError(t, in.WriteLine("Hello Child!"))
	require.NoError(t, in.Flush())
	require.NoError(t, triple.Input.Write.Close())

	out, err := textio.NewLineReader(triple.Output.Read, "stdout").ReadLine()
	require.NoError(t, err)
	require.Equal(t, "Got it", out)

	errLine, err := textio.NewLineReader(triple.Error.Read, "stderr").ReadLine()
	require.NoError(t, err)
	require.Equal(t, "debug", errLine)

	code, err := proc.Wait()
	require.NoError(t, err)
	require.Zero(t, code)
}

func TestSpawn_ClosesOffspringEndsInOriginal(t *testing.T) {
	triple := newTriple(t)
	program := writeProgram(t, echoProgram)

	offspringEnds := []int{triple.Input.Read.Fd(), triple.Output.Write.Fd(), triple.Error.Write.Fd()}
	originalEnds := []int{triple.Input.Write.Fd(), triple.Output.Read.Fd(), triple.Error.Read.Fd()}

	proc, err := Spawn(context.Background(), slog.Default(), Config{Program: program}, triple)
	require.NoError(t, err)

	for _, fd := range offspringEnds {
		require.False(t, isOpen(fd), "offspring end %d still open in original", fd)
	}

	for _, fd := range originalEnds {
		require.True(t, isOpen(fd), "original end %d was closed", fd)
	}

	require.NoError(t, triple.Close())

	_, err = proc.Wait()
	require.NoError(t, err)
}

// TestSpawn_EachPipeHasOneWriter verifies that neither process keeps a stray
// copy of the other's ends. The program closes stdout early and then blocks
// on stdin: the original must see end-of-data on stdout while the program is
// still alive, and the program must see end-of-data on stdin once the
// original closes its input end.
func TestSpawn_EachPipeHasOneWriter(t *testing.T) {
	triple := newTriple(t)
	program := writeProgram(t, `read line
echo "$line"
exec 1>&-
while read rest; do :; done
echo "stdin closed" >&2
`)

	proc, err := Spawn(context.Background(), slog.Default(), Config{Program: program}, triple)
	require.NoError(t, err)

	in := textio.NewLineWriter(triple.Input.Write, "stdin")
	require.NoError(t, in.WriteLine("ping"))
	require.NoError(t, in.Flush())

	out := textio.NewLineReader(triple.Output.Read, "stdout")

	line, err := out.ReadLine()
	require.NoError(t, err)
	require.Equal(t, "ping", line)

	_, err = out.ReadLine()
	require.ErrorIs(t, err, errors.ErrEndOfData)

	require.NoError(t, triple.Input.Write.Close())

	errLine, err := textio.NewLineReader(triple.Error.Read, "stderr").ReadLine()
	require.NoError(t, err)
	require.Equal(t, "stdin closed", errLine)

	code, err := proc.Wait()
	require.NoError(t, err)
	require.Zero(t, code)
}

func TestSpawn_MissingProgramFailsFast(t *testing.T) {
	triple := newTriple(t)
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	proc, err := Spawn(context.Background(), slog.Default(), Config{Program: missing}, triple)
	require.Nil(t, proc)

	launchErr, ok := stderrors.AsType[*errors.LaunchFailedError](err)
	require.True(t, ok, "expected LaunchFailedError, got %v", err)
	require.Equal(t, missing, launchErr.Program)
	require.Contains(t, launchErr.Reason, "no such file or directory")

	// The offspring is gone, so the retained ends see end-of-data at once.
	_, err = textio.NewLineReader(triple.Output.Read, "stdout").ReadLine()
	require.ErrorIs(t, err, errors.ErrEndOfData)
}

func TestSpawn_NonExecutableProgram(t *testing.T) {
	triple := newTriple(t)
	program := writeProgram(t, echoProgram)
	require.NoError(t, os.Chmod(program, 0o644))

	_, err := Spawn(context.Background(), slog.Default(), Config{Program: program}, triple)

	launchErr, ok := stderrors.AsType[*errors.LaunchFailedError](err)
	require.True(t, ok, "expected LaunchFailedError, got %v", err)
	require.Contains(t, launchErr.Reason, "permission denied")
}

func TestSpawn_MissingSelfIsResourceExhausted(t *testing.T) {
	triple := newTriple(t)

	_, err := Spawn(context.Background(), slog.Default(), Config{
		Program: "./program",
		Self:    filepath.Join(t.TempDir(), "no-such-binary"),
	}, triple)

	_, ok := stderrors.AsType[*errors.ResourceExhaustedError](err)
	require.True(t, ok, "expected ResourceExhaustedError, got %v", err)

	_, err = triple.Input.Read.Read(make([]byte, 1))
	require.ErrorIs(t, err, os.ErrClosed, "offspring ends must be closed on failure")
}

func TestSpawn_CancelledContext(t *testing.T) {
	triple := newTriple(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Spawn(ctx, slog.Default(), Config{Program: "./program"}, triple)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcess_Kill(t *testing.T) {
	triple := newTriple(t)
	program := writeProgram(t, "while :; do read line || sleep 1; done\n")

	proc, err := Spawn(context.Background(), slog.Default(), Config{Program: program}, triple)
	require.NoError(t, err)

	require.NoError(t, proc.Kill())

	code, err := proc.Wait()
	require.NoError(t, err)
	require.Equal(t, -1, code)

	require.NoError(t, proc.Kill(), "killing a reaped process is not an error")
}
