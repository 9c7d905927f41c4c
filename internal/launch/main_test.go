package launch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if CurrentRole() == RoleOffspring {
		_ = RunOffspring(slog.Default())
	}

	os.Exit(m.Run())
}

// writeProgram writes an executable shell script and returns its path.
func writeProgram(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "program")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))

	return path
}

// isOpen reports whether fd is an open descriptor of this process.
func isOpen(fd int) bool {
	_, err := os.Stat(filepath.Join("/proc/self/fd", strconv.Itoa(fd)))
	return err == nil
}
