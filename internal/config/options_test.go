package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithDefaults_FillsUnsetFields(t *testing.T) {
	var o *Options

	got := o.WithDefaults()

	require.Equal(t, DefaultProgram, got.Program)
	require.Equal(t, DefaultMessage, got.Message)
	require.Equal(t, ReadConcurrent, got.ReadOrder)
	require.Nil(t, got.Logger)
	require.Nil(t, got.Launcher)
}

func TestWithDefaults_KeepsSetFieldsAndDoesNotMutate(t *testing.T) {
	o := &Options{Program: "/bin/cat", Message: "hi", ReadOrder: ReadSequential}

	got := o.WithDefaults()

	require.Equal(t, "/bin/cat", got.Program)
	require.Equal(t, "hi", got.Message)
	require.Equal(t, ReadSequential, got.ReadOrder)
	require.NotSame(t, o, got)

	got.Program = "changed"
	require.Equal(t, "/bin/cat", o.Program)
}
