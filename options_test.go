package pipechild

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	log := slog.Default()
	collector := NewMetricsCollector()

	o := applyOptions([]Option{
		WithLogger(log),
		WithProgram("/usr/local/bin/child"),
		WithMessage("ping"),
		WithReadOrder(ReadSequential),
		WithMetrics(collector),
	})

	require.Same(t, log, o.Logger)
	require.Equal(t, "/usr/local/bin/child", o.Program)
	require.Equal(t, "ping", o.Message)
	require.Equal(t, ReadSequential, o.ReadOrder)
	require.Same(t, collector, o.Metrics)
	require.Nil(t, o.Launcher)
}

func TestApplyOptions_Empty(t *testing.T) {
	o := applyOptions(nil)

	require.Empty(t, o.Program)
	require.Equal(t, DefaultProgram, o.WithDefaults().Program)
	require.Equal(t, DefaultMessage, o.WithDefaults().Message)
}

func TestParseReadOrder_ReExport(t *testing.T) {
	order, err := ParseReadOrder("sequential")
	require.NoError(t, err)
	require.Equal(t, ReadSequential, order)

	_, err = ParseReadOrder("sideways")
	require.Error(t, err)
}
