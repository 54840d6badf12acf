package promlog_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gourdian25/bufferedlogger"
	"github.com/gourdian25/bufferedlogger/promlog"
)

type countingDestination struct {
	level  bufferedlogger.LogLevel
	writes int
	errors int
}

func (d *countingDestination) IsEnabled(level bufferedlogger.LogLevel) bool {
	return level >= d.level
}

func (d *countingDestination) Write(bufferedlogger.LogLevel, string, error) { d.writes++ }

func (d *countingDestination) WriteError(string, error) { d.errors++ }

type quotaError struct{}

func (quotaError) Error() string { return "quota exceeded" }

func TestInstrumentCountsWrites(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := promlog.NewMetrics(reg)

	inner := &countingDestination{level: bufferedlogger.DEBUG}
	dest := metrics.Instrument("main", inner)

	dest.Write(bufferedlogger.INFO, "record", nil)
	dest.Write(bufferedlogger.WARN, "fault", quotaError{})
	dest.WriteError("fault", quotaError{})

	assert.Equal(t, 2, inner.writes)
	assert.Equal(t, 1, inner.errors)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WritesTotal.WithLabelValues("main", "INFO", promlog.KindRouted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WritesTotal.WithLabelValues("main", "WARN", promlog.KindRouted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WritesTotal.WithLabelValues("main", "ERROR", promlog.KindDuplicate)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.FaultsTotal.WithLabelValues("main", "promlog_test.quotaError")))
}

func TestInstrumentDelegatesIsEnabled(t *testing.T) {
	metrics := promlog.NewMetrics(prometheus.NewRegistry())
	dest := metrics.Instrument("main", &countingDestination{level: bufferedlogger.WARN})

	assert.False(t, dest.IsEnabled(bufferedlogger.INFO))
	assert.True(t, dest.IsEnabled(bufferedlogger.ERROR))
}

func TestInstrumentedFlush(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := promlog.NewMetrics(reg)

	mainDest := metrics.Instrument("main", &countingDestination{level: bufferedlogger.INFO})
	businessDest := metrics.Instrument("business", &countingDestination{level: bufferedlogger.INFO})

	logger := bufferedlogger.New(bufferedlogger.NewRequest("T1"), mainDest,
		bufferedlogger.WithBusinessDestination(businessDest))
	logger.Append("a").RecordBusinessFault(errors.New("rejected"))
	logger.Flush()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WritesTotal.WithLabelValues("main", "INFO", promlog.KindRouted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WritesTotal.WithLabelValues("business", "ERROR", promlog.KindRouted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.WritesTotal.WithLabelValues("business", "ERROR", promlog.KindDuplicate)))

	count, err := testutil.GatherAndCount(reg, "bufferedlogger_destination_writes_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
