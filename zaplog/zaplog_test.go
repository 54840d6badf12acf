package zaplog_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gourdian25/bufferedlogger"
	"github.com/gourdian25/bufferedlogger/zaplog"
)

func TestIsEnabledFollowsCoreLevel(t *testing.T) {
	core, _ := observer.New(zap.WarnLevel)
	dest := zaplog.New(zap.New(core))

	assert.False(t, dest.IsEnabled(bufferedlogger.DEBUG))
	assert.False(t, dest.IsEnabled(bufferedlogger.INFO))
	assert.True(t, dest.IsEnabled(bufferedlogger.WARN))
	assert.True(t, dest.IsEnabled(bufferedlogger.ERROR))
	assert.True(t, dest.IsEnabled(bufferedlogger.FATAL))
}

func TestWriteAttachesFault(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	dest := zaplog.New(zap.New(core))

	fault := errors.New("boom")
	dest.Write(bufferedlogger.WARN, "Exception in request [T1]", fault)
	dest.WriteError("Exception in request [T1]", fault)

	entries := observed.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	for _, e := range entries {
		assert.Equal(t, "Exception in request [T1]", e.Message)
		assert.Equal(t, "boom", e.ContextMap()["error"])
	}
}

func TestFatalDoesNotExit(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	dest := zaplog.New(zap.New(core))

	dest.Write(bufferedlogger.FATAL, "fatal fault", errors.New("x"))

	require.Equal(t, 1, observed.Len())
	assert.Equal(t, zapcore.ErrorLevel, observed.All()[0].Level)
}

func TestFlushThroughZap(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	dest := zaplog.New(zap.New(core))

	logger := bufferedlogger.New(bufferedlogger.NewRequest("T1"), dest)
	logger.Append("a").RecordInternalFault(errors.New("e"))
	logger.Flush()

	// record at INFO, the fault at ERROR, and its duplicate at ERROR
	entries := observed.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.JSONEq(t,
		`{"request":{"token":"T1","parameters":[]},"messages":["a"],"internal_faults":{"touched":true},"business_faults":{"touched":false}}`,
		entries[0].Message)
	assert.Equal(t, "Exception in request [T1]", entries[1].Message)
	assert.Equal(t, "Exception in request [T1]", entries[2].Message)
}

func TestNilLoggerIsNop(t *testing.T) {
	dest := zaplog.New(nil)
	assert.False(t, dest.IsEnabled(bufferedlogger.FATAL))
	dest.Write(bufferedlogger.ERROR, "dropped", nil)
}
