// Package zaplog adapts a *zap.Logger into a bufferedlogger.Destination.
package zaplog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gourdian25/bufferedlogger"
)

// Destination writes request records and faults through zap.
type Destination struct {
	logger *zap.Logger
}

var _ bufferedlogger.Destination = (*Destination)(nil)

// New wraps logger. A nil logger is replaced by zap.NewNop().
func New(logger *zap.Logger) *Destination {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Destination{logger: logger}
}

func (d *Destination) IsEnabled(level bufferedlogger.LogLevel) bool {
	return d.logger.Core().Enabled(Level(level))
}

// Write logs message at level. FATAL is written at zap's ErrorLevel so a
// flush never terminates the process.
func (d *Destination) Write(level bufferedlogger.LogLevel, message string, fault error) {
	d.write(Level(level), message, fault)
}

func (d *Destination) WriteError(message string, fault error) {
	d.write(zapcore.ErrorLevel, message, fault)
}

func (d *Destination) write(level zapcore.Level, message string, fault error) {
	ce := d.logger.Check(level, message)
	if ce == nil {
		return
	}
	if fault == nil {
		ce.Write()
		return
	}
	ce.Write(zap.Error(fault))
}

// Level maps a bufferedlogger level to zap.
func Level(level bufferedlogger.LogLevel) zapcore.Level {
	switch level {
	case bufferedlogger.DEBUG:
		return zapcore.DebugLevel
	case bufferedlogger.INFO:
		return zapcore.InfoLevel
	case bufferedlogger.WARN:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
