package bufferedlogger

import (
	"context"
	"log/slog"
)

// SlogDestination writes to a *slog.Logger. Faults are attached as an
// "error" attribute.
type SlogDestination struct {
	logger *slog.Logger
}

var _ Destination = (*SlogDestination)(nil)

// NewSlogDestination wraps logger. A nil logger uses slog.Default().
func NewSlogDestination(logger *slog.Logger) *SlogDestination {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogDestination{logger: logger}
}

func (d *SlogDestination) IsEnabled(level LogLevel) bool {
	return d.logger.Enabled(context.Background(), toSlogLevel(level))
}

func (d *SlogDestination) Write(level LogLevel, message string, fault error) {
	d.log(toSlogLevel(level), message, fault)
}

func (d *SlogDestination) WriteError(message string, fault error) {
	d.log(slog.LevelError, message, fault)
}

func (d *SlogDestination) log(level slog.Level, message string, fault error) {
	if fault == nil {
		d.logger.LogAttrs(context.Background(), level, message)
		return
	}
	d.logger.LogAttrs(context.Background(), level, message, slog.Any("error", fault))
}

// slog has no FATAL; it maps to a level above ERROR so handlers keep the
// ordering.
const slogLevelFatal = slog.LevelError + 4

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case DEBUG:
		return slog.LevelDebug
	case INFO:
		return slog.LevelInfo
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	case FATAL:
		return slogLevelFatal
	default:
		return slog.LevelInfo
	}
}
