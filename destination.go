package bufferedlogger

// Destination is a sink for request records and faults.
//
// Implementations decide where a write ends up (console, file, zap, slog, ...).
// They must be safe for concurrent use when shared between request loggers;
// the BufferedLogger itself never synchronises access.
type Destination interface {
	// IsEnabled reports whether a write at level would currently be performed.
	// It is called before any expensive work, so it should be cheap.
	IsEnabled(level LogLevel) bool

	// Write delivers message at level. fault may be nil.
	Write(level LogLevel, message string, fault error)

	// WriteError delivers message at ERROR regardless of any routing decision.
	WriteError(message string, fault error)
}
