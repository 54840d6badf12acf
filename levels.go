package bufferedlogger

import (
	"fmt"
	"strings"
)

// LogLevel represents the severity level of a log message.
// Higher values indicate more severe log levels.
type LogLevel int32

// Log level constants defining the supported severity levels.
//
// Levels are ordered from least to most severe:
// - DEBUG: Detailed information for debugging
// - INFO: General operational information, used for the request record
// - WARN: Warning messages for potentially harmful situations
// - ERROR: Error messages, the default level for recorded faults
// - FATAL: Critical errors
const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String converts a LogLevel to its string representation.
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether l is one of the defined levels.
func (l LogLevel) IsValid() bool {
	return l >= DEBUG && l <= FATAL
}

// ParseLogLevel converts a string to its corresponding LogLevel.
//
// Parameters:
//   - level: String representation of the log level (case-insensitive)
//
// Returns:
//   - LogLevel: Corresponding log level constant
//   - error: Error if the input string is not a valid log level
//
// Example:
//
//	level, err := ParseLogLevel("warning")
//	if err != nil {
//	    panic(err)
//	}
//	fmt.Println(level) // Output: WARN
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return DEBUG, fmt.Errorf("invalid log level: %s", level)
	}
}
