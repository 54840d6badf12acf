package bufferedlogger

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// LogFormat selects how a Logger renders entries.
type LogFormat int

const (
	FormatPlain LogFormat = iota
	FormatJSON
)

// ParseLogFormat converts "plain" or "json" (case-insensitive) to a LogFormat.
func ParseLogFormat(format string) (LogFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(format)) {
	case "", "PLAIN":
		return FormatPlain, nil
	case "JSON":
		return FormatJSON, nil
	default:
		return FormatPlain, fmt.Errorf("invalid log format: %s", format)
	}
}

var (
	defaultLogsDir         = "logs"
	defaultLogLevel        = DEBUG
	defaultLogFormat       = FormatPlain
	defaultEnableFallback  = true
	defaultEnableConsole   = true
	defaultTimestampFormat = "2006-01-02 15:04:05.000000"
)

// LoggerConfig configures a Logger.
//
// Fields:
//   - Name: Logger name, written as the "logger" field (e.g. "main", "runtime")
//   - LogLevel: Minimum level of entries to write
//   - LogFormat: FormatPlain or FormatJSON
//   - FormatStr: "plain" or "json", overrides LogFormat when set
//   - Filename: Log file name inside LogsDir; no file is opened when empty
//   - EnableConsole: Also write to stdout
//   - Outputs: Additional writers
//   - MaxLogRate: Maximum entries per second, 0 for unlimited
//   - ErrorHandler: Receives write errors instead of the stderr fallback
type LoggerConfig struct {
	Name            string                 `json:"name"`
	MaxLogRate      int                    `json:"max_log_rate"`
	EnableCaller    bool                   `json:"enable_caller"`
	EnableFallback  bool                   `json:"enable_fallback"`
	EnableConsole   bool                   `json:"enable_console"`
	PrettyPrint     bool                   `json:"pretty_print"`
	Filename        string                 `json:"filename"`
	TimestampFormat string                 `json:"timestamp_format"`
	LogsDir         string                 `json:"logs_dir"`
	FormatStr       string                 `json:"format"`
	LogLevel        LogLevel               `json:"log_level"`
	CustomFields    map[string]interface{} `json:"custom_fields"`
	Outputs         []io.Writer            `json:"-"`
	LogFormat       LogFormat              `json:"-"`
	ErrorHandler    func(error)            `json:"-"`
}

// DefaultConfig returns a console logger at DEBUG in plain format.
func DefaultConfig() LoggerConfig {
	return LoggerConfig{
		LogLevel:        defaultLogLevel,
		LogFormat:       defaultLogFormat,
		TimestampFormat: defaultTimestampFormat,
		LogsDir:         defaultLogsDir,
		EnableFallback:  defaultEnableFallback,
		EnableConsole:   defaultEnableConsole,
	}
}

// Validate checks the configuration for values NewLogger cannot use.
func (lc *LoggerConfig) Validate() error {
	if lc.MaxLogRate < 0 {
		return fmt.Errorf("MaxLogRate cannot be negative")
	}
	if !lc.LogLevel.IsValid() {
		return fmt.Errorf("invalid log level: %d", lc.LogLevel)
	}
	if lc.FormatStr != "" {
		if _, err := ParseLogFormat(lc.FormatStr); err != nil {
			return err
		}
	}
	return nil
}

// Logger is a thread-safe Destination writing formatted entries to a set of
// io.Writers.
//
// A single Logger is normally shared by every request logger in a process.
type Logger struct {
	mu              sync.Mutex
	level           atomic.Int32
	name            string
	file            *os.File
	multiWriter     io.Writer
	timestampFormat string
	closed          atomic.Bool
	paused          atomic.Bool
	enableCaller    bool
	format          LogFormat
	fallbackWriter  io.Writer
	errorHandler    func(error)
	rateLimiter     *rate.Limiter
	config          LoggerConfig
	dynamicLevelFn  func() LogLevel
	bufferPool      sync.Pool
}

var _ Destination = (*Logger)(nil)

// NewLogger creates a Logger from config.
//
// Example:
//
//	logger, err := bufferedlogger.NewLogger(bufferedlogger.LoggerConfig{
//	    Name:          "main",
//	    LogLevel:      bufferedlogger.INFO,
//	    LogFormat:     bufferedlogger.FormatJSON,
//	    EnableConsole: true,
//	})
//	if err != nil {
//	    panic(err)
//	}
//	defer logger.Close()
func NewLogger(config LoggerConfig) (*Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if config.TimestampFormat == "" {
		config.TimestampFormat = defaultTimestampFormat
	}
	if config.LogsDir == "" {
		config.LogsDir = defaultLogsDir
	}
	if config.FormatStr != "" {
		config.LogFormat, _ = ParseLogFormat(config.FormatStr)
	}

	outputs := make([]io.Writer, 0, len(config.Outputs)+2)
	var file *os.File
	if name := strings.TrimSpace(strings.TrimSuffix(config.Filename, ".log")); name != "" {
		if err := os.MkdirAll(config.LogsDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(config.LogsDir, name+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		outputs = append(outputs, f)
	}
	if config.EnableConsole {
		outputs = append(outputs, os.Stdout)
	}
	for _, w := range config.Outputs {
		if w != nil {
			outputs = append(outputs, w)
		}
	}

	logger := &Logger{
		name:            config.Name,
		file:            file,
		multiWriter:     io.MultiWriter(outputs...),
		timestampFormat: config.TimestampFormat,
		enableCaller:    config.EnableCaller,
		format:          config.LogFormat,
		errorHandler:    config.ErrorHandler,
		config:          config,
		bufferPool: sync.Pool{
			New: func() interface{} {
				return bytes.NewBuffer(make([]byte, 0, 256))
			},
		},
	}

	if config.EnableFallback {
		logger.fallbackWriter = os.Stderr
	}
	if config.MaxLogRate > 0 {
		logger.rateLimiter = rate.NewLimiter(rate.Limit(config.MaxLogRate), config.MaxLogRate)
	}
	logger.level.Store(int32(config.LogLevel))

	return logger, nil
}

// Name returns the configured logger name.
func (l *Logger) Name() string {
	return l.name
}

// IsEnabled reports whether an entry at level would be written.
func (l *Logger) IsEnabled(level LogLevel) bool {
	if l.closed.Load() || l.paused.Load() {
		return false
	}
	return level >= l.currentLevel()
}

// Write implements Destination. Unlike Fatal, a FATAL write does not exit.
func (l *Logger) Write(level LogLevel, message string, fault error) {
	l.log(level, message, faultFields(fault))
}

// WriteError implements Destination.
func (l *Logger) WriteError(message string, fault error) {
	l.log(ERROR, message, faultFields(fault))
}

func (l *Logger) currentLevel() LogLevel {
	if fn := l.dynamicLevelFn; fn != nil {
		return fn()
	}
	return LogLevel(l.level.Load())
}

func (l *Logger) handleError(err error) {
	if l.errorHandler != nil {
		l.errorHandler(err)
	} else if l.fallbackWriter != nil {
		fmt.Fprintf(l.fallbackWriter, "LOGGER ERROR: %v\n", err)
	}
}

func (l *Logger) log(level LogLevel, message string, fields map[string]interface{}) {
	if !l.IsEnabled(level) {
		return
	}

	if l.rateLimiter != nil && !l.rateLimiter.Allow() {
		return
	}

	var callerInfo string
	if l.enableCaller {
		callerInfo = getCallerInfo(3)
	}

	buf := l.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer l.bufferPool.Put(buf)

	switch l.format {
	case FormatJSON:
		buf.WriteString(l.formatJSON(level, message, callerInfo, fields))
	default:
		buf.WriteString(l.formatPlain(level, message, callerInfo, fields))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed.Load() {
		fmt.Fprintf(os.Stderr, "Logger closed. Message: %s", buf.String())
		return
	}
	if _, err := l.multiWriter.Write(buf.Bytes()); err != nil {
		l.handleError(fmt.Errorf("log write error: %w", err))
		if l.fallbackWriter != nil {
			fmt.Fprintf(l.fallbackWriter, "FALLBACK LOG: %s", buf.String())
		}
	}
}

// SetLogLevel updates the minimum level at runtime.
func (l *Logger) SetLogLevel(level LogLevel) {
	l.level.Store(int32(level))
}

// GetLogLevel returns the configured minimum level.
func (l *Logger) GetLogLevel() LogLevel {
	return LogLevel(l.level.Load())
}

// SetDynamicLevelFunc makes fn decide the minimum level on every check.
// Set it before the logger is shared.
func (l *Logger) SetDynamicLevelFunc(fn func() LogLevel) {
	l.dynamicLevelFn = fn
}

// Pause disables every level until Resume is called.
func (l *Logger) Pause() {
	l.paused.Store(true)
}

// Resume re-enables a paused logger.
func (l *Logger) Resume() {
	l.paused.Store(false)
}

// IsPaused reports whether the logger is paused.
func (l *Logger) IsPaused() bool {
	return l.paused.Load()
}

// Close closes the log file, if any. Writes after Close are dropped.
func (l *Logger) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// IsClosed reports whether Close was called.
func (l *Logger) IsClosed() bool {
	return l.closed.Load()
}

func (l *Logger) Debug(v ...interface{}) {
	l.log(DEBUG, fmt.Sprint(v...), nil)
}

func (l *Logger) Info(v ...interface{}) {
	l.log(INFO, fmt.Sprint(v...), nil)
}

func (l *Logger) Warn(v ...interface{}) {
	l.log(WARN, fmt.Sprint(v...), nil)
}

func (l *Logger) Error(v ...interface{}) {
	l.log(ERROR, fmt.Sprint(v...), nil)
}

// Fatal logs at FATAL and exits the process.
func (l *Logger) Fatal(v ...interface{}) {
	l.log(FATAL, fmt.Sprint(v...), nil)
	os.Exit(1)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.log(DEBUG, fmt.Sprintf(format, v...), nil)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.log(INFO, fmt.Sprintf(format, v...), nil)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.log(WARN, fmt.Sprintf(format, v...), nil)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.log(ERROR, fmt.Sprintf(format, v...), nil)
}

// Fatalf logs at FATAL and exits the process.
func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.log(FATAL, fmt.Sprintf(format, v...), nil)
	os.Exit(1)
}

func (l *Logger) InfoWithFields(fields map[string]interface{}, v ...interface{}) {
	l.log(INFO, fmt.Sprint(v...), fields)
}

func (l *Logger) ErrorWithFields(fields map[string]interface{}, v ...interface{}) {
	l.log(ERROR, fmt.Sprint(v...), fields)
}

// faultFields describes fault as entry fields: the message and its Go type.
func faultFields(fault error) map[string]interface{} {
	if fault == nil {
		return nil
	}
	fields := map[string]interface{}{
		"error":      fault.Error(),
		"error_type": fmt.Sprintf("%T", fault),
	}
	if cause := errors.Unwrap(fault); cause != nil {
		fields["cause"] = cause.Error()
	}
	return fields
}
