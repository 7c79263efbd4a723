package app

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// LogLevel represents logging severity levels.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel. Unknown values map to
// LogLevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func (l LogLevel) charm() log.Level {
	switch l {
	case LogLevelDebug:
		return log.DebugLevel
	case LogLevelWarn:
		return log.WarnLevel
	case LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// LoggerConfig configures a Logger.
type LoggerConfig struct {
	Level  LogLevel
	Output io.Writer // defaults to os.Stderr
	Prefix string
	// JSON switches to one JSON object per record.
	JSON bool
	// NoTimestamp drops the time field, mostly for tests.
	NoTimestamp bool
}

// Logger is a leveled logger with structured fields.
// Messages use printf formatting when arguments are given.
type Logger struct {
	base     *log.Logger
	disabled *atomic.Bool
}

// NewLogger creates a logger writing to cfg.Output.
func NewLogger(cfg LoggerConfig) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := log.Options{
		Prefix:          cfg.Prefix,
		Level:           cfg.Level.charm(),
		ReportTimestamp: !cfg.NoTimestamp,
		TimeFormat:      time.RFC3339,
	}
	if cfg.JSON {
		opts.Formatter = log.JSONFormatter
	}
	return &Logger{
		base:     log.NewWithOptions(out, opts),
		disabled: new(atomic.Bool),
	}
}

// WithField returns a logger that adds key=value to every record.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{base: l.base.With(key, value), disabled: l.disabled}
}

// WithFields returns a logger with several fields, added in key order.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return &Logger{base: l.base.With(kv...), disabled: l.disabled}
}

// WithComponent returns a logger tagged with a component name.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel changes the minimum level of this logger.
func (l *Logger) SetLevel(level LogLevel) {
	l.base.SetLevel(level.charm())
}

// SetOutput changes where this logger writes.
func (l *Logger) SetOutput(w io.Writer) {
	l.base.SetOutput(w)
}

// Disable silences the logger and every logger derived from it.
func (l *Logger) Disable() {
	l.disabled.Store(true)
}

// Enable undoes Disable.
func (l *Logger) Enable() {
	l.disabled.Store(false)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(log.DebugLevel, msg, args)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) {
	l.log(log.InfoLevel, msg, args)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(log.WarnLevel, msg, args)
}

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) {
	l.log(log.ErrorLevel, msg, args)
}

func (l *Logger) log(level log.Level, msg string, args []any) {
	if l.disabled.Load() {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.base.Log(level, msg)
}

// NullLogger returns a logger that discards everything.
func NullLogger() *Logger {
	l := NewLogger(LoggerConfig{Output: io.Discard})
	l.Disable()
	return l
}

var (
	defaultLogger   *Logger
	defaultLoggerMu sync.RWMutex
)

// GetLogger returns the process wide logger.
func GetLogger() *Logger {
	defaultLoggerMu.RLock()
	l := defaultLogger
	defaultLoggerMu.RUnlock()
	if l != nil {
		return l
	}

	defaultLoggerMu.Lock()
	defer defaultLoggerMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(LoggerConfig{Level: LogLevelInfo, Prefix: "rx"})
	}
	return defaultLogger
}

// SetLogger replaces the process wide logger.
func SetLogger(l *Logger) {
	defaultLoggerMu.Lock()
	defaultLogger = l
	defaultLoggerMu.Unlock()
}
