package app

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// LogLevel orders message severities from Debug up to Error.
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

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns the level name as it appears in log lines.
func (l LogLevel) String() string {
	if l < LogLevelDebug || l > LogLevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel maps a flag or config string to a level. Unrecognized
// values fall back to Info.
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

const logPrefix = "inkwell"

// Logger writes leveled, timestamped lines. The terminal belongs to the
// editor surface, so output goes to a file or another writer that is not
// the tty. Child loggers made with WithField share the parent's writer and
// level; SetLevel on any of them applies to the whole family.
type Logger struct {
	out    io.Writer
	family *loggerFamily
	fields []logField
}

type loggerFamily struct {
	mu    sync.Mutex
	level LogLevel
}

type logField struct {
	key   string
	value any
}

// NewLogger creates a logger writing to out at the given minimum level.
// A nil writer discards everything.
func NewLogger(out io.Writer, level LogLevel) *Logger {
	return &Logger{out: out, family: &loggerFamily{level: level}}
}

// NullLogger discards all output.
var NullLogger = NewLogger(nil, LogLevelError+1)

// WithField returns a child logger that adds key=value to every line it
// writes. The receiver keeps its own fields.
func (l *Logger) WithField(key string, value any) *Logger {
	fields := make([]logField, len(l.fields), len(l.fields)+1)
	copy(fields, l.fields)
	return &Logger{
		out:    l.out,
		family: l.family,
		fields: append(fields, logField{key, value}),
	}
}

// WithComponent returns a child logger tagged with a component field.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel sets the minimum level for this logger and all its relatives.
func (l *Logger) SetLevel(level LogLevel) {
	l.family.mu.Lock()
	defer l.family.mu.Unlock()
	l.family.level = level
}

// Debug logs a debug message. The message may be a Printf format.
func (l *Logger) Debug(msg string, args ...any) { l.log(LogLevelDebug, msg, args...) }

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) { l.log(LogLevelInfo, msg, args...) }

// Warn logs a warning.
func (l *Logger) Warn(msg string, args ...any) { l.log(LogLevelWarn, msg, args...) }

// Error logs an error.
func (l *Logger) Error(msg string, args ...any) { l.log(LogLevelError, msg, args...) }

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	l.family.mu.Lock()
	defer l.family.mu.Unlock()
	if l.out == nil || level < l.family.level {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02T15:04:05.000"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(logPrefix)
	b.WriteString(": ")
	b.WriteString(msg)
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.key, f.value)
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.out, b.String())
}
