package haggisio

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelSuccess:
		return "SUCCESS"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogFormat defines the output format for log messages
type LogFormat int

const (
	LogFormatCircles LogFormat = iota // Default: 🔵 🟢 🟡 🔴 🟣
	LogFormatSymbols                  // ◆ ✓ ▲ ✗ ●
	LogFormatTagged                   // [INFO] [SUCCESS] [WARN] [ERROR] [DEBUG]
	LogFormatPlain                    // No prefix
)

// ParseLogFormat maps a format name to a LogFormat
func ParseLogFormat(s string) (LogFormat, bool) {
	switch strings.ToLower(s) {
	case "", "circles":
		return LogFormatCircles, true
	case "symbols":
		return LogFormatSymbols, true
	case "tagged":
		return LogFormatTagged, true
	case "plain":
		return LogFormatPlain, true
	default:
		return LogFormatCircles, false
	}
}

// Logger writes leveled messages. Warnings and errors go to stderr by
// default. It is safe for concurrent use.
type Logger struct {
	mu           sync.Mutex
	io           *IOManager
	format       LogFormat
	prefixes     map[LogLevel]string
	minLevel     LogLevel
	withTime     bool
	timeFormat   string
	errorsStderr bool
	theme        Theme
}

// NewLogger creates a new logger bound to the given IOManager
func NewLogger(io *IOManager) *Logger {
	return &Logger{
		io:           io,
		format:       LogFormatCircles,
		prefixes:     prefixesFor(LogFormatCircles),
		minLevel:     LevelInfo,
		errorsStderr: true,
		timeFormat:   "15:04:05",
		theme:        DefaultTheme(io),
	}
}

func prefixesFor(format LogFormat) map[LogLevel]string {
	switch format {
	case LogFormatCircles:
		return map[LogLevel]string{
			LevelDebug:   "🟣",
			LevelInfo:    "🔵",
			LevelSuccess: "🟢",
			LevelWarning: "🟡",
			LevelError:   "🔴",
		}
	case LogFormatSymbols:
		return map[LogLevel]string{
			LevelDebug:   "●",
			LevelInfo:    "◆",
			LevelSuccess: "✓",
			LevelWarning: "▲",
			LevelError:   "✗",
		}
	case LogFormatTagged:
		return map[LogLevel]string{
			LevelDebug:   "[DEBUG]",
			LevelInfo:    "[INFO]",
			LevelSuccess: "[SUCCESS]",
			LevelWarning: "[WARN]",
			LevelError:   "[ERROR]",
		}
	default:
		return map[LogLevel]string{}
	}
}

// WithFormat sets the log format and returns the logger for chaining
func (l *Logger) WithFormat(format LogFormat) *Logger {
	l.format = format
	l.prefixes = prefixesFor(format)
	return l
}

// WithLevel drops messages below level
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.minLevel = level
	return l
}

// WithTimestamp enables or disables timestamp in log output
func (l *Logger) WithTimestamp(enabled bool) *Logger {
	l.withTime = enabled
	return l
}

// ErrorsToStderr controls whether errors and warnings go to stderr
func (l *Logger) ErrorsToStderr(enabled bool) *Logger {
	l.errorsStderr = enabled
	return l
}

// WithTheme sets a custom theme for semantic colors
func (l *Logger) WithTheme(theme Theme) *Logger {
	l.theme = theme
	return l
}

// Enabled reports whether messages at level are written
func (l *Logger) Enabled(level LogLevel) bool {
	return level >= l.minLevel
}

// Log outputs a log message at the specified level
func (l *Logger) Log(level LogLevel, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	output := l.formatMessage(level, msg)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.selectWriter(level), output)
}

// formatMessage formats the log message according to the configured format
func (l *Logger) formatMessage(level LogLevel, msg string) string {
	// Blank messages are printed as is
	if strings.TrimSpace(msg) == "" {
		return msg
	}

	parts := make([]string, 0, 3)
	if prefix := l.prefixes[level]; prefix != "" {
		parts = append(parts, prefix)
	}
	if l.withTime {
		parts = append(parts, "["+time.Now().Format(l.timeFormat)+"]")
	}
	parts = append(parts, msg)

	return l.colorizeByLevel(level, strings.Join(parts, " "))
}

// colorizeByLevel applies semantic color based on log level
func (l *Logger) colorizeByLevel(level LogLevel, text string) string {
	var color ColorSpec
	switch level {
	case LevelDebug:
		color = l.theme.Debug
	case LevelInfo:
		color = l.theme.Info
	case LevelSuccess:
		color = l.theme.Success
	case LevelWarning:
		color = l.theme.Warning
	case LevelError:
		color = l.theme.Error
	default:
		return text
	}
	return NewStyle().Fg(color).Sprint(l.io, text)
}

// selectWriter chooses stdout or stderr based on log level and configuration
func (l *Logger) selectWriter(level LogLevel) io.Writer {
	if l.errorsStderr && (level == LevelError || level == LevelWarning) {
		return l.io.Err()
	}
	return l.io.Out()
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.Log(LevelDebug, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) {
	l.Log(LevelInfo, format, args...)
}

// Success logs a success message
func (l *Logger) Success(format string, args ...any) {
	l.Log(LevelSuccess, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...any) {
	l.Log(LevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.Log(LevelError, format, args...)
}
