// Package logger provides a small logging interface for svcdash components.
// Packages log debug, info, warn, and error messages without being coupled
// to a specific sink; the CLI decides whether messages go to a file, stderr,
// or nowhere.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is the interface components log through. All methods take a format
// string and arguments, like fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// envLogger logs to stderr via the standard log package. Debug messages are
// only printed when SVCDASH_DEBUG is set.
type envLogger struct {
	prefix string
}

// NewEnvLogger creates a logger that respects the SVCDASH_DEBUG environment
// variable. The prefix is prepended to all messages (e.g. "[poller]").
func NewEnvLogger(prefix string) Logger {
	return &envLogger{prefix: prefix}
}

func (l *envLogger) Debug(format string, args ...interface{}) {
	if os.Getenv("SVCDASH_DEBUG") != "" {
		log.Printf(l.prefix+" "+format, args...)
	}
}

func (l *envLogger) Info(format string, args ...interface{}) {
	log.Printf(l.prefix+" "+format, args...)
}

func (l *envLogger) Warn(format string, args ...interface{}) {
	log.Printf(l.prefix+" WARN: "+format, args...)
}

func (l *envLogger) Error(format string, args ...interface{}) {
	log.Printf(l.prefix+" ERROR: "+format, args...)
}

// fileLogger writes every level, including debug, to a dedicated writer.
// Used when the --log flag names a file: the TUI owns the terminal, so
// log output must go elsewhere.
type fileLogger struct {
	prefix string
	l      *log.Logger
	closer io.Closer
}

// NewFileLogger creates a logger appending to the file at path.
// The returned closer flushes and releases the file handle.
func NewFileLogger(prefix, path string) (Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	fl := &fileLogger{
		prefix: prefix,
		l:      log.New(f, "", log.LstdFlags|log.Lmicroseconds),
		closer: f,
	}
	return fl, f, nil
}

func (l *fileLogger) Debug(format string, args ...interface{}) {
	l.l.Printf(l.prefix+" DEBUG: "+format, args...)
}

func (l *fileLogger) Info(format string, args ...interface{}) {
	l.l.Printf(l.prefix+" "+format, args...)
}

func (l *fileLogger) Warn(format string, args ...interface{}) {
	l.l.Printf(l.prefix+" WARN: "+format, args...)
}

func (l *fileLogger) Error(format string, args ...interface{}) {
	l.l.Printf(l.prefix+" ERROR: "+format, args...)
}

// noopLogger discards all messages. The default when no --log file is given,
// since the dashboard owns the terminal.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage is a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for test assertions.
type BufferLogger struct {
	Messages []LogMessage
}

// NewBufferLogger creates a logger that records messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "debug", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "info", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "warn", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "error", Message: fmt.Sprintf(format, args...)})
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.Messages = l.Messages[:0]
}

// defaultLogger is the package-level default.
var defaultLogger = NewEnvLogger("")

// Default returns the default logger.
func Default() Logger {
	return defaultLogger
}

// SetDefault replaces the default logger, e.g. to route everything to a file.
func SetDefault(l Logger) {
	defaultLogger = l
}
