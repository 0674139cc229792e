// internal/logging/logger.go
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// DEBUG level for verbose debugging information
	DEBUG LogLevel = iota
	// INFO level for general information
	INFO
	// WARNING level for non-critical problems
	WARNING
	// ERROR level for error conditions
	ERROR
)

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:

		return "DEBUG"
	case INFO:

		return "INFO"
	case WARNING:

		return "WARNING"
	case ERROR:

		return "ERROR"
	default:

		return "UNKNOWN"
	}
}

// Logger writes timestamped, leveled log lines
type Logger struct {
	level  LogLevel
	writer io.Writer
}

// NewLogger creates a new logger with the specified log level
func NewLogger(level string) *Logger {
	var logLevel LogLevel
	switch strings.ToUpper(level) {
	case "DEBUG":
		logLevel = DEBUG
	case "INFO":
		logLevel = INFO
	case "WARNING":
		logLevel = WARNING
	case "ERROR":
		logLevel = ERROR
	default:
		logLevel = INFO
	}

	return &Logger{
		level:  logLevel,
		writer: os.Stdout,
	}
}

// SetOutput sets the output writer for the logger
func (l *Logger) SetOutput(writer io.Writer) {
	l.writer = writer
}

func (l *Logger) shouldLog(level LogLevel) bool {

	return level >= l.level
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	if !l.shouldLog(level) {

		return
	}

	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	timestamp := time.Now().Format(time.RFC3339)
	if _, err := fmt.Fprintf(l.writer, "[%s] %s: %s\n", timestamp, level.String(), message); err != nil {
		// If we can't log, there's not much we can do. Print to stderr as fallback.
		fmt.Fprintf(os.Stderr, "Failed to write log: %v\n", err)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.log(WARNING, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}
