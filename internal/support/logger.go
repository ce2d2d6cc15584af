// Package support carries the ambient stack every collaborator shares:
// structured logging, content checksums and run IDs. Adapted from the
// teacher's internal/utils, trimmed to what the engine's collaborators
// (CLI, HTTP API, cache) actually call.
package support

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger provides leveled logging with optional structured fields.
type Logger struct {
	verbose bool
	infoLog *log.Logger
	warnLog *log.Logger
	errLog  *log.Logger
	dbgLog  *log.Logger
}

// Field is one key/value pair attached to a structured log line.
type Field struct {
	Key   string
	Value interface{}
}

// NewLogger creates a Logger writing to stdout/stderr; Debug is a
// no-op unless verbose is true.
func NewLogger(verbose bool) *Logger {
	return &Logger{
		verbose: verbose,
		infoLog: log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime),
		warnLog: log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime),
		errLog:  log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime),
		dbgLog:  log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

// NewSilentLogger creates a Logger that discards all output, for tests.
func NewSilentLogger() *Logger {
	discard := log.New(io.Discard, "", 0)
	return &Logger{infoLog: discard, warnLog: discard, errLog: discard, dbgLog: discard}
}

func (l *Logger) Info(msg string, args ...interface{})  { l.print(l.infoLog, msg, args...) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.print(l.warnLog, msg, args...) }
func (l *Logger) Error(msg string, args ...interface{}) { l.print(l.errLog, msg, args...) }

// Debug logs msg only when the logger was created with verbose = true.
func (l *Logger) Debug(msg string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.print(l.dbgLog, msg, args...)
}

func (l *Logger) print(dst *log.Logger, msg string, args ...interface{}) {
	if len(args) > 0 {
		dst.Printf(msg, args...)
		return
	}
	dst.Println(msg)
}

// WithFields logs msg at info level with trailing key=value pairs,
// quoting string values that contain spaces.
func (l *Logger) WithFields(msg string, fields ...Field) {
	l.infoLog.Println(l.formatWithFields(msg, fields...))
}

// ErrorWithFields logs an error with an attached cause and fields.
func (l *Logger) ErrorWithFields(msg string, err error, fields ...Field) {
	if err != nil {
		fields = append(fields, Field{Key: "error", Value: err.Error()})
	}
	l.errLog.Println(l.formatWithFields(msg, fields...))
}

func (l *Logger) formatWithFields(msg string, fields ...Field) string {
	if len(fields) == 0 {
		return msg
	}
	parts := []string{msg}
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", f.Key, l.formatValue(f.Value)))
	}
	return strings.Join(parts, " ")
}

func (l *Logger) formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		if strings.Contains(v, " ") {
			return fmt.Sprintf("%q", v)
		}
		return v
	case error:
		return fmt.Sprintf("%q", v.Error())
	default:
		return fmt.Sprintf("%v", v)
	}
}
