package cliutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogRecord represents a structured log event ready for JSON encoding.
type LogRecord struct {
	Timestamp time.Time `json:"ts"`
	Level     string    `json:"level"`
	Component string    `json:"component"`
	Message   string    `json:"msg"`
	PID       int32     `json:"pid,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Logger writes LogRecords as JSON lines. A nil Logger discards everything,
// which is the default while the terminal is owned by the interactive UI.
type Logger struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
	stderr io.Writer
}

// NewLogger returns a logger that encodes records to w.
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		return nil
	}
	return &Logger{enc: json.NewEncoder(w), stderr: os.Stderr}
}

// OpenLogFile opens (appending) the log file at path. An empty path yields a
// nil logger.
func OpenLogFile(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := NewLogger(f)
	l.closer = f
	return l, nil
}

// Close releases the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.closer.Close()
	l.closer = nil
	l.enc = nil
	return err
}

// Log encodes a record, filling in the timestamp and level when missing.
func (l *Logger) Log(record LogRecord) {
	if l == nil {
		return
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	if record.Level == "" {
		record.Level = "info"
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.enc == nil {
		return
	}
	if err := l.enc.Encode(&record); err != nil && l.stderr != nil {
		fmt.Fprintf(l.stderr, "error: encode log: %v\n", err)
	}
}

// Info logs an informational message.
func (l *Logger) Info(component, msg string) {
	l.Log(LogRecord{Level: "info", Component: component, Message: msg})
}

// Warn logs a recoverable failure.
func (l *Logger) Warn(component, msg string, err error) {
	l.Log(LogRecord{Level: "warn", Component: component, Message: msg, Error: errString(err)})
}

// Error logs a failure.
func (l *Logger) Error(component, msg string, err error) {
	l.Log(LogRecord{Level: "error", Component: component, Message: msg, Error: errString(err)})
}

// Process logs a message about a specific pid.
func (l *Logger) Process(level, component string, pid int32, msg string, err error) {
	l.Log(LogRecord{Level: level, Component: component, Message: msg, PID: pid, Error: errString(err)})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
