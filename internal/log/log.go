// Package log provides a leveled, categorized logger for stemma. Output
// goes to a file rather than stdout/stderr so log lines never corrupt the
// terminal UI. Before Init is called all output is discarded, which keeps
// tests quiet by default.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Category tags a log line with the subsystem it came from.
type Category string

const (
	CatDB     Category = "db"
	CatFlow   Category = "flow"
	CatUI     Category = "ui"
	CatConfig Category = "config"
	CatTrace  Category = "trace"
)

var (
	mu     sync.Mutex
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	file   *os.File
)

// Init directs log output to the file at path, creating the parent
// directory if needed. Lines are appended across runs.
func Init(path string, level slog.Level) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600) //nolint:gosec // G304: path comes from app config
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	if file != nil {
		_ = file.Close()
	}
	file = f
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

// Close flushes and closes the log file, reverting to a discard logger.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// Writer returns the current log destination. Used to point auxiliary
// output (e.g. the stdout trace exporter) at the log file.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		return file
	}
	return io.Discard
}

// Debug logs a debug message with key-value pairs.
func Debug(cat Category, msg string, args ...any) {
	current().Debug(msg, withCat(cat, args)...)
}

// Info logs an informational message with key-value pairs.
func Info(cat Category, msg string, args ...any) {
	current().Info(msg, withCat(cat, args)...)
}

// Warn logs a warning with key-value pairs.
func Warn(cat Category, msg string, args ...any) {
	current().Warn(msg, withCat(cat, args)...)
}

// Error logs an error-level message with key-value pairs.
func Error(cat Category, msg string, args ...any) {
	current().Error(msg, withCat(cat, args)...)
}

// ErrorErr logs an error-level message including the error value.
func ErrorErr(cat Category, msg string, err error, args ...any) {
	current().Error(msg, withCat(cat, append([]any{"err", err}, args...))...)
}

func current() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func withCat(cat Category, args []any) []any {
	return append([]any{"cat", string(cat)}, args...)
}
