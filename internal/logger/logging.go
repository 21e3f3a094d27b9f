// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
//
// Everything goes to stderr: stdout carries IPC frames in server mode and
// the screen in picker mode.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Default creates a new charm log that respects the global log level
func Default(prefix string) *log.Logger {
	return New(os.Stderr, prefix)
}

// New creates a prefixed charm log writing to w.
func New(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() <= log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// Discard returns a logger that drops everything, for tests and for the
// picker, which owns the terminal.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
