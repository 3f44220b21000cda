// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a charm log on stderr. Stdout is left alone because the
// server speaks msgpack over it.
func New(prefix string) *log.Logger {
	return NewWithWriter(prefix, os.Stderr)
}

// NewWithWriter creates a charm log writing to w that respects the global log level.
func NewWithWriter(prefix string, w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
