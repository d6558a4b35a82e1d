// Package logger builds the charmbracelet/log loggers shared by the dictlookup packages.
package logger

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// NewWithConfig creates a logger with an explicit level and formatter.
// An unknown level string falls back to info.
func NewWithConfig(w io.Writer, prefix, level, format string) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	f := log.TextFormatter
	switch strings.ToLower(format) {
	case "json":
		f = log.JSONFormatter
	case "logfmt":
		f = log.LogfmtFormatter
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           lvl,
		ReportTimestamp: true,
		Formatter:       f,
	})
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
