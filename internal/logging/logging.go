// SPDX-License-Identifier: MPL-2.0

// Package logging builds the slog.Logger used across treesync, with
// charmbracelet/log as the handler.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// ErrInvalidLevel is returned by ParseLevel for unknown level names.
	ErrInvalidLevel = errors.New("invalid log level")
	// ErrInvalidFormat is returned by ParseFormat for unknown format names.
	ErrInvalidFormat = errors.New("invalid log format")
)

// Options configures New. The zero value logs info and above as text
// without timestamps.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	Prefix          string
	ReportTimestamp bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
		TimeFormat:      time.Kitchen,
	})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel maps "debug", "info", "warn" or "error" to a level.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrInvalidLevel, s)
	}
}

// ParseFormat maps "text", "logfmt" or "json" to a formatter.
func ParseFormat(s string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return log.TextFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrInvalidFormat, s)
	}
}

// Parse builds Options from level and format names.
func Parse(level, format string) (Options, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return Options{}, err
	}
	f, err := ParseFormat(format)
	if err != nil {
		return Options{}, err
	}
	return Options{Level: lvl, Formatter: f}, nil
}
