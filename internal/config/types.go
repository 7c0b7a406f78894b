// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// LogLevelDebug logs reconciliation decisions per entry.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs only warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs only errors.
	LogLevelError LogLevel = "error"

	// LogFormatText is human-readable colored output.
	LogFormatText LogFormat = "text"
	// LogFormatLogfmt is key=value output.
	LogFormatLogfmt LogFormat = "logfmt"
	// LogFormatJSON is one JSON object per line.
	LogFormatJSON LogFormat = "json"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidIgnorePattern is the sentinel error wrapped by InvalidIgnorePatternError.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
	// ErrInvalidLogConfig is the sentinel error wrapped by InvalidLogConfigError.
	ErrInvalidLogConfig = errors.New("invalid log config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level written by the logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// LogFormat selects the logger's output encoding.
	LogFormat string

	// InvalidLogFormatError is returned when a LogFormat value is not recognized.
	InvalidLogFormatError struct {
		Value LogFormat
	}

	// IgnorePattern is a doublestar glob matched against slash-separated paths
	// relative to the project root.
	IgnorePattern string

	// InvalidIgnorePatternError is returned when an IgnorePattern is empty or
	// not a valid doublestar glob.
	InvalidIgnorePatternError struct {
		Value IgnorePattern
	}

	// InvalidLogConfigError collects the field errors of a LogConfig.
	InvalidLogConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Ignore lists entries skipped during reconciliation.
		Ignore []IgnorePattern `json:"ignore" mapstructure:"ignore"`
		// Log configures the logger.
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures command output.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Source is the file the configuration was read from, if any.
		Source string `json:"-" mapstructure:"-"`
	}

	// LogConfig configures the logger.
	LogConfig struct {
		Level  LogLevel  `json:"level" mapstructure:"level"`
		Format LogFormat `json:"format" mapstructure:"format"`
	}

	// UIConfig configures command output.
	UIConfig struct {
		// Verbose shows error chains and issue explanations.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Properties prints node properties in build output.
		Properties bool `json:"properties" mapstructure:"properties"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Ignore: []IgnorePattern{"**/.git", "**/.DS_Store"},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
	}
}

// IgnoreGlobs returns the ignore patterns as plain strings.
func (c *Config) IgnoreGlobs() []string {
	out := make([]string, len(c.Ignore))
	for i, p := range c.Ignore {
		out[i] = string(p)
	}
	return out
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, p := range c.Ignore {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.Log.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// IsValid returns whether the LogConfig has valid fields.
func (c LogConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidLogConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLogConfigError.
func (e *InvalidLogConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("log: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidLogConfig and the field errors.
func (e *InvalidLogConfigError) Unwrap() []error {
	return append([]error{ErrInvalidLogConfig}, e.FieldErrors...)
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether the LogLevel is one of the defined levels.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the LogFormat.
func (f LogFormat) String() string { return string(f) }

// IsValid returns whether the LogFormat is one of the defined formats.
func (f LogFormat) IsValid() (bool, []error) {
	switch f {
	case LogFormatText, LogFormatLogfmt, LogFormatJSON:
		return true, nil
	default:
		return false, []error{&InvalidLogFormatError{Value: f}}
	}
}

// Error implements the error interface for InvalidLogFormatError.
func (e *InvalidLogFormatError) Error() string {
	return fmt.Sprintf("invalid log format %q (valid: text, logfmt, json)", e.Value)
}

// Unwrap returns ErrInvalidLogFormat for errors.Is() compatibility.
func (e *InvalidLogFormatError) Unwrap() error { return ErrInvalidLogFormat }

// String returns the string representation of the IgnorePattern.
func (p IgnorePattern) String() string { return string(p) }

// IsValid returns whether the pattern is a non-empty doublestar glob.
func (p IgnorePattern) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" || !doublestar.ValidatePattern(string(p)) {
		return false, []error{&InvalidIgnorePatternError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidIgnorePatternError.
func (e *InvalidIgnorePatternError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q", e.Value)
}

// Unwrap returns ErrInvalidIgnorePattern for errors.Is() compatibility.
func (e *InvalidIgnorePatternError) Unwrap() error { return ErrInvalidIgnorePattern }
