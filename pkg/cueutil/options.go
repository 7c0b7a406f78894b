// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize is the default maximum input size (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	// compileOptions holds configuration for Compile.
	compileOptions struct {
		maxFileSize int64
		concrete    bool
		json        bool
		filename    string
	}

	// Option configures compile behavior.
	Option func(*compileOptions)
)

func defaultOptions() compileOptions {
	return compileOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// WithMaxFileSize sets the maximum allowed input size.
func WithMaxFileSize(size int64) Option {
	return func(o *compileOptions) {
		o.maxFileSize = size
	}
}

// WithConcrete sets whether all values must be concrete after unification.
// Default is true. Set to false for inputs where optional fields may stay unset.
func WithConcrete(concrete bool) Option {
	return func(o *compileOptions) {
		o.concrete = concrete
	}
}

// WithJSON makes Compile treat the input as strict JSON instead of CUE, so
// comments, trailing commas and unquoted keys are syntax errors.
func WithJSON() Option {
	return func(o *compileOptions) {
		o.json = true
	}
}

// WithFilename sets the filename used in error messages.
func WithFilename(name string) Option {
	return func(o *compileOptions) {
		o.filename = name
	}
}
