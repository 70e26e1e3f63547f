package sile

import "log/slog"

// Option configures behavior when opening files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	s, err := sile.Open("run.out",
//	    sile.WithFormat("siesta.times"),
//	    sile.WithStrict(),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	logger     *slog.Logger
	format     string // Format tag or extension overriding the file name
	strict     bool   // Fail on any warning
	decompress bool
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		decompress: true,
	}
}

// WithFormat selects the handler by format tag (e.g. "siesta.times") or
// extension (e.g. "times") instead of the file name.
//
// Use this for files that were renamed:
//
//	s, err := sile.Open("run42.log", sile.WithFormat("siesta.times"))
func WithFormat(hint string) Option {
	return func(o *openOptions) {
		o.format = hint
	}
}

// WithLogger sets the logger for diagnostics. By default slog.Default() is
// used. Records carry "path" and "format" attributes.
func WithLogger(l *slog.Logger) Option {
	return func(o *openOptions) {
		o.logger = l
	}
}

// WithStrict treats any warning as a fatal error.
//
// By default, an absent optional info attribute yields its default value
// and a warning, and readers skip unexpected lines with a warning. With
// strict mode the operation that produced the warning fails instead.
func WithStrict() Option {
	return func(o *openOptions) {
		o.strict = true
	}
}

// WithoutDecompression reads compressed files as raw bytes. Only useful
// for handlers that understand the compressed stream themselves.
func WithoutDecompression() Option {
	return func(o *openOptions) {
		o.decompress = false
	}
}
