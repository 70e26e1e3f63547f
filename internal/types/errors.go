package types

import "fmt"

// IOError is returned when the underlying stream cannot be opened or read.
type IOError struct {
	Err  error
	Path string
	Op   string // "open", "read", "rewind", "close"
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Path, e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// UnknownFormatError is returned when no handler is registered for a path
// or format hint.
type UnknownFormatError struct {
	Path   string
	Hint   string
	Reason string
}

func (e *UnknownFormatError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: unknown format %q: %s", e.Path, e.Hint, e.Reason)
	}
	return fmt.Sprintf("%s: unknown format: %s", e.Path, e.Reason)
}

// MissingAttributeError is returned when a required info attribute never
// matches before the end of the stream.
type MissingAttributeError struct {
	Path string
	Name string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: info attribute %q not found", e.Path, e.Name)
}

// UnknownAttributeError is returned when a caller asks for an info attribute
// the format does not declare.
type UnknownAttributeError struct {
	Path string
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("%s: no info attribute %q", e.Path, e.Name)
}

// MalformedAttributeError is returned when an info attribute pattern matched
// but the matched text could not be converted. It is never subject to the
// attribute's fallback policy.
type MalformedAttributeError struct {
	Err  error
	Path string
	Name string
	Text string
	Line int
}

func (e *MalformedAttributeError) Error() string {
	return fmt.Sprintf("%s:%d: malformed info attribute %q in %q: %v", e.Path, e.Line, e.Name, e.Text, e.Err)
}

func (e *MalformedAttributeError) Unwrap() error {
	return e.Err
}

// MalformedRowError is returned when a body row is present but its content
// fails type conversion or violates the record layout.
type MalformedRowError struct {
	Err    error
	Path   string
	Reason string
	Line   int
}

func (e *MalformedRowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s:%d: malformed row: %s: %v", e.Path, e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s:%d: malformed row: %s", e.Path, e.Line, e.Reason)
}

func (e *MalformedRowError) Unwrap() error {
	return e.Err
}

// SectionNotFoundError is returned when a required body section marker never
// appears before the end of the stream.
type SectionNotFoundError struct {
	Path   string
	Marker string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("%s: section %q not found", e.Path, e.Marker)
}

// UnsupportedReadError indicates the handler cannot produce the requested
// record kind.
type UnsupportedReadError struct {
	Format string
	What   string
}

func (e *UnsupportedReadError) Error() string {
	return fmt.Sprintf("read %s not supported for %s", e.What, e.Format)
}

// ConfigError is returned when a configuration file cannot be parsed or
// names an unknown format.
type ConfigError struct {
	Err  error
	Path string
	Key  string // offending field, if known
}

func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config %s: %s: %v", e.Path, e.Key, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Warning represents a non-fatal issue encountered while reading.
//
// Warnings are recorded when an optional info attribute is absent and its
// fallback policy substitutes a default value, or when strict mode is off
// and a reader skips unexpected content.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "info", "data", "matrix"

	// Warning message
	Message string

	// Line number where the issue occurred (0 if not applicable)
	Line int
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s (at line %d): %s", w.Stage, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
