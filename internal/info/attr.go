// Package info implements lazily resolved, regex-matched metadata attributes.
//
// A format declares a static list of Attr values. Each open handler binds
// that list to its handle through a Set, which scans the stream on first
// access of an attribute, converts the matched line with the attribute's
// extractor and caches the result until the handler is closed.
package info

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/simonhull/sile/internal/textio"
	"github.com/simonhull/sile/internal/types"
)

// Policy is the behaviour when an attribute pattern never matches.
type Policy int

const (
	// Error fails with *types.MissingAttributeError.
	Error Policy = iota // error
	// Warn logs a warning and substitutes the default value.
	Warn // warn
	// Info logs at info level and substitutes the default value.
	Info // info
	// Ignore silently substitutes the default value.
	Ignore // ignore
)

func (p Policy) String() string {
	switch p {
	case Error:
		return "error"
	case Warn:
		return "warn"
	case Info:
		return "info"
	case Ignore:
		return "ignore"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name as used in configuration files.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "":
		return Error, nil
	case "warn", "warning":
		return Warn, nil
	case "info":
		return Info, nil
	case "ignore", "silent":
		return Ignore, nil
	default:
		return Error, fmt.Errorf("unknown policy %q", s)
	}
}

// Match is the line an attribute pattern matched.
type Match struct {
	h      *textio.Handle
	Line   string
	Groups []string
	LineNo int
}

// Next consumes and returns the line following the match. It is used by
// formats that put the value below its label.
func (m *Match) Next() (string, error) {
	line, ok, err := m.h.ReadLine()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no line after %q", m.Line)
	}
	return line, nil
}

// Field returns the text an extractor should convert: the first capture
// group when the pattern has one, otherwise the last whitespace field.
func (m *Match) Field() string {
	if len(m.Groups) > 1 {
		return strings.TrimSpace(m.Groups[1])
	}
	return lastField(m.Line)
}

// Extractor converts a match into a typed value.
type Extractor func(m *Match) (any, error)

// Attr declares one info attribute of a format.
type Attr struct {
	Default  any
	Pattern  *regexp.Regexp
	Extract  Extractor
	Name     string
	NotFound Policy
}

// Option configures an Attr.
type Option func(*Attr)

// WithDefault sets the value substituted when the attribute is absent.
// v should have the extractor's result type (int64 for Int, float64 for Float).
func WithDefault(v any) Option {
	return func(a *Attr) {
		a.Default = v
	}
}

// NotFound sets the fallback policy. The default is Error.
func NotFound(p Policy) Option {
	return func(a *Attr) {
		a.NotFound = p
	}
}

// New declares an attribute. The pattern is compiled once; an invalid
// pattern panics since attribute lists are package-level declarations.
func New(name, pattern string, extract Extractor, opts ...Option) Attr {
	a := Attr{
		Name:    name,
		Pattern: regexp.MustCompile(pattern),
		Extract: extract,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Int parses Match.Field as a base-10 integer. Fractional text is rejected.
func Int(m *Match) (any, error) {
	return strconv.ParseInt(m.Field(), 10, 64)
}

// Float parses Match.Field as a decimal floating point number.
func Float(m *Match) (any, error) {
	return types.ParseDecimal(m.Field())
}

// String returns Match.Field unchanged.
func String(m *Match) (any, error) {
	return m.Field(), nil
}

// NextInt parses the first field of the line following the match.
func NextInt(m *Match) (any, error) {
	line, err := m.Next()
	if err != nil {
		return nil, err
	}
	return strconv.ParseInt(firstField(line), 10, 64)
}

// NextFloat parses the first field of the line following the match.
func NextFloat(m *Match) (any, error) {
	line, err := m.Next()
	if err != nil {
		return nil, err
	}
	return types.ParseDecimal(firstField(line))
}

func lastField(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

func firstField(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}
