// Package base provides the state shared by every format handler: the open
// handle, the bound info attributes, the logger and collected warnings.
package base

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/simonhull/sile/internal/info"
	"github.com/simonhull/sile/internal/textio"
	"github.com/simonhull/sile/internal/types"
)

// Sile is a format-specific handler bound to one open file.
//
// A Sile owns its handle; Close releases the handle and discards the info
// attribute cache. Read capabilities are exposed through the optional
// DataReader, OverlapReader and HamiltonianReader interfaces.
type Sile interface {
	// Path returns the file path the handler was opened on.
	Path() string
	// Format returns the registered handler name (e.g. "siesta.times").
	Format() string
	// Key returns the registry key the handler was resolved with.
	Key() types.FormatKey
	// Info returns a lazily resolved info attribute.
	Info(name string) (any, error)
	// InfoNames lists the declared info attributes in file order.
	InfoNames() []string
	// Warnings returns the non-fatal issues recorded so far.
	Warnings() []types.Warning
	// Close releases the file handle.
	Close() error
}

// DataReader is implemented by handlers that produce a tabular record.
type DataReader interface {
	ReadData() (*types.Record, error)
}

// OverlapReader is implemented by handlers that produce an overlap matrix.
type OverlapReader interface {
	ReadOverlap() (*types.OrbitalMatrix, error)
}

// HamiltonianReader is implemented by handlers that produce a Hamiltonian.
type HamiltonianReader interface {
	ReadHamiltonian() (*types.OrbitalMatrix, error)
}

// Constructor builds a handler around a prepared Base.
type Constructor func(b *Base) (Sile, error)

// Base implements the non-format-specific half of Sile. Formats embed it.
type Base struct {
	h        *textio.Handle
	attrs    *info.Set
	log      *slog.Logger
	name     string
	warnings []types.Warning
	key      types.FormatKey
	strict   bool
	closed   bool
}

// Options configures a Base.
type Options struct {
	Logger *slog.Logger
	Strict bool // any warning fails the operation that produced it
}

// New prepares a Base for a handler named name, resolved under key.
func New(h *textio.Handle, key types.FormatKey, name string, opts Options) *Base {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	b := &Base{
		h:      h,
		key:    key,
		name:   name,
		strict: opts.Strict,
		log:    log.With(slog.String("path", h.Path()), slog.String("format", name)),
	}
	b.attrs = info.NewSet(h, nil, b.log, b.addWarning)
	return b
}

// Bind declares the handler's info attributes. Formats call it from their
// constructor with their package-level attribute list.
func (b *Base) Bind(attrs []info.Attr) {
	b.attrs = info.NewSet(b.h, attrs, b.log, b.addWarning)
}

// Path implements Sile.
func (b *Base) Path() string {
	return b.h.Path()
}

// Format implements Sile.
func (b *Base) Format() string {
	return b.name
}

// Key implements Sile.
func (b *Base) Key() types.FormatKey {
	return b.key
}

// Handle returns the open handle for format readers.
func (b *Base) Handle() *textio.Handle {
	return b.h
}

// Logger returns the handler's logger, tagged with path and format.
func (b *Base) Logger() *slog.Logger {
	return b.log
}

// Attrs returns the bound info attribute set.
func (b *Base) Attrs() *info.Set {
	return b.attrs
}

// Info implements Sile. Attributes must be read in the order they appear in
// the file; ResolveInfo reads all of them regardless of cursor position.
func (b *Base) Info(name string) (any, error) {
	if b.closed {
		return nil, b.closedError()
	}
	n := len(b.warnings)
	v, err := b.attrs.Get(name)
	if err != nil {
		return nil, err
	}
	if err := b.strictCheck(n); err != nil {
		return nil, err
	}
	return v, nil
}

// InfoNames implements Sile.
func (b *Base) InfoNames() []string {
	return b.attrs.Names()
}

// ResolveInfo resolves the named attributes, or every declared attribute
// when names is empty, from the start of the file and leaves the handle
// rewound.
func (b *Base) ResolveInfo(names ...string) error {
	if b.closed {
		return b.closedError()
	}
	n := len(b.warnings)
	if err := b.attrs.Resolve(names...); err != nil {
		return err
	}
	return b.strictCheck(n)
}

// Warnings implements Sile.
func (b *Base) Warnings() []types.Warning {
	return b.warnings
}

// Warn records a non-fatal issue found by a format reader. In strict mode
// it returns an error the reader should propagate.
func (b *Base) Warn(stage, msg string, line int) error {
	b.log.Warn(msg, slog.String("stage", stage), slog.Int("line", line))
	w := types.Warning{Stage: stage, Message: msg, Line: line}
	b.warnings = append(b.warnings, w)
	if b.strict {
		return fmt.Errorf("strict mode: %s", w)
	}
	return nil
}

// Close implements Sile.
func (b *Base) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.attrs = info.NewSet(b.h, nil, b.log, nil)
	return b.h.Close()
}

func (b *Base) addWarning(w types.Warning) {
	b.warnings = append(b.warnings, w)
}

func (b *Base) strictCheck(before int) error {
	if b.strict && len(b.warnings) > before {
		return fmt.Errorf("strict mode: %s", b.warnings[before])
	}
	return nil
}

func (b *Base) closedError() error {
	return &types.IOError{Path: b.h.Path(), Op: "read", Err: os.ErrClosed}
}
