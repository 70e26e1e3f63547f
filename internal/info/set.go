package info

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simonhull/sile/internal/textio"
	"github.com/simonhull/sile/internal/types"
)

// Set resolves a format's attributes against one open handle.
//
// Scans start at the handle's current line. A scan that reaches end of
// stream without a match puts the cursor back where it started, so an
// absent optional attribute does not hide attributes declared after it.
// Attributes must be accessed in the order they appear in the file;
// Resolve does this for all or a subset of them.
type Set struct {
	h       *textio.Handle
	log     *slog.Logger
	warn    func(types.Warning)
	index   map[string]int
	cache   map[string]any
	attrs   []Attr
	scanned int
}

// NewSet binds attrs to h. Diagnostics for defaulted attributes go to log
// and, when warn is non-nil, are reported to warn as well.
func NewSet(h *textio.Handle, attrs []Attr, log *slog.Logger, warn func(types.Warning)) *Set {
	if log == nil {
		log = slog.Default()
	}
	index := make(map[string]int, len(attrs))
	for i, a := range attrs {
		index[a.Name] = i
	}
	return &Set{
		h:     h,
		log:   log,
		warn:  warn,
		index: index,
		cache: make(map[string]any, len(attrs)),
		attrs: attrs,
	}
}

// Names returns the declared attribute names in declaration order.
func (s *Set) Names() []string {
	names := make([]string, len(s.attrs))
	for i, a := range s.attrs {
		names[i] = a.Name
	}
	return names
}

// Has reports whether name is a declared attribute.
func (s *Set) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Cached reports whether name has been resolved.
func (s *Set) Cached(name string) bool {
	_, ok := s.cache[name]
	return ok
}

// Scans returns the number of stream scans performed so far.
func (s *Set) Scans() int {
	return s.scanned
}

// Get returns the value of the named attribute, scanning the stream on the
// first access only.
func (s *Set) Get(name string) (any, error) {
	if v, ok := s.cache[name]; ok {
		return v, nil
	}
	i, ok := s.index[name]
	if !ok {
		return nil, &types.UnknownAttributeError{Path: s.h.Path(), Name: name}
	}
	return s.resolve(&s.attrs[i])
}

// Resolve rewinds the handle and resolves the named attributes in
// declaration order, or every attribute when names is empty. Attributes
// already cached are not rescanned and the others stay lazy. The handle is
// left rewound.
func (s *Set) Resolve(names ...string) error {
	want := make(map[string]bool, len(names))
	for _, name := range names {
		if !s.Has(name) {
			return &types.UnknownAttributeError{Path: s.h.Path(), Name: name}
		}
		want[name] = true
	}

	if err := s.h.Rewind(); err != nil {
		return err
	}
	for i := range s.attrs {
		name := s.attrs[i].Name
		if len(want) > 0 && !want[name] {
			continue
		}
		if _, ok := s.cache[name]; ok {
			continue
		}
		if _, err := s.resolve(&s.attrs[i]); err != nil {
			return err
		}
	}
	return s.h.Rewind()
}

func (s *Set) resolve(a *Attr) (any, error) {
	start := s.h.Line()
	s.scanned++

	for {
		line, ok, err := s.h.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		groups := a.Pattern.FindStringSubmatch(line)
		if groups == nil {
			continue
		}

		m := &Match{h: s.h, Line: line, Groups: groups, LineNo: s.h.Line()}
		v, err := a.Extract(m)
		if err != nil {
			if serr := s.h.SeekLine(start); serr != nil {
				return nil, serr
			}
			return nil, &types.MalformedAttributeError{
				Path: s.h.Path(),
				Name: a.Name,
				Text: line,
				Line: m.LineNo,
				Err:  err,
			}
		}
		s.cache[a.Name] = v
		return v, nil
	}

	if err := s.h.SeekLine(start); err != nil {
		return nil, err
	}
	return s.fallback(a)
}

func (s *Set) fallback(a *Attr) (any, error) {
	msg := fmt.Sprintf("info attribute %q not found, using default %v", a.Name, a.Default)

	switch a.NotFound {
	case Warn:
		s.log.Warn(msg, slog.String("attr", a.Name))
		s.report(msg)
	case Info:
		s.log.LogAttrs(context.Background(), slog.LevelInfo, msg, slog.String("attr", a.Name))
		s.report(msg)
	case Ignore:
	default:
		return nil, &types.MissingAttributeError{Path: s.h.Path(), Name: a.Name}
	}

	s.cache[a.Name] = a.Default
	return a.Default, nil
}

func (s *Set) report(msg string) {
	if s.warn != nil {
		s.warn(types.Warning{Stage: "info", Message: msg})
	}
}

// Value returns the named attribute converted to T.
func Value[T any](s *Set, name string) (T, error) {
	var zero T
	v, err := s.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%s: info attribute %q is %T, not %T", s.h.Path(), name, v, zero)
	}
	return t, nil
}
