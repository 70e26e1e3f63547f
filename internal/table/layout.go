// Package table parses whitespace-delimited report sections into records.
package table

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/simonhull/sile/internal/textio"
	"github.com/simonhull/sile/internal/types"
)

// Column selects one field of a data row.
type Column struct {
	Name  string
	Index int // position in the whitespace-split row
	Kind  types.Kind
}

// Layout declares how a report section is laid out.
//
// Parsing skips Preamble lines, steps past the first line containing
// Section, skips SubHeader lines and then reads rows until end of stream,
// a line with fewer than MinFields fields, or a line whose first field is
// one of Sentinels.
type Layout struct {
	Section   string
	KeyAxis   string // name of the per-row key, taken from field KeyIndex
	Index     string // name of the multi-index over the coordinates
	Sentinels []string
	Columns   []Column
	Preamble  int
	SubHeader int
	MinFields int
	KeyIndex  int
}

// Validate checks that the layout is usable.
func (l *Layout) Validate() error {
	if l.Section == "" {
		return fmt.Errorf("layout: empty section marker")
	}
	if l.MinFields < 1 {
		return fmt.Errorf("layout: MinFields must be at least 1, got %d", l.MinFields)
	}
	if l.KeyIndex < 0 {
		return fmt.Errorf("layout: negative key index %d", l.KeyIndex)
	}
	for _, c := range l.Columns {
		if c.Index < 0 {
			return fmt.Errorf("layout: column %q has negative index %d", c.Name, c.Index)
		}
	}
	return nil
}

// Parse reads the section from the handle's current position and assembles
// a record with coords broadcast across all rows. attrs are copied onto the
// record.
func (l *Layout) Parse(h *textio.Handle, coords []types.Coord, attrs map[string]string) (*types.Record, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if err := h.Skip(l.Preamble); err != nil {
		return nil, err
	}

	found, err := h.StepTo(l.Section)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &types.SectionNotFoundError{Path: h.Path(), Marker: l.Section}
	}

	if err := h.Skip(l.SubHeader); err != nil {
		return nil, err
	}

	rec := l.newRecord(coords, attrs)
	seen := make(map[string]int)

	for {
		line, ok, err := h.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		fields := strings.Fields(line)
		if len(fields) < l.MinFields || slices.Contains(l.Sentinels, fields[0]) {
			break
		}

		if err := l.appendRow(rec, fields, seen, h.Path(), h.Line()); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

func (l *Layout) newRecord(coords []types.Coord, attrs map[string]string) *types.Record {
	rec := &types.Record{
		KeyAxis: l.KeyAxis,
		Index:   l.Index,
		Coords:  slices.Clone(coords),
		Columns: make([]types.Column, len(l.Columns)),
		Attrs:   make(map[string]string, len(attrs)),
	}
	for i, c := range l.Columns {
		rec.Columns[i] = types.Column{Name: c.Name, Kind: c.Kind}
	}
	for k, v := range attrs {
		rec.Attrs[k] = v
	}
	return rec
}

func (l *Layout) appendRow(rec *types.Record, fields []string, seen map[string]int, path string, lineNo int) error {
	if l.KeyIndex >= len(fields) {
		return &types.MalformedRowError{
			Path:   path,
			Line:   lineNo,
			Reason: fmt.Sprintf("key field %d missing (%d fields)", l.KeyIndex, len(fields)),
		}
	}
	key := fields[l.KeyIndex]
	if prev, dup := seen[key]; dup {
		return &types.MalformedRowError{
			Path:   path,
			Line:   lineNo,
			Reason: fmt.Sprintf("duplicate %s %q (first at line %d)", l.KeyAxis, key, prev),
		}
	}

	// Convert every field before appending so a bad row leaves no partial data.
	ints := make([]int64, len(l.Columns))
	floats := make([]float64, len(l.Columns))
	for i, c := range l.Columns {
		if c.Index >= len(fields) {
			return &types.MalformedRowError{
				Path:   path,
				Line:   lineNo,
				Reason: fmt.Sprintf("column %q at field %d missing (%d fields)", c.Name, c.Index, len(fields)),
			}
		}
		text := fields[c.Index]

		var err error
		switch c.Kind {
		case types.KindInt:
			ints[i], err = strconv.ParseInt(text, 10, 64)
		case types.KindFloat:
			floats[i], err = types.ParseDecimal(text)
		}
		if err != nil {
			return &types.MalformedRowError{
				Path:   path,
				Line:   lineNo,
				Reason: fmt.Sprintf("column %q: %s value %q", c.Name, c.Kind, text),
				Err:    err,
			}
		}
	}

	for i, c := range l.Columns {
		col := &rec.Columns[i]
		switch c.Kind {
		case types.KindInt:
			col.Ints = append(col.Ints, ints[i])
		case types.KindFloat:
			col.Floats = append(col.Floats, floats[i])
		default:
			col.Strings = append(col.Strings, fields[c.Index])
		}
	}
	rec.Keys = append(rec.Keys, key)
	seen[key] = lineNo
	return nil
}
