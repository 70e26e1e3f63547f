package types

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// Kind is the declared type of a record column.
type Kind int

const (
	// KindInt columns hold decimal integers.
	KindInt Kind = iota // int
	// KindFloat columns hold decimal floating point numbers.
	KindFloat // float
	// KindString columns hold raw text.
	KindString // string
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is one typed field of a Record. Only the slice matching Kind is used.
type Column struct {
	Name    string
	Ints    []int64
	Floats  []float64
	Strings []string
	Kind    Kind
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindInt:
		return len(c.Ints)
	case KindFloat:
		return len(c.Floats)
	default:
		return len(c.Strings)
	}
}

// Value returns the i'th value as an int64, float64 or string.
func (c *Column) Value(i int) any {
	switch c.Kind {
	case KindInt:
		return c.Ints[i]
	case KindFloat:
		return c.Floats[i]
	default:
		return c.Strings[i]
	}
}

// Coord is a coordinate value broadcast across every row of a Record.
type Coord struct {
	Value any
	Name  string
}

// Record is a tabular, coordinate-indexed result of parsing a file body.
//
// Rows are addressed by a per-row key (KeyAxis, e.g. "routine") and by the
// constant coordinates named in Index (e.g. "parallel" = processors,threads).
// Every column has len(Keys) values.
type Record struct {
	Attrs   map[string]string
	KeyAxis string
	Index   string
	Keys    []string
	Coords  []Coord
	Columns []Column
}

// Len returns the number of rows.
func (r *Record) Len() int {
	return len(r.Keys)
}

// Column returns the named column, or nil.
func (r *Record) Column(name string) *Column {
	for i := range r.Columns {
		if r.Columns[i].Name == name {
			return &r.Columns[i]
		}
	}
	return nil
}

// Coord returns the value of the named coordinate.
func (r *Record) Coord(name string) (any, bool) {
	for _, c := range r.Coords {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// Row returns the index of the row keyed by key, or -1.
func (r *Record) Row(key string) int {
	return slices.Index(r.Keys, key)
}

// Int returns an integer field for the row keyed by key.
func (r *Record) Int(column, key string) (int64, bool) {
	c, i := r.cell(column, key, KindInt)
	if c == nil {
		return 0, false
	}
	return c.Ints[i], true
}

// Float returns a float field for the row keyed by key.
func (r *Record) Float(column, key string) (float64, bool) {
	c, i := r.cell(column, key, KindFloat)
	if c == nil {
		return 0, false
	}
	return c.Floats[i], true
}

func (r *Record) cell(column, key string, kind Kind) (*Column, int) {
	c := r.Column(column)
	if c == nil || c.Kind != kind {
		return nil, -1
	}
	i := r.Row(key)
	if i < 0 || i >= c.Len() {
		return nil, -1
	}
	return c, i
}

// Validate checks the record invariants: equal column lengths and unique keys.
func (r *Record) Validate() error {
	seen := make(map[string]struct{}, len(r.Keys))
	for _, k := range r.Keys {
		if _, dup := seen[k]; dup {
			return fmt.Errorf("duplicate %s %q", r.KeyAxis, k)
		}
		seen[k] = struct{}{}
	}
	for i := range r.Columns {
		if n := r.Columns[i].Len(); n != len(r.Keys) {
			return fmt.Errorf("column %q has %d values, want %d", r.Columns[i].Name, n, len(r.Keys))
		}
	}
	return nil
}

// WriteTSV writes the record as tab-separated text with a header line.
// Coordinates are emitted as leading columns repeated on every row.
func (r *Record) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, c := range r.Coords {
		bw.WriteString(c.Name)
		bw.WriteByte('\t')
	}
	bw.WriteString(r.KeyAxis)
	for _, c := range r.Columns {
		bw.WriteByte('\t')
		bw.WriteString(c.Name)
	}
	bw.WriteByte('\n')

	for i, key := range r.Keys {
		for _, c := range r.Coords {
			bw.WriteString(formatValue(c.Value))
			bw.WriteByte('\t')
		}
		bw.WriteString(key)
		for j := range r.Columns {
			bw.WriteByte('\t')
			bw.WriteString(formatValue(r.Columns[j].Value(i)))
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
