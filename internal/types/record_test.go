package types

import (
	"bytes"
	"testing"
)

func sampleRecord() *Record {
	return &Record{
		KeyAxis: "routine",
		Index:   "parallel",
		Keys:    []string{"siesta", "hop"},
		Coords:  []Coord{{Name: "processors", Value: int64(4)}},
		Columns: []Column{
			{Name: "calls", Kind: KindInt, Ints: []int64{1, 10}},
			{Name: "time", Kind: KindFloat, Floats: []float64{12.5, 0.45}},
			{Name: "kind", Kind: KindString, Strings: []string{"total", "kernel"}},
		},
	}
}

func TestRecord_Lookup(t *testing.T) {
	r := sampleRecord()

	if got, ok := r.Int("calls", "hop"); !ok || got != 10 {
		t.Errorf("Int(calls, hop) = %d, %v; want 10, true", got, ok)
	}
	if got, ok := r.Float("time", "siesta"); !ok || got != 12.5 {
		t.Errorf("Float(time, siesta) = %v, %v; want 12.5, true", got, ok)
	}
	if _, ok := r.Float("calls", "hop"); ok {
		t.Error("Float() on an int column should fail")
	}
	if _, ok := r.Int("calls", "missing"); ok {
		t.Error("Int() for a missing key should fail")
	}
	if r.Column("nope") != nil {
		t.Error("Column(nope) should be nil")
	}
	if v, ok := r.Coord("processors"); !ok || v != int64(4) {
		t.Errorf("Coord(processors) = %v, %v", v, ok)
	}
	if got := r.Column("kind").Value(1); got != "kernel" {
		t.Errorf("Value(1) = %v, want kernel", got)
	}
}

func TestRecord_Validate(t *testing.T) {
	if err := sampleRecord().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	dup := sampleRecord()
	dup.Keys[1] = "siesta"
	if err := dup.Validate(); err == nil {
		t.Error("Validate() should reject duplicate keys")
	}

	short := sampleRecord()
	short.Columns[1].Floats = short.Columns[1].Floats[:1]
	if err := short.Validate(); err == nil {
		t.Error("Validate() should reject a short column")
	}
}

func TestRecord_WriteTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := sampleRecord().WriteTSV(&buf); err != nil {
		t.Fatal(err)
	}
	want := "processors\troutine\tcalls\ttime\tkind\n" +
		"4\tsiesta\t1\t12.5\ttotal\n" +
		"4\thop\t10\t0.45\tkernel\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteTSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestOrbitalMatrix(t *testing.T) {
	m := &OrbitalMatrix{
		Atoms:    2,
		Orbitals: []int{2, 1},
		Elements: []Element{
			{Row: 0, Col: 0, Value: 1},
			{Row: 0, Col: 2, Value: 0.5},
			{Row: 2, Col: 0, Cell: [3]int{1, 0, 0}, Value: 0.25},
		},
	}

	if got := m.NumOrbitals(); got != 3 {
		t.Errorf("NumOrbitals() = %d, want 3", got)
	}
	if got := m.Offsets(); got[0] != 0 || got[1] != 2 {
		t.Errorf("Offsets() = %v, want [0 2]", got)
	}
	if got := m.NNZ(); got != 3 {
		t.Errorf("NNZ() = %d, want 3", got)
	}

	d := m.Dense()
	if d[0][2] != 0.5 || d[2][0] != 0 {
		t.Errorf("Dense() = %v, supercell images must be excluded", d)
	}
	if v := m.Values(); len(v) != 3 || v[2] != 0.25 {
		t.Errorf("Values() = %v", v)
	}
}
