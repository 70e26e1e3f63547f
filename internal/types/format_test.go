package types

import (
	"slices"
	"testing"
)

func TestDetectCodec(t *testing.T) {
	tests := []struct {
		path string
		want Codec
	}{
		{"TIMES", CodecNone},
		{"run/siesta.times", CodecNone},
		{"siesta.times.gz", CodecGzip},
		{"SIESTA.TIMES.GZ", CodecGzip},
		{"hamreal1.dat.zst", CodecZstd},
		{"archive.gzip", CodecNone},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := DetectCodec(tt.path); got != tt.want {
				t.Errorf("DetectCodec(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestCodec_Extension(t *testing.T) {
	for c, want := range map[Codec]string{CodecNone: "", CodecGzip: ".gz", CodecZstd: ".zst"} {
		if got := c.Extension(); got != want {
			t.Errorf("%v.Extension() = %q, want %q", c, got, want)
		}
		if c != CodecNone && DetectCodec("x"+c.Extension()) != c {
			t.Errorf("DetectCodec does not round-trip %v", c)
		}
	}
	if got := Codec(9).String(); got != "Codec(9)" {
		t.Errorf("String() = %q", got)
	}
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"TIMES", []string{"times"}},
		{"out/siesta.TIMES.gz", []string{"siesta.times", "times"}},
		{"hamreal1.dat", []string{"hamreal1.dat", "dat"}},
		{"a.b.c.zst", []string{"a.b.c", "b.c", "c"}},
		{"trailing.", []string{"trailing."}},
		{".gz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Candidates(tt.path); !slices.Equal(got, tt.want) {
				t.Errorf("Candidates(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFormatKey_String(t *testing.T) {
	tests := []struct {
		key  FormatKey
		want string
	}{
		{FormatKey{Ext: "times"}, "times"},
		{FormatKey{Ext: "times", Compressed: true}, "times (compressed)"},
		{FormatKey{Tag: "dftb.hamreal"}, "{dftb.hamreal}"},
	}
	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
