package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Codec identifies the compression wrapping a file.
type Codec int

const (
	// CodecNone is an uncompressed stream.
	CodecNone Codec = iota // none
	// CodecGzip is a gzip stream (.gz).
	CodecGzip // gzip
	// CodecZstd is a Zstandard stream (.zst).
	CodecZstd // zstd
)

func (c Codec) String() string {
	switch c {
	case CodecGzip:
		return "gzip"
	case CodecZstd:
		return "zstd"
	case CodecNone:
		return "none"
	default:
		return fmt.Sprintf("Codec(%d)", int(c))
	}
}

// Extension returns the file suffix for this codec, including the dot.
func (c Codec) Extension() string {
	switch c {
	case CodecGzip:
		return ".gz"
	case CodecZstd:
		return ".zst"
	default:
		return ""
	}
}

// DetectCodec infers the compression codec from the path suffix.
// Matching is case-insensitive.
func DetectCodec(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return CodecGzip
	case ".zst":
		return CodecZstd
	default:
		return CodecNone
	}
}

// FormatKey uniquely identifies a registrable handler.
//
// Ext is matched against the file name, Tag only against an explicit format
// hint. Exactly one of the two is normally set.
type FormatKey struct {
	Ext        string
	Tag        string
	Compressed bool
}

func (k FormatKey) String() string {
	name := k.Ext
	if k.Tag != "" {
		name = "{" + k.Tag + "}"
	}
	if k.Compressed {
		return name + " (compressed)"
	}
	return name
}

// Candidates returns the extension lookup candidates for path, longest first.
//
// The compression suffix is stripped and the base name lowercased, then the
// full base name and each dotted suffix are returned:
//
//	"out/siesta.TIMES.gz" -> ["siesta.times", "times"]
//	"hamreal1.dat"        -> ["hamreal1.dat", "dat"]
func Candidates(path string) []string {
	base := strings.ToLower(filepath.Base(path))
	if c := DetectCodec(base); c != CodecNone {
		base = strings.TrimSuffix(base, c.Extension())
	}
	if base == "" || base == "." {
		return nil
	}

	candidates := []string{base}
	for i := 0; i < len(base); i++ {
		if base[i] == '.' && i+1 < len(base) {
			candidates = append(candidates, base[i+1:])
		}
	}
	return candidates
}
