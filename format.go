package sile

import (
	"github.com/simonhull/sile/internal/base"
	"github.com/simonhull/sile/internal/registry"
	"github.com/simonhull/sile/internal/types"
)

// FormatKey is an alias to types.FormatKey.
type FormatKey = types.FormatKey

// Codec is an alias to types.Codec.
type Codec = types.Codec

// Re-export codec constants.
const (
	CodecNone = types.CodecNone
	CodecGzip = types.CodecGzip
	CodecZstd = types.CodecZstd
)

// Constructor builds a handler around a prepared Base. Formats registered
// with AddFormat embed the *Base they are given.
type Constructor = base.Constructor

// Base is the shared handler state formats embed.
type Base = base.Base

// AddFormat registers a handler for files ending in ext (matched
// case-insensitively, without the leading dot). With gzip set, the same
// handler also serves the .gz and .zst compressed variants.
//
// A registration for an existing key replaces it.
func AddFormat(ext, name string, ctor Constructor, gzip bool) {
	registry.Add(ext, name, ctor, gzip)
}

// AddTag registers a handler reachable only through WithFormat(tag).
func AddTag(tag, name string, ctor Constructor, gzip bool) {
	registry.AddTag(tag, name, ctor, gzip)
}

// Alias makes files ending in alias open with the handler registered for
// the target extension.
func Alias(alias, target string) error {
	return registry.Alias(alias, target)
}

// Lookup returns the key path would be opened with, without opening it.
// hint is a format tag or extension as accepted by WithFormat, or "".
func Lookup(path, hint string) (FormatKey, error) {
	e, err := registry.Resolve(path, hint)
	if err != nil {
		return FormatKey{}, err
	}
	return e.Key, nil
}

// Formats lists every registered key in sorted order.
func Formats() []FormatKey {
	return registry.Keys()
}
