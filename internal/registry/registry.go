// Package registry maps format keys to handler constructors.
//
// Built-in formats register from their package init functions, which run
// exactly once before main. Registration after start-up is supported for
// overrides; lookups and registrations are serialized by a RWMutex.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/simonhull/sile/internal/base"
	"github.com/simonhull/sile/internal/types"
)

// Entry describes a registered handler.
type Entry struct {
	New  base.Constructor
	Name string
	Key  types.FormatKey

	// Transparent entries receive a decompressed stream for compressed keys.
	// Non-transparent compressed entries receive the raw bytes.
	Transparent bool
}

var (
	mu      sync.RWMutex
	entries = make(map[types.FormatKey]Entry)
)

// Register inserts or silently overwrites the entry for e.Key.
func Register(e Entry) {
	e.Key = normalize(e.Key)
	mu.Lock()
	entries[e.Key] = e
	mu.Unlock()
}

// Add registers a handler for a file extension. When gzip is true the
// handler is also registered, compression-transparent, for compressed files
// with that extension.
func Add(ext, name string, ctor base.Constructor, gzip bool) {
	Register(Entry{Key: types.FormatKey{Ext: ext}, Name: name, New: ctor})
	if gzip {
		Register(Entry{Key: types.FormatKey{Ext: ext, Compressed: true}, Name: name, New: ctor, Transparent: true})
	}
}

// AddTag registers a handler reachable only through an explicit format hint.
func AddTag(tag, name string, ctor base.Constructor, gzip bool) {
	Register(Entry{Key: types.FormatKey{Tag: tag}, Name: name, New: ctor})
	if gzip {
		Register(Entry{Key: types.FormatKey{Tag: tag, Compressed: true}, Name: name, New: ctor, Transparent: true})
	}
}

// Alias registers every entry of the target extension under alias as well.
func Alias(alias, target string) error {
	alias, target = strings.ToLower(alias), strings.ToLower(target)

	mu.Lock()
	defer mu.Unlock()

	found := false
	for _, compressed := range []bool{false, true} {
		e, ok := entries[types.FormatKey{Ext: target, Compressed: compressed}]
		if !ok {
			continue
		}
		e.Key = types.FormatKey{Ext: alias, Compressed: compressed}
		entries[e.Key] = e
		found = true
	}
	if !found {
		return fmt.Errorf("alias %q: no format registered for extension %q", alias, target)
	}
	return nil
}

// Get returns the entry registered for key.
func Get(key types.FormatKey) (Entry, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := entries[normalize(key)]
	return e, ok
}

// Resolve finds the handler for path. Compression is inferred from the path
// suffix. With a hint, the hint is looked up first as a tag and then as an
// extension; otherwise the extension candidates of the file name are tried,
// longest first.
func Resolve(path, hint string) (Entry, error) {
	compressed := types.DetectCodec(path) != types.CodecNone

	mu.RLock()
	defer mu.RUnlock()

	if hint != "" {
		h := strings.ToLower(hint)
		for _, key := range []types.FormatKey{
			{Tag: h, Compressed: compressed},
			{Ext: h, Compressed: compressed},
		} {
			if e, ok := entries[key]; ok {
				return e, nil
			}
		}
		return Entry{}, &types.UnknownFormatError{
			Path:   path,
			Hint:   hint,
			Reason: fmt.Sprintf("no handler registered for format %q (compressed=%v)", hint, compressed),
		}
	}

	candidates := types.Candidates(path)
	for _, ext := range candidates {
		if e, ok := entries[types.FormatKey{Ext: ext, Compressed: compressed}]; ok {
			return e, nil
		}
	}

	return Entry{}, &types.UnknownFormatError{
		Path:   path,
		Reason: fmt.Sprintf("no handler registered for %v (compressed=%v)", candidates, compressed),
	}
}

// Keys returns the registered keys, sorted.
func Keys() []types.FormatKey {
	mu.RLock()
	keys := make([]types.FormatKey, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	mu.RUnlock()

	slices.SortFunc(keys, func(a, b types.FormatKey) int {
		if c := strings.Compare(a.Tag+"\x00"+a.Ext, b.Tag+"\x00"+b.Ext); c != 0 {
			return c
		}
		switch {
		case a.Compressed == b.Compressed:
			return 0
		case b.Compressed:
			return -1
		default:
			return 1
		}
	})
	return keys
}

// Unregister removes the entry for key. It exists for tests that register
// throwaway handlers.
func Unregister(key types.FormatKey) {
	mu.Lock()
	delete(entries, normalize(key))
	mu.Unlock()
}

func normalize(k types.FormatKey) types.FormatKey {
	k.Ext = strings.ToLower(k.Ext)
	k.Tag = strings.ToLower(k.Tag)
	return k
}
