package sile_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/simonhull/sile"
)

func TestOpenMany(t *testing.T) {
	paths := []string{
		writeFile(t, "a.times", []byte(timesFile)),
		writeFile(t, "TIMES", []byte(timesFile)),
		writeFile(t, "b.times", []byte(timesFile)),
	}

	siles, err := sile.OpenMany(context.Background(), paths)
	if err != nil {
		t.Fatalf("OpenMany() error = %v", err)
	}
	defer func() {
		for _, s := range siles {
			s.Close()
		}
	}()

	if len(siles) != len(paths) {
		t.Fatalf("got %d siles, want %d", len(siles), len(paths))
	}
	for i, s := range siles {
		if s.Path() != paths[i] {
			t.Errorf("siles[%d].Path() = %q, want %q (order must be preserved)", i, s.Path(), paths[i])
		}
	}
}

func TestOpenMany_Empty(t *testing.T) {
	siles, err := sile.OpenMany(context.Background(), nil)
	if err != nil || siles != nil {
		t.Errorf("OpenMany(nil) = %v, %v; want nil, nil", siles, err)
	}
}

// TestOpenMany_Cancellation verifies that cancelled operations clean up resources
func TestOpenMany_Cancellation(t *testing.T) {
	paths := make([]string, 5)
	for i := range paths {
		paths[i] = writeFile(t, "TIMES", []byte(timesFile))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	siles, err := sile.OpenMany(ctx, paths)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if siles != nil {
		t.Error("expected nil siles on error")
	}
}

// TestOpenMany_PartialFailure verifies cleanup on partial failure
func TestOpenMany_PartialFailure(t *testing.T) {
	validPath := writeFile(t, "TIMES", []byte(timesFile))

	paths := []string{
		validPath,
		filepath.Join(t.TempDir(), "missing", "TIMES"),
		validPath,
	}

	siles, err := sile.OpenMany(context.Background(), paths)
	if err == nil {
		t.Fatal("expected error from nonexistent file")
	}

	// All or nothing
	if siles != nil {
		t.Error("expected nil siles on partial failure")
	}
}
