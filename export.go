package sile

import (
	"bytes"
	"fmt"

	"github.com/natefinch/atomic"
)

// SaveRecord writes rec to path as tab-separated text.
//
// This is an atomic operation: the data goes to a temporary file in the
// same directory which then replaces path. If any step fails, an existing
// file at path remains unchanged.
func SaveRecord(path string, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := rec.WriteTSV(&buf); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return &IOError{Path: path, Op: "write", Err: err}
	}
	return nil
}
