package sile

// Built-in formats register themselves on import.
import (
	_ "github.com/simonhull/sile/internal/dftb"
	_ "github.com/simonhull/sile/internal/siesta"
)
