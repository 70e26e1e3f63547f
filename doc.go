// Package sile reads output files of electronic-structure and tight-binding
// codes into typed records.
//
// Every supported file kind is handled by a Sile: a format-specific handler
// bound to one open file. Handlers are found through a registry keyed by
// file extension (or an explicit format tag) and compression, so callers
// never name a concrete type.
//
// # Quick Start
//
// Reading the timing table of a Siesta run:
//
//	s, err := sile.Open("out/siesta.TIMES")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
//
//	rec, err := sile.ReadData(s)
//	if err != nil {
//		log.Fatal(err)
//	}
//	rec.WriteTSV(os.Stdout)
//
// # Supported Formats
//
//   - Siesta TIMES (TIMES, <label>.times): per-routine timings
//   - DFTB+ overreal.dat: real overlap matrix
//   - DFTB+ hamreal<spin>.dat: real Hamiltonian in eV
//
// All of them are also read gzip (.gz) or Zstandard (.zst) compressed.
//
// # Info Attributes
//
// Scalar metadata from a file header ("Number of nodes = 4") is exposed as
// info attributes. They are matched by regular expression the first time
// they are asked for and cached for the lifetime of the handler:
//
//	procs, err := s.Info("processors")
//
// Attributes must be requested in the order they appear in the file. An
// optional attribute that is absent yields its declared default and a
// warning on the handler; a required one yields MissingAttributeError.
//
// # Scoped Use
//
// With opens a file, runs a function and closes the file on every exit
// path, including panics:
//
//	err := sile.With("TIMES", func(s sile.Sile) error {
//		rec, err := sile.ReadData(s)
//		...
//	})
//
// # Error Handling
//
// sile distinguishes between fatal errors and warnings:
//
//   - Fatal errors stop the read (file not found, unknown format, a header
//     value that matched but could not be parsed, a malformed table row)
//   - Warnings record substitutions and skipped content
//
// Use errors.As with the exported error types to inspect failures.
// WithStrict turns every warning into an error.
//
// # Extending
//
// New formats register a Constructor with AddFormat, normally from an init
// function. A later registration for the same key replaces the earlier one.
package sile
