package sile

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/sile/internal/base"
	"github.com/simonhull/sile/internal/registry"
	"github.com/simonhull/sile/internal/textio"
	"github.com/simonhull/sile/internal/types"
)

// Sile is a format-specific handler bound to one open file.
//
// Always call Close() when done to release the file:
//
//	s, err := sile.Open("TIMES")
//	if err != nil {
//		return err
//	}
//	defer s.Close()
type Sile = base.Sile

// DataReader is implemented by handlers that produce a tabular Record.
type DataReader = base.DataReader

// OverlapReader is implemented by handlers that produce an overlap matrix.
type OverlapReader = base.OverlapReader

// HamiltonianReader is implemented by handlers that produce a Hamiltonian.
type HamiltonianReader = base.HamiltonianReader

// Record is an alias to types.Record.
type Record = types.Record

// OrbitalMatrix is an alias to types.OrbitalMatrix.
type OrbitalMatrix = types.OrbitalMatrix

// Open resolves the handler for path and opens the file.
//
// The handler is chosen from the file name (extension, case-insensitive,
// .gz and .zst stripped) or from WithFormat. Compressed files are
// decompressed transparently for formats that allow it.
//
// Open reads nothing beyond what the decompressor needs; info attributes
// and record bodies are parsed on demand.
//
// Example:
//
//	s, err := sile.Open("siesta.times.gz")
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//	procs, err := s.Info("processors")
func Open(path string, opts ...Option) (Sile, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	e, err := registry.Resolve(path, options.format)
	if err != nil {
		return nil, err
	}

	codec := types.CodecNone
	if e.Transparent && options.decompress {
		codec = types.DetectCodec(path)
	}

	h, err := textio.Open(path, codec)
	if err != nil {
		return nil, err
	}

	s, err := e.New(base.New(h, e.Key, e.Name, base.Options{
		Logger: options.logger,
		Strict: options.strict,
	}))
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("open %s: %w", e.Name, err)
	}
	return s, nil
}

// OpenContext opens a file with context support for cancellation.
//
// The context is checked before the file is opened; reads that follow
// are not interruptible.
func OpenContext(ctx context.Context, path string, opts ...Option) (Sile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// With opens path, calls fn with the handler and closes it when fn
// returns, fails or panics. A close error is reported only if fn
// succeeded.
//
//	err := sile.With("TIMES", func(s sile.Sile) error {
//		rec, err := sile.ReadData(s)
//		if err != nil {
//			return err
//		}
//		return rec.WriteTSV(os.Stdout)
//	})
func With(path string, fn func(Sile) error, opts ...Option) (err error) {
	s, err := Open(path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}

// OpenMany opens multiple files concurrently.
//
// Files are opened in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. The same
// options apply to every file.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	siles, err := sile.OpenMany(ctx, paths, sile.WithStrict())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, s := range siles {
//			s.Close()
//		}
//	}()
func OpenMany(ctx context.Context, paths []string, opts ...Option) ([]Sile, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]Sile, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			s, err := OpenContext(ctx, path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, s := range results {
			if s != nil {
				s.Close()
			}
		}
		return nil, err
	}

	return results, nil
}

// ReadData reads the tabular record of s. It returns UnsupportedReadError
// if the format has none.
func ReadData(s Sile) (*Record, error) {
	r, ok := s.(DataReader)
	if !ok {
		return nil, &UnsupportedReadError{Format: s.Format(), What: "data"}
	}
	return r.ReadData()
}

// ReadOverlap reads the overlap matrix of s. It returns
// UnsupportedReadError if the format has none.
func ReadOverlap(s Sile) (*OrbitalMatrix, error) {
	r, ok := s.(OverlapReader)
	if !ok {
		return nil, &UnsupportedReadError{Format: s.Format(), What: "overlap"}
	}
	return r.ReadOverlap()
}

// ReadHamiltonian reads the Hamiltonian of s. It returns
// UnsupportedReadError if the format has none.
func ReadHamiltonian(s Sile) (*OrbitalMatrix, error) {
	r, ok := s.(HamiltonianReader)
	if !ok {
		return nil, &UnsupportedReadError{Format: s.Format(), What: "hamiltonian"}
	}
	return r.ReadHamiltonian()
}
