package sile_test

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/sile"
)

const timesFile = `
timer: Number of nodes                      =      4
timer: Number of threads per node           =      2
timer: Busiest calculating node was node    =      1
timer: Times refer to node                  =      1
timer: Total elapsed wall-clock time (sec)  =     12.500
timer: CPU times (sec):
  Total cpu time      =     45.200
  Average cpu time    =     11.300
  Max cpu time        =     12.400

  Program        Calls   Prg.com   Prg.com   Prg.tot   Prg.tot   Nod.avg   Nod.max
                         (sec)     (%)       (sec)     (%)       (sec)     (sec)
  siesta             1     0.002     0.00    12.500    100.00    12.400    12.500
  hop               10     0.010     0.08     0.450      3.60     0.020     0.030
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpen_Times(t *testing.T) {
	path := writeFile(t, "siesta.TIMES", []byte(timesFile))

	s, err := sile.Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "siesta.times", s.Format())
	assert.Equal(t, path, s.Path())

	procs, err := s.Info("processors")
	require.NoError(t, err)
	assert.Equal(t, int64(4), procs)

	rec, err := sile.ReadData(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"siesta", "hop"}, rec.Keys)

	_, err = sile.ReadOverlap(s)
	var unsupported *sile.UnsupportedReadError
	require.True(t, errors.As(err, &unsupported), "got %v", err)
	assert.Equal(t, "overlap", unsupported.What)
}

func TestOpen_Zstd(t *testing.T) {
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = zw.Write([]byte(timesFile))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := writeFile(t, "TIMES.zst", buf.Bytes())
	err = sile.With(path, func(s sile.Sile) error {
		assert.True(t, s.Key().Compressed)
		rec, err := sile.ReadData(s)
		if err != nil {
			return err
		}
		assert.Equal(t, 2, rec.Len())
		return nil
	})
	require.NoError(t, err)
}

func TestOpen_FileNotFound(t *testing.T) {
	_, err := sile.Open(filepath.Join(t.TempDir(), "TIMES"))

	var ioErr *sile.IOError
	require.True(t, errors.As(err, &ioErr), "got %T", err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestOpen_UnknownFormat(t *testing.T) {
	path := writeFile(t, "notes.xyz", []byte("not a simulation output"))

	_, err := sile.Open(path)
	var unknown *sile.UnknownFormatError
	assert.True(t, errors.As(err, &unknown), "got %T", err)

	_, err = sile.Open(path, sile.WithFormat("no-such-format"))
	assert.True(t, errors.As(err, &unknown), "got %T", err)
}

func TestOpen_WithFormat(t *testing.T) {
	path := writeFile(t, "run42.log", []byte(timesFile))

	s, err := sile.Open(path, sile.WithFormat("siesta.times"))
	require.NoError(t, err)
	defer s.Close()

	threads, err := s.Info("threads")
	require.NoError(t, err)
	assert.Equal(t, int64(2), threads)
}

func TestOpen_Strict(t *testing.T) {
	text := strings.Replace(timesFile, "timer: Number of threads per node           =      2\n", "", 1)
	path := writeFile(t, "TIMES", []byte(text))

	// Lenient: default threads and one warning.
	s, err := sile.Open(path)
	require.NoError(t, err)
	_, err = sile.ReadData(s)
	require.NoError(t, err)
	assert.Len(t, s.Warnings(), 1)
	s.Close()

	// Strict: the same substitution fails the read.
	s, err = sile.Open(path, sile.WithStrict())
	require.NoError(t, err)
	defer s.Close()
	_, err = sile.ReadData(s)
	assert.Error(t, err)
}

func TestOpen_Logger(t *testing.T) {
	text := strings.Replace(timesFile, "timer: Number of threads per node           =      2\n", "", 1)
	path := writeFile(t, "TIMES", []byte(text))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo}))

	err := sile.With(path, func(s sile.Sile) error {
		_, err := sile.ReadData(s)
		return err
	}, sile.WithLogger(logger))
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "threads")
	assert.Contains(t, out, "format=siesta.times")
	assert.Equal(t, 1, strings.Count(out, "level=INFO"))
}

func TestWith_ClosesOnError(t *testing.T) {
	path := writeFile(t, "TIMES", []byte(timesFile))
	boom := errors.New("boom")

	var kept sile.Sile
	err := sile.With(path, func(s sile.Sile) error {
		kept = s
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = kept.Info("processors")
	assert.ErrorIs(t, err, fs.ErrClosed)
}

func TestWith_ClosesOnPanic(t *testing.T) {
	path := writeFile(t, "TIMES", []byte(timesFile))

	var kept sile.Sile
	assert.Panics(t, func() {
		_ = sile.With(path, func(s sile.Sile) error {
			kept = s
			panic("reader bug")
		})
	})

	_, err := kept.Info("processors")
	assert.ErrorIs(t, err, fs.ErrClosed)
}

// countingSile reports which registration produced it.
type countingSile struct {
	*sile.Base
	generation int
}

func TestAddFormat_Overrides(t *testing.T) {
	path := writeFile(t, "out.override-test", []byte("x\n"))

	sile.AddFormat("override-test", "first", func(b *sile.Base) (sile.Sile, error) {
		return &countingSile{Base: b, generation: 1}, nil
	}, false)
	sile.AddFormat("override-test", "second", func(b *sile.Base) (sile.Sile, error) {
		return &countingSile{Base: b, generation: 2}, nil
	}, false)

	s, err := sile.Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "second", s.Format())
	assert.Equal(t, 2, s.(*countingSile).generation)

	key, err := sile.Lookup(path, "")
	require.NoError(t, err)
	assert.Equal(t, sile.FormatKey{Ext: "override-test"}, key)
	assert.Contains(t, sile.Formats(), key)
}

func TestOpen_ConstructorFailureReleasesHandle(t *testing.T) {
	path := writeFile(t, "out.ctor-fail", []byte("x\n"))
	boom := errors.New("bad header")

	var b *sile.Base
	sile.AddFormat("ctor-fail", "ctor-fail", func(base *sile.Base) (sile.Sile, error) {
		b = base
		return nil, boom
	}, false)

	_, err := sile.Open(path)
	require.ErrorIs(t, err, boom)
	require.NotNil(t, b)
	assert.True(t, b.Handle().Closed())
}

func TestBuiltinFormats(t *testing.T) {
	keys := sile.Formats()
	for _, want := range []sile.FormatKey{
		{Ext: "times"},
		{Ext: "times", Compressed: true},
		{Ext: "overreal.dat"},
		{Ext: "hamreal1.dat", Compressed: true},
		{Tag: "siesta.times"},
		{Tag: "dftb.hamreal"},
	} {
		assert.Contains(t, keys, want)
	}
}

func TestGetVersionInfo(t *testing.T) {
	info := sile.GetVersionInfo()
	assert.Equal(t, sile.Version, info.Version)
	assert.Equal(t, sile.Version, sile.GetVersion())
	assert.NotEmpty(t, info.GoVersion)
	assert.Equal(t, "unknown", info.GitCommit)
	assert.Equal(t, "unknown", info.BuildTime)
}
