// Package textio provides a scoped, line-oriented handle over text files,
// with transparent gzip and zstd decompression.
package textio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/simonhull/sile/internal/types"
)

// Handle wraps a seekable stream with line reading and marker search.
//
// A Handle is owned by a single reader and is not safe for concurrent use.
// Open independent handles on the same path for concurrent access.
type Handle struct {
	src    io.ReadSeeker
	closer io.Closer // underlying file, nil for caller-owned streams
	dec    io.Closer // active decompressor, if any
	r      *bufio.Reader
	peeked *string
	path   string
	codec  types.Codec
	line   int
	reads  int
	closed bool
}

// Open opens path for reading, decompressing it with codec.
//
// Missing files and permission errors are reported as *types.IOError,
// which unwraps to the underlying fs error.
func Open(path string, codec types.Codec) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.IOError{Path: path, Op: "open", Err: err}
	}

	h := &Handle{src: f, closer: f, path: path, codec: codec}
	if err := h.reset(); err != nil {
		f.Close()
		return nil, err
	}
	return h, nil
}

// New wraps an already open stream. Closing the handle does not close rs.
func New(rs io.ReadSeeker, name string, codec types.Codec) (*Handle, error) {
	h := &Handle{src: rs, path: name, codec: codec}
	if err := h.reset(); err != nil {
		return nil, err
	}
	return h, nil
}

// With opens path, runs fn with the handle and closes the handle on every
// exit path, including a panic in fn. An error from fn takes precedence
// over a close error.
func With(path string, codec types.Codec, fn func(*Handle) error) (err error) {
	h, err := Open(path, codec)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := h.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(h)
}

// Path returns the name the handle was opened with.
func (h *Handle) Path() string {
	return h.path
}

// Codec returns the decompression codec in use.
func (h *Handle) Codec() types.Codec {
	return h.codec
}

// Line returns the number of lines consumed since the start of the stream.
func (h *Handle) Line() int {
	return h.line
}

// Reads returns the number of physical line reads performed, including
// reads repeated after a rewind.
func (h *Handle) Reads() int {
	return h.reads
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	return h.closed
}

// ReadLine consumes and returns the next line without its line terminator.
// At end of stream it returns ok == false and a nil error.
func (h *Handle) ReadLine() (line string, ok bool, err error) {
	if h.closed {
		return "", false, &types.IOError{Path: h.path, Op: "read", Err: os.ErrClosed}
	}
	if h.peeked != nil {
		line = *h.peeked
		h.peeked = nil
		h.line++
		return line, true, nil
	}

	line, ok, err = h.next()
	if ok {
		h.line++
	}
	return line, ok, err
}

// Peek returns the next line without consuming it.
func (h *Handle) Peek() (string, bool, error) {
	if h.closed {
		return "", false, &types.IOError{Path: h.path, Op: "read", Err: os.ErrClosed}
	}
	if h.peeked != nil {
		return *h.peeked, true, nil
	}
	line, ok, err := h.next()
	if !ok || err != nil {
		return "", false, err
	}
	h.peeked = &line
	return line, true, nil
}

// Skip consumes up to n lines. Reaching end of stream early is not an error.
func (h *Handle) Skip(n int) error {
	for range n {
		_, ok, err := h.ReadLine()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return nil
}

// StepTo consumes lines until one containing marker has been consumed.
// It reports whether the marker was found before end of stream.
func (h *Handle) StepTo(marker string) (bool, error) {
	for {
		line, ok, err := h.ReadLine()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
		if strings.Contains(line, marker) {
			return true, nil
		}
	}
}

// Rewind resets the handle to the start of the stream.
func (h *Handle) Rewind() error {
	if h.closed {
		return &types.IOError{Path: h.path, Op: "rewind", Err: os.ErrClosed}
	}
	return h.reset()
}

// SeekLine positions the handle so that n lines have been consumed.
func (h *Handle) SeekLine(n int) error {
	if n == h.line && h.peeked == nil {
		return nil
	}
	if err := h.Rewind(); err != nil {
		return err
	}
	return h.Skip(n)
}

// Close releases the decompressor and the underlying file. It is safe to
// call more than once; only the first call closes the stream.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.peeked = nil

	var errs []error
	if h.dec != nil {
		errs = append(errs, h.dec.Close())
		h.dec = nil
	}
	if h.closer != nil {
		if err := h.closer.Close(); err != nil {
			errs = append(errs, &types.IOError{Path: h.path, Op: "close", Err: err})
		}
	}
	return errors.Join(errs...)
}

func (h *Handle) next() (string, bool, error) {
	s, err := h.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", false, &types.IOError{Path: h.path, Op: "read", Err: err}
	}
	if err == io.EOF && s == "" {
		return "", false, nil
	}
	h.reads++
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, true, nil
}

// reset seeks the source to the start and rebuilds the decoder chain.
func (h *Handle) reset() error {
	if _, err := h.src.Seek(0, io.SeekStart); err != nil {
		return &types.IOError{Path: h.path, Op: "rewind", Err: err}
	}
	if h.dec != nil {
		h.dec.Close()
		h.dec = nil
	}

	var r io.Reader = h.src
	switch h.codec {
	case types.CodecGzip:
		zr, err := gzip.NewReader(h.src)
		if err != nil {
			return &types.IOError{Path: h.path, Op: "open", Err: fmt.Errorf("gzip: %w", err)}
		}
		h.dec = zr
		r = zr
	case types.CodecZstd:
		zr, err := zstd.NewReader(h.src)
		if err != nil {
			return &types.IOError{Path: h.path, Op: "open", Err: fmt.Errorf("zstd: %w", err)}
		}
		rc := zr.IOReadCloser()
		h.dec = rc
		r = rc
	case types.CodecNone:
	default:
		return &types.IOError{Path: h.path, Op: "open", Err: fmt.Errorf("unsupported codec %s", h.codec)}
	}

	if h.r == nil {
		h.r = bufio.NewReader(r)
	} else {
		h.r.Reset(r)
	}
	h.peeked = nil
	h.line = 0
	return nil
}
