// Package dftb reads real sparse matrices written by DFTB+ (overreal.dat,
// hamreal<spin>.dat).
//
// The files list the atoms with their orbital counts, followed by one block
// per neighbour pair:
//
//	#	NATOM
//		     3
//	#	IATOM	NNEIGH	NORB
//		     1	     3	     4
//	...
//	#	IATOM1	INEIGH	IATOM2F	ICELL(1)	ICELL(2)	ICELL(3)
//		     1	     0	     1	     0	     0	     0
//	#	MATRIX
//	  <NORB(IATOM1) lines of NORB(IATOM2F) values>
package dftb

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/simonhull/sile/internal/base"
	"github.com/simonhull/sile/internal/info"
	"github.com/simonhull/sile/internal/registry"
	"github.com/simonhull/sile/internal/textio"
	"github.com/simonhull/sile/internal/types"
)

// HartreeEV converts Hartree to electron volts (CODATA 2018).
const HartreeEV = 27.211386245988

// maxAtoms bounds the NATOM header value.
const maxAtoms = math.MaxInt32

var realAttrs = []info.Attr{
	info.New("atoms", `^#\s*NATOM`, info.NextInt),
}

var spinPattern = regexp.MustCompile(`hamreal(\d+)\.dat`)

// overreal implements base.OverlapReader.
type overreal struct {
	*base.Base
}

func newOverreal(b *base.Base) (base.Sile, error) {
	b.Bind(realAttrs)
	return &overreal{Base: b}, nil
}

// ReadOverlap returns the overlap matrix.
func (s *overreal) ReadOverlap() (*types.OrbitalMatrix, error) {
	if err := s.ResolveInfo("atoms"); err != nil {
		return nil, fmt.Errorf("read overlap header: %w", err)
	}
	m, err := parseReal(s.Handle(), s.Attrs(), s.Warn)
	if err != nil {
		return nil, fmt.Errorf("read overlap: %w", err)
	}
	return m, nil
}

// hamreal implements base.HamiltonianReader and base.OverlapReader. The
// overlap is read from overreal.dat next to the Hamiltonian file.
type hamreal struct {
	*base.Base
}

func newHamreal(b *base.Base) (base.Sile, error) {
	b.Bind(realAttrs)
	return &hamreal{Base: b}, nil
}

// ReadHamiltonian returns the Hamiltonian in eV. The spin channel is taken
// from the file name (hamreal2.dat is spin 2) and defaults to 1.
func (s *hamreal) ReadHamiltonian() (*types.OrbitalMatrix, error) {
	if err := s.ResolveInfo("atoms"); err != nil {
		return nil, fmt.Errorf("read hamiltonian header: %w", err)
	}
	m, err := parseReal(s.Handle(), s.Attrs(), s.Warn)
	if err != nil {
		return nil, fmt.Errorf("read hamiltonian: %w", err)
	}

	for i := range m.Elements {
		m.Elements[i].Value *= HartreeEV
	}
	m.Unit = "eV"
	m.Spin = spinOf(s.Path())
	return m, nil
}

// ReadOverlap reads overreal.dat from the Hamiltonian's directory.
func (s *hamreal) ReadOverlap() (*types.OrbitalMatrix, error) {
	codec := s.Handle().Codec()
	path := filepath.Join(filepath.Dir(s.Path()), "overreal.dat"+codec.Extension())

	var m *types.OrbitalMatrix
	err := textio.With(path, codec, func(h *textio.Handle) error {
		attrs := info.NewSet(h, realAttrs, s.Logger(), nil)
		if err := attrs.Resolve("atoms"); err != nil {
			return err
		}
		var err error
		m, err = parseReal(h, attrs, s.Warn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read overlap: %w", err)
	}
	return m, nil
}

func spinOf(path string) int {
	sub := spinPattern.FindStringSubmatch(strings.ToLower(filepath.Base(path)))
	if sub == nil {
		return 1
	}
	n, err := strconv.Atoi(sub[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

type warnFunc func(stage, msg string, line int) error

// parseReal reads the atom table and every neighbour block from the start of
// h. attrs must already be resolved.
func parseReal(h *textio.Handle, attrs *info.Set, warn warnFunc) (*types.OrbitalMatrix, error) {
	natoms, err := info.Value[int64](attrs, "atoms")
	if err != nil {
		return nil, err
	}
	if natoms < 1 || natoms > maxAtoms {
		return nil, &types.MalformedAttributeError{
			Path: h.Path(),
			Name: "atoms",
			Text: strconv.FormatInt(natoms, 10),
			Err:  fmt.Errorf("atom count out of range [1, %d]", maxAtoms),
		}
	}

	found, err := h.StepTo("NNEIGH")
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &types.SectionNotFoundError{Path: h.Path(), Marker: "NNEIGH"}
	}

	// Rows are collected before the orbital table is sized, so a header
	// claiming more atoms than the file holds fails at end of file.
	type atomRow struct{ atom, norb int }
	var rows []atomRow
	for range natoms {
		f, err := intFields(h, 3)
		if err != nil {
			return nil, err
		}
		ia, norb := f[0], f[2]
		if ia < 1 || int64(ia) > natoms || norb < 1 {
			return nil, rowError(h, fmt.Sprintf("atom %d with %d orbitals out of range", ia, norb), nil)
		}
		rows = append(rows, atomRow{atom: ia, norb: norb})
	}

	m := &types.OrbitalMatrix{
		Atoms:    int(natoms),
		Orbitals: make([]int, natoms),
	}
	for _, r := range rows {
		m.Orbitals[r.atom-1] = r.norb
	}
	for ia, norb := range m.Orbitals {
		if norb == 0 {
			return nil, rowError(h, fmt.Sprintf("atom %d missing from orbital table", ia+1), nil)
		}
	}
	offsets := m.Offsets()

	for {
		line, ok, err := h.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.Contains(line, "IATOM1") {
			if err := warn("matrix", fmt.Sprintf("skipping unexpected line %q", line), h.Line()); err != nil {
				return nil, err
			}
			continue
		}

		f, err := intFields(h, 6)
		if err != nil {
			return nil, err
		}
		ia, ja := f[0], f[2]
		if ia < 1 || ia > m.Atoms || ja < 1 || ja > m.Atoms {
			return nil, rowError(h, fmt.Sprintf("atom pair (%d, %d) out of range", ia, ja), nil)
		}
		cell := [3]int{f[3], f[4], f[5]}

		marker, ok, err := h.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok || !strings.Contains(marker, "MATRIX") {
			return nil, rowError(h, "expected MATRIX after block header", nil)
		}

		for i := range m.Orbitals[ia-1] {
			values, err := floatFields(h, m.Orbitals[ja-1])
			if err != nil {
				return nil, err
			}
			for j, v := range values {
				m.Elements = append(m.Elements, types.Element{
					Row:   offsets[ia-1] + i,
					Col:   offsets[ja-1] + j,
					Cell:  cell,
					Value: v,
				})
			}
		}
	}

	return m, nil
}

func nextFields(h *textio.Handle, n int) ([]string, error) {
	line, ok, err := h.ReadLine()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, rowError(h, fmt.Sprintf("unexpected end of file, want %d fields", n), nil)
	}
	f := strings.Fields(line)
	if len(f) < n {
		return nil, rowError(h, fmt.Sprintf("got %d fields, want %d", len(f), n), nil)
	}
	return f[:n], nil
}

func intFields(h *textio.Handle, n int) ([]int, error) {
	f, err := nextFields(h, n)
	if err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i, s := range f {
		if out[i], err = strconv.Atoi(s); err != nil {
			return nil, rowError(h, fmt.Sprintf("integer field %d", i+1), err)
		}
	}
	return out, nil
}

func floatFields(h *textio.Handle, n int) ([]float64, error) {
	f, err := nextFields(h, n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, s := range f {
		if out[i], err = types.ParseDecimal(s); err != nil {
			return nil, rowError(h, fmt.Sprintf("value %d", i+1), err)
		}
	}
	return out, nil
}

func rowError(h *textio.Handle, reason string, err error) error {
	return &types.MalformedRowError{Path: h.Path(), Line: h.Line(), Reason: reason, Err: err}
}

func init() {
	registry.Add("overreal.dat", "dftb.overreal", newOverreal, true)
	for spin := 1; spin <= 4; spin++ {
		registry.Add(fmt.Sprintf("hamreal%d.dat", spin), "dftb.hamreal", newHamreal, true)
	}
	registry.AddTag("dftb.overreal", "dftb.overreal", newOverreal, true)
	registry.AddTag("dftb.hamreal", "dftb.hamreal", newHamreal, true)
}
