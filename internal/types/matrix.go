package types

// Element is one stored entry of a sparse orbital matrix.
//
// Row is an orbital in the unit cell, Col an orbital of the neighbouring
// image at supercell offset Cell.
type Element struct {
	Row   int
	Col   int
	Cell  [3]int
	Value float64
}

// OrbitalMatrix is a sparse matrix over atomic orbitals, as written by
// tight-binding codes for overlap and Hamiltonian matrices.
type OrbitalMatrix struct {
	// Unit of the values ("" for the dimensionless overlap, "eV" otherwise)
	Unit string

	// Orbitals holds the number of orbitals on each atom
	Orbitals []int

	// Elements in file order
	Elements []Element

	// Atoms is the number of atoms in the unit cell
	Atoms int

	// Spin channel for Hamiltonians (1-based, 0 for overlap)
	Spin int
}

// NumOrbitals returns the total number of orbitals in the unit cell.
func (m *OrbitalMatrix) NumOrbitals() int {
	n := 0
	for _, o := range m.Orbitals {
		n += o
	}
	return n
}

// NNZ returns the number of stored elements.
func (m *OrbitalMatrix) NNZ() int {
	return len(m.Elements)
}

// Offsets returns the index of the first orbital of each atom.
func (m *OrbitalMatrix) Offsets() []int {
	off := make([]int, len(m.Orbitals))
	n := 0
	for i, o := range m.Orbitals {
		off[i] = n
		n += o
	}
	return off
}

// Values returns the stored values in file order.
func (m *OrbitalMatrix) Values() []float64 {
	v := make([]float64, len(m.Elements))
	for i, e := range m.Elements {
		v[i] = e.Value
	}
	return v
}

// Dense returns the unit-cell (Cell == 0) block as a dense square matrix.
func (m *OrbitalMatrix) Dense() [][]float64 {
	n := m.NumOrbitals()
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for _, e := range m.Elements {
		if e.Cell == [3]int{} {
			d[e.Row][e.Col] += e.Value
		}
	}
	return d
}
