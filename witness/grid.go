// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package witness

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Grid is the witness table produced by one synthesis run. Advice cells,
// selector activations, copy constraints and region placements are recorded
// through the setters as the run progresses; once the run returns, the grid
// must be treated as read-only.
//
// Rows grow on demand. Cells that were never assigned read as zero; the
// assignment bitmaps keep track of which cells were actually written.
type Grid struct {
	field  *big.Int
	nbRows int

	advice    [][]big.Int      // advice[col][row], grown per column on demand
	assigned  []*bitset.BitSet // assigned[col].Test(row) <=> advice cell written
	selectors []*bitset.BitSet // selectors[col].Test(row) <=> selector active

	copies  []Copy
	regions []Region

	shapeOnly bool
}

// NewGrid returns an empty grid over the given field, with one value column
// per advice column and one bitmap per selector column of the shape it is
// meant to instantiate.
func NewGrid(field *big.Int, nbAdvice, nbSelector int) *Grid {
	g := &Grid{
		field:     new(big.Int).Set(field),
		advice:    make([][]big.Int, nbAdvice),
		assigned:  make([]*bitset.BitSet, nbAdvice),
		selectors: make([]*bitset.BitSet, nbSelector),
	}
	for i := range g.assigned {
		g.assigned[i] = bitset.New(0)
	}
	for i := range g.selectors {
		g.selectors[i] = bitset.New(0)
	}
	return g
}

// NewShapeOnlyGrid returns a grid that records the layout of a run (regions,
// selectors, copies, which cells are assigned) but stores no advice values.
// See frontend.WithShapeOnly.
func NewShapeOnlyGrid(field *big.Int, nbAdvice, nbSelector int) *Grid {
	g := NewGrid(field, nbAdvice, nbSelector)
	g.shapeOnly = true
	return g
}

// Field returns a copy of the grid modulus.
func (g *Grid) Field() *big.Int {
	return new(big.Int).Set(g.field)
}

// NbRows returns the height of the grid; one past the highest row touched by
// an assignment, a selector activation, a region or Grow.
func (g *Grid) NbRows() int { return g.nbRows }

// NbAdvice returns the number of advice columns.
func (g *Grid) NbAdvice() int { return len(g.advice) }

// NbSelectors returns the number of selector columns.
func (g *Grid) NbSelectors() int { return len(g.selectors) }

// ShapeOnly reports whether the grid records layout without advice values.
func (g *Grid) ShapeOnly() bool { return g.shapeOnly }

// Grow extends the grid height to at least nbRows. Rows added this way hold
// unassigned zero cells and inactive selectors.
func (g *Grid) Grow(nbRows int) {
	if nbRows > g.nbRows {
		g.nbRows = nbRows
	}
}

// SetAdvice stores v reduced modulo the field in the advice column col at
// the given absolute row. Assigning the same cell twice fails with
// ErrOverlappingAssignment and keeps the first value.
func (g *Grid) SetAdvice(col, row int, v *big.Int) error {
	if col < 0 || col >= len(g.advice) {
		return fmt.Errorf("advice column %d out of range (grid has %d)", col, len(g.advice))
	}
	if row < 0 {
		return fmt.Errorf("negative row %d in advice column %d", row, col)
	}
	if g.assigned[col].Test(uint(row)) {
		return fmt.Errorf("%w: advice[%d] at row %d", ErrOverlappingAssignment, col, row)
	}
	g.assigned[col].Set(uint(row))
	g.Grow(row + 1)
	if g.shapeOnly {
		return nil
	}
	for len(g.advice[col]) <= row {
		g.advice[col] = append(g.advice[col], big.Int{})
	}
	g.advice[col][row].Mod(v, g.field)
	return nil
}

// Advice returns a copy of the value in advice column col at the given row.
// Cells that were never assigned, including rows past the column's last
// write, read as zero.
func (g *Grid) Advice(col, row int) *big.Int {
	v := new(big.Int)
	if col < 0 || col >= len(g.advice) || row < 0 || row >= len(g.advice[col]) {
		return v
	}
	return v.Set(&g.advice[col][row])
}

// IsAssigned reports whether the advice cell (col, row) was written.
func (g *Grid) IsAssigned(col, row int) bool {
	if col < 0 || col >= len(g.assigned) || row < 0 {
		return false
	}
	return g.assigned[col].Test(uint(row))
}

// EnableSelector switches the selector column sel on at the given row.
// Enabling an already active selector is a no-op.
func (g *Grid) EnableSelector(sel, row int) error {
	if sel < 0 || sel >= len(g.selectors) {
		return fmt.Errorf("selector column %d out of range (grid has %d)", sel, len(g.selectors))
	}
	if row < 0 {
		return fmt.Errorf("negative row %d in selector column %d", row, sel)
	}
	g.selectors[sel].Set(uint(row))
	g.Grow(row + 1)
	return nil
}

// IsSelectorEnabled reports whether selector column sel is active at the
// given row.
func (g *Grid) IsSelectorEnabled(sel, row int) bool {
	if sel < 0 || sel >= len(g.selectors) || row < 0 {
		return false
	}
	return g.selectors[sel].Test(uint(row))
}

// AddCopy records the equality constraint a == b. Constraints are kept in
// creation order.
func (g *Grid) AddCopy(a, b Cell) {
	g.copies = append(g.copies, Copy{A: a, B: b})
}

// Copies returns the recorded copy constraints in creation order. The
// returned slice is owned by the grid.
func (g *Grid) Copies() []Copy { return g.copies }

// AddRegion appends a region placement record and grows the grid to cover
// it. Regions are placed by a monotonically advancing cursor, so starts
// arrive in increasing order.
func (g *Grid) AddRegion(name string, start, nbRows int) {
	g.regions = append(g.regions, Region{Name: name, Start: start, NbRows: nbRows})
	g.Grow(start + nbRows)
}

// Regions returns the region placements in layout order. The returned slice
// is owned by the grid.
func (g *Grid) Regions() []Region { return g.regions }

// RegionAt returns the region covering the given row, for diagnostics. The
// second return value is false for rows outside every region.
func (g *Grid) RegionAt(row int) (Region, bool) {
	// starts are sorted; find the last region starting at or before row
	i := sort.Search(len(g.regions), func(i int) bool { return g.regions[i].Start > row }) - 1
	if i < 0 {
		return Region{}, false
	}
	if r := g.regions[i]; row < r.Start+r.NbRows {
		return r, true
	}
	return Region{}, false
}
