// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package frontend

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/witness"
)

// ErrEqualityNotEnabled is returned when a copy constraint involves a column
// that was not equality-enabled in the shape.
var ErrEqualityNotEnabled = errors.New("equality not enabled")

// Layouter places regions on the grid and binds assigned cells to public
// inputs. Regions are placed by a monotonically advancing cursor: each
// region occupies the rows immediately after the previous one, so no two
// regions ever overlap and a region's relative rows map to absolute rows by
// a simple offset.
type Layouter interface {
	// AssignRegion opens a region at the next unused rows and runs fn with
	// a Region handle scoped to it. name is a diagnostic label carried into
	// verifier reports.
	AssignRegion(name string, fn func(Region) error) error

	// ConstrainInstance records a copy constraint between an assigned cell
	// and the instance cell (column, row). Both columns must be
	// equality-enabled.
	ConstrainInstance(cell AssignedCell, column constraint.Column, row int) error

	// Namespace returns a layouter that prefixes region names with name,
	// for diagnostics. It shares the row cursor with its parent.
	Namespace(name string) Layouter
}

// Region is the assignment surface handed to AssignRegion closures. All row
// arguments are offsets relative to the region start.
type Region interface {
	// AssignAdvice evaluates fn and stores the result in the advice column
	// at the given offset.
	AssignAdvice(column constraint.Column, offset int, fn func() Value) (AssignedCell, error)

	// AssignAdviceFromInstance copies the public value at (instance, row)
	// into the advice column at the given offset and records the equality
	// between the two cells.
	AssignAdviceFromInstance(instance constraint.Column, row int, advice constraint.Column, offset int) (AssignedCell, error)

	// CopyAdvice assigns cell's value to the advice column at the given
	// offset and records the equality between the source and the new cell.
	CopyAdvice(cell AssignedCell, column constraint.Column, offset int) (AssignedCell, error)

	// ConstrainEqual records an equality constraint between two previously
	// assigned cells.
	ConstrainEqual(a, b AssignedCell) error

	// EnableSelector activates the selector column at the given offset.
	EnableSelector(column constraint.Column, offset int) error
}

// AssignedCell is the receipt for one cell assignment: the cell's absolute
// position and the value it was assigned, for use in later value closures
// and copy constraints.
type AssignedCell struct {
	cell  witness.Cell
	value Value
}

// Cell returns the absolute position of the assigned cell.
func (c AssignedCell) Cell() witness.Cell { return c.cell }

// Value returns the value the cell was assigned; Unknown in shape-only runs.
func (c AssignedCell) Value() Value { return c.value }

func (c AssignedCell) String() string {
	return fmt.Sprintf("%s = %s", c.cell, c.value)
}

// layoutState is the per-run state shared by a layouter and all the
// namespaces derived from it.
type layoutState struct {
	cs        *constraint.System
	field     *big.Int
	grid      *witness.Grid
	instances *witness.Instances
	cursor    int // next free absolute row
}

// checkColumn rejects columns of the wrong kind and columns the shape never
// declared.
func (s *layoutState) checkColumn(column constraint.Column, kind constraint.ColumnKind) error {
	if column.Kind != kind {
		return fmt.Errorf("expected %s column, got %s", kind, column)
	}
	var nb int
	switch kind {
	case constraint.Advice:
		nb = s.cs.NbAdvice
	case constraint.Instance:
		nb = s.cs.NbInstance
	case constraint.Selector:
		nb = s.cs.NbSelector
	}
	if column.Index < 0 || column.Index >= nb {
		return fmt.Errorf("%w: %s", constraint.ErrUndeclaredColumn, column)
	}
	return nil
}

func (s *layoutState) checkEquality(column constraint.Column) error {
	if !s.cs.IsEqualityEnabled(column) {
		return fmt.Errorf("%w: %s", ErrEqualityNotEnabled, column)
	}
	return nil
}

type layouter struct {
	state *layoutState
	scope string
}

func (l *layouter) AssignRegion(name string, fn func(Region) error) error {
	if l.scope != "" {
		name = l.scope + "/" + name
	}
	r := &region{state: l.state, start: l.state.cursor}
	if err := fn(r); err != nil {
		return fmt.Errorf("region %q: %w", name, err)
	}
	l.state.grid.AddRegion(name, r.start, r.nbRows)
	l.state.cursor = r.start + r.nbRows
	return nil
}

func (l *layouter) ConstrainInstance(cell AssignedCell, column constraint.Column, row int) error {
	if err := l.state.checkColumn(column, constraint.Instance); err != nil {
		return err
	}
	if err := l.state.checkEquality(column); err != nil {
		return err
	}
	if err := l.state.checkEquality(cell.cell.Column); err != nil {
		return err
	}
	if row < 0 {
		return fmt.Errorf("negative instance row %d", row)
	}
	if !l.state.grid.ShapeOnly() {
		if _, ok := l.state.instances.At(column.Index, row); !ok {
			return fmt.Errorf("%w: %s row %d", witness.ErrMissingInstanceValue, column, row)
		}
	}
	l.state.grid.AddCopy(cell.cell, witness.Cell{Column: column, Row: row})
	return nil
}

func (l *layouter) Namespace(name string) Layouter {
	scope := name
	if l.scope != "" {
		scope = l.scope + "/" + name
	}
	return &layouter{state: l.state, scope: scope}
}
