// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package frontend

import (
	"fmt"
	"math/big"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/profile"
	"github.com/consensys/plonkish/witness"
)

// region implements Region for one AssignRegion call. It tracks the number
// of rows touched so far; the layouter reads nbRows back when the closure
// returns to advance its cursor.
type region struct {
	state  *layoutState
	start  int
	nbRows int
}

// rowOf maps a region-relative offset to an absolute row, growing the region
// to cover it.
func (r *region) rowOf(offset int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("negative offset %d", offset)
	}
	if offset+1 > r.nbRows {
		r.nbRows = offset + 1
	}
	return r.start + offset, nil
}

// assign writes v at (column, offset) and returns the receipt. The value
// carried by the receipt is reduced mod the field, so closures chaining
// receipts observe the same representative the grid stores.
func (r *region) assign(column constraint.Column, offset int, v Value) (AssignedCell, error) {
	if err := r.state.checkColumn(column, constraint.Advice); err != nil {
		return AssignedCell{}, err
	}
	row, err := r.rowOf(offset)
	if err != nil {
		return AssignedCell{}, fmt.Errorf("%s: %w", column, err)
	}

	var raw *big.Int
	switch {
	case v.IsKnown():
		raw, _ = v.Get()
		raw.Mod(raw, r.state.field)
		v = knownBig(raw)
	case r.state.grid.ShapeOnly():
		raw = new(big.Int)
	default:
		return AssignedCell{}, fmt.Errorf("%w: %s at offset %d", ErrUnknownValue, column, offset)
	}

	if err := r.state.grid.SetAdvice(column.Index, row, raw); err != nil {
		return AssignedCell{}, err
	}
	profile.RecordCell()

	return AssignedCell{
		cell:  witness.Cell{Column: column, Row: row},
		value: v,
	}, nil
}

func (r *region) AssignAdvice(column constraint.Column, offset int, fn func() Value) (AssignedCell, error) {
	return r.assign(column, offset, fn())
}

func (r *region) AssignAdviceFromInstance(instance constraint.Column, row int, advice constraint.Column, offset int) (AssignedCell, error) {
	if err := r.state.checkColumn(instance, constraint.Instance); err != nil {
		return AssignedCell{}, err
	}
	if err := r.state.checkColumn(advice, constraint.Advice); err != nil {
		return AssignedCell{}, err
	}
	if err := r.state.checkEquality(instance); err != nil {
		return AssignedCell{}, err
	}
	if err := r.state.checkEquality(advice); err != nil {
		return AssignedCell{}, err
	}
	if row < 0 {
		return AssignedCell{}, fmt.Errorf("negative instance row %d", row)
	}

	v := Unknown()
	if !r.state.grid.ShapeOnly() {
		val, ok := r.state.instances.At(instance.Index, row)
		if !ok {
			return AssignedCell{}, fmt.Errorf("%w: %s at row %d", witness.ErrMissingInstanceValue, instance, row)
		}
		v = knownBig(val)
	}

	cell, err := r.assign(advice, offset, v)
	if err != nil {
		return AssignedCell{}, err
	}
	r.state.grid.AddCopy(cell.cell, witness.Cell{Column: instance, Row: row})
	return cell, nil
}

func (r *region) CopyAdvice(cell AssignedCell, column constraint.Column, offset int) (AssignedCell, error) {
	// both endpoints must be equality-enabled before anything is written
	if err := r.state.checkEquality(cell.cell.Column); err != nil {
		return AssignedCell{}, err
	}
	if err := r.state.checkColumn(column, constraint.Advice); err != nil {
		return AssignedCell{}, err
	}
	if err := r.state.checkEquality(column); err != nil {
		return AssignedCell{}, err
	}

	dst, err := r.assign(column, offset, cell.value)
	if err != nil {
		return AssignedCell{}, err
	}
	r.state.grid.AddCopy(cell.cell, dst.cell)
	return dst, nil
}

func (r *region) ConstrainEqual(a, b AssignedCell) error {
	if err := r.state.checkEquality(a.cell.Column); err != nil {
		return err
	}
	if err := r.state.checkEquality(b.cell.Column); err != nil {
		return err
	}
	r.state.grid.AddCopy(a.cell, b.cell)
	return nil
}

func (r *region) EnableSelector(column constraint.Column, offset int) error {
	if err := r.state.checkColumn(column, constraint.Selector); err != nil {
		return err
	}
	row, err := r.rowOf(offset)
	if err != nil {
		return fmt.Errorf("%s: %w", column, err)
	}
	if err := r.state.grid.EnableSelector(column.Index, row); err != nil {
		return err
	}
	profile.RecordCell()
	return nil
}
