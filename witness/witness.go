// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package witness holds the value side of a circuit; the Grid filled by one
// synthesis run (advice assignments, selector activations, copy constraints
// and region placements) and the Instances supplied as public inputs.
//
// Binary protocol
//
// A Grid serializes to
//
//	[header | meta | values | bitmaps | copies]
//
// where header is 4 little-endian uint64 section lengths. The meta section
// carries the field modulus, the grid dimensions and the region table.
// Advice values are written column by column as big-endian byte arrays of
// fixed width len(bytes(modulus)). Selector bitmaps are bit-packed,
// assignment bitmaps and the copy list are integer-compressed.
package witness

import (
	"errors"
	"fmt"

	"github.com/consensys/plonkish/constraint"
)

var (
	// ErrOverlappingAssignment is returned when an advice cell receives a
	// second assignment.
	ErrOverlappingAssignment = errors.New("overlapping assignment")

	// ErrMissingInstanceValue is returned when a run reads an instance cell
	// outside the supplied vectors.
	ErrMissingInstanceValue = errors.New("missing instance value")
)

// Cell identifies one cell of the grid by column and absolute row.
type Cell struct {
	Column constraint.Column
	Row    int
}

func (c Cell) String() string {
	return fmt.Sprintf("%s at row %d", c.Column, c.Row)
}

// Copy records an equality constraint between two assigned cells.
type Copy struct {
	A, B Cell
}

// Region is the placement record of one assignment region; the diagnostic
// name passed to the layouter and the absolute rows the region occupies.
type Region struct {
	Name   string
	Start  int
	NbRows int
}
