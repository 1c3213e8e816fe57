// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package mock

import (
	"fmt"
	"strconv"

	"github.com/consensys/plonkish/constraint"
)

// Kind discriminates the violation classes a verification run can report.
type Kind uint8

const (
	// ConstraintNotSatisfied reports a gate polynomial evaluating to a
	// non-zero value at a row where the gate's selector is active.
	ConstraintNotSatisfied Kind = iota + 1

	// EqualityConstraintNotSatisfied reports a copy constraint whose two
	// cells hold different values.
	EqualityConstraintNotSatisfied
)

func (k Kind) String() string {
	switch k {
	case ConstraintNotSatisfied:
		return "constraint is not satisfied"
	case EqualityConstraintNotSatisfied:
		return "equality constraint is not satisfied"
	default:
		return "unknown violation"
	}
}

// Location pinpoints a violation on the grid.
type Location struct {
	// Region is the name of the region covering the row; meaningful only
	// when Offset >= 0.
	Region string

	// Offset is the row offset relative to the region start, or -1 when the
	// row belongs to no region.
	Offset int

	// Row is the absolute row.
	Row int

	// Column is the offending cell's column for equality violations. It is
	// the zero Column for gate violations, which span several queried cells.
	Column constraint.Column
}

func (l Location) String() string {
	s := "row " + strconv.Itoa(l.Row)
	if l.Offset >= 0 {
		s += ", region " + strconv.Quote(l.Region) + ", offset " + strconv.Itoa(l.Offset)
	}
	return s
}

// Violation is one verification failure. Violations are data, not errors: a
// run reports the full list in deterministic order. Gate violations come
// first, row-major, gates in registration order and constraints in
// declaration order within a gate; copy violations follow in creation order.
type Violation struct {
	Kind Kind

	// Gate is the registered name of the violated gate; empty for equality
	// violations.
	Gate string

	// Constraint is the index of the violated expression within the gate.
	Constraint int

	Location Location

	// Detail shows the values involved: the gate's queried cells, or the
	// two cells of the copy constraint.
	Detail string
}

func (v Violation) String() string {
	if v.Kind == ConstraintNotSatisfied {
		return fmt.Sprintf("%s: [%s] %s (%s)", v.Kind, v.Gate, v.Detail, v.Location)
	}
	return fmt.Sprintf("%s: %s (%s)", v.Kind, v.Detail, v.Location)
}
