// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package constraint

import "strconv"

// ColumnKind partitions the grid columns by the role their cells play.
type ColumnKind uint8

const (
	// KindUnset is the zero value; a Column of this kind was never allocated
	// by a System.
	KindUnset ColumnKind = iota

	// Advice columns hold private witness values, assigned during synthesis.
	Advice

	// Instance columns carry the public inputs supplied alongside a witness.
	Instance

	// Selector columns hold boolean flags gating where a constraint is
	// enforced. They cannot be queried in gate expressions nor participate
	// in copy constraints.
	Selector
)

func (k ColumnKind) String() string {
	switch k {
	case Advice:
		return "advice"
	case Instance:
		return "instance"
	case Selector:
		return "selector"
	default:
		return "unset"
	}
}

// Column is a typed handle on a grid column. Identity is (Kind, Index);
// the Index is stable within a kind, in allocation order. Columns are
// immutable once allocated.
type Column struct {
	Kind  ColumnKind
	Index int
}

func (c Column) String() string {
	return c.Kind.String() + "[" + strconv.Itoa(c.Index) + "]"
}
