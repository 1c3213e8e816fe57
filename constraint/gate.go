// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package constraint

import "github.com/consensys/plonkish/internal/utils"

// Gate is a named polynomial constraint over column queries. Each of its
// expressions is enforced to vanish at every row where Selector is active;
// rows where the selector is 0 leave the queried cells unconstrained.
//
// Names are diagnostic labels, not unique keys.
type Gate struct {
	Name     string
	Selector Column

	// Constraints holds the gate's polynomials, in declaration order. A gate
	// may carry several; each is checked independently.
	Constraints []Expression

	// Queries lists the distinct column queries performed by the gate's
	// constraints, in first-use order. Violation diagnostics resolve exactly
	// these cells.
	Queries []Query

	// Stack indexes the declaring call site into the system's symbol table.
	Stack []int
}

// RotationBounds returns the lowest and highest rotation queried by the
// gate. Both are 0 for a gate querying only the current row.
func (g *Gate) RotationBounds() (min, max Rotation) {
	for _, c := range g.Constraints {
		min, max = c.foldBounds(min, max)
	}
	return min, max
}

// VirtualCells is handed to a gate builder (see System.CreateGate); its
// query methods are the only supported way to turn declared columns into
// queryable expressions, so that a gate can never read a cell it did not
// query.
//
// The query methods panic on column misuse (wrong kind, undeclared column);
// frontend.Compile converts such panics into errors.
type VirtualCells struct {
	system *System
}

// QueryAdvice returns the expression reading an advice column at the given
// rotation.
func (vc *VirtualCells) QueryAdvice(col Column, at Rotation) Expression {
	if col.Kind != Advice {
		panic("QueryAdvice: not an advice column: " + col.String())
	}
	if col.Index >= vc.system.NbAdvice {
		panic("QueryAdvice: undeclared column: " + col.String())
	}
	return &Query{Column: col, Rotation: at}
}

// QueryInstance returns the expression reading an instance column at the
// given rotation.
func (vc *VirtualCells) QueryInstance(col Column, at Rotation) Expression {
	if col.Kind != Instance {
		panic("QueryInstance: not an instance column: " + col.String())
	}
	if col.Index >= vc.system.NbInstance {
		panic("QueryInstance: undeclared column: " + col.String())
	}
	return &Query{Column: col, Rotation: at}
}

// Constant returns the expression embedding v, reduced modulo the system's
// field. v may be anything utils.FromInterface accepts.
func (vc *VirtualCells) Constant(v any) Expression {
	b := utils.FromInterface(v)
	b.Mod(&b, vc.system.q)
	return &Constant{Value: b}
}
