// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package constraint

import (
	"math/big"
	"strconv"
)

// Rotation is a row offset applied when a gate queries a column relative to
// the row the gate is evaluated at.
type Rotation int

const (
	Prev Rotation = -1
	Cur  Rotation = 0
	Next Rotation = 1
)

// Trace resolves column queries during expression evaluation; the witness
// grid together with the public input vectors implements it at verification
// time.
//
// QueryAt returns a fresh copy of the value of col at the given absolute
// row, reduced modulo the field; the caller owns the result. Callers
// guarantee the row is in range (see Gate.RotationBounds).
type Trace interface {
	QueryAt(col Column, row int) *big.Int
	Modulus() *big.Int
}

// Expression is a node of a gate's polynomial: a constant, a column query at
// a rotation, or an arithmetic combination thereof. Expressions are built
// during gate creation (see VirtualCells) and evaluated by a pure
// interpreter during verification; evaluation reads cells only through the
// query leaves.
type Expression interface {
	// EvalAt evaluates the expression at the given absolute row of tr,
	// reduced modulo tr's field. The caller owns the result.
	EvalAt(row int, tr Trace) *big.Int

	// Add returns the expression e + other.
	Add(other Expression) Expression
	// Sub returns the expression e - other.
	Sub(other Expression) Expression
	// Mul returns the expression e * other.
	Mul(other Expression) Expression

	String() string

	// appendQueries appends the distinct column queries of the subtree to
	// qs, in first-use order.
	appendQueries(qs []Query) []Query

	// foldBounds folds the subtree's rotations into the running (min, max).
	foldBounds(min, max Rotation) (Rotation, Rotation)
}

// Constant is a field constant embedded in a gate polynomial.
type Constant struct {
	Value big.Int
}

func (e *Constant) EvalAt(row int, tr Trace) *big.Int {
	return new(big.Int).Mod(&e.Value, tr.Modulus())
}

func (e *Constant) Add(other Expression) Expression { return &Sum{A: e, B: other} }
func (e *Constant) Sub(other Expression) Expression { return &Difference{A: e, B: other} }
func (e *Constant) Mul(other Expression) Expression { return &Product{A: e, B: other} }

func (e *Constant) String() string { return e.Value.String() }

func (e *Constant) appendQueries(qs []Query) []Query { return qs }

func (e *Constant) foldBounds(min, max Rotation) (Rotation, Rotation) { return min, max }

// Query reads a column at a rotation relative to the evaluation row.
type Query struct {
	Column   Column
	Rotation Rotation
}

func (e *Query) EvalAt(row int, tr Trace) *big.Int {
	return tr.QueryAt(e.Column, row+int(e.Rotation))
}

func (e *Query) Add(other Expression) Expression { return &Sum{A: e, B: other} }
func (e *Query) Sub(other Expression) Expression { return &Difference{A: e, B: other} }
func (e *Query) Mul(other Expression) Expression { return &Product{A: e, B: other} }

func (e *Query) String() string {
	if e.Rotation == Cur {
		return e.Column.String()
	}
	return e.Column.String() + "@" + strconv.Itoa(int(e.Rotation))
}

func (e *Query) appendQueries(qs []Query) []Query {
	for i := range qs {
		if qs[i] == *e {
			return qs
		}
	}
	return append(qs, *e)
}

func (e *Query) foldBounds(min, max Rotation) (Rotation, Rotation) {
	if e.Rotation < min {
		min = e.Rotation
	}
	if e.Rotation > max {
		max = e.Rotation
	}
	return min, max
}

// Sum is the addition of two expressions.
type Sum struct {
	A, B Expression
}

func (e *Sum) EvalAt(row int, tr Trace) *big.Int {
	res := e.A.EvalAt(row, tr)
	res.Add(res, e.B.EvalAt(row, tr))
	return res.Mod(res, tr.Modulus())
}

func (e *Sum) Add(other Expression) Expression { return &Sum{A: e, B: other} }
func (e *Sum) Sub(other Expression) Expression { return &Difference{A: e, B: other} }
func (e *Sum) Mul(other Expression) Expression { return &Product{A: e, B: other} }

func (e *Sum) String() string { return "(" + e.A.String() + " + " + e.B.String() + ")" }

func (e *Sum) appendQueries(qs []Query) []Query {
	return e.B.appendQueries(e.A.appendQueries(qs))
}

func (e *Sum) foldBounds(min, max Rotation) (Rotation, Rotation) {
	return e.B.foldBounds(e.A.foldBounds(min, max))
}

// Difference is the subtraction of two expressions.
type Difference struct {
	A, B Expression
}

func (e *Difference) EvalAt(row int, tr Trace) *big.Int {
	res := e.A.EvalAt(row, tr)
	res.Sub(res, e.B.EvalAt(row, tr))
	return res.Mod(res, tr.Modulus())
}

func (e *Difference) Add(other Expression) Expression { return &Sum{A: e, B: other} }
func (e *Difference) Sub(other Expression) Expression { return &Difference{A: e, B: other} }
func (e *Difference) Mul(other Expression) Expression { return &Product{A: e, B: other} }

func (e *Difference) String() string { return "(" + e.A.String() + " - " + e.B.String() + ")" }

func (e *Difference) appendQueries(qs []Query) []Query {
	return e.B.appendQueries(e.A.appendQueries(qs))
}

func (e *Difference) foldBounds(min, max Rotation) (Rotation, Rotation) {
	return e.B.foldBounds(e.A.foldBounds(min, max))
}

// Product is the multiplication of two expressions.
type Product struct {
	A, B Expression
}

func (e *Product) EvalAt(row int, tr Trace) *big.Int {
	res := e.A.EvalAt(row, tr)
	res.Mul(res, e.B.EvalAt(row, tr))
	return res.Mod(res, tr.Modulus())
}

func (e *Product) Add(other Expression) Expression { return &Sum{A: e, B: other} }
func (e *Product) Sub(other Expression) Expression { return &Difference{A: e, B: other} }
func (e *Product) Mul(other Expression) Expression { return &Product{A: e, B: other} }

func (e *Product) String() string { return e.A.String() + " * " + e.B.String() }

func (e *Product) appendQueries(qs []Query) []Query {
	return e.B.appendQueries(e.A.appendQueries(qs))
}

func (e *Product) foldBounds(min, max Rotation) (Rotation, Rotation) {
	return e.B.foldBounds(e.A.foldBounds(min, max))
}
