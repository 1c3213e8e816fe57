// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package frontend builds circuits. A user-defined Circuit is compiled once
// into a constraint.System (the shape) and synthesized once per run into a
// witness.Grid; the same shape serves arbitrarily many grids.
package frontend

import (
	"github.com/consensys/plonkish/constraint"
)

// Circuit must be implemented by user-defined circuits. The conventional
// layout is a struct holding the witness inputs as Value fields and the
// columns declared by Configure, with the three methods defined on a pointer
// receiver:
//
//	type MyCircuit struct {
//	    X frontend.Value
//	    advice constraint.Column
//	    // ...
//	}
//
// Configure runs once and declares shape only; Synthesize runs once per
// witness and must not declare columns or gates.
type Circuit interface {
	// Configure declares the circuit's columns and gates on the shape under
	// construction. No witness data is available at this point.
	Configure(cs *constraint.System) error

	// Synthesize lays out one run of the circuit: regions, cell
	// assignments, selector activations and copy constraints.
	Synthesize(layouter Layouter) error

	// WithoutWitnesses returns a copy of the circuit with every witness
	// value cleared to Unknown, so the layout can be synthesized without
	// concrete inputs.
	WithoutWitnesses() Circuit
}
