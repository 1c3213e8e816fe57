// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package mock

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/witness"
)

// trace adapts a grid and its public input vectors to the expression
// evaluator. Unassigned advice cells and missing instance rows read as zero.
type trace struct {
	grid      *witness.Grid
	instances *witness.Instances
	q         *big.Int
}

func (tr *trace) QueryAt(col constraint.Column, row int) *big.Int {
	switch col.Kind {
	case constraint.Advice:
		return tr.grid.Advice(col.Index, row)
	case constraint.Instance:
		if v, ok := tr.instances.At(col.Index, row); ok {
			return v
		}
	}
	return new(big.Int)
}

func (tr *trace) Modulus() *big.Int { return tr.q }

// Verify checks every gate at every row of one synthesis run, then every
// recorded copy constraint. It is pure: identical inputs produce the
// identical violation list, and an unsatisfiable grid reports instead of
// failing.
//
// instances must be the vectors the grid was synthesized with, and the grid
// must come from a concrete (not shape-only) run.
func Verify(cs *constraint.System, grid *witness.Grid, instances *witness.Instances) []Violation {
	tr := &trace{grid: grid, instances: instances, q: cs.Field()}

	var violations []Violation
	for row := 0; row < grid.NbRows(); row++ {
		for gi := range cs.Gates {
			g := &cs.Gates[gi]
			if !grid.IsSelectorEnabled(g.Selector.Index, row) {
				continue
			}
			for ci := range g.Constraints {
				if v := g.Constraints[ci].EvalAt(row, tr); v.Sign() != 0 {
					violations = append(violations, Violation{
						Kind:       ConstraintNotSatisfied,
						Gate:       g.Name,
						Constraint: ci,
						Location:   locateRow(grid, row),
						Detail:     gateDetail(g, row, tr),
					})
				}
			}
		}
	}

	for _, cp := range grid.Copies() {
		a := tr.QueryAt(cp.A.Column, cp.A.Row)
		b := tr.QueryAt(cp.B.Column, cp.B.Row)
		if a.Cmp(b) == 0 {
			continue
		}
		loc := locateRow(grid, cp.A.Row)
		loc.Column = cp.A.Column
		violations = append(violations, Violation{
			Kind:     EqualityConstraintNotSatisfied,
			Location: loc,
			Detail:   fmt.Sprintf("%s = %s, %s = %s", cp.A, a, cp.B, b),
		})
	}

	return violations
}

// locateRow resolves the region covering row, for diagnostics.
func locateRow(grid *witness.Grid, row int) Location {
	if r, ok := grid.RegionAt(row); ok {
		return Location{Region: r.Name, Offset: row - r.Start, Row: row}
	}
	return Location{Offset: -1, Row: row}
}

// gateDetail renders the gate's queried cells at the evaluation row.
func gateDetail(g *constraint.Gate, row int, tr constraint.Trace) string {
	var sb strings.Builder
	for i := range g.Queries {
		if i > 0 {
			sb.WriteString(", ")
		}
		q := g.Queries[i]
		sb.WriteString(q.String())
		sb.WriteString(" = ")
		sb.WriteString(q.EvalAt(row, tr).String())
	}
	return sb.String()
}
