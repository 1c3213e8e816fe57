// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package mock

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/frontend"
	"github.com/consensys/plonkish/logger"
	"github.com/consensys/plonkish/witness"
)

// Prover couples one compiled shape with one concrete synthesis run, ready
// to be checked.
type Prover struct {
	cs        *constraint.System
	grid      *witness.Grid
	instances *witness.Instances
}

// Run compiles the circuit, synthesizes it on its concrete witness and
// returns a Prover over the result. Shape and witness errors (including
// gates whose rotations reach outside the grid at an active row) are
// returned here; constraint violations are not errors, they are what
// (*Prover).Verify reports.
func Run(field *big.Int, circuit frontend.Circuit, instances *witness.Instances, opts ...Option) (*Prover, error) {
	cs, err := frontend.Compile(field, circuit)
	if err != nil {
		return nil, err
	}
	return RunWithSystem(cs, circuit, instances, opts...)
}

// RunWithSystem synthesizes the circuit against an already compiled shape.
// The circuit must be the instance the shape was compiled from, or a copy of
// it: Configure binds the circuit's columns and Synthesize reads them.
// See Run.
func RunWithSystem(cs *constraint.System, circuit frontend.Circuit, instances *witness.Instances, opts ...Option) (*Prover, error) {
	opt := config{}
	for _, o := range opts {
		if err := o(&opt); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	grid, err := frontend.Synthesize(cs, circuit, instances)
	if err != nil {
		return nil, err
	}
	if opt.minRows > grid.NbRows() {
		grid.Grow(opt.minRows)
	}
	if err := checkRotations(cs, grid); err != nil {
		return nil, err
	}

	log := logger.Logger()
	log.Debug().
		Int("nbRows", grid.NbRows()).
		Int("nbGates", cs.GetNbGates()).
		Int("nbCopies", len(grid.Copies())).
		Msg("mock prover ready")

	return &Prover{cs: cs, grid: grid, instances: instances}, nil
}

// checkRotations rejects layouts where an active gate would query a row
// outside the grid. An inactive gate may sit next to the grid edge freely;
// rows where its selector is off are never evaluated.
func checkRotations(cs *constraint.System, grid *witness.Grid) error {
	nbRows := grid.NbRows()
	for gi := range cs.Gates {
		g := &cs.Gates[gi]
		min, max := g.RotationBounds()
		if min == 0 && max == 0 {
			continue
		}
		for row := 0; row < nbRows; row++ {
			if !grid.IsSelectorEnabled(g.Selector.Index, row) {
				continue
			}
			if row+int(min) < 0 || row+int(max) >= nbRows {
				return fmt.Errorf("gate %q: query rotation out of range at row %d (rotations %d..%d, grid has %d rows)",
					g.Name, row, min, max, nbRows)
			}
		}
	}
	return nil
}

// System returns the shape the prover runs against.
func (p *Prover) System() *constraint.System { return p.cs }

// Grid returns the synthesized grid under check.
func (p *Prover) Grid() *witness.Grid { return p.grid }

// Verify reports the run's violations; see the package-level Verify.
func (p *Prover) Verify() []Violation {
	return Verify(p.cs, p.grid, p.instances)
}

// AssertSatisfied returns nil when the run satisfies every constraint, and
// otherwise a single error carrying the ordered violation list and the
// declaration site of each offending gate.
func (p *Prover) AssertSatisfied() error {
	violations := p.Verify()
	if len(violations) == 0 {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "circuit is not satisfied: %d violation(s)", len(violations))
	for i := range violations {
		sb.WriteString("\n\t")
		sb.WriteString(violations[i].String())
	}
	for _, name := range violatedGates(violations) {
		for gi := range p.cs.Gates {
			if p.cs.Gates[gi].Name != name {
				continue
			}
			if site := p.cs.DeclarationSite(&p.cs.Gates[gi]); site != "" {
				sb.WriteString("\ngate ")
				sb.WriteString(strconv.Quote(name))
				sb.WriteString(" declared at:\n")
				sb.WriteString(site)
			}
			break
		}
	}
	return errors.New(sb.String())
}

// violatedGates returns the distinct gate names with at least one violation,
// in first-violation order.
func violatedGates(violations []Violation) []string {
	var names []string
	seen := make(map[string]bool)
	for i := range violations {
		if violations[i].Kind != ConstraintNotSatisfied || seen[violations[i].Gate] {
			continue
		}
		seen[violations[i].Gate] = true
		names = append(names, violations[i].Gate)
	}
	return names
}
