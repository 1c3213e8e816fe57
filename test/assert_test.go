package test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/frontend"
	"github.com/consensys/plonkish/internal/tinyfield"
	"github.com/consensys/plonkish/witness"
)

// squareCircuit enforces y = x*x and exposes y as the public output.
type squareCircuit struct {
	x, y constraint.Column
	out  constraint.Column
	s    constraint.Column

	X frontend.Value
}

func (c *squareCircuit) Configure(cs *constraint.System) error {
	c.x = cs.AdviceColumn()
	c.y = cs.AdviceColumn()
	c.out = cs.InstanceColumn()
	c.s = cs.SelectorColumn()

	if err := cs.EnableEquality(c.y); err != nil {
		return err
	}
	if err := cs.EnableEquality(c.out); err != nil {
		return err
	}

	return cs.CreateGate("square", c.s, func(vc *constraint.VirtualCells) []constraint.Expression {
		x := vc.QueryAdvice(c.x, constraint.Cur)
		y := vc.QueryAdvice(c.y, constraint.Cur)
		return []constraint.Expression{x.Mul(x).Sub(y)}
	})
}

func (c *squareCircuit) Synthesize(layouter frontend.Layouter) error {
	var yCell frontend.AssignedCell
	if err := layouter.AssignRegion("square", func(r frontend.Region) error {
		if err := r.EnableSelector(c.s, 0); err != nil {
			return err
		}
		xCell, err := r.AssignAdvice(c.x, 0, func() frontend.Value { return c.X })
		if err != nil {
			return err
		}
		yCell, err = r.AssignAdvice(c.y, 0, func() frontend.Value {
			return xCell.Value().Mul(xCell.Value())
		})
		return err
	}); err != nil {
		return err
	}
	return layouter.ConstrainInstance(yCell, c.out, 0)
}

func (c *squareCircuit) WithoutWitnesses() frontend.Circuit {
	clone := *c
	clone.X = frontend.Unknown()
	return &clone
}

func TestAssertCheckCircuit(t *testing.T) {
	assert := NewAssert(t)

	assert.CheckCircuit(&squareCircuit{},
		WithValidAssignment(&squareCircuit{X: frontend.Known(4)}, []any{16}),
		WithValidAssignment(&squareCircuit{X: frontend.Known(0)}, []any{0}),
		WithInvalidAssignment(&squareCircuit{X: frontend.Known(4)}, []any{15}),
		WithFields(ecc.BN254.ScalarField(), tinyfield.Modulus()),
	)
}

func TestAssertParallelRuns(t *testing.T) {
	assert := NewAssert(t)

	assert.CheckParallelRuns(&squareCircuit{}, 8,
		WithValidAssignment(&squareCircuit{X: frontend.Known(3)}, []any{9}),
		WithInvalidAssignment(&squareCircuit{X: frontend.Known(3)}, []any{8}),
		WithFields(tinyfield.Modulus()),
	)
}

func TestAssertRoundTripCheck(t *testing.T) {
	assert := NewAssert(t)

	q := tinyfield.Modulus()
	ins := witness.NewInstances(q, []any{1, 2, 3}, []any{4})
	assert.RoundTripCheck(ins, func() Serializable { return new(witness.Instances) })
}
