package mock_test

import (
	"testing"

	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/frontend"
	"github.com/consensys/plonkish/internal/tinyfield"
	"github.com/consensys/plonkish/mock"
	"github.com/consensys/plonkish/witness"
	"github.com/stretchr/testify/require"
)

// stepCircuit enforces a[i+1] = a[i] + 1 on every row carrying the selector.
// SelectorRows picks where the gate fires so tests can push the Next query
// past the last row.
type stepCircuit struct {
	a constraint.Column
	s constraint.Column

	N            int
	SelectorRows []int
}

func (c *stepCircuit) Configure(cs *constraint.System) error {
	c.a = cs.AdviceColumn()
	c.s = cs.SelectorColumn()
	return cs.CreateGate("step", c.s, func(vc *constraint.VirtualCells) []constraint.Expression {
		cur := vc.QueryAdvice(c.a, constraint.Cur)
		next := vc.QueryAdvice(c.a, constraint.Next)
		return []constraint.Expression{next.Sub(cur).Sub(vc.Constant(1))}
	})
}

func (c *stepCircuit) Synthesize(layouter frontend.Layouter) error {
	return layouter.AssignRegion("steps", func(r frontend.Region) error {
		for i := 0; i < c.N; i++ {
			i := i
			if _, err := r.AssignAdvice(c.a, i, func() frontend.Value {
				return frontend.Known(uint64(i))
			}); err != nil {
				return err
			}
		}
		for _, row := range c.SelectorRows {
			if err := r.EnableSelector(c.s, row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *stepCircuit) WithoutWitnesses() frontend.Circuit {
	clone := *c
	return &clone
}

// backCircuit is the mirror image, looking one row back.
type backCircuit struct {
	a constraint.Column
	s constraint.Column
}

func (c *backCircuit) Configure(cs *constraint.System) error {
	c.a = cs.AdviceColumn()
	c.s = cs.SelectorColumn()
	return cs.CreateGate("back", c.s, func(vc *constraint.VirtualCells) []constraint.Expression {
		prev := vc.QueryAdvice(c.a, constraint.Prev)
		cur := vc.QueryAdvice(c.a, constraint.Cur)
		return []constraint.Expression{cur.Sub(prev).Sub(vc.Constant(1))}
	})
}

func (c *backCircuit) Synthesize(layouter frontend.Layouter) error {
	return layouter.AssignRegion("back", func(r frontend.Region) error {
		for i := 0; i < 2; i++ {
			i := i
			if _, err := r.AssignAdvice(c.a, i, func() frontend.Value {
				return frontend.Known(uint64(i))
			}); err != nil {
				return err
			}
		}
		// row 0 has no predecessor
		return r.EnableSelector(c.s, 0)
	})
}

func (c *backCircuit) WithoutWitnesses() frontend.Circuit {
	clone := *c
	return &clone
}

func TestRotationInRange(t *testing.T) {
	assert := require.New(t)

	q := tinyfield.Modulus()
	circuit := &stepCircuit{N: 4, SelectorRows: []int{0, 1, 2}}
	p, err := mock.Run(q, circuit, nil)
	assert.NoError(err)
	assert.Empty(p.Verify())
}

func TestRotationNextOutOfRange(t *testing.T) {
	assert := require.New(t)

	q := tinyfield.Modulus()
	circuit := &stepCircuit{N: 4, SelectorRows: []int{0, 1, 2, 3}}
	_, err := mock.Run(q, circuit, nil)
	assert.Error(err)
	assert.Contains(err.Error(), `gate "step"`)
	assert.Contains(err.Error(), "rotation out of range at row 3")
}

func TestRotationPrevOutOfRange(t *testing.T) {
	assert := require.New(t)

	q := tinyfield.Modulus()
	_, err := mock.Run(q, &backCircuit{}, nil)
	assert.Error(err)
	assert.Contains(err.Error(), `gate "back"`)
	assert.Contains(err.Error(), "rotation out of range at row 0")
}

// overlapCircuit writes the same cell twice.
type overlapCircuit struct {
	a constraint.Column
}

func (c *overlapCircuit) Configure(cs *constraint.System) error {
	c.a = cs.AdviceColumn()
	return nil
}

func (c *overlapCircuit) Synthesize(layouter frontend.Layouter) error {
	return layouter.AssignRegion("dup", func(r frontend.Region) error {
		one := func() frontend.Value { return frontend.Known(1) }
		if _, err := r.AssignAdvice(c.a, 0, one); err != nil {
			return err
		}
		_, err := r.AssignAdvice(c.a, 0, one)
		return err
	})
}

func (c *overlapCircuit) WithoutWitnesses() frontend.Circuit {
	clone := *c
	return &clone
}

func TestRunOverlappingAssignment(t *testing.T) {
	assert := require.New(t)

	q := tinyfield.Modulus()
	_, err := mock.Run(q, &overlapCircuit{}, nil)
	assert.Error(err)
	assert.ErrorIs(err, witness.ErrOverlappingAssignment)
	assert.Contains(err.Error(), `region "dup"`)
}

func TestRunWithMinRows(t *testing.T) {
	assert := require.New(t)

	q := tinyfield.Modulus()
	circuit := &addCircuit{A: frontend.Known(2), B: frontend.Known(3)}
	p, err := mock.Run(q, circuit, witness.NewInstances(q, []any{5}), mock.WithMinRows(8))
	assert.NoError(err)

	// padding rows carry no selector, so the gate stays quiet on them
	assert.Equal(8, p.Grid().NbRows())
	assert.Empty(p.Verify())
}

func TestRunOptionError(t *testing.T) {
	assert := require.New(t)

	q := tinyfield.Modulus()
	circuit := &addCircuit{A: frontend.Known(2), B: frontend.Known(3)}
	_, err := mock.Run(q, circuit, witness.NewInstances(q, []any{5}), mock.WithMinRows(-1))
	assert.Error(err)
	assert.Contains(err.Error(), "apply option")
}
