package frontend_test

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/frontend"
	"github.com/stretchr/testify/require"
)

// mulCircuit checks z = x*y on a single row and exposes z as a public
// output.
type mulCircuit struct {
	x, y, z constraint.Column
	out     constraint.Column
	s       constraint.Column

	X, Y frontend.Value
}

func (c *mulCircuit) Configure(cs *constraint.System) error {
	c.x = cs.AdviceColumn()
	c.y = cs.AdviceColumn()
	c.z = cs.AdviceColumn()
	c.out = cs.InstanceColumn()
	c.s = cs.SelectorColumn()

	if err := cs.EnableEquality(c.z); err != nil {
		return err
	}
	if err := cs.EnableEquality(c.out); err != nil {
		return err
	}

	return cs.CreateGate("mul", c.s, func(vc *constraint.VirtualCells) []constraint.Expression {
		x := vc.QueryAdvice(c.x, constraint.Cur)
		y := vc.QueryAdvice(c.y, constraint.Cur)
		z := vc.QueryAdvice(c.z, constraint.Cur)
		return []constraint.Expression{x.Mul(y).Sub(z)}
	})
}

func (c *mulCircuit) Synthesize(layouter frontend.Layouter) error {
	var zCell frontend.AssignedCell
	if err := layouter.AssignRegion("mul", func(r frontend.Region) error {
		if err := r.EnableSelector(c.s, 0); err != nil {
			return err
		}
		xCell, err := r.AssignAdvice(c.x, 0, func() frontend.Value { return c.X })
		if err != nil {
			return err
		}
		yCell, err := r.AssignAdvice(c.y, 0, func() frontend.Value { return c.Y })
		if err != nil {
			return err
		}
		zCell, err = r.AssignAdvice(c.z, 0, func() frontend.Value {
			return xCell.Value().Mul(yCell.Value())
		})
		return err
	}); err != nil {
		return err
	}
	return layouter.ConstrainInstance(zCell, c.out, 0)
}

func (c *mulCircuit) WithoutWitnesses() frontend.Circuit {
	clone := *c
	clone.X = frontend.Unknown()
	clone.Y = frontend.Unknown()
	return &clone
}

func TestCompile(t *testing.T) {
	assert := require.New(t)

	var circuit mulCircuit
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), &circuit)
	assert.NoError(err)

	assert.Equal(3, cs.NbAdvice)
	assert.Equal(1, cs.NbInstance)
	assert.Equal(1, cs.NbSelector)
	assert.Equal(1, cs.GetNbGates())

	assert.True(cs.IsEqualityEnabled(circuit.z))
	assert.True(cs.IsEqualityEnabled(circuit.out))
	assert.False(cs.IsEqualityEnabled(circuit.x))
}

type valueReceiverCircuit struct{}

func (valueReceiverCircuit) Configure(*constraint.System) error { return nil }
func (valueReceiverCircuit) Synthesize(frontend.Layouter) error { return nil }
func (valueReceiverCircuit) WithoutWitnesses() frontend.Circuit { return valueReceiverCircuit{} }

func TestCompileNotPointer(t *testing.T) {
	assert := require.New(t)

	_, err := frontend.Compile(ecc.BN254.ScalarField(), valueReceiverCircuit{})
	assert.Error(err)
	assert.Contains(err.Error(), "pointer receiver")
}

func TestCompileOptions(t *testing.T) {
	assert := require.New(t)

	var circuit mulCircuit
	_, err := frontend.Compile(ecc.BN254.ScalarField(), &circuit, frontend.WithCapacity(16))
	assert.NoError(err)

	_, err = frontend.Compile(ecc.BN254.ScalarField(), &circuit, frontend.WithCapacity(-1))
	assert.Error(err)
	assert.Contains(err.Error(), "negative capacity")
}

type panicCircuit struct{}

func (c *panicCircuit) Configure(*constraint.System) error {
	panic("gate builder exploded")
}
func (c *panicCircuit) Synthesize(frontend.Layouter) error { return nil }
func (c *panicCircuit) WithoutWitnesses() frontend.Circuit { return &panicCircuit{} }

func TestCompileRecoversPanic(t *testing.T) {
	assert := require.New(t)

	cs, err := frontend.Compile(ecc.BN254.ScalarField(), &panicCircuit{})
	assert.Nil(cs)
	assert.Error(err)
	assert.Contains(err.Error(), "gate builder exploded")
}

type failingCircuit struct{}

func (c *failingCircuit) Configure(*constraint.System) error {
	return errors.New("columns out of stock")
}
func (c *failingCircuit) Synthesize(frontend.Layouter) error { return nil }
func (c *failingCircuit) WithoutWitnesses() frontend.Circuit { return &failingCircuit{} }

func TestCompileConfigureError(t *testing.T) {
	assert := require.New(t)

	_, err := frontend.Compile(ecc.BN254.ScalarField(), &failingCircuit{})
	assert.Error(err)
	assert.Contains(err.Error(), "configure circuit")
	assert.Contains(err.Error(), "columns out of stock")
}
