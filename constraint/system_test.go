package constraint_test

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/plonkish/constraint"
	"github.com/stretchr/testify/require"
)

func TestColumnAllocation(t *testing.T) {
	assert := require.New(t)

	cs := constraint.NewSystem(ecc.BN254.ScalarField(), 0)

	a := cs.AdviceColumn()
	b := cs.AdviceColumn()
	i0 := cs.InstanceColumn()
	s0 := cs.SelectorColumn()
	c := cs.AdviceColumn()

	assert.Equal(constraint.Column{Kind: constraint.Advice, Index: 0}, a)
	assert.Equal(constraint.Column{Kind: constraint.Advice, Index: 1}, b)
	assert.Equal(constraint.Column{Kind: constraint.Advice, Index: 2}, c)
	assert.Equal(constraint.Column{Kind: constraint.Instance, Index: 0}, i0)
	assert.Equal(constraint.Column{Kind: constraint.Selector, Index: 0}, s0)

	assert.Equal(3, cs.NbAdvice)
	assert.Equal(1, cs.NbInstance)
	assert.Equal(1, cs.NbSelector)

	assert.Equal("advice[1]", b.String())
	assert.Equal("instance[0]", i0.String())
	assert.Equal("selector[0]", s0.String())
}

func TestEnableEquality(t *testing.T) {
	assert := require.New(t)

	cs := constraint.NewSystem(ecc.BN254.ScalarField(), 0)
	a := cs.AdviceColumn()
	i0 := cs.InstanceColumn()
	s0 := cs.SelectorColumn()

	assert.False(cs.IsEqualityEnabled(a))
	assert.NoError(cs.EnableEquality(a))
	assert.True(cs.IsEqualityEnabled(a))

	assert.NoError(cs.EnableEquality(i0))
	assert.True(cs.IsEqualityEnabled(i0))

	err := cs.EnableEquality(s0)
	assert.ErrorIs(err, constraint.ErrSelectorEquality)
	assert.False(cs.IsEqualityEnabled(s0))

	err = cs.EnableEquality(constraint.Column{Kind: constraint.Advice, Index: 7})
	assert.ErrorIs(err, constraint.ErrUndeclaredColumn)

	err = cs.EnableEquality(constraint.Column{})
	assert.ErrorIs(err, constraint.ErrUndeclaredColumn)
}

func TestCreateGate(t *testing.T) {
	assert := require.New(t)

	cs := constraint.NewSystem(ecc.BN254.ScalarField(), 1)
	a := cs.AdviceColumn()
	b := cs.AdviceColumn()
	c := cs.AdviceColumn()
	sel := cs.SelectorColumn()

	assert.NoError(cs.CreateGate("add", sel, func(vc *constraint.VirtualCells) []constraint.Expression {
		va := vc.QueryAdvice(a, constraint.Cur)
		vb := vc.QueryAdvice(b, constraint.Cur)
		vCur := vc.QueryAdvice(c, constraint.Cur)
		return []constraint.Expression{va.Add(vb).Sub(vCur)}
	}))

	assert.Equal(1, cs.GetNbGates())
	g := cs.Gates[0]
	assert.Equal("add", g.Name)
	assert.Equal(sel, g.Selector)
	assert.Len(g.Constraints, 1)

	// queries recorded in first-use order, deduplicated
	assert.Equal([]constraint.Query{
		{Column: a, Rotation: constraint.Cur},
		{Column: b, Rotation: constraint.Cur},
		{Column: c, Rotation: constraint.Cur},
	}, g.Queries)

	site := cs.DeclarationSite(&cs.Gates[0])
	assert.Contains(site, "system_test.go:")
}

func TestCreateGateErrors(t *testing.T) {
	assert := require.New(t)

	cs := constraint.NewSystem(ecc.BN254.ScalarField(), 0)
	a := cs.AdviceColumn()
	sel := cs.SelectorColumn()

	// selector argument must be a selector column
	err := cs.CreateGate("bad", a, func(vc *constraint.VirtualCells) []constraint.Expression {
		return []constraint.Expression{vc.Constant(1)}
	})
	assert.Error(err)

	// undeclared selector
	err = cs.CreateGate("bad", constraint.Column{Kind: constraint.Selector, Index: 3}, func(vc *constraint.VirtualCells) []constraint.Expression {
		return []constraint.Expression{vc.Constant(1)}
	})
	assert.ErrorIs(err, constraint.ErrUndeclaredColumn)

	// a gate must carry at least one constraint
	err = cs.CreateGate("empty", sel, func(vc *constraint.VirtualCells) []constraint.Expression {
		return nil
	})
	assert.ErrorIs(err, constraint.ErrEmptyGate)

	// selectors are not queryable
	err = cs.CreateGate("selquery", sel, func(vc *constraint.VirtualCells) []constraint.Expression {
		q := &constraint.Query{Column: sel, Rotation: constraint.Cur}
		return []constraint.Expression{q.Sub(vc.Constant(1))}
	})
	assert.ErrorIs(err, constraint.ErrSelectorQuery)

	// hand-built queries must reference declared columns
	err = cs.CreateGate("undeclared", sel, func(vc *constraint.VirtualCells) []constraint.Expression {
		q := &constraint.Query{Column: constraint.Column{Kind: constraint.Advice, Index: 9}, Rotation: constraint.Cur}
		return []constraint.Expression{q.Sub(vc.Constant(1))}
	})
	assert.ErrorIs(err, constraint.ErrUndeclaredColumn)

	// kind misuse in the builder panics; frontend.Compile converts this to an error
	assert.Panics(func() {
		_ = cs.CreateGate("misuse", sel, func(vc *constraint.VirtualCells) []constraint.Expression {
			return []constraint.Expression{vc.QueryInstance(a, constraint.Cur)}
		})
	})
}

func TestDuplicateGateName(t *testing.T) {
	assert := require.New(t)

	cs := constraint.NewSystem(ecc.BN254.ScalarField(), 0)
	a := cs.AdviceColumn()
	sel := cs.SelectorColumn()

	build := func(vc *constraint.VirtualCells) []constraint.Expression {
		return []constraint.Expression{vc.QueryAdvice(a, constraint.Cur)}
	}

	// duplicate names are permitted; both gates register
	assert.NoError(cs.CreateGate("dup", sel, build))
	assert.NoError(cs.CreateGate("dup", sel, build))
	assert.Equal(2, cs.GetNbGates())
}

func TestRotationBounds(t *testing.T) {
	assert := require.New(t)

	cs := constraint.NewSystem(ecc.BN254.ScalarField(), 0)
	a := cs.AdviceColumn()
	sel := cs.SelectorColumn()

	assert.NoError(cs.CreateGate("window", sel, func(vc *constraint.VirtualCells) []constraint.Expression {
		prev := vc.QueryAdvice(a, constraint.Prev)
		cur := vc.QueryAdvice(a, constraint.Cur)
		ahead := vc.QueryAdvice(a, constraint.Rotation(2))
		return []constraint.Expression{prev.Add(cur).Sub(ahead)}
	}))

	min, max := cs.Gates[0].RotationBounds()
	assert.Equal(constraint.Prev, min)
	assert.Equal(constraint.Rotation(2), max)
}

func ExampleSystem_CreateGate() {
	cs := constraint.NewSystem(big.NewInt(65537), 1)

	a := cs.AdviceColumn()
	b := cs.AdviceColumn()
	c := cs.AdviceColumn()
	sel := cs.SelectorColumn()

	_ = cs.CreateGate("add", sel, func(vc *constraint.VirtualCells) []constraint.Expression {
		va := vc.QueryAdvice(a, constraint.Cur)
		vb := vc.QueryAdvice(b, constraint.Cur)
		vCur := vc.QueryAdvice(c, constraint.Cur)
		return []constraint.Expression{va.Add(vb).Sub(vCur)}
	})

	fmt.Println(cs.Gates[0].Constraints[0].String())
	// Output: ((advice[0] + advice[1]) - advice[2])
}
