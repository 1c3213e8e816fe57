package frontend_test

import (
	"math/big"
	"testing"

	"github.com/consensys/plonkish/frontend"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestValueKnown(t *testing.T) {
	assert := require.New(t)

	v := frontend.Known(42)
	assert.True(v.IsKnown())
	got, err := v.Get()
	assert.NoError(err)
	assert.Equal(int64(42), got.Int64())
	assert.Equal("42", v.String())

	s := frontend.Known("0x0a")
	got, err = s.Get()
	assert.NoError(err)
	assert.Equal(int64(10), got.Int64())

	u := frontend.Unknown()
	assert.False(u.IsKnown())
	_, err = u.Get()
	assert.ErrorIs(err, frontend.ErrUnknownValue)
	assert.Equal("unknown", u.String())
}

func TestValueUnknownPropagates(t *testing.T) {
	assert := require.New(t)

	k := frontend.Known(3)
	u := frontend.Unknown()

	assert.False(k.Add(u).IsKnown())
	assert.False(u.Add(k).IsKnown())
	assert.False(k.Sub(u).IsKnown())
	assert.False(u.Sub(k).IsKnown())
	assert.False(k.Mul(u).IsKnown())
	assert.False(u.Mul(u).IsKnown())
}

func TestValueGetCopies(t *testing.T) {
	assert := require.New(t)

	v := frontend.Known(7)
	a, err := v.Get()
	assert.NoError(err)
	a.SetInt64(99)

	b, err := v.Get()
	assert.NoError(err)
	assert.Equal(int64(7), b.Int64())
}

func TestValueArithmetic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("value arithmetic matches big.Int arithmetic", prop.ForAll(
		func(a, b int64) bool {
			va := frontend.Known(a)
			vb := frontend.Known(b)
			ba := big.NewInt(a)
			bb := big.NewInt(b)

			sum, err := va.Add(vb).Get()
			if err != nil || sum.Cmp(new(big.Int).Add(ba, bb)) != 0 {
				return false
			}
			diff, err := va.Sub(vb).Get()
			if err != nil || diff.Cmp(new(big.Int).Sub(ba, bb)) != 0 {
				return false
			}
			prod, err := va.Mul(vb).Get()
			if err != nil || prod.Cmp(new(big.Int).Mul(ba, bb)) != 0 {
				return false
			}
			return true
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.Property("arithmetic does not mutate operands", prop.ForAll(
		func(a, b int64) bool {
			va := frontend.Known(a)
			vb := frontend.Known(b)
			_ = va.Add(vb)
			_ = va.Mul(vb)

			gotA, _ := va.Get()
			gotB, _ := vb.Get()
			return gotA.Int64() == a && gotB.Int64() == b
		},
		gen.Int64(),
		gen.Int64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
