package witness_test

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/internal/tinyfield"
	"github.com/consensys/plonkish/internal/utils/test_utils"
	"github.com/consensys/plonkish/witness"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func buildTestGrid(t *testing.T) *witness.Grid {
	t.Helper()

	g := witness.NewGrid(ecc.BN254.ScalarField(), 3, 2)
	require.NoError(t, g.SetAdvice(0, 0, big.NewInt(1)))
	require.NoError(t, g.SetAdvice(1, 0, big.NewInt(1)))
	require.NoError(t, g.SetAdvice(2, 0, big.NewInt(2)))
	require.NoError(t, g.SetAdvice(2, 5, big.NewInt(-7)))
	require.NoError(t, g.EnableSelector(0, 0))
	require.NoError(t, g.EnableSelector(1, 5))
	g.AddRegion("first row", 0, 1)
	g.AddRegion("", 5, 1)
	g.AddCopy(
		witness.Cell{Column: constraint.Column{Kind: constraint.Advice, Index: 0}, Row: 0},
		witness.Cell{Column: constraint.Column{Kind: constraint.Instance, Index: 0}, Row: 0},
	)
	g.AddCopy(
		witness.Cell{Column: constraint.Column{Kind: constraint.Advice, Index: 2}, Row: 0},
		witness.Cell{Column: constraint.Column{Kind: constraint.Advice, Index: 1}, Row: 0},
	)
	return g
}

func assertGridsEqual(t *testing.T, want, got *witness.Grid) {
	t.Helper()
	assert := require.New(t)

	assert.Zero(want.Field().Cmp(got.Field()))
	assert.Equal(want.NbRows(), got.NbRows())
	assert.Equal(want.NbAdvice(), got.NbAdvice())
	assert.Equal(want.NbSelectors(), got.NbSelectors())
	assert.Equal(want.ShapeOnly(), got.ShapeOnly())
	assert.Equal(want.Regions(), got.Regions())
	assert.Equal(want.Copies(), got.Copies())

	for col := 0; col < want.NbAdvice(); col++ {
		for row := 0; row < want.NbRows(); row++ {
			assert.Equal(want.IsAssigned(col, row), got.IsAssigned(col, row), "assigned bit (%d, %d)", col, row)
			assert.Zero(want.Advice(col, row).Cmp(got.Advice(col, row)), "value at (%d, %d)", col, row)
		}
	}
	for sel := 0; sel < want.NbSelectors(); sel++ {
		for row := 0; row < want.NbRows(); row++ {
			assert.Equal(want.IsSelectorEnabled(sel, row), got.IsSelectorEnabled(sel, row), "selector bit (%d, %d)", sel, row)
		}
	}
}

func TestGridSerializationRoundTrip(t *testing.T) {
	assert := require.New(t)

	g := buildTestGrid(t)

	var reconstructed witness.Grid
	test_utils.CopyThruSerialization(t, &reconstructed, g)
	assertGridsEqual(t, g, &reconstructed)

	// serialization is deterministic, on both the original and the copy
	data, err := g.ToBytes()
	assert.NoError(err)
	data2, err := reconstructed.ToBytes()
	assert.NoError(err)
	assert.True(bytes.Equal(data, data2))
}

func TestGridCompressedRoundTrip(t *testing.T) {
	assert := require.New(t)

	g := buildTestGrid(t)
	g.Grow(512)

	var buf bytes.Buffer
	_, err := g.WriteCompressedTo(&buf)
	assert.NoError(err)

	raw, err := g.ToBytes()
	assert.NoError(err)
	assert.Less(buf.Len(), len(raw))

	var reconstructed witness.Grid
	_, err = reconstructed.ReadCompressedFrom(&buf)
	assert.NoError(err)
	assertGridsEqual(t, g, &reconstructed)
}

func TestShapeOnlyGridRoundTrip(t *testing.T) {
	assert := require.New(t)

	g := witness.NewShapeOnlyGrid(tinyfield.Modulus(), 2, 1)
	assert.NoError(g.SetAdvice(0, 0, big.NewInt(3)))
	assert.NoError(g.SetAdvice(1, 4, big.NewInt(9)))
	assert.NoError(g.EnableSelector(0, 4))
	g.AddRegion("only", 0, 5)

	data, err := g.ToBytes()
	assert.NoError(err)

	var reconstructed witness.Grid
	n, err := reconstructed.FromBytes(data)
	assert.NoError(err)
	assert.Equal(len(data), n)
	assert.True(reconstructed.ShapeOnly())
	assertGridsEqual(t, g, &reconstructed)
}

func TestGridDeserializationErrors(t *testing.T) {
	assert := require.New(t)

	g := buildTestGrid(t)
	data, err := g.ToBytes()
	assert.NoError(err)

	var target witness.Grid
	_, err = target.FromBytes(data[:16])
	assert.Error(err)
	_, err = target.FromBytes(data[:len(data)-4])
	assert.Error(err)
}

func TestGridSerializationProperties(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	field := tinyfield.Modulus()

	properties.Property("grid serialization round trips", prop.ForAll(
		func(vals []uint64) bool {
			g := witness.NewGrid(field, 3, 2)
			for i, v := range vals {
				col := i % 3
				row := (i * 7) % 64
				if !g.IsAssigned(col, row) {
					if g.SetAdvice(col, row, new(big.Int).SetUint64(v)) != nil {
						return false
					}
				}
				if i%3 == 0 {
					if g.EnableSelector(i%2, row) != nil {
						return false
					}
				}
				if i%5 == 0 {
					g.AddCopy(
						witness.Cell{Column: constraint.Column{Kind: constraint.Advice, Index: col}, Row: row},
						witness.Cell{Column: constraint.Column{Kind: constraint.Instance, Index: 0}, Row: i % 8},
					)
				}
			}

			data, err := g.ToBytes()
			if err != nil {
				return false
			}
			var back witness.Grid
			if _, err := back.FromBytes(data); err != nil {
				return false
			}
			data2, err := back.ToBytes()
			if err != nil {
				return false
			}
			return bytes.Equal(data, data2) && back.NbRows() == g.NbRows()
		},
		gen.SliceOf(gen.UInt64()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
