package mock_test

import (
	"bytes"
	"testing"

	"github.com/consensys/plonkish/frontend"
	"github.com/consensys/plonkish/internal/tinyfield"
	"github.com/consensys/plonkish/mock"
	"github.com/consensys/plonkish/witness"
	"github.com/stretchr/testify/require"
)

func TestRenderLayout(t *testing.T) {
	assert := require.New(t)

	q := tinyfield.Modulus()
	circuit := &addCircuit{A: frontend.Known(2), B: frontend.Known(3)}
	p, err := mock.Run(q, circuit, witness.NewInstances(q, []any{5}))
	assert.NoError(err)

	var buf bytes.Buffer
	assert.NoError(p.RenderLayout(&buf))

	out := buf.String()
	assert.Contains(out, "circuit layout")
	assert.Contains(out, "advice[0]")
	assert.Contains(out, "selector[0]")
	assert.Contains(out, "0 · add")
}

func TestRenderLayoutShapeOnly(t *testing.T) {
	assert := require.New(t)

	q := tinyfield.Modulus()
	circuit := &addCircuit{}
	cs, err := frontend.Compile(q, circuit)
	assert.NoError(err)

	grid, err := frontend.Synthesize(cs, circuit, nil, frontend.WithShapeOnly())
	assert.NoError(err)

	var buf bytes.Buffer
	assert.NoError(mock.RenderLayout(cs, grid, &buf))

	out := buf.String()
	assert.Contains(out, "advice[2]")
	assert.Contains(out, "0 · add")
}
