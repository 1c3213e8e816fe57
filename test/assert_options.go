package test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/plonkish/frontend"
	"github.com/consensys/plonkish/mock"
)

// serializationThreshold is the number of gates above which we don't do the
// shape serialization check.
const serializationThreshold = 1000

// TestingOption defines option for altering the behavior of Assert methods.
// See the descriptions of functions returning instances of this type for
// particular options.
type TestingOption func(*testingConfig) error

// assignment pairs a circuit carrying witness values with the raw public
// input vectors feeding its instance columns. Vectors are kept untyped so
// one assignment can run on several fields.
type assignment struct {
	circuit   frontend.Circuit
	instances [][]any
}

type testingConfig struct {
	fields      []*big.Int
	compileOpts []frontend.CompileOption
	mockOpts    []mock.Option

	validAssignments   []assignment
	invalidAssignments []assignment

	checkSerialization bool
}

// default options
func (assert *Assert) options(opts ...TestingOption) testingConfig {
	opt := testingConfig{
		fields: []*big.Int{
			ecc.BN254.ScalarField(),
			ecc.BLS12_381.ScalarField(),
		},
		checkSerialization: !testing.Short(),
	}

	// apply user provided options.
	for _, option := range opts {
		err := option(&opt)
		assert.NoError(err, "parsing TestingOption")
	}

	return opt
}

// WithValidAssignment is a testing option which adds a satisfying assignment:
// a circuit carrying witness values plus one public input vector per
// instance column.
func WithValidAssignment(circuit frontend.Circuit, instances ...[]any) TestingOption {
	return func(opt *testingConfig) error {
		opt.validAssignments = append(opt.validAssignments, assignment{circuit, instances})
		return nil
	}
}

// WithInvalidAssignment is a testing option which adds an assignment that
// must either fail synthesis or produce violations.
func WithInvalidAssignment(circuit frontend.Circuit, instances ...[]any) TestingOption {
	return func(opt *testingConfig) error {
		opt.invalidAssignments = append(opt.invalidAssignments, assignment{circuit, instances})
		return nil
	}
}

// WithFields is a testing option which restricts the fields the assertions
// are run on. When not given, runs on the BN254 and BLS12-381 scalar fields.
func WithFields(f *big.Int, fields ...*big.Int) TestingOption {
	return func(opt *testingConfig) error {
		if f == nil {
			return errors.New("nil field")
		}
		opt.fields = append([]*big.Int{f}, fields...)
		return nil
	}
}

// WithCompileOpts is a testing option which uses the given compileOpts when
// calling frontend.Compile.
func WithCompileOpts(compileOpts ...frontend.CompileOption) TestingOption {
	return func(opt *testingConfig) error {
		opt.compileOpts = compileOpts
		return nil
	}
}

// WithMockOpts is a testing option which forwards the given options to every
// mock prover run.
func WithMockOpts(mockOpts ...mock.Option) TestingOption {
	return func(opt *testingConfig) error {
		opt.mockOpts = mockOpts
		return nil
	}
}

// NoSerializationChecks is a testing option which skips the shape and grid
// round-trip checks regardless of -short.
func NoSerializationChecks(opt *testingConfig) error {
	opt.checkSerialization = false
	return nil
}
