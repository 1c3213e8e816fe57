// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package test provides a helper to test circuits against the mock verifier.
package test

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/frontend"
	"github.com/consensys/plonkish/internal/utils"
	"github.com/consensys/plonkish/mock"
	"github.com/consensys/plonkish/witness"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var (
	ErrCompilationNotDeterministic = errors.New("compilation is not deterministic")
	ErrInvalidAssignmentSatisfied  = errors.New("invalid assignment satisfied the circuit")
)

// Assert is a helper to test circuits
type Assert struct {
	t *testing.T
	*require.Assertions
}

// NewAssert returns an Assert helper embedding a testify/require object for convenience
func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t, Assertions: require.New(t)}
}

// Run runs the test function fn as a subtest. The subtest is parametrized by
// the description strings descs.
func (assert *Assert) Run(fn func(assert *Assert), descs ...string) {
	desc := strings.Join(descs, "/")
	assert.t.Run(desc, func(t *testing.T) {
		assert := &Assert{t, require.New(t)}
		fn(assert)
	})
}

// Log logs using the test instance logger.
func (assert *Assert) Log(v ...interface{}) {
	assert.t.Log(v...)
}

// CheckCircuit compiles the circuit for every configured field and checks
// each assignment against the mock verifier:
//
//  1. compiles the circuit twice and requires identical serialized shapes
//  2. round-trips the shape through its binary encoding (skipped with -short)
//  3. every valid assignment must synthesize and verify with no violation
//  4. every invalid assignment must fail synthesis or report violations
//
// By default this tests on the BN254 and BLS12-381 scalar fields. See
// available TestingOption.
func (assert *Assert) CheckCircuit(circuit frontend.Circuit, opts ...TestingOption) {
	opt := assert.options(opts...)

	for _, field := range opt.fields {
		field := field
		assert.Run(func(assert *Assert) {

			cs, err := assert.compile(circuit, field, opt.compileOpts)
			assert.NoError(err)

			wantDigest, err := cs.Digest()
			assert.NoError(err)

			if opt.checkSerialization && cs.GetNbGates() <= serializationThreshold {
				assert.Run(func(assert *Assert) {
					assert.RoundTripCheck(cs, func() Serializable { return new(constraint.System) })
				}, "serialization")
			}

			// mock.Run compiles each assignment, binding its columns; the
			// digest check catches assignments describing a different shape.
			for i, a := range opt.validAssignments {
				a := a
				assert.Run(func(assert *Assert) {
					assert.t.Parallel()
					p, err := mock.Run(field, a.circuit, witness.NewInstances(field, a.instances...), opt.mockOpts...)
					assert.NoError(err)
					assert.NoError(p.AssertSatisfied())

					gotDigest, err := p.System().Digest()
					assert.NoError(err)
					assert.Equal(wantDigest, gotDigest, "assignment shape drifted from the circuit shape")

					if opt.checkSerialization {
						assert.RoundTripCheck(p.Grid(), func() Serializable { return new(witness.Grid) })
					}
				}, "valid_witness", strconv.Itoa(i))
			}

			for i, a := range opt.invalidAssignments {
				a := a
				assert.Run(func(assert *Assert) {
					assert.t.Parallel()
					p, err := mock.Run(field, a.circuit, witness.NewInstances(field, a.instances...), opt.mockOpts...)
					if err != nil {
						// rejected during synthesis, which is a failure too
						return
					}
					if len(p.Verify()) == 0 {
						assert.FailNow(ErrInvalidAssignmentSatisfied.Error())
					}
				}, "invalid_witness", strconv.Itoa(i))
			}

		}, fieldName(field))
	}
}

// CheckParallelRuns compiles the circuit once per field and synthesizes every
// assignment n times concurrently against the shared shape. All runs of one
// assignment must report the identical violation list, and the shape must
// serialize to the same bytes before and after.
//
// The circuit's Synthesize must not mutate the receiver; runs own their grid
// but share the circuit.
func (assert *Assert) CheckParallelRuns(circuit frontend.Circuit, n int, opts ...TestingOption) {
	opt := assert.options(opts...)

	assignments := make([]assignment, 0, len(opt.validAssignments)+len(opt.invalidAssignments))
	assignments = append(assignments, opt.validAssignments...)
	assignments = append(assignments, opt.invalidAssignments...)

	for _, field := range opt.fields {
		field := field
		assert.Run(func(assert *Assert) {

			cs, err := assert.compile(circuit, field, opt.compileOpts)
			assert.NoError(err)

			wantDigest, err := cs.Digest()
			assert.NoError(err)

			before, err := cs.ToBytes()
			assert.NoError(err)

			for i, a := range assignments {
				a := a
				assert.Run(func(assert *Assert) {
					// bind the assignment's columns against its own compile,
					// then run it against the shared shape
					acs, err := frontend.Compile(field, a.circuit, opt.compileOpts...)
					assert.NoError(err)
					gotDigest, err := acs.Digest()
					assert.NoError(err)
					assert.Equal(wantDigest, gotDigest, "assignment shape drifted from the circuit shape")

					instances := witness.NewInstances(field, a.instances...)

					violations := make([][]mock.Violation, n)
					var eg errgroup.Group
					for k := 0; k < n; k++ {
						k := k
						eg.Go(func() error {
							p, err := mock.RunWithSystem(cs, a.circuit, instances, opt.mockOpts...)
							if err != nil {
								return err
							}
							violations[k] = p.Verify()
							return nil
						})
					}
					assert.NoError(eg.Wait())

					for k := 1; k < n; k++ {
						if diff := cmp.Diff(violations[0], violations[k]); diff != "" {
							assert.FailNow("parallel runs diverged", "run %d:\n%s", k, diff)
						}
					}
				}, "assignment", strconv.Itoa(i))
			}

			after, err := cs.ToBytes()
			assert.NoError(err)
			if !bytes.Equal(before, after) {
				assert.FailNow("shape mutated by synthesis runs")
			}

		}, fieldName(field))
	}
}

// compile the given circuit for the given field and ensure it is deterministic
func (assert *Assert) compile(circuit frontend.Circuit, field *big.Int, compileOpts []frontend.CompileOption) (*constraint.System, error) {
	cs, err := frontend.Compile(field, circuit, compileOpts...)
	if err != nil {
		return nil, err
	}

	_cs, err := frontend.Compile(field, circuit, compileOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompilationNotDeterministic, err)
	}

	b1, err := cs.ToBytes()
	if err != nil {
		return nil, err
	}
	b2, err := _cs.ToBytes()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(b1, b2) {
		return nil, ErrCompilationNotDeterministic
	}

	return cs, nil
}

func fieldName(q *big.Int) string {
	if curve := utils.FieldToCurve(q); curve != ecc.UNKNOWN {
		return curve.String()
	}
	return fmt.Sprintf("field%d", q.BitLen())
}
