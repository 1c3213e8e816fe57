// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package frontend

import (
	"errors"
	"math/big"

	"github.com/consensys/plonkish/internal/utils"
)

// ErrUnknownValue is returned when a concrete synthesis run reads a value
// that is Unknown. Unknown values are only legal in shape-only runs.
var ErrUnknownValue = errors.New("unknown value")

// Value is a witness value flowing through synthesis; either a known field
// element or Unknown when synthesizing without witnesses. Arithmetic on
// values is lifted so that Unknown propagates instead of panicking, which
// lets the same Synthesize code drive both concrete and shape-only runs.
type Value struct {
	value *big.Int
}

// Known wraps a concrete value. The input can be anything
// utils.FromInterface accepts (field elements, integers, big.Int, decimal or
// 0x strings, byte slices); it panics on unsupported types.
func Known(input any) Value {
	v := utils.FromInterface(input)
	return Value{value: &v}
}

// Unknown returns the absent value used in shape-only synthesis.
func Unknown() Value {
	return Value{}
}

// knownBig wraps v without copying; the caller gives up ownership.
func knownBig(v *big.Int) Value {
	return Value{value: v}
}

// IsKnown reports whether the value is concrete.
func (v Value) IsKnown() bool {
	return v.value != nil
}

// Get returns a copy of the concrete value, or ErrUnknownValue.
func (v Value) Get() (*big.Int, error) {
	if v.value == nil {
		return nil, ErrUnknownValue
	}
	return new(big.Int).Set(v.value), nil
}

// Add returns v + other, Unknown if either operand is Unknown.
func (v Value) Add(other Value) Value {
	if v.value == nil || other.value == nil {
		return Value{}
	}
	return Value{value: new(big.Int).Add(v.value, other.value)}
}

// Sub returns v - other, Unknown if either operand is Unknown.
func (v Value) Sub(other Value) Value {
	if v.value == nil || other.value == nil {
		return Value{}
	}
	return Value{value: new(big.Int).Sub(v.value, other.value)}
}

// Mul returns v * other, Unknown if either operand is Unknown.
func (v Value) Mul(other Value) Value {
	if v.value == nil || other.value == nil {
		return Value{}
	}
	return Value{value: new(big.Int).Mul(v.value, other.value)}
}

func (v Value) String() string {
	if v.value == nil {
		return "unknown"
	}
	return v.value.String()
}
