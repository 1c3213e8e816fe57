// Package tinyfield defines a 17-bit prime field used to exercise the
// verifier in tests; a small modulus makes wraparound and violation cases
// cheap to enumerate.
package tinyfield

import "math/big"

const q uint64 = 65537

// Modulus returns the field order q as a big.Int.
func Modulus() *big.Int {
	return new(big.Int).SetUint64(q)
}
