// Package plonkish provides a PLONKish arithmetic-circuit construction and
// verification layer: advice, instance and selector columns over a grid of
// field-element cells, named polynomial gates queried at row rotations,
// region-scoped cell assignment with copy constraints, and a mock verifier
// that walks a witness grid and reports every violated constraint.
//
// A circuit is described once (configure) as a shape of columns and gates,
// then synthesized per witness into a grid; the same shape is reused across
// arbitrarily many witnesses. See the frontend, constraint, witness and mock
// packages, and examples/ for complete circuits.
//
// plonkish supports the scalar fields of the following curves:
//   - BN254
//   - BLS12_377
//   - BLS12_381
//   - BW6_761
//   - BLS24_315
//   - BW6_633
//   - BLS24_317
package plonkish

import (
	"github.com/blang/semver/v4"
	"github.com/consensys/gnark-crypto/ecc"
)

var Version = semver.MustParse("0.1.0")

// Curves return the curves whose scalar fields are supported by plonkish
func Curves() []ecc.ID {
	return []ecc.ID{
		ecc.BN254,
		ecc.BLS12_377,
		ecc.BLS12_381,
		ecc.BLS24_315,
		ecc.BLS24_317,
		ecc.BW6_761,
		ecc.BW6_633,
	}
}
