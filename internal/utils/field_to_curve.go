package utils

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/plonkish"
)

var curves map[string]ecc.ID

func init() {
	curves = make(map[string]ecc.ID)
	for _, c := range plonkish.Curves() {
		fHex := c.ScalarField().Text(16)
		curves[fHex] = c
	}
}

// ByteLen returns the number of bytes needed to encode 0 <= n < q.
// It depends only on q, not on the machine word size, so it is safe to use
// as a fixed width in serialized formats.
func ByteLen(q *big.Int) int {
	return (q.BitLen() + 7) / 8
}

// FieldToCurve returns the ecc.ID whose scalar field matches q, or
// ecc.UNKNOWN if q is not the scalar field of a supported curve.
func FieldToCurve(q *big.Int) ecc.ID {
	fHex := q.Text(16)
	curve, ok := curves[fHex]
	if !ok {
		return ecc.UNKNOWN
	}
	return curve
}
