package utils

import "golang.org/x/exp/constraints"

// IntoUint32s converts a slice of integers into the width consumed by the
// compressed sections of the serialization format. Values must fit in 32 bits.
func IntoUint32s[T constraints.Integer](v []T) []uint32 {
	res := make([]uint32, len(v))
	for i := range v {
		res[i] = uint32(v[i])
	}
	return res
}

// FromUint32s is the inverse of IntoUint32s.
func FromUint32s[T constraints.Integer](v []uint32) []T {
	res := make([]T, len(v))
	for i := range v {
		res[i] = T(v[i])
	}
	return res
}
