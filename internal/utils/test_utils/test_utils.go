package test_utils

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// CopyThruSerialization writes src to a buffer and reads it back into dst,
// checking the reported byte counts along the way.
func CopyThruSerialization(t *testing.T, dst, src interface {
	io.ReaderFrom
	io.WriterTo
}) {
	var bb bytes.Buffer

	n, err := src.WriteTo(&bb)
	require.NoError(t, err)
	require.Equal(t, int64(bb.Len()), n)
	n, err = dst.ReadFrom(bytes.NewReader(bb.Bytes()))
	require.NoError(t, err)
	require.Equal(t, int64(bb.Len()), n)
}
