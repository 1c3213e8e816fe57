package test

import (
	"bytes"
	"io"
)

// Serializable is anything that can be written to and rebuilt from its
// binary encoding.
type Serializable interface {
	io.ReaderFrom
	io.WriterTo
}

// RoundTripCheck serializes from, reads it back into a fresh object built by
// rebuild, and requires the reconstruction to serialize to the same bytes.
// Reported byte counts must match the buffer on both directions.
func (assert *Assert) RoundTripCheck(from io.WriterTo, rebuild func() Serializable) {
	var buf bytes.Buffer

	written, err := from.WriteTo(&buf)
	assert.NoError(err, "serializing")
	assert.EqualValues(buf.Len(), written, "bytes written mismatch")

	to := rebuild()
	read, err := to.ReadFrom(bytes.NewReader(buf.Bytes()))
	assert.NoError(err, "deserializing")
	assert.EqualValues(buf.Len(), read, "bytes read mismatch")

	var buf2 bytes.Buffer
	_, err = to.WriteTo(&buf2)
	assert.NoError(err, "re-serializing")
	if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
		assert.FailNow("round trip drifted", "the reconstructed object serializes differently")
	}
}
