package ioutils

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/ronanh/intcomp"
)

// CompressAndWriteUints32 compresses a slice of uint32 and writes it to w,
// prefixed by the compressed word count. It returns the scratch buffer
// (possibly extended) for future use.
func CompressAndWriteUints32(w io.Writer, input []uint32, buffer []uint32) ([]uint32, error) {
	buffer = buffer[:0]
	buffer = intcomp.CompressUint32(input, buffer)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return buffer, err
	}
	return buffer, binary.Write(w, binary.LittleEndian, buffer)
}

// CompressAndWriteUints64 compresses a slice of uint64 and writes it to w,
// prefixed by the compressed word count.
func CompressAndWriteUints64(w io.Writer, input []uint64) error {
	buffer := intcomp.CompressUint64(input, nil)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(buffer))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, buffer)
}

// ReadAndDecompressUints32 reads a compressed slice of uint32 from in and
// decompresses it. It returns the scratch buffer (possibly extended), the
// number of bytes consumed and the decompressed slice.
func ReadAndDecompressUints32(in []byte, buffer []uint32) ([]uint32, int, []uint32, error) {
	if len(in) < 8 {
		return buffer, 0, nil, errors.New("invalid data length")
	}
	length := binary.LittleEndian.Uint64(in[:8])
	if uint64(len(in)) < 8+4*length {
		return buffer, 0, nil, errors.New("invalid data length")
	}
	if uint64(cap(buffer)) < length {
		buffer = make([]uint32, length)
	}
	buffer = buffer[:length]
	for i := range buffer {
		buffer[i] = binary.LittleEndian.Uint32(in[8+4*i:])
	}
	return buffer, 8 + 4*int(length), intcomp.UncompressUint32(buffer, nil), nil
}

// ReadAndDecompressUints64 reads a compressed slice of uint64 from in and
// decompresses it. It returns the number of bytes consumed and the
// decompressed slice.
func ReadAndDecompressUints64(in []byte) (int, []uint64, error) {
	if len(in) < 8 {
		return 0, nil, errors.New("invalid data length")
	}
	length := binary.LittleEndian.Uint64(in[:8])
	if uint64(len(in)) < 8+8*length {
		return 0, nil, errors.New("invalid data length")
	}
	buffer := make([]uint64, length)
	for i := range buffer {
		buffer[i] = binary.LittleEndian.Uint64(in[8+8*i:])
	}
	return 8 + 8*int(length), intcomp.UncompressUint64(buffer, nil), nil
}
