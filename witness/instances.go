// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package witness

import (
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/consensys/plonkish/internal/ioutils"
	"github.com/consensys/plonkish/internal/utils"
)

// Instances are the public input vectors of one run, one vector per instance
// column of the shape, each addressed by row. Values are reduced modulo the
// field at construction.
type Instances struct {
	field   *big.Int
	vectors [][]big.Int
}

// NewInstances builds the instance vectors from arbitrary values; vectors[i]
// feeds instance column i. Values can be anything utils.FromInterface
// accepts (field elements, integers, big.Int, decimal or 0x strings, byte
// slices); it panics on unsupported types.
func NewInstances(field *big.Int, vectors ...[]any) *Instances {
	ins := &Instances{
		field:   new(big.Int).Set(field),
		vectors: make([][]big.Int, len(vectors)),
	}
	for i, vec := range vectors {
		ins.vectors[i] = make([]big.Int, len(vec))
		for j := range vec {
			v := utils.FromInterface(vec[j])
			ins.vectors[i][j].Mod(&v, ins.field)
		}
	}
	return ins
}

// NbColumns returns the number of instance vectors.
func (ins *Instances) NbColumns() int {
	if ins == nil {
		return 0
	}
	return len(ins.vectors)
}

// NbRows returns the length of the vector feeding instance column col, 0 if
// the column has no vector.
func (ins *Instances) NbRows(col int) int {
	if ins == nil || col < 0 || col >= len(ins.vectors) {
		return 0
	}
	return len(ins.vectors[col])
}

// At returns a copy of the value at (col, row). The second return value is
// false when the cell falls outside the supplied vectors; callers decide
// whether that is fatal.
func (ins *Instances) At(col, row int) (*big.Int, bool) {
	if ins == nil || col < 0 || col >= len(ins.vectors) {
		return nil, false
	}
	if row < 0 || row >= len(ins.vectors[col]) {
		return nil, false
	}
	return new(big.Int).Set(&ins.vectors[col][row]), true
}

// WriteTo serializes the instance vectors to w. Values are written as
// big-endian byte arrays of fixed width len(bytes(modulus)).
func (ins *Instances) WriteTo(w io.Writer) (int64, error) {
	cw := ioutils.WriterCounter{W: w}

	fieldBytes := ins.field.Bytes()
	if err := binary.Write(&cw, binary.LittleEndian, uint32(len(fieldBytes))); err != nil {
		return cw.N, err
	}
	if _, err := cw.Write(fieldBytes); err != nil {
		return cw.N, err
	}
	if err := binary.Write(&cw, binary.LittleEndian, uint32(len(ins.vectors))); err != nil {
		return cw.N, err
	}

	buf := make([]byte, utils.ByteLen(ins.field))
	for _, vec := range ins.vectors {
		if err := binary.Write(&cw, binary.LittleEndian, uint32(len(vec))); err != nil {
			return cw.N, err
		}
		for j := range vec {
			vec[j].FillBytes(buf)
			if _, err := cw.Write(buf); err != nil {
				return cw.N, err
			}
		}
	}
	return cw.N, nil
}

// ReadFrom reconstructs instance vectors written by WriteTo, replacing the
// receiver's content.
func (ins *Instances) ReadFrom(r io.Reader) (int64, error) {
	cr := ioutils.ReaderCounter{R: r}

	var fieldLen uint32
	if err := binary.Read(&cr, binary.LittleEndian, &fieldLen); err != nil {
		return cr.N, err
	}
	if fieldLen == 0 || fieldLen > 8192 {
		return cr.N, errors.New("invalid modulus length")
	}
	fieldBytes := make([]byte, fieldLen)
	if _, err := io.ReadFull(&cr, fieldBytes); err != nil {
		return cr.N, err
	}
	ins.field = new(big.Int).SetBytes(fieldBytes)
	if ins.field.Sign() <= 0 {
		return cr.N, errors.New("invalid modulus")
	}

	var nbVectors uint32
	if err := binary.Read(&cr, binary.LittleEndian, &nbVectors); err != nil {
		return cr.N, err
	}

	buf := make([]byte, utils.ByteLen(ins.field))
	ins.vectors = make([][]big.Int, nbVectors)
	for i := range ins.vectors {
		var n uint32
		if err := binary.Read(&cr, binary.LittleEndian, &n); err != nil {
			return cr.N, err
		}
		ins.vectors[i] = make([]big.Int, n)
		for j := range ins.vectors[i] {
			if _, err := io.ReadFull(&cr, buf); err != nil {
				return cr.N, err
			}
			ins.vectors[i][j].SetBytes(buf)
		}
	}
	return cr.N, nil
}
