// Copyright 2020-2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package witness

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math/big"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/compress/lzss"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/internal/ioutils"
	"github.com/consensys/plonkish/internal/utils"
	"github.com/icza/bitio"
	"golang.org/x/sync/errgroup"
)

const headerLen = 4 * 8

var errInvalidGrid = errors.New("invalid grid data")

type header struct {
	// length in bytes of each section
	metaLen    uint64
	valuesLen  uint64
	bitmapsLen uint64
	copiesLen  uint64
}

func (h *header) toBytes() []byte {
	buf := make([]byte, 0, headerLen+h.metaLen+h.valuesLen+h.bitmapsLen+h.copiesLen)

	buf = binary.LittleEndian.AppendUint64(buf, h.metaLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.valuesLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.bitmapsLen)
	buf = binary.LittleEndian.AppendUint64(buf, h.copiesLen)

	return buf
}

func (h *header) fromBytes(buf []byte) {
	h.metaLen = binary.LittleEndian.Uint64(buf[:8])
	h.valuesLen = binary.LittleEndian.Uint64(buf[8:16])
	h.bitmapsLen = binary.LittleEndian.Uint64(buf[16:24])
	h.copiesLen = binary.LittleEndian.Uint64(buf[24:32])
}

// ToBytes serializes the grid to a byte slice. The sections are prepared
// independently, which allows for parallelism on both ends; two calls on the
// same grid produce identical bytes.
func (g *Grid) ToBytes() ([]byte, error) {
	var values, bitmaps, copies []byte
	var eg errgroup.Group
	eg.Go(func() error {
		values = g.valuesToBytes()
		return nil
	})
	eg.Go(func() error {
		var err error
		bitmaps, err = g.bitmapsToBytes()
		return err
	})
	eg.Go(func() error {
		var err error
		copies, err = g.copiesToBytes()
		return err
	})
	meta := g.metaToBytes()

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	h := header{
		metaLen:    uint64(len(meta)),
		valuesLen:  uint64(len(values)),
		bitmapsLen: uint64(len(bitmaps)),
		copiesLen:  uint64(len(copies)),
	}

	buf := h.toBytes()
	buf = append(buf, meta...)
	buf = append(buf, values...)
	buf = append(buf, bitmaps...)
	buf = append(buf, copies...)

	return buf, nil
}

// FromBytes deserializes the grid from a byte slice, replacing the
// receiver's content. It returns the number of bytes read.
func (g *Grid) FromBytes(data []byte) (int, error) {
	if len(data) < headerLen {
		return 0, errInvalidGrid
	}

	h := new(header)
	h.fromBytes(data)

	if uint64(len(data)) < uint64(headerLen)+h.metaLen+h.valuesLen+h.bitmapsLen+h.copiesLen {
		return 0, errInvalidGrid
	}

	// the meta section carries the dimensions the other sections need
	if err := g.metaFromBytes(data[headerLen : headerLen+h.metaLen]); err != nil {
		return 0, err
	}

	valuesData := data[headerLen+h.metaLen : headerLen+h.metaLen+h.valuesLen]
	bitmapsData := data[headerLen+h.metaLen+h.valuesLen : headerLen+h.metaLen+h.valuesLen+h.bitmapsLen]
	copiesData := data[headerLen+h.metaLen+h.valuesLen+h.bitmapsLen : headerLen+h.metaLen+h.valuesLen+h.bitmapsLen+h.copiesLen]

	var eg errgroup.Group
	eg.Go(func() error { return g.valuesFromBytes(valuesData) })
	eg.Go(func() error { return g.bitmapsFromBytes(bitmapsData) })
	eg.Go(func() error { return g.copiesFromBytes(copiesData) })

	if err := eg.Wait(); err != nil {
		return 0, err
	}

	return headerLen + int(h.metaLen) + int(h.valuesLen) + int(h.bitmapsLen) + int(h.copiesLen), nil
}

// WriteTo writes the serialized grid to w.
func (g *Grid) WriteTo(w io.Writer) (int64, error) {
	data, err := g.ToBytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom reads a serialized grid from r, replacing the receiver's content.
func (g *Grid) ReadFrom(r io.Reader) (int64, error) {
	var headBuf [headerLen]byte
	if n, err := io.ReadFull(r, headBuf[:]); err != nil {
		return int64(n), err
	}
	h := new(header)
	h.fromBytes(headBuf[:])

	data := make([]byte, uint64(headerLen)+h.metaLen+h.valuesLen+h.bitmapsLen+h.copiesLen)
	copy(data, headBuf[:])
	if n, err := io.ReadFull(r, data[headerLen:]); err != nil {
		return int64(headerLen + n), err
	}

	n, err := g.FromBytes(data)
	return int64(n), err
}

// WriteCompressedTo writes the lzss-compressed serialization of the grid to
// w. Sparse grids are mostly zero cells and compress well.
func (g *Grid) WriteCompressedTo(w io.Writer) (int64, error) {
	data, err := g.ToBytes()
	if err != nil {
		return 0, err
	}
	compressor, err := lzss.NewCompressor(nil, lzss.BestCompression)
	if err != nil {
		return 0, err
	}
	c, err := compressor.Compress(data)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(c)
	return int64(n), err
}

// ReadCompressedFrom reads a grid written by WriteCompressedTo. It consumes
// r to EOF.
func (g *Grid) ReadCompressedFrom(r io.Reader) (int64, error) {
	c, err := io.ReadAll(r)
	if err != nil {
		return int64(len(c)), err
	}
	data, err := lzss.Decompress(c, nil)
	if err != nil {
		return int64(len(c)), err
	}
	_, err = g.FromBytes(data)
	return int64(len(c)), err
}

func (g *Grid) metaToBytes() []byte {
	fieldBytes := g.field.Bytes()
	buf := make([]byte, 0, 64+len(fieldBytes))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(fieldBytes)))
	buf = append(buf, fieldBytes...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(g.nbRows))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(g.advice)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(g.selectors)))
	if g.shapeOnly {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(g.regions)))
	for _, r := range g.regions {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(len(r.Name)))
		buf = append(buf, r.Name...)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.Start))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.NbRows))
	}
	return buf
}

func (g *Grid) metaFromBytes(in []byte) error {
	if len(in) < 4 {
		return errInvalidGrid
	}
	fieldLen := binary.LittleEndian.Uint32(in[:4])
	in = in[4:]
	if uint64(len(in)) < uint64(fieldLen)+8+4+4+1+8 {
		return errInvalidGrid
	}
	g.field = new(big.Int).SetBytes(in[:fieldLen])
	in = in[fieldLen:]
	if g.field.Sign() <= 0 {
		return errors.New("invalid modulus")
	}
	g.nbRows = int(binary.LittleEndian.Uint64(in[:8]))
	in = in[8:]
	nbAdvice := binary.LittleEndian.Uint32(in[:4])
	in = in[4:]
	nbSelectors := binary.LittleEndian.Uint32(in[:4])
	in = in[4:]
	g.shapeOnly = in[0] == 1
	in = in[1:]
	nbRegions := binary.LittleEndian.Uint64(in[:8])
	in = in[8:]

	g.advice = make([][]big.Int, nbAdvice)
	g.assigned = make([]*bitset.BitSet, nbAdvice)
	g.selectors = make([]*bitset.BitSet, nbSelectors)

	g.regions = nil
	for i := uint64(0); i < nbRegions; i++ {
		if len(in) < 8 {
			return errInvalidGrid
		}
		nameLen := binary.LittleEndian.Uint64(in[:8])
		in = in[8:]
		if uint64(len(in)) < nameLen+16 {
			return errInvalidGrid
		}
		name := string(in[:nameLen])
		in = in[nameLen:]
		start := binary.LittleEndian.Uint64(in[:8])
		nbRows := binary.LittleEndian.Uint64(in[8:16])
		in = in[16:]
		g.regions = append(g.regions, Region{Name: name, Start: int(start), NbRows: int(nbRows)})
	}
	if len(in) != 0 {
		return errInvalidGrid
	}
	return nil
}

func (g *Grid) valuesToBytes() []byte {
	if g.shapeOnly {
		return nil
	}
	n := utils.ByteLen(g.field)
	buf := make([]byte, 0, len(g.advice)*g.nbRows*n)
	scratch := make([]byte, n)
	zero := make([]byte, n)
	for _, column := range g.advice {
		for row := range column {
			column[row].FillBytes(scratch)
			buf = append(buf, scratch...)
		}
		// columns are ragged in memory; pad the unwritten tail
		for row := len(column); row < g.nbRows; row++ {
			buf = append(buf, zero...)
		}
	}
	return buf
}

func (g *Grid) valuesFromBytes(in []byte) error {
	if g.shapeOnly {
		if len(in) != 0 {
			return errInvalidGrid
		}
		return nil
	}
	n := utils.ByteLen(g.field)
	if len(in) != len(g.advice)*g.nbRows*n {
		return errInvalidGrid
	}
	for col := range g.advice {
		g.advice[col] = make([]big.Int, g.nbRows)
		for row := 0; row < g.nbRows; row++ {
			g.advice[col][row].SetBytes(in[:n])
			in = in[n:]
		}
	}
	return nil
}

func (g *Grid) bitmapsToBytes() ([]byte, error) {
	var buf bytes.Buffer

	// selector activations, one bit per cell
	var sel bytes.Buffer
	bw := bitio.NewWriter(&sel)
	for _, s := range g.selectors {
		for row := 0; row < g.nbRows; row++ {
			if err := bw.WriteBool(s.Test(uint(row))); err != nil {
				return nil, err
			}
		}
	}
	if err := bw.Close(); err != nil {
		return nil, err
	}
	binary.Write(&buf, binary.LittleEndian, uint64(sel.Len()))
	buf.Write(sel.Bytes())

	// assignment bitmaps compress well, most columns are written top-down
	for _, a := range g.assigned {
		if err := ioutils.CompressAndWriteUints64(&buf, a.Bytes()); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func (g *Grid) bitmapsFromBytes(in []byte) error {
	if len(in) < 8 {
		return errInvalidGrid
	}
	selLen := binary.LittleEndian.Uint64(in[:8])
	in = in[8:]
	if expected := (len(g.selectors)*g.nbRows + 7) / 8; uint64(expected) != selLen || uint64(len(in)) < selLen {
		return errInvalidGrid
	}
	br := bitio.NewReader(bytes.NewReader(in[:selLen]))
	for i := range g.selectors {
		g.selectors[i] = bitset.New(uint(g.nbRows))
		for row := 0; row < g.nbRows; row++ {
			b, err := br.ReadBool()
			if err != nil {
				return err
			}
			if b {
				g.selectors[i].Set(uint(row))
			}
		}
	}
	in = in[selLen:]

	var (
		n     int
		err   error
		words []uint64
	)
	for col := range g.assigned {
		n, words, err = ioutils.ReadAndDecompressUints64(in)
		if err != nil {
			return err
		}
		in = in[n:]
		g.assigned[col] = bitset.From(words)
	}
	if len(in) != 0 {
		return errInvalidGrid
	}
	return nil
}

func (g *Grid) copiesToBytes() ([]byte, error) {
	// six parallel streams, one per cell coordinate; they compress well
	streams := make([][]int, 6)
	for i := range streams {
		streams[i] = make([]int, len(g.copies))
	}
	for i, c := range g.copies {
		streams[0][i] = int(c.A.Column.Kind)
		streams[1][i] = c.A.Column.Index
		streams[2][i] = c.A.Row
		streams[3][i] = int(c.B.Column.Kind)
		streams[4][i] = c.B.Column.Index
		streams[5][i] = c.B.Row
	}

	var buf bytes.Buffer
	buf.Grow(4 * 6 * len(g.copies))
	var buf32 []uint32
	var err error
	for i := range streams {
		buf32, err = ioutils.CompressAndWriteUints32(&buf, utils.IntoUint32s(streams[i]), buf32)
		if err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (g *Grid) copiesFromBytes(in []byte) error {
	var (
		buf32 []uint32
		words []uint32
		n     int
		err   error
	)
	streams := make([][]int, 6)
	for i := range streams {
		buf32, n, words, err = ioutils.ReadAndDecompressUints32(in, buf32)
		if err != nil {
			return err
		}
		in = in[n:]
		streams[i] = utils.FromUint32s[int](words)
	}
	if len(in) != 0 {
		return errInvalidGrid
	}
	for i := 1; i < len(streams); i++ {
		if len(streams[i]) != len(streams[0]) {
			return errInvalidGrid
		}
	}

	g.copies = nil
	for i := range streams[0] {
		g.copies = append(g.copies, Copy{
			A: Cell{
				Column: constraint.Column{Kind: constraint.ColumnKind(streams[0][i]), Index: streams[1][i]},
				Row:    streams[2][i],
			},
			B: Cell{
				Column: constraint.Column{Kind: constraint.ColumnKind(streams[3][i]), Index: streams[4][i]},
				Row:    streams[5][i],
			},
		})
	}
	return nil
}
