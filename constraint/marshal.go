package constraint

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/sha3"
)

const headerLen = 8

// ToBytes serializes the shape to a byte slice: a little-endian body length
// followed by the deterministic cbor encoding of the system. Two calls on
// the same system produce identical bytes.
func (system *System) ToBytes() ([]byte, error) {
	body, err := system.toBytes()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, headerLen+len(body))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(body)))
	buf = append(buf, body...)
	return buf, nil
}

// FromBytes deserializes the shape from a byte slice, replacing the
// receiver's content. It returns the number of bytes read.
func (system *System) FromBytes(data []byte) (int, error) {
	if len(data) < headerLen {
		return 0, errors.New("invalid data length")
	}
	bodyLen := binary.LittleEndian.Uint64(data[:headerLen])
	if uint64(len(data)-headerLen) < bodyLen {
		return 0, errors.New("invalid data length")
	}

	ts := getTagSet()
	dm, err := cbor.DecOptions{
		MaxArrayElements: 2147483647,
		MaxMapPairs:      2147483647,
	}.DecModeWithTags(ts)
	if err != nil {
		return 0, err
	}
	decoder := dm.NewDecoder(bytes.NewReader(data[headerLen : headerLen+int(bodyLen)]))

	if err := decoder.Decode(&system); err != nil {
		return 0, err
	}

	if err := system.CheckSerializationHeader(); err != nil {
		return 0, err
	}

	return headerLen + int(bodyLen), nil
}

func (system *System) toBytes() ([]byte, error) {
	// CBOR encoding of the shape; the tag set maps the expression variants
	ts := getTagSet()
	enc, err := cbor.CoreDetEncOptions().EncModeWithTags(ts)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	encoder := enc.NewEncoder(buf)

	if err := encoder.Encode(system); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteTo writes the serialized shape to w.
func (system *System) WriteTo(w io.Writer) (int64, error) {
	data, err := system.ToBytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom reads a serialized shape from r, replacing the receiver's
// content.
func (system *System) ReadFrom(r io.Reader) (int64, error) {
	var lenBuf [headerLen]byte
	if n, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return int64(n), err
	}
	bodyLen := binary.LittleEndian.Uint64(lenBuf[:])

	data := make([]byte, headerLen+int(bodyLen))
	copy(data, lenBuf[:])
	if n, err := io.ReadFull(r, data[headerLen:]); err != nil {
		return int64(headerLen + n), err
	}

	n, err := system.FromBytes(data)
	return int64(n), err
}

// Digest returns the sha3-256 hash of the serialized shape. It is stable
// across processes and is the cache key for artifacts derived from a
// circuit's shape.
func (system *System) Digest() ([32]byte, error) {
	data, err := system.ToBytes()
	if err != nil {
		return [32]byte{}, err
	}
	return sha3.Sum256(data), nil
}

func getTagSet() cbor.TagSet {
	ts := cbor.NewTagSet()
	// https://www.iana.org/assignments/cbor-tags/cbor-tags.xhtml
	// 65536-15309735 Unassigned
	tagNum := uint64(5309735)
	addType := func(t reflect.Type) {
		if err := ts.Add(
			cbor.TagOptions{EncTag: cbor.EncTagRequired, DecTag: cbor.DecTagRequired},
			t,
			tagNum,
		); err != nil {
			panic(err)
		}
		tagNum++
	}

	addType(reflect.TypeOf(Constant{}))
	addType(reflect.TypeOf(Query{}))
	addType(reflect.TypeOf(Sum{}))
	addType(reflect.TypeOf(Difference{}))
	addType(reflect.TypeOf(Product{}))

	return ts
}
