// Package wire frames encoded records for the store. Frames are validated
// strictly on read so foreign or truncated values are detected and dropped.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	version    byte = 1
	kindSingle byte = 1
	kindBulk   byte = 2

	singleHeader = 4 + 1 + 1 + 4
	bulkHeader   = 4 + 1 + 1 + 4
)

var (
	ErrCorrupt = errors.New("altsv: corrupt store entry")
	magic4     = [...]byte{'A', 'L', 'T', 'V'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Single: magic(4) | ver(1) | kind(1=single) | vlen(u32 be) | payload(vlen)
func EncodeSingle(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(singleHeader + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindSingle)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// DecodeSingle returns a subslice of b; it does not copy.
func DecodeSingle(b []byte) ([]byte, error) {
	if len(b) < singleHeader || !hasMagic(b) || b[4] != version || b[5] != kindSingle {
		return nil, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[6:10]))
	if vlen != len(b)-singleHeader {
		return nil, ErrCorrupt
	}
	return b[singleHeader:], nil
}

// Bulk:
//
//	magic(4) | ver(1) | kind(1=bulk) | n(u32 be)
//	keyLen(u16 be) | key(keyLen) | gen(u64 be) | vlen(u32 be) | payload(vlen) * n
//
// Gen is the key's write generation when the entry was built.
type BulkItem struct {
	Key     string
	Gen     uint64
	Payload []byte
}

func EncodeBulk(items []BulkItem) ([]byte, error) {
	total := bulkHeader
	for _, it := range items {
		if l := len(it.Key); l == 0 || l > 0xFFFF {
			return nil, fmt.Errorf("altsv: invalid key length %d in bulk", l)
		}
		total += 2 + len(it.Key) + 8 + 4 + len(it.Payload)
	}

	var buf bytes.Buffer
	buf.Grow(total)

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBulk)

	var u8 [8]byte
	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint32(u4[:], uint32(len(items)))
	buf.Write(u4[:])

	for _, it := range items {
		binary.BigEndian.PutUint16(u2[:], uint16(len(it.Key)))
		buf.Write(u2[:])
		buf.WriteString(it.Key)

		binary.BigEndian.PutUint64(u8[:], it.Gen)
		buf.Write(u8[:])

		binary.BigEndian.PutUint32(u4[:], uint32(len(it.Payload)))
		buf.Write(u4[:])
		buf.Write(it.Payload)
	}

	return buf.Bytes(), nil
}

func DecodeBulk(b []byte) ([]BulkItem, error) {
	if len(b) < bulkHeader || !hasMagic(b) || b[4] != version || b[5] != kindBulk {
		return nil, ErrCorrupt
	}

	off := 6
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// every item needs at least 2+1+8+4 bytes
	if n < 0 || n > (len(b)-off)/15 {
		return nil, ErrCorrupt
	}

	items := make([]BulkItem, 0, n)
	for i := 0; i < n; i++ {
		if off+2 > len(b) {
			return nil, ErrCorrupt
		}
		klen := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if klen <= 0 || klen > len(b)-off {
			return nil, ErrCorrupt
		}
		keyBytes := b[off : off+klen]
		off += klen

		if off+8+4 > len(b) {
			return nil, ErrCorrupt
		}
		gen := binary.BigEndian.Uint64(b[off : off+8])
		off += 8

		if off+4 > len(b) {
			return nil, ErrCorrupt
		}
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off {
			return nil, ErrCorrupt
		}

		items = append(items, BulkItem{
			Key:     string(keyBytes),
			Gen:     gen,
			Payload: b[off : off+vlen],
		})
		off += vlen
	}
	if off != len(b) {
		return nil, ErrCorrupt
	}

	return items, nil
}
