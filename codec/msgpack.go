package codec

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/unkn0wn-root/altsv"
)

// Msgpack maps a Record to a msgpack map using vmihailenco/msgpack/v5.
// Keys are written in sorted order so equal Records produce equal bytes.
// The zero value is ready to use.
type Msgpack struct{}

var _ Codec[altsv.Record] = Msgpack{}

func (Msgpack) Encode(r altsv.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(r.Map()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Msgpack) Decode(b []byte) (altsv.Record, error) {
	var m map[string]any
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return altsv.RecordFromMap(m)
}
