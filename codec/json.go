package codec

import (
	"bytes"
	"encoding/json"

	"github.com/unkn0wn-root/altsv"
)

// JSON maps a Record to a JSON object. Absent values become null.
type JSON struct{}

var _ Codec[altsv.Record] = JSON{}

func (JSON) Encode(r altsv.Record) ([]byte, error) { return json.Marshal(r) }

// Decode accepts any JSON object. Numbers keep their literal text.
func (JSON) Decode(b []byte) (altsv.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return altsv.RecordFromMap(m)
}
