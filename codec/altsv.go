package codec

import (
	"bytes"

	"github.com/unkn0wn-root/altsv"
)

// ALTSV stores a Record as a single ALTSV line. The zero value is ready to use.
//
// The line format is lossy: a present empty string reads back as Absent,
// and trailing whitespace on the value of the last key (in sorted order) is
// trimmed. Use JSON or Msgpack when Records must round trip exactly.
type ALTSV struct{}

var _ Codec[altsv.Record] = ALTSV{}

func (ALTSV) Encode(r altsv.Record) ([]byte, error) {
	return []byte(altsv.EncodeRecord(r)), nil
}

// Decode never fails; bytes past the first line ending are ignored.
func (ALTSV) Decode(b []byte) (altsv.Record, error) {
	return altsv.DecodeLine(string(b)), nil
}

// Document stores Records as newline separated ALTSV lines.
// Workers > 1 decodes large documents concurrently.
type Document struct {
	Workers int
}

var _ Codec[[]altsv.Record] = Document{}

func (Document) Encode(recs []altsv.Record) ([]byte, error) {
	var buf bytes.Buffer
	for _, r := range recs {
		buf.WriteString(altsv.EncodeRecord(r))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (d Document) Decode(b []byte) ([]altsv.Record, error) {
	return altsv.DecodeDocumentConcurrent(string(b), d.Workers), nil
}
