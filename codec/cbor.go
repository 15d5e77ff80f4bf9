package codec

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/unkn0wn-root/altsv"
)

// CBOR maps a Record to a CBOR map using fxamacker/cbor.
// The zero value is NOT ready to use. Construct with NewCBOR or MustCBOR.
//
// Use deterministic=true for canonical encoding (RFC 8949 Core Deterministic)
// when you need byte-for-byte stable outputs (e.g., hashing/content addressing).
// Otherwise PreferredUnsortedEncOptions are used.
type CBOR struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[altsv.Record] = CBOR{}

// NewCBOR constructs a CBOR codec.
//   - Deterministic is true, uses CoreDetEncOptions (RFC 8949).
//   - Otherwise uses PreferredUnsortedEncOptions (smaller/faster defaults).
func NewCBOR(deterministic bool) (CBOR, error) {
	var eo cbor.EncOptions
	if deterministic {
		eo = cbor.CoreDetEncOptions()
	} else {
		eo = cbor.PreferredUnsortedEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano

	em, err := eo.EncMode()
	if err != nil {
		return CBOR{}, err
	}
	dm, err := (cbor.DecOptions{}).DecMode()
	if err != nil {
		return CBOR{}, err
	}
	return CBOR{enc: em, dec: dm}, nil
}

// MustCBOR is like NewCBOR but panics on error.
func MustCBOR(deterministic bool) CBOR {
	c, err := NewCBOR(deterministic)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR) Encode(r altsv.Record) ([]byte, error) {
	return c.enc.Marshal(r.Map())
}

func (c CBOR) Decode(b []byte) (altsv.Record, error) {
	var m map[string]any
	if err := c.dec.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return altsv.RecordFromMap(m)
}
