// Package codec converts altsv Records to and from bytes.
//
// ALTSV and Document speak the ALTSV line format itself. JSON, Msgpack, CBOR
// and Protobuf transcode a Record into other formats: Absent values map to
// the format's null, every other value is a string. Decoding a foreign
// payload renders non-string scalars with altsv.Render.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
