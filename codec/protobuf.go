package codec

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/altsv"
)

// Protobuf maps a Record to a google.protobuf.Struct message. Absent values
// become NullValue. Output is deterministic.
type Protobuf struct{}

var _ Codec[altsv.Record] = Protobuf{}

func (Protobuf) Encode(r altsv.Record) ([]byte, error) {
	s, err := ToStruct(r)
	if err != nil {
		return nil, err
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(s)
}

func (Protobuf) Decode(b []byte) (altsv.Record, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return FromStruct(&s)
}

// ToStruct converts r to a structpb.Struct.
func ToStruct(r altsv.Record) (*structpb.Struct, error) {
	return structpb.NewStruct(r.Map())
}

// FromStruct converts s to a Record. Nested lists and structs are rendered as text.
func FromStruct(s *structpb.Struct) (altsv.Record, error) {
	return altsv.RecordFromMap(s.AsMap())
}
