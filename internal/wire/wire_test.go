package wire

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func mustDecodeSingle(t *testing.T, b []byte) []byte {
	t.Helper()
	p, err := DecodeSingle(b)
	if err != nil {
		t.Fatalf("DecodeSingle error: %v", err)
	}
	return p
}

func mustDecodeBulk(t *testing.T, b []byte) []BulkItem {
	t.Helper()
	it, err := DecodeBulk(b)
	if err != nil {
		t.Fatalf("DecodeBulk error: %v", err)
	}
	return it
}

func TestSingleRTEmptyAndNonEmpty(t *testing.T) {
	for _, payload := range [][]byte{nil, []byte("a:1\tb:2"), {0, 1, 2, 3, 4}} {
		p := mustDecodeSingle(t, EncodeSingle(payload))
		if !bytes.Equal(p, payload) {
			t.Fatalf("payload mismatch: got %x want %x", p, payload)
		}
	}
}

func TestSingleRejectsTrailingBytes(t *testing.T) {
	enc := EncodeSingle([]byte("x"))
	enc = append(enc, 0xDE, 0xAD)
	if _, err := DecodeSingle(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestSingleCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeSingle([]byte("abc"))

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, err := DecodeSingle(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, err := DecodeSingle(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	badKind := append([]byte(nil), enc...)
	badKind[5] = kindBulk
	if _, err := DecodeSingle(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// vlen is at offset 6..9 (4 magic +1 ver +1 kind)
	tooLong := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(tooLong[6:10], uint32(len("abc")+1))
	if _, err := DecodeSingle(tooLong); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	if _, err := DecodeSingle(enc[:len(enc)-1]); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}

	// a bare ALTSV line written by someone else is not a frame
	if _, err := DecodeSingle([]byte("a:1\tb:2")); err == nil {
		t.Fatalf("expected error on unframed value")
	}
}

func TestSingleZeroCopyPayload(t *testing.T) {
	enc := EncodeSingle([]byte("Z"))
	p := mustDecodeSingle(t, enc)
	p[0] = 'Q'
	if p2 := mustDecodeSingle(t, enc); p2[0] != 'Q' {
		t.Fatalf("expected zero-copy slice into enc buffer")
	}
}

func TestBulkRoundTrip(t *testing.T) {
	cases := [][]BulkItem{
		nil, // n=0
		{{Key: "a", Payload: []byte("x:1")}},
		{
			{Key: "a", Gen: 1, Payload: []byte("x:1")},
			{Key: "b", Payload: nil}, // empty payload
			{Key: "c", Gen: ^uint64(0), Payload: []byte{9, 8, 7}},
		},
		// duplicates allowed. decoder preserves both
		{
			{Key: "dup", Payload: []byte("old")},
			{Key: "dup", Payload: []byte("new")},
		},
	}
	for _, items := range cases {
		enc, err := EncodeBulk(items)
		if err != nil {
			t.Fatalf("EncodeBulk error: %v", err)
		}
		got := mustDecodeBulk(t, enc)
		if len(got) != len(items) {
			t.Fatalf("len mismatch: got %d want %d", len(got), len(items))
		}
		for i := range items {
			if got[i].Key != items[i].Key || got[i].Gen != items[i].Gen || !bytes.Equal(got[i].Payload, items[i].Payload) {
				t.Fatalf("item %d mismatch: got=%+v want=%+v", i, got[i], items[i])
			}
		}
	}
}

func TestBulkRejectsTrailingBytes(t *testing.T) {
	enc, err := EncodeBulk([]BulkItem{{Key: "k", Payload: []byte("v")}})
	if err != nil {
		t.Fatalf("EncodeBulk: %v", err)
	}
	enc = append(enc, 0xBE, 0xEF)
	if _, err := DecodeBulk(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestBulkWrongAndTruncation(t *testing.T) {
	// Wrong n (very large) with no items -> must error, not panic.
	var buf bytes.Buffer
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBulk)
	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], ^uint32(0))
	buf.Write(u4[:])
	if _, err := DecodeBulk(buf.Bytes()); err == nil {
		t.Fatalf("expected error on bogus n with insufficient bytes")
	}

	// Declare n=1 but provide no item body -> error
	buf.Reset()
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBulk)
	binary.BigEndian.PutUint32(u4[:], 1)
	buf.Write(u4[:])
	if _, err := DecodeBulk(buf.Bytes()); err == nil {
		t.Fatalf("expected error on truncated item list")
	}
}

func TestBulkKeyLengthValidation(t *testing.T) {
	if _, err := EncodeBulk([]BulkItem{{Key: "", Payload: []byte("x")}}); err == nil {
		t.Fatalf("expected error on empty key")
	}
	if _, err := EncodeBulk([]BulkItem{{Key: strings.Repeat("a", 0x10000)}}); err == nil {
		t.Fatalf("expected error on key length > 0xFFFF")
	}
	if _, err := EncodeBulk([]BulkItem{{Key: strings.Repeat("b", 0xFFFF)}}); err != nil {
		t.Fatalf("boundary key length should succeed: %v", err)
	}
}

func TestBulkCorruptHeadersAndLengths(t *testing.T) {
	enc, err := EncodeBulk([]BulkItem{{Key: "k", Payload: []byte("xyz")}})
	if err != nil {
		t.Fatalf("EncodeBulk: %v", err)
	}

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, err := DecodeBulk(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badKind := append([]byte(nil), enc...)
	badKind[5] = kindSingle
	if _, err := DecodeBulk(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// header: 4 magic +1 ver +1 kind +4 n = 10 bytes
	// item: 2 klen + klen + 8 gen + 4 vlen + payload
	offset := 10 + 2 + 1 + 8
	badVlen := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(badVlen[offset:offset+4], uint32(len("xyz")+1))
	if _, err := DecodeBulk(badVlen); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	badKlen := append([]byte(nil), enc...)
	binary.BigEndian.PutUint16(badKlen[10:12], uint16(50))
	if _, err := DecodeBulk(badKlen); err == nil {
		t.Fatalf("expected error on klen beyond buffer")
	}
}
