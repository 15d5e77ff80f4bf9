package altsv

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"
)

// Pair is one key/value entry of an ordered mapping.
type Pair struct {
	Key   any
	Value any
}

// Pairs is an ordered mapping. Encode keeps its order.
type Pairs []Pair

// Mapper is the primary conversion Encode tries on values that are not
// already a mapping.
type Mapper interface {
	ToMap() map[string]any
}

// Pairer is the fallback conversion, tried after Mapper.
type Pairer interface {
	Pairs() Pairs
}

// Encode renders v as one ALTSV line.
//
// v may be nil (encodes to ""), Pairs, a Record, any Go map, a Mapper or a
// Pairer, checked in that order. Map entries are emitted in key order. Keys
// and values go through Render and are escaped; the first rendering failure
// is returned as a *RenderError. Anything else fails with an *ArgumentError
// matching ErrArgumentNotMappable.
func Encode(v any) (string, error) {
	pairs, err := toPairs(v)
	if err != nil {
		return "", err
	}
	return encodePairs(pairs)
}

// EncodeRecord renders r with its keys in ascending order. Absent values are
// written as empty values.
func EncodeRecord(r Record) string {
	var b strings.Builder
	b.Grow(len(r) * (bufferSizeKey + bufferSizeValue))
	for _, k := range r.Keys() {
		writeEscaped(&b, k)
		b.WriteByte(':')
		writeEscaped(&b, r[k].s)
		b.WriteByte('\t')
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

func encodePairs(pairs Pairs) (string, error) {
	var b strings.Builder
	b.Grow(len(pairs) * (bufferSizeKey + bufferSizeValue))
	for _, p := range pairs {
		k, err := Render(p.Key)
		if err != nil {
			return "", &RenderError{Role: "key", Err: err}
		}
		v, err := Render(p.Value)
		if err != nil {
			return "", &RenderError{Role: "value", Err: err}
		}
		writeEscaped(&b, k)
		b.WriteByte(':')
		writeEscaped(&b, v)
		b.WriteByte('\t')
	}
	return strings.TrimRightFunc(b.String(), unicode.IsSpace), nil
}

func writeEscaped(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\r':
			b.WriteString(`\r`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case ':':
			b.WriteString(`\:`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteByte(c)
		}
	}
}

// Escape returns s with the ALTSV special characters escaped.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	writeEscaped(&b, s)
	return b.String()
}

func toPairs(v any) (Pairs, error) {
	switch m := v.(type) {
	case nil:
		return nil, nil
	case Pairs:
		return m, nil
	case Record:
		pairs := make(Pairs, 0, len(m))
		for _, k := range m.Keys() {
			pairs = append(pairs, Pair{Key: k, Value: m[k]})
		}
		return pairs, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map {
		if rv.IsNil() {
			return nil, nil
		}
		return mapPairs(rv), nil
	}
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil
	}

	if m, ok := v.(Mapper); ok {
		return toPairs(m.ToMap())
	}
	if p, ok := v.(Pairer); ok {
		return p.Pairs(), nil
	}
	return nil, &ArgumentError{Type: fmt.Sprintf("%T", v)}
}

// mapPairs lists the entries of a Go map ordered by key text.
func mapPairs(rv reflect.Value) Pairs {
	type entry struct {
		sortKey string
		pair    Pair
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		var sk string
		if k.Kind() == reflect.String {
			sk = k.String()
		} else {
			sk = fmt.Sprint(k.Interface())
		}
		entries = append(entries, entry{sortKey: sk, pair: Pair{Key: k.Interface(), Value: iter.Value().Interface()}})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].sortKey < entries[j].sortKey })

	pairs := make(Pairs, len(entries))
	for i, e := range entries {
		pairs[i] = e.pair
	}
	return pairs
}
