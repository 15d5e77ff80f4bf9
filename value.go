package altsv

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Value is a decoded field value: either a string or Absent.
// The zero value is Absent.
type Value struct {
	s       string
	present bool
}

// Absent is the value of a field whose raw content was empty.
var Absent = Value{}

// String returns a present Value holding s. An empty s is still present;
// only the decoder maps empty content to Absent.
func String(s string) Value { return Value{s: s, present: true} }

// IsAbsent reports whether v is Absent.
func (v Value) IsAbsent() bool { return !v.present }

// Get returns the string and whether the value is present.
func (v Value) Get() (string, bool) { return v.s, v.present }

// String returns the text of v, or "" when absent.
func (v Value) String() string { return v.s }

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.present {
		return []byte("null"), nil
	}
	return json.Marshal(v.s)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*v = Absent
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = String(s)
	return nil
}

// Record is one decoded line: field name -> value.
type Record map[string]Value

// Get returns the string stored under key. ok is false when the key is
// missing or its value is Absent.
func (r Record) Get(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	return v.Get()
}

// Has reports whether key is present in r, even with an Absent value.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// Keys returns the field names in ascending order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map converts r to a generic map. Absent values become nil.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		if s, ok := v.Get(); ok {
			out[k] = s
		} else {
			out[k] = nil
		}
	}
	return out
}

// RecordFromMap builds a Record from a generic map. nil values become
// Absent; everything else goes through Render.
func RecordFromMap(m map[string]any) (Record, error) {
	r := make(Record, len(m))
	for k, v := range m {
		if v == nil {
			r[k] = Absent
			continue
		}
		s, err := Render(v)
		if err != nil {
			return nil, &RenderError{Role: "value", Err: err}
		}
		r[k] = String(s)
	}
	return r, nil
}
