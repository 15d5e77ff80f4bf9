package altsv

import "strings"

const (
	bufferSizeKey   = 64
	bufferSizeValue = 128
)

// scanState selects the buffer that receives ordinary bytes.
type scanState uint8

const (
	stateKey scanState = iota
	stateValue
)

func (s scanState) String() string {
	if s == stateValue {
		return "InValue"
	}
	return "InKey"
}

// scanner is the line decoder: {stateKey, stateValue} x escaping.
//
//	state    escaping  input     effect
//	any      any       \r \n     commit, stop
//	any      yes       n r t \ : append unescaped byte
//	any      yes       other     append '\' and the byte
//	any      no        \         escaping = true
//	key      no        :         state = value
//	value    no        :         append ':'
//	any      no        \t        commit, reset
//	any      no        other     append byte
type scanner struct {
	state    scanState
	escaping bool
	key      strings.Builder
	value    strings.Builder

	rec     Record
	dropped int // fields discarded for having an empty key
}

func newScanner(fields int) *scanner {
	s := &scanner{rec: make(Record, fields)}
	s.key.Grow(bufferSizeKey)
	s.value.Grow(bufferSizeValue)
	return s
}

func (s *scanner) active() *strings.Builder {
	if s.state == stateValue {
		return &s.value
	}
	return &s.key
}

// step feeds one byte and reports whether scanning should continue.
func (s *scanner) step(c byte) bool {
	if c == '\r' || c == '\n' {
		s.commit()
		return false
	}

	if s.escaping {
		s.escaping = false
		if u, ok := unescape(c); ok {
			s.active().WriteByte(u)
		} else {
			b := s.active()
			b.WriteByte('\\')
			b.WriteByte(c)
		}
		return true
	}

	switch {
	case c == '\\':
		s.escaping = true
	case c == ':' && s.state == stateKey:
		s.state = stateValue
	case c == '\t':
		s.commit()
		s.reset()
	default:
		s.active().WriteByte(c)
	}
	return true
}

// commit stores the pending field when its key is non-empty.
func (s *scanner) commit() {
	if s.key.Len() == 0 {
		if s.state == stateValue || s.value.Len() > 0 {
			s.dropped++
		}
		return
	}
	if s.value.Len() == 0 {
		s.rec[s.key.String()] = Absent
	} else {
		s.rec[s.key.String()] = String(s.value.String())
	}
}

func (s *scanner) reset() {
	s.key.Reset()
	s.value.Reset()
	s.state = stateKey
}

// unescape maps the character after a backslash. `\:` is accepted as well
// as n, r, t and backslash because Encode escapes ':' and a round trip must
// give the colon back.
func unescape(c byte) (byte, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	case '\\':
		return '\\', true
	case ':':
		return ':', true
	}
	return 0, false
}

// DecodeLine decodes one ALTSV line into a Record. It accepts any input and
// never fails: stray colons and unknown escapes are kept as literal text,
// fields with an empty key are skipped, and scanning stops at the first
// '\r' or '\n'.
func DecodeLine(line string) Record {
	rec, _ := decodeLine(line)
	return rec
}

func decodeLine(line string) (Record, int) {
	s := newScanner(strings.Count(line, "\t") + 1)
	for i := 0; i < len(line); i++ {
		if !s.step(line[i]) {
			return s.rec, s.dropped
		}
	}
	// a dangling backslash has nothing to escape and is dropped
	s.commit()
	return s.rec, s.dropped
}
