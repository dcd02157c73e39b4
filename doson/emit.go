package doson

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Emit converts a Value to canonical DOSON text. It is the same as v.String().
func Emit(v Value) string {
	e := &emitter{}
	e.emit(v)
	return e.sb.String()
}

// String returns the canonical text of v.
func (v Value) String() string {
	return Emit(v)
}

// MarshalText implements encoding.TextMarshaler.
func (v Value) MarshalText() ([]byte, error) {
	return []byte(Emit(v)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseStrict.
func (v *Value) UnmarshalText(text []byte) error {
	parsed, err := ParseStrict(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

type emitter struct {
	sb strings.Builder
}

func (e *emitter) emit(v Value) {
	switch v.kind {
	case KindNone:
		e.sb.WriteString("none")
	case KindString:
		writeQuoted(&e.sb, v.strVal)
	case KindNumber:
		e.sb.WriteString(formatNumber(v.numVal))
	case KindBoolean:
		if v.boolVal {
			e.sb.WriteString("true")
		} else {
			e.sb.WriteString("false")
		}
	case KindList:
		e.emitList(v.listVal)
	case KindDict:
		e.emitDict(v.dictVal)
	case KindTuple:
		e.sb.WriteByte('(')
		e.emit(v.pairVal[0])
		e.sb.WriteByte(',')
		e.emit(v.pairVal[1])
		e.sb.WriteByte(')')
	case KindBinary:
		e.sb.WriteString(v.blobVal.String())
	}
}

func (e *emitter) emitList(elements []Value) {
	e.sb.WriteByte('[')
	for i, elem := range elements {
		if i > 0 {
			e.sb.WriteByte(',')
		}
		e.emit(elem)
	}
	e.sb.WriteByte(']')
}

// emitDict writes entries sorted by key so equal dicts print identically.
func (e *emitter) emitDict(entries map[string]Value) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	e.sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.sb.WriteByte(',')
		}
		writeQuoted(&e.sb, k)
		e.sb.WriteByte(':')
		e.emit(entries[k])
	}
	e.sb.WriteByte('}')
}

// ============================================================
// Scalar Encoding
// ============================================================

// formatNumber returns the shortest text that parses back to f, using
// exponent notation only for very large or very small magnitudes, the way
// encoding/json does. -0 is written as 0.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}

	format := byte('f')
	if abs := math.Abs(f); abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)

	if format == 'e' {
		// clean up e-09 to e-9
		if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}

const hexDigits = "0123456789ABCDEF"

// writeQuoted writes s as a quoted string literal. Quote, backslash and
// ASCII control characters are escaped; everything else is written as is.
func writeQuoted(sb *strings.Builder, s string) {
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')

	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch != '"' && ch != '\\' && !isASCIIControl(ch) {
			continue
		}
		sb.WriteString(s[start:i])
		start = i + 1

		switch ch {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteString(`\u00`)
			sb.WriteByte(hexDigits[ch>>4])
			sb.WriteByte(hexDigits[ch&0xF])
		}
	}
	sb.WriteString(s[start:])

	sb.WriteByte('"')
}
