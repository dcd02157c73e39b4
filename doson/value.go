package doson

import (
	"maps"
	"slices"
)

// Kind represents DOSON value kinds.
type Kind uint8

const (
	KindNone Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindList
	KindDict
	KindTuple
	KindBinary
)

// String returns the kind name as reported by Value.Datatype.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindBoolean:
		return "Boolean"
	case KindList:
		return "List"
	case KindDict:
		return "Dict"
	case KindTuple:
		return "Tuple"
	case KindBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// Value is a DOSON value. The zero Value is None.
//
// Values are immutable: constructors copy their arguments and accessors
// return copies, so a Value may be shared freely between goroutines.
type Value struct {
	kind Kind

	// Scalar payloads (only one valid based on kind)
	strVal  string
	numVal  float64
	boolVal bool
	blobVal Blob

	// Container payloads
	listVal []Value
	dictVal map[string]Value
	pairVal *[2]Value
}

// ============================================================
// Constructors
// ============================================================

// None returns the None value.
func None() Value {
	return Value{}
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// Number creates a number value.
func Number(n float64) Value {
	return Value{kind: KindNumber, numVal: n}
}

// Boolean creates a boolean value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, boolVal: b}
}

// List creates a list value holding a copy of values.
func List(values ...Value) Value {
	return Value{kind: KindList, listVal: slices.Clone(values)}
}

// Dict creates a dict value holding a copy of entries.
func Dict(entries map[string]Value) Value {
	d := make(map[string]Value, len(entries))
	maps.Copy(d, entries)
	return Value{kind: KindDict, dictVal: d}
}

// Tuple creates a two-element tuple value.
func Tuple(first, second Value) Value {
	return Value{kind: KindTuple, pairVal: &[2]Value{first, second}}
}

// Binary creates a binary value.
func Binary(b Blob) Value {
	return Value{kind: KindBinary, blobVal: b}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v Value) Kind() Kind {
	return v.kind
}

// Datatype returns the kind name: "None", "String", "Number", "Boolean",
// "List", "Dict", "Tuple" or "Binary".
func (v Value) Datatype() string {
	return v.kind.String()
}

// IsNone reports whether v is None.
func (v Value) IsNone() bool {
	return v.kind == KindNone
}

// AsString returns the string payload.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.strVal, true
}

// AsNumber returns the number payload.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.numVal, true
}

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.boolVal, true
}

// AsList returns a copy of the list elements.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.listVal), true
}

// AsDict returns a copy of the dict entries.
func (v Value) AsDict() (map[string]Value, bool) {
	if v.kind != KindDict {
		return nil, false
	}
	d := make(map[string]Value, len(v.dictVal))
	maps.Copy(d, v.dictVal)
	return d, true
}

// AsTuple returns both tuple elements.
func (v Value) AsTuple() (first, second Value, ok bool) {
	if v.kind != KindTuple {
		return Value{}, Value{}, false
	}
	return v.pairVal[0], v.pairVal[1], true
}

// AsBinary returns the blob payload.
func (v Value) AsBinary() (Blob, bool) {
	if v.kind != KindBinary {
		return Blob{}, false
	}
	return v.blobVal, true
}

// Len returns the element count of a list, dict or tuple, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.listVal)
	case KindDict:
		return len(v.dictVal)
	case KindTuple:
		return 2
	default:
		return 0
	}
}

// Get returns the dict entry for key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindDict {
		return Value{}, false
	}
	e, ok := v.dictVal[key]
	return e, ok
}

// Index returns the i-th element of a list.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.listVal) {
		return Value{}, false
	}
	return v.listVal[i], true
}

// Keys returns the dict keys in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindDict {
		return nil
	}
	return slices.Sorted(maps.Keys(v.dictVal))
}

// ============================================================
// Equality
// ============================================================

// Equal reports whether v and other hold the same kind and payload.
// Numbers compare by their canonical text, so NaN equals NaN and -0 equals 0.
// Dicts compare as unordered maps.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNone:
		return true
	case KindString:
		return v.strVal == other.strVal
	case KindNumber:
		return v.numVal == other.numVal || formatNumber(v.numVal) == formatNumber(other.numVal)
	case KindBoolean:
		return v.boolVal == other.boolVal
	case KindList:
		return slices.EqualFunc(v.listVal, other.listVal, Value.Equal)
	case KindDict:
		return maps.EqualFunc(v.dictVal, other.dictVal, Value.Equal)
	case KindTuple:
		return v.pairVal[0].Equal(other.pairVal[0]) && v.pairVal[1].Equal(other.pairVal[1])
	case KindBinary:
		return v.blobVal.Equal(other.blobVal)
	default:
		return false
	}
}
