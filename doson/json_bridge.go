package doson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Structural JSON Bridge
// ============================================================
//
// Every value becomes a single-key object naming its kind:
//
//	{"List":[{"Number":1.0},{"String":"a"}]}
//	{"Tuple":[{"Boolean":true},"None"]}
//	{"Binary":{"data":[104,105]}}
//
// None is the bare string "None". Integral numbers keep a ".0" suffix and
// non-finite numbers become null.

// ToJSON converts a Value to its structural JSON form.
func ToJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON returns the structural JSON form of v, or "None" if it cannot be
// produced.
func (v Value) JSON() string {
	data, err := ToJSON(v)
	if err != nil {
		return "None"
	}
	return string(data)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return ToJSON(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := FromJSON(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	if v.kind == KindNone {
		buf.WriteString(`"None"`)
		return nil
	}

	buf.WriteString(`{"`)
	buf.WriteString(v.kind.String())
	buf.WriteString(`":`)

	switch v.kind {
	case KindString:
		if err := writeJSONString(buf, v.strVal); err != nil {
			return err
		}
	case KindNumber:
		buf.WriteString(jsonNumber(v.numVal))
	case KindBoolean:
		buf.WriteString(strconv.FormatBool(v.boolVal))
	case KindList:
		if err := writeJSONArray(buf, v.listVal); err != nil {
			return err
		}
	case KindDict:
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, v.dictVal[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindTuple:
		if err := writeJSONArray(buf, v.pairVal[:]); err != nil {
			return err
		}
	case KindBinary:
		buf.WriteString(`{"data":[`)
		for i, b := range v.blobVal.data {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Itoa(int(b)))
		}
		buf.WriteString(`]}`)
	default:
		return fmt.Errorf("doson: unknown kind %d", v.kind)
	}

	buf.WriteByte('}')
	return nil
}

func writeJSONArray(buf *bytes.Buffer, values []Value) error {
	buf.WriteByte('[')
	for i, e := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(buf, e); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// jsonNumber formats f as a JSON number that reads back as a float.
func jsonNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	s := formatNumber(f)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// ============================================================
// FromJSON - structural JSON to Value
// ============================================================

// FromJSON converts structural JSON back to a Value.
func FromJSON(data []byte) (Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return None(), newError(CodeDecode, "from json").Cause(err).Build()
	}
	return fromJSONValue(raw, nil)
}

func fromJSONValue(raw any, path []string) (Value, error) {
	if s, ok := raw.(string); ok && s == "None" {
		return None(), nil
	}

	obj, ok := raw.(map[string]any)
	if !ok || len(obj) != 1 {
		return None(), jsonError(path, "expected \"None\" or a single-key object, got %s", jsonKind(raw))
	}

	var (
		variant string
		payload any
	)
	for k, p := range obj {
		variant, payload = k, p
	}
	path = append(path, variant)

	switch variant {
	case "String":
		s, ok := payload.(string)
		if !ok {
			return None(), jsonError(path, "expected string, got %s", jsonKind(payload))
		}
		return String(s), nil

	case "Number":
		n, ok := payload.(float64)
		if !ok {
			return None(), jsonError(path, "expected number, got %s", jsonKind(payload))
		}
		return Number(n), nil

	case "Boolean":
		b, ok := payload.(bool)
		if !ok {
			return None(), jsonError(path, "expected bool, got %s", jsonKind(payload))
		}
		return Boolean(b), nil

	case "List":
		arr, ok := payload.([]any)
		if !ok {
			return None(), jsonError(path, "expected array, got %s", jsonKind(payload))
		}
		items, err := fromJSONArray(arr, path)
		if err != nil {
			return None(), err
		}
		return Value{kind: KindList, listVal: items}, nil

	case "Dict":
		m, ok := payload.(map[string]any)
		if !ok {
			return None(), jsonError(path, "expected object, got %s", jsonKind(payload))
		}
		entries := make(map[string]Value, len(m))
		for k, elem := range m {
			e, err := fromJSONValue(elem, append(path[:len(path):len(path)], strconv.Quote(k)))
			if err != nil {
				return None(), err
			}
			entries[k] = e
		}
		return Value{kind: KindDict, dictVal: entries}, nil

	case "Tuple":
		arr, ok := payload.([]any)
		if !ok || len(arr) != 2 {
			return None(), jsonError(path, "expected 2-element array, got %s", jsonKind(payload))
		}
		items, err := fromJSONArray(arr, path)
		if err != nil {
			return None(), err
		}
		return Tuple(items[0], items[1]), nil

	case "Binary":
		return fromJSONBinary(payload, path)

	default:
		return None(), jsonError(path, "unknown variant %q", variant)
	}
}

func fromJSONArray(arr []any, path []string) ([]Value, error) {
	items := make([]Value, 0, len(arr))
	for i, elem := range arr {
		e, err := fromJSONValue(elem, append(path[:len(path):len(path)], strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}

func fromJSONBinary(payload any, path []string) (Value, error) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return None(), jsonError(path, "expected object, got %s", jsonKind(payload))
	}
	arr, ok := obj["data"].([]any)
	if !ok {
		return None(), jsonError(append(path, "data"), "expected byte array, got %s", jsonKind(obj["data"]))
	}

	data := make([]byte, len(arr))
	for i, elem := range arr {
		n, ok := elem.(float64)
		if !ok || n != math.Trunc(n) || n < 0 || n > 255 {
			return None(), jsonError(append(path, "data", strconv.Itoa(i)), "expected byte, got %v", elem)
		}
		data[i] = byte(n)
	}
	return Binary(Blob{data: data}), nil
}

func jsonError(path []string, format string, args ...any) *Error {
	return newError(CodeDecode, "from json").
		Path(path...).
		Detailf(format, args...).
		Build()
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
