package doson

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValue_Datatype(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{None(), "None"},
		{Value{}, "None"},
		{String("x"), "String"},
		{Number(1), "Number"},
		{Boolean(false), "Boolean"},
		{List(), "List"},
		{Dict(nil), "Dict"},
		{Tuple(None(), None()), "Tuple"},
		{Binary(NewBlob(nil)), "Binary"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.value.Datatype(); got != tt.want {
				t.Errorf("Datatype() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValue_AccessorsMatchKind(t *testing.T) {
	values := []Value{
		None(),
		String("s"),
		Number(2),
		Boolean(true),
		List(Number(1)),
		Dict(map[string]Value{"k": Number(1)}),
		Tuple(Number(1), Number(2)),
		Binary(NewBlob([]byte{1})),
	}

	for _, v := range values {
		t.Run(v.Datatype(), func(t *testing.T) {
			_, isString := v.AsString()
			_, isNumber := v.AsNumber()
			_, isBool := v.AsBool()
			_, isList := v.AsList()
			_, isDict := v.AsDict()
			_, _, isTuple := v.AsTuple()
			_, isBinary := v.AsBinary()

			got := map[Kind]bool{
				KindNone:    v.IsNone(),
				KindString:  isString,
				KindNumber:  isNumber,
				KindBoolean: isBool,
				KindList:    isList,
				KindDict:    isDict,
				KindTuple:   isTuple,
				KindBinary:  isBinary,
			}
			for kind, ok := range got {
				if ok != (kind == v.Kind()) {
					t.Errorf("accessor for %s returned ok=%v on a %s", kind, ok, v.Kind())
				}
			}
		})
	}
}

func TestValue_Payloads(t *testing.T) {
	if s, _ := String("héllo").AsString(); s != "héllo" {
		t.Errorf("AsString() = %q", s)
	}
	if n, _ := Number(-1.5).AsNumber(); n != -1.5 {
		t.Errorf("AsNumber() = %v", n)
	}
	if b, _ := Boolean(true).AsBool(); !b {
		t.Error("AsBool() = false")
	}

	first, second, ok := Tuple(String("a"), Number(1)).AsTuple()
	if !ok || !first.Equal(String("a")) || !second.Equal(Number(1)) {
		t.Errorf("AsTuple() = %s, %s, %v", first, second, ok)
	}

	blob, _ := Binary(NewBlob([]byte("hi"))).AsBinary()
	if diff := cmp.Diff([]byte("hi"), blob.Bytes()); diff != "" {
		t.Errorf("AsBinary() mismatch (-want +got):\n%s", diff)
	}
}

func TestValue_Immutable(t *testing.T) {
	t.Run("list_constructor", func(t *testing.T) {
		elems := []Value{Number(1), Number(2)}
		v := List(elems...)
		elems[0] = Number(99)
		if e, _ := v.Index(0); !e.Equal(Number(1)) {
			t.Errorf("list changed through constructor argument: %s", v)
		}
	})

	t.Run("list_accessor", func(t *testing.T) {
		v := List(Number(1))
		got, _ := v.AsList()
		got[0] = Number(99)
		if e, _ := v.Index(0); !e.Equal(Number(1)) {
			t.Errorf("list changed through accessor result: %s", v)
		}
	})

	t.Run("dict_constructor", func(t *testing.T) {
		entries := map[string]Value{"a": Number(1)}
		v := Dict(entries)
		entries["b"] = Number(2)
		if v.Len() != 1 {
			t.Errorf("dict changed through constructor argument: %s", v)
		}
	})

	t.Run("dict_accessor", func(t *testing.T) {
		v := Dict(map[string]Value{"a": Number(1)})
		got, _ := v.AsDict()
		delete(got, "a")
		if _, ok := v.Get("a"); !ok {
			t.Errorf("dict changed through accessor result: %s", v)
		}
	})

	t.Run("blob", func(t *testing.T) {
		data := []byte("abc")
		b := NewBlob(data)
		data[0] = 'x'
		out := b.Bytes()
		out[1] = 'y'
		if got := string(b.Bytes()); got != "abc" {
			t.Errorf("blob content = %q, want %q", got, "abc")
		}
	})
}

func TestValue_Navigation(t *testing.T) {
	list := List(String("a"), String("b"))
	dict := Dict(map[string]Value{"z": Number(1), "a": Number(2), "m": Number(3)})
	tuple := Tuple(Number(1), Number(2))

	tests := []struct {
		name  string
		value Value
		len   int
	}{
		{"list", list, 2},
		{"dict", dict, 3},
		{"tuple", tuple, 2},
		{"string", String("abc"), 0},
		{"none", None(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Len(); got != tt.len {
				t.Errorf("Len() = %d, want %d", got, tt.len)
			}
		})
	}

	if e, ok := list.Index(1); !ok || !e.Equal(String("b")) {
		t.Errorf("Index(1) = %s, %v", e, ok)
	}
	for _, i := range []int{-1, 2} {
		if _, ok := list.Index(i); ok {
			t.Errorf("Index(%d) ok on a 2-element list", i)
		}
	}
	if _, ok := dict.Index(0); ok {
		t.Error("Index on dict returned ok")
	}

	if e, ok := dict.Get("m"); !ok || !e.Equal(Number(3)) {
		t.Errorf("Get(m) = %s, %v", e, ok)
	}
	if _, ok := dict.Get("missing"); ok {
		t.Error("Get(missing) returned ok")
	}
	if _, ok := list.Get("a"); ok {
		t.Error("Get on list returned ok")
	}

	if diff := cmp.Diff([]string{"a", "m", "z"}, dict.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if keys := list.Keys(); keys != nil {
		t.Errorf("Keys() on list = %v, want nil", keys)
	}
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"none", None(), Value{}, true},
		{"strings", String("a"), String("a"), true},
		{"different_strings", String("a"), String("b"), false},
		{"numbers", Number(1.5), Number(1.5), true},
		{"nan", Number(math.NaN()), Number(math.NaN()), true},
		{"signed_zero", Number(math.Copysign(0, -1)), Number(0), true},
		{"kind_mismatch", Number(1), Boolean(true), false},
		{"string_vs_number", String("1"), Number(1), false},
		{"lists", List(Number(1), String("x")), List(Number(1), String("x")), true},
		{"list_order", List(Number(1), Number(2)), List(Number(2), Number(1)), false},
		{"list_length", List(Number(1)), List(Number(1), Number(1)), false},
		{"nil_vs_empty_list", List(), Value{kind: KindList, listVal: []Value{}}, true},
		{"dicts_unordered", Dict(map[string]Value{"a": Number(1), "b": Number(2)}), Dict(map[string]Value{"b": Number(2), "a": Number(1)}), true},
		{"dict_value", Dict(map[string]Value{"a": Number(1)}), Dict(map[string]Value{"a": Number(2)}), false},
		{"dict_keys", Dict(map[string]Value{"a": Number(1)}), Dict(map[string]Value{"b": Number(1)}), false},
		{"tuples", Tuple(Boolean(true), Number(1)), Tuple(Boolean(true), Number(1)), true},
		{"tuple_order", Tuple(Number(1), Number(2)), Tuple(Number(2), Number(1)), false},
		{"blobs", Binary(NewBlob([]byte{1, 2})), Binary(NewBlob([]byte{1, 2})), true},
		{"empty_blobs", Binary(NewBlob(nil)), Binary(NewBlob([]byte{})), true},
		{"different_blobs", Binary(NewBlob([]byte{1})), Binary(NewBlob([]byte{2})), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%s.Equal(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("%s.Equal(%s) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if got := Kind(200).String(); got != "Unknown" {
		t.Errorf("Kind(200).String() = %q, want Unknown", got)
	}
}
