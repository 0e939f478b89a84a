package jsonvalue

import (
	"fmt"
	"reflect"
	"testing"
)

func TestTypeStrings(t *testing.T) {
	for _, test := range []struct {
		input    Type
		expected string
	}{
		{Null, typeStrings[Null]},
		{Array, typeStrings[Array]},
		{Object, typeStrings[Object]},
		{Boolean, typeStrings[Boolean]},
		{Integer, typeStrings[Integer]},
		{Number, typeStrings[Number]},
		{String, typeStrings[String]},
		{numTypes, "<unknown>"},
		{1000, "<unknown>"},
		{-1, "<unknown>"},
	} {
		t.Run(fmt.Sprintf("%v", test.input), func(t *testing.T) {
			if actual := test.input.String(); actual != test.expected {
				t.Errorf("expected %v got %v", test.expected, actual)
			}
		})
	}
}

func TestToAny(t *testing.T) {
	val, err := ParseString(`{"a": [1, 2.5, "x", true, null]}`)
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	converted := val.ToAny()
	m, ok := converted.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map[string]interface{} got %T", converted)
	}
	arr, ok := m["a"].([]interface{})
	if !ok || len(arr) != 5 {
		t.Fatalf("expected 5-element array got %#v", m["a"])
	}
	if arr[0].(int) != 1 {
		t.Errorf("expected integer 1 preserved as int, got %#v", arr[0])
	}
	if arr[1].(float64) != 2.5 {
		t.Errorf("expected float64 2.5, got %#v", arr[1])
	}
}

func TestParseTrailingComma(t *testing.T) {
	val, err := ParseString(`{
		"list": [1, 2, 3,],
	}`)
	if err != nil {
		t.Fatalf("expected trailing commas to be tolerated, got %v", err)
	}
	converted, ok := val.ToAny().(map[string]interface{})
	if !ok {
		t.Fatalf("expected map[string]interface{} got %T", val.ToAny())
	}
	list, ok := converted["list"].([]interface{})
	if !ok || len(list) != 3 {
		t.Errorf("expected 3 elements got %#v", converted["list"])
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseString(`{not json}`); err == nil {
		t.Errorf("expected error on malformed input")
	}
}

func TestAsSentinelCode(t *testing.T) {
	for _, code := range []int{-1, -2, -3, -4, -5, -6} {
		v := &Value{jsonType: Integer, integerValue: int64(code)}
		got, ok := v.AsSentinelCode()
		if !ok || got != code {
			t.Errorf("AsSentinelCode(%d): got (%d, %v), want (%d, true)", code, got, ok, code)
		}
	}
	for _, v := range []*Value{
		{jsonType: Integer, integerValue: 0},
		{jsonType: Integer, integerValue: -7},
		{jsonType: Integer, integerValue: 3},
		{jsonType: Number, numberValue: -1},
		{jsonType: String, stringValue: "-1"},
	} {
		if _, ok := v.AsSentinelCode(); ok {
			t.Errorf("AsSentinelCode should reject %#v", v)
		}
	}
}

func TestDecodeTableArrayShape(t *testing.T) {
	val, err := ParseString(`[{"a":1}, "hello"]`)
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	root, slots := val.DecodeTable()
	if root != 0 {
		t.Errorf("expected root 0 for array shape, got %d", root)
	}
	want := []any{map[string]any{"a": 1}, "hello"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("DecodeTable slots = %#v, want %#v", slots, want)
	}
}

func TestDecodeTableBareSentinel(t *testing.T) {
	val, err := ParseString(`-6`)
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	root, slots := val.DecodeTable()
	if root != -6 || slots != nil {
		t.Errorf("DecodeTable(-6) = (%d, %#v), want (-6, nil)", root, slots)
	}
}

func TestDecodeTableBareLiteral(t *testing.T) {
	val, err := ParseString(`"hello"`)
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	root, slots := val.DecodeTable()
	want := []any{"hello"}
	if root != 0 || !reflect.DeepEqual(slots, want) {
		t.Errorf("DecodeTable(\"hello\") = (%d, %#v), want (0, %#v)", root, slots, want)
	}
}

func TestParseTable(t *testing.T) {
	root, slots, err := ParseTable(`[{"message":1},"hi"]`)
	if err != nil {
		t.Fatalf("expected no error got %v", err)
	}
	if root != 0 {
		t.Errorf("expected root 0, got %d", root)
	}
	want := []any{map[string]any{"message": 1}, "hi"}
	if !reflect.DeepEqual(slots, want) {
		t.Errorf("ParseTable slots = %#v, want %#v", slots, want)
	}
}
