// Package jsonvalue is the text-to-tree JSON substrate devalue's Parse
// entry point decodes against: the same hand-rolled, table-driven JSON
// tokenizer/parser the original github.com/mcvoid/json package built,
// repurposed here as an unexported decode stage rather than a public
// value-inspection API. The public surface that package exposed for
// arbitrary JSON traversal (type-asserting accessors, fluent Index/Key
// lookups, a debug String renderer) has no caller left in devalue, which
// only ever needs a parsed document lowered straight into the shapes the
// rest of the package already speaks — so that surface is gone, replaced
// by two devalue-specific reductions: ToAny, the generic any/map/slice
// fallback shape also produced by encoding/json, and DecodeTable, which
// goes one step further and lowers a document directly into the
// (root, slots) pair Stringify's wire format uses, recognizing the
// reserved reference codes inline instead of leaving that to a second
// pass over the generic shape.
package jsonvalue

import "errors"

// ErrParse is returned when the input text is not well-formed JSON.
var ErrParse = errors.New("jsonvalue: parse error")

// Type is the kind of a parsed JSON Value.
type Type int

// Possible JSON value kinds. Integer is split out from Number so callers
// that need exact slot-index semantics (devalue's flat table references
// are always integers) don't have to round-trip through float64.
const (
	Null Type = iota
	Number
	Integer
	String
	Boolean
	Array
	Object
	numTypes
	typeUnknown Type = -1
)

var typeStrings = [numTypes]string{
	"<null>",
	"<number>",
	"<integer>",
	"<string>",
	"<boolean>",
	"<array>",
	"<object>",
}

// String returns a human-readable name for t.
func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return "<unknown>"
	}
	return typeStrings[t]
}

// Value is a single parsed JSON value, structured as a tagged variant over
// the JSON grammar rather than unpacked into Go's generic any/map/slice
// shape. Object key order is preserved (see pair below) even though JSON
// objects are unordered, because devalue's own diagnostics want a stable
// traversal order.
type Value struct {
	jsonType     Type
	numberValue  float64
	integerValue int64
	stringValue  string
	booleanValue bool
	arrayValue   []*Value
	objectValue  []pair
}

type pair struct {
	key string
	val *Value
}

// Type reports the kind of v.
func (v *Value) Type() Type {
	if v.jsonType >= 0 && v.jsonType < numTypes {
		return v.jsonType
	}
	return typeUnknown
}

// ToAny converts v into the plain any/map[string]any/[]any/float64/int/
// string/bool/nil shape used everywhere outside this package. Integer
// values become Go int (not int64) since every consumer that cares about
// exactness — slot indices — only ever deals in machine-word ints.
func (v *Value) ToAny() any {
	switch v.jsonType {
	case Null:
		return nil
	case Integer:
		return int(v.integerValue)
	case Number:
		return v.numberValue
	case String:
		return v.stringValue
	case Boolean:
		return v.booleanValue
	case Array:
		out := make([]any, len(v.arrayValue))
		for i, el := range v.arrayValue {
			out[i] = el.ToAny()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.objectValue))
		for _, p := range v.objectValue {
			out[p.key] = p.val.ToAny()
		}
		return out
	}
	return nil
}

// minReservedCode and maxReservedCode bound devalue's reserved reference
// codes (hole, undefined, +/-infinity, NaN, negative zero): always a bare
// negative integer in this range, holding the place of a value that never
// occupies a flat-table slot. Mirrored here rather than imported, since
// this package sits below devalue in the import graph and has no other
// reason to know about its sentinel vocabulary.
const (
	minReservedCode = -6
	maxReservedCode = -1
)

// AsSentinelCode reports whether v is a bare JSON integer in devalue's
// reserved reference code range, and if so returns it as a Go int.
func (v *Value) AsSentinelCode() (int, bool) {
	if v.jsonType != Integer {
		return 0, false
	}
	n := int(v.integerValue)
	if n < minReservedCode || n > maxReservedCode {
		return 0, false
	}
	return n, true
}

// DecodeTable lowers a parsed document directly into the (root, slots)
// shape devalue's flat-table format requires, without an intermediate
// pass back through the generic ToAny shape: a top-level JSON array
// becomes slots with an implicit root of 0 (slot 0 is always the root,
// per how the table is built); anything else is one of the bare
// top-level forms a flat-table Emitter can fall back to — a reserved
// sentinel code standing in for a root that never occupied a slot, or a
// literal JSON primitive that is itself the whole (single-slot) graph.
func (v *Value) DecodeTable() (root int, slots []any) {
	if v.jsonType == Array {
		slots = make([]any, len(v.arrayValue))
		for i, el := range v.arrayValue {
			slots[i] = el.ToAny()
		}
		return 0, slots
	}
	if code, ok := v.AsSentinelCode(); ok {
		return code, nil
	}
	return 0, []any{v.ToAny()}
}
