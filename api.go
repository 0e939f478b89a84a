// Package devalue flattens arbitrary Go value graphs — including ones
// with cycles and shared references — into either a JS source
// expression (Uneval) or a flat JSON-compatible table (Stringify), and
// reconstructs the original graph from either form (Parse, Unflatten).
// It is a Go-native reading of the JS devalue library's wire format and
// algorithm, using Go types (Hole, Undefined, *Regex, Map, Set,
// *big.Int, time.Time) to stand in for JS's dynamic value model.
package devalue

import (
	"github.com/mcvoid/devalue/internal/jsonvalue"
)

// Uneval renders v as a single JS expression: valid source text that,
// if eval'd, reconstructs v, cycles and shared references included.
// reducers lets callers teach it about types it has no built-in
// encoding for; nil is the same as an empty registry.
func Uneval(v any, reducers ReducerRegistry) (string, error) {
	t, err := flattenRoot(v, reducers)
	if err != nil {
		return "", err
	}
	return emitCode(t)
}

// Stringify renders v as flat, JSON-compatible data: a single JSON
// value embeddable in a larger document, safe to re-parse with Parse
// (or with any other JSON parser, then handed to Unflatten).
func Stringify(v any, reducers ReducerRegistry) (string, error) {
	t, err := flattenRoot(v, reducers)
	if err != nil {
		return "", err
	}
	return emitData(t)
}

// Parse decodes text produced by Stringify back into a Go value graph.
// revivers must name the same tags the corresponding Reducers used;
// nil is the same as an empty registry. Malformed input is reported as
// an *Error with ErrKind KindInvalidInput.
//
// Parse decodes via the package's own hand-rolled parser
// (internal/jsonvalue) rather than encoding/json, so it works the same
// whether or not the caller has encoding/json in their import graph, and
// lowers the parsed document directly into a (root, slots) pair — unlike
// Unflatten, which has to reclassify an already-generic any value, Parse
// never round-trips slot indices through float64.
func Parse(text string, revivers ReviverRegistry) (any, error) {
	root, slots, err := jsonvalue.ParseTable(text)
	if err != nil {
		return nil, newInvalidInput(rootPath(), "failed to parse input as JSON", err)
	}
	return reviveTable(root, slots, revivers)
}

// Unflatten reconstructs a Go value graph from a flat table that has
// already been decoded from JSON by some other means — e.g. because it
// was embedded as a sub-value of a larger document and the caller
// already ran the whole document through encoding/json. flat must be
// shaped the way Stringify's output decodes: a JSON array (Go []any)
// whose first element is the root, or one of the bare top-level shapes
// Stringify falls back to for a sentinel or single-primitive root —
// using either Go's generic any/[]any/map[string]any/float64 shape
// (encoding/json's default) or this package's own Table type.
func Unflatten(flat any, revivers ReviverRegistry) (any, error) {
	root, slots, err := asTable(flat)
	if err != nil {
		return nil, err
	}
	return reviveTable(root, slots, revivers)
}

// asTable normalizes flat into a (root, slots) pair. A devalue.Table
// value is accepted directly; a []any is the ordinary array-of-slots
// shape, with the root implicitly at index 0; anything else is one of
// the bare top-level forms emitData falls back to — a reserved negative
// sentinel code, decoded with no slots at all, or a literal JSON
// primitive that is itself the whole (single-slot) graph.
func asTable(flat any) (int, []any, error) {
	switch v := flat.(type) {
	case Table:
		return v.Root, normalizeSlots(v.Slots), nil
	case *Table:
		if v == nil {
			return 0, nil, newInvalidInput(rootPath(), "input is a nil *Table", nil)
		}
		return v.Root, normalizeSlots(v.Slots), nil
	case []any:
		return 0, v, nil
	default:
		if code, ok := bareSentinelCode(v); ok {
			return code, nil, nil
		}
		return 0, []any{v}, nil
	}
}

// bareSentinelCode reports whether v is a bare top-level number equal
// to one of the reserved reference codes (-6..-1) — the shape emitData
// produces for a root that never occupies a slot, e.g. stringify(-0)
// rendering as the literal text "-6".
func bareSentinelCode(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, false
	}
	i := int(f)
	if float64(i) != f {
		return 0, false
	}
	switch i {
	case refHole, refUndefined, refPosInf, refNegInf, refNaN, refNegZero:
		return i, true
	}
	return 0, false
}

// normalizeSlots converts a Table's native Go-typed slot contents
// ([]int for Array, orderedObject for Object) into the generic
// []any/map[string]any shape reviveSlot expects, the same shape any
// JSON decoder would have produced. Table/*Table is accepted directly
// by Unflatten as a convenience for in-process callers that already
// have a Table from flattenRoot without round-tripping through text.
func normalizeSlots(slots []any) []any {
	out := make([]any, len(slots))
	for i, s := range slots {
		switch v := s.(type) {
		case []int:
			conv := make([]any, len(v))
			for j, r := range v {
				conv[j] = r
			}
			out[i] = conv
		case orderedObject:
			m := make(map[string]any, len(v))
			for _, f := range v {
				m[f.Key] = f.Ref
			}
			out[i] = m
		default:
			out[i] = s
		}
	}
	return out
}
