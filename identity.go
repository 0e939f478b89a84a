package devalue

import (
	"math"
	"reflect"
)

// Reserved negative reference codes. A reference in a flat table slot is
// either a non-negative slot index or one of these codes, inlined
// directly at the point of use instead of occupying a slot.
const (
	refHole      = -1
	refUndefined = -2
	refPosInf    = -3
	refNegInf    = -4
	refNaN       = -5
	refNegZero   = -6
)

// numberSentinel reports whether f must be encoded as a reserved
// reference code rather than a regular Number slot.
func numberSentinel(f float64) (code int, isSentinel bool) {
	switch {
	case math.IsNaN(f):
		return refNaN, true
	case math.IsInf(f, 1):
		return refPosInf, true
	case math.IsInf(f, -1):
		return refNegInf, true
	case f == 0 && math.Signbit(f):
		return refNegZero, true
	}
	return 0, false
}

// refKey identifies a reference-typed (pointer/map/slice) compound value
// for identity-based sharing: the Kind plus the underlying data pointer,
// so e.g. a *Map and a *Set that happen to reuse the same address at
// different times in the program's life are never confused (identityOf
// is only ever consulted while that value is reachable from the root, so
// this is purely a same-call disambiguator).
type refKey struct {
	kind Kind
	ptr  uintptr
}

// identityOf returns the reference identity of v, if v is a Go reference
// kind (pointer, map, slice). ok is false for value types (structs,
// arrays, time.Time, ...), which are never identity-shared: each
// occurrence is flattened as an independent node.
func identityOf(k Kind, v any) (refKey, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return refKey{}, false
		}
		return refKey{kind: k, ptr: rv.Pointer()}, true
	}
	return refKey{}, false
}

// primKey identifies a structurally-deduped primitive slot: equal
// strings, equal finite numbers (bitwise, so +0 and -0 never collide —
// though -0 never reaches here, see numberSentinel), equal big integers,
// and the singleton null/true/false slots.
type primKey struct {
	kind Kind
	key  string
}

func numKey(f float64) string {
	return strconv64(math.Float64bits(f))
}

func strconv64(bits uint64) string {
	const hex = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hex[bits&0xf]
		bits >>= 4
	}
	return string(buf)
}

// deepEqual is Map/Set's member-equality test, the closest Go analogue
// of JS's SameValueZero available without reflect-free special-casing
// every possible key type.
func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
