package devalue

import (
	"fmt"
	"math"
	"math/big"
	"time"
)

// reviveState carries the per-call memoization needed to turn a flat
// Table back into a value graph: a shared container is rebuilt once and
// reused everywhere it is referenced, and a genuine cycle round-trips
// through the same shell-then-populate trick emit_code.go uses on the
// way out.
type reviveState struct {
	slots    []any
	revivers ReviverRegistry
	memo     map[int]any
	inProg   map[int]bool
}

// reviveTable reconstructs the value graph a Table (or its generic
// any-shaped equivalent, see asTable) describes.
func reviveTable(root int, slots []any, revivers ReviverRegistry) (any, error) {
	st := &reviveState{
		slots:  slots,
		revivers: revivers,
		memo:   map[int]any{},
		inProg: map[int]bool{},
	}
	return st.ref(root, rootPath())
}

func (st *reviveState) ref(r int, path Path) (any, error) {
	switch r {
	case refUndefined:
		return Undefined, nil
	case refPosInf:
		return math.Inf(1), nil
	case refNegInf:
		return math.Inf(-1), nil
	case refNaN:
		return math.NaN(), nil
	case refNegZero:
		return math.Copysign(0, -1), nil
	case refHole:
		return Hole, nil
	}
	if r < 0 || r >= len(st.slots) {
		return nil, newInvalidInput(path, fmt.Sprintf("slot reference %d out of range", r), nil)
	}
	if v, ok := st.memo[r]; ok {
		return v, nil
	}
	if st.inProg[r] {
		return nil, newCycleInPrimitiveForm(path)
	}
	return st.reviveSlot(r, path)
}

func (st *reviveState) reviveSlot(i int, path Path) (any, error) {
	switch v := st.slots[i].(type) {
	case nil:
		st.memo[i] = nil
		return nil, nil
	case bool:
		st.memo[i] = v
		return v, nil
	case string:
		st.memo[i] = v
		return v, nil
	case float64:
		st.memo[i] = v
		return v, nil
	case int:
		f := float64(v)
		st.memo[i] = f
		return f, nil
	case []any:
		return st.reviveTagged(i, v, path)
	case map[string]any:
		return st.reviveObject(i, v, path)
	}
	return nil, newInvalidInput(path, fmt.Sprintf("unrecognized slot content %#v", st.slots[i]), nil)
}

func (st *reviveState) reviveObject(i int, m map[string]any, path Path) (any, error) {
	out := make(map[string]any, len(m))
	st.memo[i] = out
	for k, rv := range m {
		ref, ok := asInt(rv)
		if !ok {
			return nil, newInvalidInput(path.key(k), "object field is not a slot reference", nil)
		}
		val, err := st.ref(ref, path.key(k))
		if err != nil {
			return nil, err
		}
		out[k] = val
	}
	return out, nil
}

func (st *reviveState) reviveTagged(i int, v []any, path Path) (any, error) {
	if len(v) > 0 {
		if ints, ok := allInts(v); ok {
			return st.reviveArray(i, ints, path)
		}
	}
	if len(v) == 0 {
		return st.reviveArray(i, nil, path)
	}
	tag, ok := v[0].(string)
	if !ok {
		return nil, newInvalidInput(path, "tagged slot missing a string tag", nil)
	}
	switch tag {
	case "BigInt", "Date", "RegExp":
		if len(v) < 2 {
			return nil, newInvalidInput(path, fmt.Sprintf("%s slot missing its payload", tag), nil)
		}
	}

	switch tag {
	case "BigInt":
		digits, _ := v[1].(string)
		bi, ok := new(big.Int).SetString(digits, 10)
		if !ok {
			return nil, newInvalidInput(path, fmt.Sprintf("invalid BigInt digits %q", digits), nil)
		}
		st.memo[i] = bi
		return bi, nil

	case "Date":
		iso, _ := v[1].(string)
		t, err := time.Parse("2006-01-02T15:04:05.000Z", iso)
		if err != nil {
			return nil, newInvalidInput(path, fmt.Sprintf("invalid Date string %q", iso), err)
		}
		st.memo[i] = t
		return t, nil

	case "RegExp":
		r := &Regex{}
		r.Source, _ = v[1].(string)
		if len(v) == 3 {
			r.Flags, _ = v[2].(string)
		}
		st.memo[i] = r
		return r, nil

	case "Map":
		m := NewMap()
		st.memo[i] = m
		st.inProg[i] = true
		for p := 1; p+1 < len(v); p += 2 {
			kRef, ok1 := asInt(v[p])
			vRef, ok2 := asInt(v[p+1])
			if !ok1 || !ok2 {
				return nil, newInvalidInput(path, "Map entry is not a slot reference pair", nil)
			}
			k, err := st.ref(kRef, path.mapEntry(kRef))
			if err != nil {
				return nil, err
			}
			val, err := st.ref(vRef, path.mapEntry(k))
			if err != nil {
				return nil, err
			}
			m.Set(k, val)
		}
		delete(st.inProg, i)
		return m, nil

	case "Set":
		s := NewSet()
		st.memo[i] = s
		st.inProg[i] = true
		for idx, x := range v[1:] {
			ref, ok := asInt(x)
			if !ok {
				return nil, newInvalidInput(path, "Set member is not a slot reference", nil)
			}
			val, err := st.ref(ref, path.setMember(idx))
			if err != nil {
				return nil, err
			}
			s.Add(val)
		}
		delete(st.inProg, i)
		return s, nil

	default:
		if len(v) < 2 {
			return nil, newInvalidInput(path, fmt.Sprintf("custom tag %q missing a payload reference", tag), nil)
		}
		reviver, ok := st.revivers[tag]
		if !ok {
			return nil, newUnknownType(path, tag)
		}
		payloadRef, ok := asInt(v[1])
		if !ok {
			return nil, newInvalidInput(path, "custom payload is not a slot reference", nil)
		}
		st.inProg[i] = true
		payload, err := st.ref(payloadRef, path.custom(tag))
		if err != nil {
			return nil, err
		}
		delete(st.inProg, i)
		out, err := reviver(payload)
		if err != nil {
			return nil, newInvalidInput(path, fmt.Sprintf("reviver for %q rejected its payload", tag), err)
		}
		st.memo[i] = out
		return out, nil
	}
}

func (st *reviveState) reviveArray(i int, ints []int, path Path) (any, error) {
	out := make([]any, len(ints))
	st.memo[i] = out
	for idx, r := range ints {
		val, err := st.ref(r, path.index(idx))
		if err != nil {
			return nil, err
		}
		out[idx] = val
	}
	return out, nil
}

func allInts(v []any) ([]int, bool) {
	out := make([]int, len(v))
	for i, x := range v {
		n, ok := asInt(x)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}
