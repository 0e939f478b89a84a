package devalue

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// maxDepth bounds recursion so a pathological (very deep but finite,
// non-cyclic) graph fails with InvalidInput instead of overflowing the
// goroutine stack. True cycles are caught earlier, by identity tracking,
// and never reach this limit.
const maxDepth = 10000

// Table is the flattened form of a value graph: Slots holds every
// distinct node reachable from the root, in the order the Flattener
// reserved them, so Slots[0] is always the root's own slot — the root
// is resolved before anything else, so it always claims the first
// reservation. Root mirrors that same reference: either 0 (redundant
// with Slots[0], kept for convenience) or a negative reserved sentinel
// code if the root itself is one of the values that never occupies a
// slot (e.g. -5 for a root value of NaN, with Slots left empty). The
// wire form emitData produces is just Slots rendered as a JSON array —
// no separate envelope — falling back to a bare top-level primitive
// exactly when Root is negative or Slots holds a single untagged
// primitive, per the "single primitive" emitter option (except a whole
// number in -6..-1, which would read back as a reserved code and so
// stays inside the array).
type Table struct {
	Root  int
	Slots []any
}

// orderedObject preserves Object field order through encoding/json,
// which marshals Go maps in sorted-key order — that would discard a
// struct Object's declaration order, which classify keeps. Rather than
// fight the stdlib encoder, Object slots carry their own MarshalJSON.
type orderedObject []objectRef

type objectRef struct {
	Key string
	Ref int
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(f.Ref))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type flattener struct {
	reducers    ReducerRegistry
	refIdentity map[refKey]int
	primIndex   map[primKey]int
	slots       []any
	payloadRoot bool // next visit is a Custom payload's top-level value
}

func newFlattener(reducers ReducerRegistry) *flattener {
	return &flattener{
		reducers:    reducers,
		refIdentity: map[refKey]int{},
		primIndex:   map[primKey]int{},
		slots:       []any{},
	}
}

// flattenRoot flattens v into a Table.
func flattenRoot(v any, reducers ReducerRegistry) (Table, error) {
	fl := newFlattener(reducers)
	root, err := fl.resolve(v, rootPath(), 0)
	if err != nil {
		return Table{}, err
	}
	return Table{Root: root, Slots: fl.slots}, nil
}

// resolve turns v into a reference: either a reserved sentinel code, or
// a slot index obtained from visit. Hole is only legal as a direct
// Array element, so callers visiting array elements must check isHole
// themselves before calling resolve.
func (fl *flattener) resolve(v any, path Path, depth int) (int, error) {
	if isHole(v) {
		return 0, newUnsupportedValue(path, "Hole")
	}
	if isUndefined(v) {
		return refUndefined, nil
	}
	if f, ok := v.(float64); ok {
		if code, isSentinel := numberSentinel(f); isSentinel {
			return code, nil
		}
	}
	return fl.visit(v, path, depth)
}

func (fl *flattener) intern(key primKey, content any) int {
	if idx, ok := fl.primIndex[key]; ok {
		return idx
	}
	idx := len(fl.slots)
	fl.slots = append(fl.slots, content)
	fl.primIndex[key] = idx
	return idx
}

// reserve allocates slot space for a compound value before descending
// into its children, so a cycle back to this same value resolves to the
// index already handed out instead of recursing forever.
func (fl *flattener) reserve() int {
	idx := len(fl.slots)
	fl.slots = append(fl.slots, nil)
	return idx
}

func (fl *flattener) visit(v any, path Path, depth int) (int, error) {
	if depth > maxDepth {
		return 0, newInvalidInput(path, "value graph exceeds maximum nesting depth", nil)
	}

	reducers := fl.reducers
	if fl.payloadRoot {
		// v is a reducer's own payload: it is encoded as-is, not offered
		// back to the reducers (nested values still are).
		reducers = nil
		fl.payloadRoot = false
	}
	c, err := classify(v, reducers, path)
	if err != nil {
		return 0, err
	}

	switch c.kind {
	case KindNull:
		return fl.intern(primKey{KindNull, "null"}, nil), nil

	case KindBool:
		key := "false"
		if c.boolVal {
			key = "true"
		}
		return fl.intern(primKey{KindBool, key}, c.boolVal), nil

	case KindString:
		return fl.intern(primKey{KindString, c.strVal}, c.strVal), nil

	case KindNumber:
		if code, isSentinel := numberSentinel(c.numVal); isSentinel {
			return code, nil
		}
		return fl.intern(primKey{KindNumber, numKey(c.numVal)}, c.numVal), nil

	case KindBigInt:
		digits := c.bigVal.String()
		return fl.intern(primKey{KindBigInt, digits}, []any{"BigInt", digits}), nil

	case KindDate:
		idx := fl.reserve()
		fl.slots[idx] = []any{"Date", c.dateVal.UTC().Format("2006-01-02T15:04:05.000Z")}
		return idx, nil

	case KindRegex:
		if key, ok := identityOf(KindRegex, c.regexVal); ok {
			if idx, seen := fl.refIdentity[key]; seen {
				return idx, nil
			}
			idx := fl.reserve()
			fl.refIdentity[key] = idx
			fl.slots[idx] = regexSlot(c.regexVal)
			return idx, nil
		}
		idx := fl.reserve()
		fl.slots[idx] = regexSlot(c.regexVal)
		return idx, nil

	case KindArray:
		key, shared := identityOf(KindArray, c.arrVal)
		if shared {
			if idx, seen := fl.refIdentity[key]; seen {
				return idx, nil
			}
		}
		idx := fl.reserve()
		if shared {
			fl.refIdentity[key] = idx
		}
		refs := make([]int, len(c.arrVal))
		for i, el := range c.arrVal {
			elPath := path.index(i)
			if isHole(el) {
				refs[i] = refHole
				continue
			}
			r, err := fl.resolve(el, elPath, depth+1)
			if err != nil {
				return 0, err
			}
			refs[i] = r
		}
		fl.slots[idx] = refs
		return idx, nil

	case KindObject:
		key, shared := identityOf(KindObject, v)
		if shared {
			if idx, seen := fl.refIdentity[key]; seen {
				return idx, nil
			}
		}
		idx := fl.reserve()
		if shared {
			fl.refIdentity[key] = idx
		}
		fields := make(orderedObject, len(c.objVal))
		for i, f := range c.objVal {
			r, err := fl.resolve(f.value, path.key(f.key), depth+1)
			if err != nil {
				return 0, err
			}
			fields[i] = objectRef{Key: f.key, Ref: r}
		}
		fl.slots[idx] = fields
		return idx, nil

	case KindMap:
		key, ok := identityOf(KindMap, c.mapVal)
		if ok {
			if idx, seen := fl.refIdentity[key]; seen {
				return idx, nil
			}
		}
		idx := fl.reserve()
		if ok {
			fl.refIdentity[key] = idx
		}
		content := make([]any, 0, 1+2*c.mapVal.Len())
		content = append(content, "Map")
		for _, e := range c.mapVal.Entries() {
			kRef, err := fl.resolve(e.Key, path.mapEntry(e.Key), depth+1)
			if err != nil {
				return 0, err
			}
			vRef, err := fl.resolve(e.Value, path.mapEntry(e.Key), depth+1)
			if err != nil {
				return 0, err
			}
			content = append(content, kRef, vRef)
		}
		fl.slots[idx] = content
		return idx, nil

	case KindSet:
		key, ok := identityOf(KindSet, c.setVal)
		if ok {
			if idx, seen := fl.refIdentity[key]; seen {
				return idx, nil
			}
		}
		idx := fl.reserve()
		if ok {
			fl.refIdentity[key] = idx
		}
		content := make([]any, 0, 1+c.setVal.Len())
		content = append(content, "Set")
		for i, m := range c.setVal.Values() {
			r, err := fl.resolve(m, path.setMember(i), depth+1)
			if err != nil {
				return 0, err
			}
			content = append(content, r)
		}
		fl.slots[idx] = content
		return idx, nil

	case KindCustom:
		idx := fl.reserve()
		fl.payloadRoot = true
		r, err := fl.resolve(c.payload, path.custom(c.tag), depth+1)
		fl.payloadRoot = false
		if err != nil {
			return 0, err
		}
		fl.slots[idx] = []any{c.tag, r}
		return idx, nil

	case KindUndefined:
		// Not reached through resolve(), which returns refUndefined for
		// Undefined (a Reducer payload included) before calling visit.
		return refUndefined, nil
	}

	return 0, newUnsupportedValue(path, c.kind.String())
}

func regexSlot(r *Regex) []any {
	if r.Flags != "" {
		return []any{"RegExp", r.Source, r.Flags}
	}
	return []any{"RegExp", r.Source}
}
