package devalue

// Reducer inspects v and, if it recognizes the value, returns the plain
// payload that should be serialized in its place together with ok=true.
// ok=false means "not mine", so the classifier moves on to the next
// registered reducer and then falls back to the built-in kinds.
type Reducer func(v any) (payload any, ok bool)

// ReducerEntry pairs a type tag with the Reducer responsible for it.
type ReducerEntry struct {
	Tag     string
	Reducer Reducer
}

// ReducerRegistry is the ordered list of reducers consulted, in
// registration order, before any built-in kind is tried — the first
// Reducer to return ok=true wins. An ordered slice rather than a map is
// deliberate: first-match-wins priority must be deterministic, and Go
// map iteration order is not guaranteed, so a map here would make the
// outcome depend on runtime map ordering.
type ReducerRegistry []ReducerEntry

// find returns the tag and payload of the first reducer in r that
// claims v.
func (r ReducerRegistry) find(v any) (tag string, payload any, ok bool) {
	for _, entry := range r {
		if payload, ok := entry.Reducer(v); ok {
			return entry.Tag, payload, true
		}
	}
	return "", nil, false
}

// builtinTags are the tag strings the wire format reserves for built-in
// kinds. For all but "null" (reserved, but never emitted or revived by
// this package) reviveTagged gives the tag a fixed meaning, so a Reducer
// registered under one of them would have its output silently
// reinterpreted as the built-in on revival instead of reaching the
// user's own Reviver; classify rejects every reserved tag up front.
var builtinTags = map[string]bool{
	"Date":   true,
	"RegExp": true,
	"BigInt": true,
	"Map":    true,
	"Set":    true,
	"null":   true,
}

func isBuiltinTag(tag string) bool {
	return builtinTags[tag]
}
