package devalue

// Reviver reconstructs the original value from the payload a matching
// Reducer produced. It returns an error so a Reviver can reject a
// malformed payload (e.g. a custom type expecting an object but handed a
// string) without panicking mid-traversal.
type Reviver func(payload any) (any, error)

// ReviverRegistry maps a type tag to the Reviver that reconstructs it.
// Unlike ReducerRegistry, lookup is by exact tag (the tag was already
// chosen and recorded by the matching Reducer at encode time), so
// there's no priority ordering to preserve and a map is the natural fit.
type ReviverRegistry map[string]Reviver
