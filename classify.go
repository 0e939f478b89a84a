package devalue

import (
	"math/big"
	"reflect"
	"sort"
	"strings"
	"time"
)

// objectField is one key/value pair of a classified Object, already in
// the order it should be emitted in.
type objectField struct {
	key   string
	value any
}

// classification is the result of classifying a single value: which
// Kind it is, plus whatever payload the rest of the package needs to
// finish the job. Only the fields relevant to kind are populated.
type classification struct {
	kind Kind

	tag     string // Custom
	payload any    // Custom

	boolVal  bool
	numVal   float64
	strVal   string
	bigVal   *big.Int
	dateVal  time.Time
	regexVal *Regex
	arrVal   []any
	objVal   []objectField
	mapVal   *Map
	setVal   *Set
}

// classify maps a runtime value to its Kind and extracts the data the
// Flattener needs to proceed. User reducers are checked first and take
// priority over every built-in kind; failing that, it falls back
// through the built-in kinds in turn.
func classify(v any, reducers ReducerRegistry, path Path) (classification, error) {
	if tag, payload, ok := reducers.find(v); ok {
		if isBuiltinTag(tag) {
			return classification{}, newInvalidInput(path, "reducer tag "+tag+" collides with a built-in type and cannot be used", nil)
		}
		return classification{kind: KindCustom, tag: tag, payload: payload}, nil
	}

	if isHole(v) {
		return classification{}, newUnsupportedValue(path, "Hole")
	}
	if isUndefined(v) {
		return classification{kind: KindUndefined}, nil
	}
	if v == nil {
		return classification{kind: KindNull}, nil
	}

	switch val := v.(type) {
	case bool:
		return classification{kind: KindBool, boolVal: val}, nil
	case string:
		return classification{kind: KindString, strVal: val}, nil
	case float64:
		return classification{kind: KindNumber, numVal: val}, nil
	case float32:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case int:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case int8:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case int16:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case int32:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case int64:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case uint:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case uint8:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case uint16:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case uint32:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case uint64:
		return classification{kind: KindNumber, numVal: float64(val)}, nil
	case *big.Int:
		if val == nil {
			return classification{}, newUnsupportedValue(path, "BigInt")
		}
		return classification{kind: KindBigInt, bigVal: val}, nil
	case time.Time:
		return classification{kind: KindDate, dateVal: val}, nil
	case *Regex:
		if val == nil {
			return classification{}, newUnsupportedValue(path, "Regex")
		}
		return classification{kind: KindRegex, regexVal: val}, nil
	case []any:
		return classification{kind: KindArray, arrVal: val}, nil
	case *Map:
		if val == nil {
			return classification{}, newUnsupportedValue(path, "Map")
		}
		return classification{kind: KindMap, mapVal: val}, nil
	case *Set:
		if val == nil {
			return classification{}, newUnsupportedValue(path, "Set")
		}
		return classification{kind: KindSet, setVal: val}, nil
	case map[string]any:
		return classification{kind: KindObject, objVal: sortedObjectFields(val)}, nil
	}

	if fields, ok := structFields(v); ok {
		return classification{kind: KindObject, objVal: fields}, nil
	}

	return classification{}, newUnsupportedValue(path, reflect.TypeOf(v).Kind().String())
}

// sortedObjectFields turns a Go map into a deterministic field order.
// Go maps have no iteration order, so lexicographic key sort is the
// reproducible stand-in for JS's insertion-order object keys (the same
// "pick a total order since none exists" move canonicaljson-go's Encode
// makes for its own map handling).
func sortedObjectFields(m map[string]any) []objectField {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]objectField, len(keys))
	for i, k := range keys {
		fields[i] = objectField{key: k, value: m[k]}
	}
	return fields
}

// structFields reflects a struct or *struct into ordered fields,
// honoring a `devalue:"name"` tag to rename and `devalue:"-"` to skip,
// defaulting to the lowercased Go field name (mirroring bson.go's
// default-lowercase field-naming convention). ok is false if v is
// neither a struct nor a pointer to one.
func structFields(v any) ([]objectField, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false
	}

	rt := rv.Type()
	fields := make([]objectField, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		name := strings.ToLower(sf.Name)
		if tag, ok := sf.Tag.Lookup("devalue"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fields = append(fields, objectField{key: name, value: rv.Field(i).Interface()})
	}
	return fields, true
}
