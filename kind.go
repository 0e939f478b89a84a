package devalue

// Kind is the classification a value resolves to before it is flattened
// or emitted. It mirrors jsonvalue.Type's role in internal/jsonvalue: a
// small closed enum that every other file in the package switches on
// instead of re-deriving the same reflection logic.
type Kind int

const (
	KindHole Kind = iota
	KindUndefined
	KindNull
	KindBool
	KindNumber
	KindBigInt
	KindString
	KindDate
	KindRegex
	KindArray
	KindObject
	KindMap
	KindSet
	KindCustom
	numKinds
	kindUnknown Kind = -1
)

var kindStrings = [numKinds]string{
	"Hole",
	"Undefined",
	"Null",
	"Bool",
	"Number",
	"BigInt",
	"String",
	"Date",
	"Regex",
	"Array",
	"Object",
	"Map",
	"Set",
	"Custom",
}

// String returns a human-readable name for k, used in error messages and
// the UnsupportedValue runtime-kind field.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "<unknown>"
	}
	return kindStrings[k]
}
