package devalue

import "fmt"

// ErrorKind discriminates the handful of ways a devalue operation can
// fail. Modeled on opal's single structured error type carrying a Type
// field (pkgs/errors/errors.go) rather than one Go error type per kind,
// since every kind shares the same Path/Cause shape and callers mostly
// want to switch on "which kind" rather than on a Go type.
type ErrorKind string

const (
	// KindUnsupportedValue means a value had no Kind devalue knows how to
	// serialize (a func, a chan, a Hole outside an array, ...).
	KindUnsupportedValue ErrorKind = "UNSUPPORTED_VALUE"
	// KindUnknownType means a tagged slot named a custom type tag with no
	// registered Reviver.
	KindUnknownType ErrorKind = "UNKNOWN_TYPE"
	// KindInvalidInput means the input text/table was not well-formed
	// devalue output at all (bad JSON, a reference out of range, ...).
	KindInvalidInput ErrorKind = "INVALID_INPUT"
	// KindCycleInPrimitiveForm means a cycle runs through a value that has
	// no empty-shell form to break it (a Custom value whose payload leads
	// back to itself), so Uneval cannot emit it and Parse/Unflatten
	// cannot revive it.
	KindCycleInPrimitiveForm ErrorKind = "CYCLE_IN_PRIMITIVE_FORM"
)

// Sentinel errors so callers can use errors.Is(err, devalue.ErrUnknownType)
// without type-asserting *Error first.
var (
	ErrUnsupportedValue     = fmt.Errorf("devalue: %s", KindUnsupportedValue)
	ErrUnknownType          = fmt.Errorf("devalue: %s", KindUnknownType)
	ErrInvalidInput         = fmt.Errorf("devalue: %s", KindInvalidInput)
	ErrCycleInPrimitiveForm = fmt.Errorf("devalue: %s", KindCycleInPrimitiveForm)
)

// Error is the error type every exported devalue function returns on
// failure.
type Error struct {
	ErrKind ErrorKind
	Path    Path
	Message string
	// RuntimeKind is set only for KindUnsupportedValue: the name of the
	// Kind (or Go type) devalue could not classify.
	RuntimeKind string
	Cause       error
}

func (e *Error) Error() string {
	where := e.Path.String()
	if where == "" {
		where = "<root>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("devalue: %s at %s: %s: %v", e.ErrKind, where, e.Message, e.Cause)
	}
	return fmt.Sprintf("devalue: %s at %s: %s", e.ErrKind, where, e.Message)
}

// Unwrap exposes Cause to errors.As/errors.Unwrap.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, devalue.ErrUnknownType) work without requiring
// callers to go through errors.As first.
func (e *Error) Is(target error) bool {
	switch e.ErrKind {
	case KindUnsupportedValue:
		return target == ErrUnsupportedValue
	case KindUnknownType:
		return target == ErrUnknownType
	case KindInvalidInput:
		return target == ErrInvalidInput
	case KindCycleInPrimitiveForm:
		return target == ErrCycleInPrimitiveForm
	}
	return false
}

func newUnsupportedValue(path Path, runtimeKind string) *Error {
	return &Error{
		ErrKind:     KindUnsupportedValue,
		Path:        path,
		Message:     fmt.Sprintf("cannot serialize a value of kind %s", runtimeKind),
		RuntimeKind: runtimeKind,
	}
}

func newUnknownType(path Path, tag string) *Error {
	return &Error{
		ErrKind: KindUnknownType,
		Path:    path,
		Message: fmt.Sprintf("no reviver registered for type tag %q", tag),
	}
}

func newInvalidInput(path Path, reason string, cause error) *Error {
	return &Error{
		ErrKind: KindInvalidInput,
		Path:    path,
		Message: reason,
		Cause:   cause,
	}
}

func newCycleInPrimitiveForm(path Path) *Error {
	return &Error{
		ErrKind: KindCycleInPrimitiveForm,
		Path:    path,
		Message: "value contains a cycle through a value that has no empty-shell form",
	}
}
