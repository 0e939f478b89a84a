package devalue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesSentinel(t *testing.T) {
	err := newUnknownType(rootPath(), "Whatever")
	require.True(t, errors.Is(err, ErrUnknownType))
	require.False(t, errors.Is(err, ErrInvalidInput))
}

func TestErrorUnwrapExposesCause(t *testing.T) {
	cause := errors.New("boom")
	err := newInvalidInput(rootPath(), "wrapped", cause)
	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestErrorAsExposesStructuredFields(t *testing.T) {
	err := newUnsupportedValue(rootPath().key("x"), "Chan")
	var derr *Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "Chan", derr.RuntimeKind)
	require.Equal(t, ".x", derr.Path.String())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := Parse("{not json", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseMissingReviverIsUnknownType(t *testing.T) {
	type custom struct{ V int }
	reducers := ReducerRegistry{
		{Tag: "Custom", Reducer: func(v any) (any, bool) {
			c, ok := v.(custom)
			if !ok {
				return nil, false
			}
			return float64(c.V), true
		}},
	}
	text, err := Stringify(custom{V: 1}, reducers)
	require.NoError(t, err)

	_, err = Parse(text, nil) // no revivers registered
	require.Error(t, err)
	require.ErrorIs(t, err, ErrUnknownType)
}
