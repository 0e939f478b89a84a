package devalue

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEmitCodeInlinesUnsharedValues(t *testing.T) {
	src, err := Uneval(map[string]any{"a": 1.0, "b": []any{"x", "y"}}, nil)
	require.NoError(t, err)
	require.NotContains(t, src, "_0", "nothing is shared, nothing should be hoisted")
	require.NotContains(t, src, "function")
}

func TestEmitCodeBigIntLiteral(t *testing.T) {
	bi, _ := new(big.Int).SetString("42", 10)
	src, err := Uneval(bi, nil)
	require.NoError(t, err)
	require.Equal(t, "42n", src)
}

func TestEmitCodeDateAndRegex(t *testing.T) {
	src, err := Uneval(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	require.Equal(t, `new Date("2024-01-01T00:00:00.000Z")`, src)

	src, err = Uneval(&Regex{Source: "a.b", Flags: "g"}, nil)
	require.NoError(t, err)
	require.Equal(t, `new RegExp("a.b", "g")`, src)
}

func TestEmitCodeMapAndSet(t *testing.T) {
	src, err := Uneval(NewMap().Set("a", 1.0), nil)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(src, "new Map("))

	src, err = Uneval(NewSet().Add(1.0).Add(2.0), nil)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(src, "new Set("))
}

func TestEmitCodeCustomTagCallsFunction(t *testing.T) {
	reducers := ReducerRegistry{
		{Tag: "Point", Reducer: func(v any) (any, bool) {
			return v, true
		}},
	}
	src, err := Uneval("anything", reducers)
	require.NoError(t, err)
	require.Equal(t, `Point("anything")`, src)
}

func TestEmitCodeCustomTagMustBeIdentifier(t *testing.T) {
	reducers := ReducerRegistry{
		{Tag: "not-an-identifier", Reducer: func(v any) (any, bool) { return v, true }},
	}
	_, err := Uneval("x", reducers)
	require.ErrorIs(t, err, ErrUnsupportedValue)
}

func TestEmitCodeCyclicObjectUsesShellTrick(t *testing.T) {
	box := map[string]any{}
	box["self"] = box

	src, err := Uneval(box, nil)
	require.NoError(t, err)
	require.Contains(t, src, "_0 = {}")
	require.Contains(t, src, `_0["self"] = _0`)
}
