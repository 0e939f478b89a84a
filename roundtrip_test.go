package devalue

import (
	"math"
	"math/big"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/mcvoid/devalue/internal/jsonvalue"
	"github.com/stretchr/testify/require"
)

// dataRoundTrip stringifies v, parses the result back, and returns the
// revived value for the caller to assert against.
func dataRoundTrip(t *testing.T, v any, reducers ReducerRegistry, revivers ReviverRegistry) any {
	t.Helper()
	text, err := Stringify(v, reducers)
	require.NoError(t, err)
	got, err := Parse(text, revivers)
	require.NoError(t, err)
	return got
}

func TestStringifyParsePrimitives(t *testing.T) {
	for _, v := range []any{
		nil, true, false, "hello", 0.0, -12.5, 3.0,
	} {
		t.Run("", func(t *testing.T) {
			got := dataRoundTrip(t, v, nil, nil)
			if diff := cmp.Diff(v, got, cmpopts.EquateNaNs()); diff != "" {
				t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStringifyWireShapeHasNoEnvelope(t *testing.T) {
	text, err := Stringify(map[string]any{"message": "hello"}, nil)
	require.NoError(t, err)
	require.Equal(t, `[{"message":1},"hello"]`, text)
}

func TestStringifyWireShapeBareSentinelRoot(t *testing.T) {
	text, err := Stringify(math.Copysign(0, -1), nil)
	require.NoError(t, err)
	require.Equal(t, "-6", text)
}

func TestStringifyWireShapeBareSinglePrimitive(t *testing.T) {
	text, err := Stringify("hello", nil)
	require.NoError(t, err)
	require.Equal(t, `"hello"`, text)
}

func TestStringifyParseSentinelNumbers(t *testing.T) {
	cases := []float64{math.NaN(), math.Inf(1), math.Inf(-1), math.Copysign(0, -1)}
	for _, f := range cases {
		got := dataRoundTrip(t, f, nil, nil)
		gf, ok := got.(float64)
		require.True(t, ok, "expected float64, got %T", got)
		if math.IsNaN(f) {
			require.True(t, math.IsNaN(gf))
			continue
		}
		require.Equal(t, math.Signbit(f), math.Signbit(gf))
		require.Equal(t, f, gf)
	}
}

func TestStringifyParseUndefinedAndHole(t *testing.T) {
	got := dataRoundTrip(t, Undefined, nil, nil)
	require.Equal(t, Undefined, got)

	arr := []any{1.0, Hole, 3.0}
	got = dataRoundTrip(t, arr, nil, nil)
	gotArr, ok := got.([]any)
	require.True(t, ok)
	require.Len(t, gotArr, 3)
	require.Equal(t, 1.0, gotArr[0])
	require.Equal(t, Hole, gotArr[1])
	require.Equal(t, 3.0, gotArr[2])
}

func TestStringifyParseArrayAndObject(t *testing.T) {
	v := map[string]any{
		"name": "ada",
		"tags": []any{"a", "b", 3.0},
	}
	got := dataRoundTrip(t, v, nil, nil)
	if diff := cmp.Diff(v, got); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStringifyParseSharedReference(t *testing.T) {
	shared := []any{"shared"}
	v := map[string]any{"a": shared, "b": shared}

	text, err := Stringify(v, nil)
	require.NoError(t, err)
	root, slots, err := jsonvalue.ParseTable(text)
	require.NoError(t, err)

	m := slots[root].(map[string]any)
	aRef, _ := asInt(m["a"])
	bRef, _ := asInt(m["b"])
	require.Equal(t, aRef, bRef, "shared slices must flatten to the same slot")

	got, err := Parse(text, nil)
	require.NoError(t, err)
	gm := got.(map[string]any)
	ga := gm["a"].([]any)
	gb := gm["b"].([]any)
	require.Equal(t, ga, gb)
	require.Equal(t, reflect.ValueOf(ga).Pointer(), reflect.ValueOf(gb).Pointer(),
		"a shared slice should revive to the same backing array, not a copy")
}

func TestStringifyParseCycle(t *testing.T) {
	self := []any{nil}
	self[0] = self

	text, err := Stringify(self, nil)
	require.NoError(t, err)

	got, err := Parse(text, nil)
	require.NoError(t, err)
	gotArr, ok := got.([]any)
	require.True(t, ok)
	require.Len(t, gotArr, 1)

	nested, ok := gotArr[0].([]any)
	require.True(t, ok, "self-reference should revive as the same slice kind")
	require.Equal(t, reflect.ValueOf(gotArr).Pointer(), reflect.ValueOf(nested).Pointer(),
		"self-reference should point at the same backing array")
}

func TestStringifyParseBigInt(t *testing.T) {
	bi, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	got := dataRoundTrip(t, bi, nil, nil)
	gotBI, ok := got.(*big.Int)
	require.True(t, ok)
	require.Equal(t, 0, bi.Cmp(gotBI))
}

func TestStringifyParseDate(t *testing.T) {
	d := time.Date(2024, 3, 14, 15, 9, 26, 535000000, time.UTC)
	got := dataRoundTrip(t, d, nil, nil)
	gotDate, ok := got.(time.Time)
	require.True(t, ok)
	require.True(t, d.Equal(gotDate))
}

func TestStringifyParseRegex(t *testing.T) {
	r := &Regex{Source: `\d+`, Flags: "gi"}
	got := dataRoundTrip(t, r, nil, nil)
	gotRegex, ok := got.(*Regex)
	require.True(t, ok)
	require.Equal(t, r.Source, gotRegex.Source)
	require.Equal(t, r.Flags, gotRegex.Flags)
}

func TestStringifyParseMapAndSet(t *testing.T) {
	m := NewMap().Set("a", 1.0).Set("b", 2.0)
	got := dataRoundTrip(t, m, nil, nil)
	gotMap, ok := got.(*Map)
	require.True(t, ok)
	require.Equal(t, m.Len(), gotMap.Len())
	for i, e := range m.Entries() {
		require.Equal(t, e.Key, gotMap.Entries()[i].Key)
		require.Equal(t, e.Value, gotMap.Entries()[i].Value)
	}

	s := NewSet().Add("x").Add("y").Add("x")
	got = dataRoundTrip(t, s, nil, nil)
	gotSet, ok := got.(*Set)
	require.True(t, ok)
	require.Equal(t, []any{"x", "y"}, gotSet.Values())
	require.Equal(t, s.Len(), gotSet.Len())
}

func TestStringifyParseCustomReducer(t *testing.T) {
	type point struct{ X, Y float64 }

	reducers := ReducerRegistry{
		{Tag: "Point", Reducer: func(v any) (any, bool) {
			p, ok := v.(point)
			if !ok {
				return nil, false
			}
			return map[string]any{"x": p.X, "y": p.Y}, true
		}},
	}
	revivers := ReviverRegistry{
		"Point": func(payload any) (any, error) {
			m := payload.(map[string]any)
			return point{X: m["x"].(float64), Y: m["y"].(float64)}, nil
		},
	}

	got := dataRoundTrip(t, point{X: 1, Y: 2}, reducers, revivers)
	require.Equal(t, point{X: 1, Y: 2}, got)
}

func TestUnevalBasicExpression(t *testing.T) {
	src, err := Uneval(map[string]any{"a": 1.0, "b": "x"}, nil)
	require.NoError(t, err)
	require.Contains(t, src, `"x"`)
}

func TestUnevalCycleProducesHoistedForm(t *testing.T) {
	self := []any{nil}
	self[0] = self

	src, err := Uneval(self, nil)
	require.NoError(t, err)
	require.Contains(t, src, "_0")
	require.Contains(t, src, "(function(){")
}

func TestUnevalSharedReferenceIsHoistedOnce(t *testing.T) {
	shared := []any{"shared"}
	v := map[string]any{"a": shared, "b": shared}

	src, err := Uneval(v, nil)
	require.NoError(t, err)
	// the shared slice is hoisted into exactly one var, referenced twice
	require.Equal(t, 1, strings.Count(src, "= []"))
	require.GreaterOrEqual(t, strings.Count(src, "_1"), 2)
}
