package devalue

import (
	"fmt"
	"testing"
)

func TestKindString(t *testing.T) {
	for _, tc := range []struct {
		k        Kind
		expected string
	}{
		{KindHole, "Hole"},
		{KindUndefined, "Undefined"},
		{KindNull, "Null"},
		{KindCustom, "Custom"},
		{numKinds, "<unknown>"},
		{kindUnknown, "<unknown>"},
		{1000, "<unknown>"},
	} {
		t.Run(fmt.Sprintf("%v", tc.k), func(t *testing.T) {
			if got := tc.k.String(); got != tc.expected {
				t.Errorf("expected %q got %q", tc.expected, got)
			}
		})
	}
}
