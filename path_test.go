package devalue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathRendersDottedAndBracketedSegments(t *testing.T) {
	p := rootPath().key("object").key("array").index(0)
	require.Equal(t, ".object.array[0]", p.String())
}

func TestPathQuotesStringMapKeys(t *testing.T) {
	p := rootPath().key("object").key("array").index(0).mapEntry("key")
	require.Equal(t, `.object.array[0].get("key")`, p.String())
}

func TestPathRendersNonStringMapKeysBare(t *testing.T) {
	p := rootPath().mapEntry(7)
	require.Equal(t, ".get(7)", p.String())
}

func TestPathQuotesOddObjectKeys(t *testing.T) {
	p := rootPath().key("odd key")
	require.Equal(t, `["odd key"]`, p.String())
}
