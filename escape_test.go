package devalue

import (
	"strings"
	"testing"
)

func TestEscapeStringBasic(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"abc", `"abc"`},
		{"a\"b", `"a\"b"`},
		{"a\\b", `"a\\b"`},
		{"a\nb", `"a\nb"`},
	} {
		if got := escapeString(tc.in); got != tc.want {
			t.Errorf("escapeString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeStringNeutralizesLineSeparators(t *testing.T) {
	got := escapeString("a" + string(lineSeparator) + "b" + string(paragraphSeparator) + "c")
	if strings.ContainsRune(got, lineSeparator) || strings.ContainsRune(got, paragraphSeparator) {
		t.Errorf("line/paragraph separators must be escaped, got %q", got)
	}
}

func TestEscapeStringNeutralizesScriptClose(t *testing.T) {
	got := escapeString("</script>alert(1)</script>")
	if strings.Contains(strings.ToLower(got), "</script") {
		t.Errorf("literal </script should be neutralized, got %q", got)
	}
}

func TestEscapeStringNeutralizesHTMLComment(t *testing.T) {
	got := escapeString("<!--inject-->")
	if strings.Contains(got, "<!--") {
		t.Errorf("literal <!-- should be neutralized, got %q", got)
	}
}

func TestEscapeStringEscapesAngleBracketsAndSlash(t *testing.T) {
	got := escapeString("</>")
	for _, r := range []rune{'<', '>', '/'} {
		if strings.ContainsRune(got, r) {
			t.Errorf("escapeString output should not contain bare %q, got %q", r, got)
		}
	}
}

func TestEscapeKeyBareVsQuoted(t *testing.T) {
	if got := escapeKey("validName"); got != "validName" {
		t.Errorf("expected bare identifier, got %q", got)
	}
	if got := escapeKey("not-valid"); got != `"not-valid"` {
		t.Errorf("expected quoted key, got %q", got)
	}
	if got := escapeKey("class"); got != `"class"` {
		t.Errorf("reserved word should be quoted, got %q", got)
	}
}
