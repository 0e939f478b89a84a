package devalue

import (
	"fmt"
	"strings"
)

// This file is the code-mode counterpart to encoding/json's HTML-safe
// escaping used in Data mode (see emit_data.go): it renders Go strings
// as JS source-code string literals, safe to paste into a <script> tag
// or an HTML comment and safe to re-tokenize as JS. No library in the
// retrieval pack produces JS source text, so this table is hand-written,
// grounded on the short-escape/control-char table pattern in
// canonicaljson-go's encode.go, adapted from JSON-string escaping to
// JS-string-literal escaping: besides the line/paragraph separator code
// points (valid inside a JSON string but illegal unescaped inside a
// pre-ES2019 JS string literal), it also escapes '<', '>', and '/' on
// sight, since any one of those left bare could let a string payload
// close or reopen a surrounding <script> element or HTML comment.
const (
	lineSeparator      rune = '\u2028'
	paragraphSeparator rune = '\u2029'
)

var shortEscapes = map[rune]string{
	'\\': `\\`,
	'"':  `\"`,
	'\n': `\n`,
	'\r': `\r`,
	'\t': `\t`,
	'\b': `\b`,
	'\f': `\f`,
}

// escapeString renders s as a double-quoted JS string literal.
func escapeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if esc, ok := shortEscapes[r]; ok {
			b.WriteString(esc)
			continue
		}
		switch {
		case r < 0x20, r == 0x7f, r == lineSeparator, r == paragraphSeparator, r == '<', r == '>', r == '/':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// escapeKey renders k as an Object property key: a bare identifier when
// legal, otherwise a quoted string literal.
func escapeKey(k string) string {
	if isIdentifier(k) && !isReservedWord(k) {
		return k
	}
	return escapeString(k)
}

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true, "instanceof": true,
	"new": true, "return": true, "super": true, "switch": true, "this": true,
	"throw": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true, "let": true, "static": true,
	"enum": true, "await": true, "implements": true, "package": true,
	"protected": true, "interface": true, "private": true, "public": true,
	"null": true, "true": true, "false": true,
}

func isReservedWord(s string) bool {
	return reservedWords[s]
}
