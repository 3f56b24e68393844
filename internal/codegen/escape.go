package codegen

import (
	"strings"
)

// maxEntityLen bounds the lookahead when deciding whether an ampersand
// already starts a character reference.
const maxEntityLen = 32

// escapeText escapes &, < and > for text content. Ampersands that open
// a well-formed character reference are kept so already-escaped input
// does not double-escape.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var out strings.Builder
	out.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '&':
			if n := entityLen(s[i:]); n > 0 {
				out.WriteString(s[i : i+n])
				i += n - 1
			} else {
				out.WriteString("&amp;")
			}
		default:
			out.WriteByte(s[i])
		}
	}
	return out.String()
}

// escapeAttr escapes attribute values: text escaping plus double quotes.
func escapeAttr(s string) string {
	return strings.ReplaceAll(escapeText(s), `"`, "&quot;")
}

// entityLen returns the length of the character reference at the start
// of s (which begins with '&'), or 0 when there is none. Decimal,
// hexadecimal and named forms are recognized.
func entityLen(s string) int {
	limit := len(s)
	if limit > maxEntityLen {
		limit = maxEntityLen
	}

	i := 1
	digits := func(valid func(byte) bool) int {
		n := 0
		for i < limit && valid(s[i]) {
			i++
			n++
		}
		return n
	}

	switch {
	case i < limit && s[i] == '#':
		i++
		if i < limit && (s[i] == 'x' || s[i] == 'X') {
			i++
			if digits(isHexDigit) == 0 {
				return 0
			}
		} else if digits(isDigit) == 0 {
			return 0
		}
	case i < limit && isAlpha(s[i]):
		digits(isAlnum)
	default:
		return 0
	}

	if i < limit && s[i] == ';' {
		return i + 1
	}
	return 0
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }
