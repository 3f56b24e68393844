package mixin

import (
	"strings"
)

// substitute replaces whole identifiers in an expression with their
// bound argument text. String literal contents and property names after
// a dot are left alone.
func substitute(expr string, binds map[string]string) string {
	if len(binds) == 0 || expr == "" {
		return expr
	}

	var out strings.Builder
	out.Grow(len(expr))

	i := 0
	for i < len(expr) {
		ch := expr[i]
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			j := i + 1
			for j < len(expr) {
				if expr[j] == '\\' {
					j += 2
					continue
				}
				if expr[j] == ch {
					j++
					break
				}
				j++
			}
			if j > len(expr) {
				j = len(expr)
			}
			out.WriteString(expr[i:j])
			i = j

		case isIdentStart(ch):
			j := i
			for j < len(expr) && isIdentPart(expr[j]) {
				j++
			}
			word := expr[i:j]
			afterDot := i > 0 && expr[i-1] == '.'
			if repl, ok := binds[word]; ok && !afterDot {
				out.WriteString(repl)
			} else {
				out.WriteString(word)
			}
			i = j

		default:
			out.WriteByte(ch)
			i++
		}
	}
	return out.String()
}

func isIdentStart(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
