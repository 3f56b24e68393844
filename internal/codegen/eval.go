package codegen

import (
	"strings"
)

// Lookup supplies values for the expressions a template references.
// Expressions are opaque to the compiler: only string and number
// literals, booleans and dotted identifier paths are evaluated; anything
// more complex renders as its source text and counts as false in
// conditions.
type Lookup interface {
	// Resolve returns the value bound to a dotted identifier path.
	Resolve(path string) (string, bool)
	// Items returns the elements a path iterates over.
	Items(path string) ([]string, bool)
}

// MapLookup is the standard Lookup over in-memory maps.
type MapLookup struct {
	Values map[string]string
	Lists  map[string][]string
}

func (m MapLookup) Resolve(path string) (string, bool) {
	v, ok := m.Values[path]
	return v, ok
}

func (m MapLookup) Items(path string) ([]string, bool) {
	items, ok := m.Lists[path]
	return items, ok
}

// pushScope binds loop variables for the duration of a body.
func (g *Generator) pushScope(binds map[string]string) {
	g.scopes = append(g.scopes, binds)
}

func (g *Generator) popScope() {
	g.scopes = g.scopes[:len(g.scopes)-1]
}

// resolve looks a path up in the innermost scope outward, then in the
// host-provided Lookup. For dotted paths the scopes match on the first
// segment only when it is bound whole.
func (g *Generator) resolve(path string) (string, bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if v, ok := g.scopes[i][path]; ok {
			return v, true
		}
	}
	if g.opts.Lookup != nil {
		return g.opts.Lookup.Resolve(path)
	}
	return "", false
}

// evalValueOK renders an expression for output. ok is false only for an
// identifier path with no binding, which lets attributes distinguish an
// absent value from an empty one.
func (g *Generator) evalValueOK(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if isIdentPath(expr) && expr != "true" && expr != "false" {
		return g.resolve(expr)
	}
	return g.evalValue(expr), true
}

// evalValue renders an expression for output.
func (g *Generator) evalValue(expr string) string {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return ""
	case isStringLiteral(expr):
		return unquote(expr)
	case expr == "true" || expr == "false" || isNumber(expr):
		return expr
	case isIdentPath(expr):
		v, _ := g.resolve(expr)
		return v
	default:
		// opaque expression: its source text is the best rendering
		return expr
	}
}

// evalCond decides an expression's truthiness. Unresolvable identifiers
// and opaque expressions are false.
func (g *Generator) evalCond(expr string) bool {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return false
	case isStringLiteral(expr):
		return unquote(expr) != ""
	case expr == "true":
		return true
	case expr == "false":
		return false
	case isNumber(expr):
		return expr != "0"
	case isIdentPath(expr):
		v, ok := g.resolve(expr)
		return ok && truthy(v)
	default:
		return false
	}
}

// evalItems resolves an each collection.
func (g *Generator) evalItems(expr string) ([]string, bool) {
	expr = strings.TrimSpace(expr)
	if isIdentPath(expr) && g.opts.Lookup != nil {
		return g.opts.Lookup.Items(expr)
	}
	return nil, false
}

func truthy(v string) bool {
	return v != "" && v != "false" && v != "0"
}

func isStringLiteral(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	if q != '\'' && q != '"' && q != '`' {
		return false
	}
	if s[len(s)-1] != q {
		return false
	}
	// the closing quote must not be escaped and the literal must not
	// end before the last byte
	for i := 1; i < len(s)-1; i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return false
		}
	}
	return true
}

func unquote(s string) string {
	body := s[1 : len(s)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}
	var out strings.Builder
	out.Grow(len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			default:
				out.WriteByte(body[i])
			}
			continue
		}
		out.WriteByte(body[i])
	}
	return out.String()
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
		if len(s) == 1 {
			return false
		}
	}
	dot := false
	for ; i < len(s); i++ {
		if s[i] == '.' {
			if dot {
				return false
			}
			dot = true
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isIdentPath matches ident(.ident)* with JS-style identifiers.
func isIdentPath(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" || !isIdentStartByte(part[0]) {
			return false
		}
		for i := 1; i < len(part); i++ {
			if !isIdentByte(part[i]) {
				return false
			}
		}
	}
	return true
}

func isIdentStartByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}
