package codegen

import (
	"strings"

	"plume/internal/ast"
	"plume/internal/diag"
)

// renderElement emits one element with its attributes and content. The
// caller is responsible for line placement.
func (g *Generator) renderElement(id ast.NodeID) {
	el := g.b.Element(id)
	span := g.b.Node(id).Span
	isVoid := voidElements[el.Tag]

	if (isVoid || el.SelfClosing) && (len(el.Children) > 0 || len(el.InlineText) > 0 || el.BufferedCode != "") {
		msg := "<" + el.Tag + "> is a void element and cannot have content"
		if !isVoid {
			msg = "<" + el.Tag + "/> is self-closing and cannot have content"
		}
		g.failWithHint(diag.GenVoidWithChildren, span, msg,
			"move the content next to the element or pick a container tag")
		return
	}

	g.out.WriteByte('<')
	g.out.WriteString(el.Tag)
	g.renderAttrs(el)

	switch {
	case isVoid && g.terse:
		g.out.WriteByte('>')
		return
	case isVoid || el.SelfClosing:
		g.out.WriteString("/>")
		return
	}
	g.out.WriteByte('>')

	raw := rawTags[el.Tag]
	if raw {
		g.rawCtx++
	}

	if el.BufferedCode != "" {
		value := g.evalValue(el.BufferedCode)
		if el.BufferedEscaped {
			value = escapeText(value)
		}
		g.out.WriteString(value)
	}
	g.renderSegments(el.InlineText)

	if len(el.Children) > 0 {
		blockBody := g.opts.Pretty && !raw && !el.IsInline && !g.onlyInlineChildren(el)
		if blockBody {
			g.depth++
		}
		g.renderList(el.Children)
		if blockBody {
			g.depth--
			g.lineBreak()
		}
	}

	if raw {
		g.rawCtx--
	}
	g.out.WriteString("</")
	g.out.WriteString(el.Tag)
	g.out.WriteByte('>')
}

// onlyInlineChildren reports whether every child renders inline, which
// keeps the element on a single pretty-printed line.
func (g *Generator) onlyInlineChildren(el *ast.Element) bool {
	for _, id := range el.Children {
		switch g.b.Kind(id) {
		case ast.NodeRawText:
		case ast.NodeElement:
			if !g.b.Element(id).IsInline {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// renderAttrs emits the merged attribute list: class first, then id,
// then the remaining attributes in source order.
func (g *Generator) renderAttrs(el *ast.Element) {
	classes := append([]string{}, el.Classes...)
	idValue := el.ID

	type flatAttr struct {
		name    string
		value   string
		boolean bool
		escaped bool
	}
	var rest []flatAttr

	// style values merge like classes: every occurrence is normalized to
	// end with ";" and concatenated into one attribute at the position of
	// the first
	var styles []string
	styleEscaped := true
	styleAt := -1

	for _, attr := range el.Attrs {
		switch {
		case attr.Name == "class" && attr.HasValue:
			if v := g.evalValue(attr.Value); v != "" {
				classes = append(classes, v)
			}
		case attr.Name == "id" && attr.HasValue:
			// an explicit id attribute beats the # shorthand
			idValue = g.evalValue(attr.Value)
		case attr.Name == "style" && attr.HasValue:
			value, ok := g.evalValueOK(attr.Value)
			if !ok {
				continue
			}
			if value == "false" && isBooleanish(attr.Value) {
				continue
			}
			if v := normalizeStyle(value); v != "" {
				styles = append(styles, v)
			}
			if !attr.Escaped {
				styleEscaped = false
			}
			if styleAt == -1 {
				styleAt = len(rest)
				rest = append(rest, flatAttr{name: "style"})
			}
		case !attr.HasValue:
			rest = append(rest, flatAttr{name: attr.Name, boolean: true})
		default:
			value, ok := g.evalValueOK(attr.Value)
			if !ok {
				continue // unresolved bindings drop the attribute
			}
			if value == "false" && isBooleanish(attr.Value) {
				continue // false suppresses the attribute entirely
			}
			if value == "true" && isBooleanish(attr.Value) {
				rest = append(rest, flatAttr{name: attr.Name, boolean: true})
				continue
			}
			rest = append(rest, flatAttr{name: attr.Name, value: value, escaped: attr.Escaped})
		}
	}

	if len(classes) > 0 {
		g.out.WriteString(` class="`)
		g.out.WriteString(escapeAttr(strings.Join(classes, " ")))
		g.out.WriteByte('"')
	}
	if idValue != "" {
		g.out.WriteString(` id="`)
		g.out.WriteString(escapeAttr(idValue))
		g.out.WriteByte('"')
	}
	for i, attr := range rest {
		if i == styleAt {
			if len(styles) == 0 {
				continue
			}
			merged := strings.Join(styles, "")
			g.out.WriteString(` style="`)
			if styleEscaped {
				g.out.WriteString(escapeAttr(merged))
			} else {
				g.out.WriteString(merged)
			}
			g.out.WriteByte('"')
			continue
		}
		g.out.WriteByte(' ')
		g.out.WriteString(attr.name)
		if attr.boolean {
			if !g.terse {
				g.out.WriteString(`="` + attr.name + `"`)
			}
			continue
		}
		g.out.WriteString(`="`)
		if attr.escaped {
			g.out.WriteString(escapeAttr(attr.value))
		} else {
			g.out.WriteString(attr.value)
		}
		g.out.WriteByte('"')
	}
}

// isBooleanish reports whether the source expression could carry the
// boolean attribute protocol (true drops the value, false drops the
// attribute). String literals keep their text either way.
func isBooleanish(expr string) bool {
	return !isStringLiteral(strings.TrimSpace(expr))
}

// normalizeStyle guarantees a trailing semicolon on inline styles.
func normalizeStyle(value string) string {
	v := strings.TrimSpace(value)
	if v == "" || strings.HasSuffix(v, ";") {
		return v
	}
	return v + ";"
}
