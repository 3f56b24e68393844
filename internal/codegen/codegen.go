package codegen

import (
	"strconv"
	"strings"

	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/source"
)

// Options configure one Generate run.
type Options struct {
	// Reporter receives the single fatal diagnostic; nil drops it.
	Reporter diag.Reporter
	// Lookup resolves template expressions; nil leaves every identifier
	// unresolved.
	Lookup Lookup
	// Pretty emits indented output with one block node per line.
	Pretty bool
	// Indent is the pretty-print unit, two spaces by default.
	Indent string
	// Doctype applies when the document declares none. It selects the
	// output mode but is not itself emitted.
	Doctype string
}

// Generator walks a linked, mixin-expanded document and emits HTML.
type Generator struct {
	b    *ast.Builder
	opts Options
	out  strings.Builder

	scopes []map[string]string
	terse  bool
	depth  int
	rawCtx int
	failed bool
}

// Generate renders doc. On failure it returns "" after reporting.
func Generate(b *ast.Builder, doc ast.NodeID, opts Options) (string, bool) {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	g := &Generator{b: b, opts: opts}

	mode := opts.Doctype
	for _, id := range b.Document(doc).Nodes {
		if b.Kind(id) == ast.NodeDoctype {
			mode = b.Doctype(id).Value
			break
		}
	}
	g.terse = terseDoctype(mode)

	g.renderList(b.Document(doc).Nodes)
	if g.failed {
		return "", false
	}
	html := g.out.String()
	if opts.Pretty && html != "" && !strings.HasSuffix(html, "\n") {
		html += "\n"
	}
	return html, true
}

func (g *Generator) renderList(ids []ast.NodeID) {
	for _, id := range ids {
		if g.failed {
			return
		}
		g.renderNode(id)
	}
}

func (g *Generator) renderNode(id ast.NodeID) {
	switch g.b.Kind(id) {
	case ast.NodeDoctype:
		g.lineBreak()
		g.out.WriteString(doctypeDecl(g.b.Doctype(id).Value))

	case ast.NodeElement:
		g.lineBreak()
		g.renderElement(id)

	case ast.NodeText:
		g.lineBreak()
		g.renderSegments(g.b.Text(id).Segments)

	case ast.NodeRawText:
		g.out.WriteString(g.b.RawText(id).Content)

	case ast.NodeCode:
		g.renderCode(id)

	case ast.NodeComment:
		g.renderComment(id)

	case ast.NodeConditional:
		c := g.b.Conditional(id)
		for i := range c.Branches {
			br := &c.Branches[i]
			if br.Condition == "" || g.evalCond(br.Condition) != br.IsUnless {
				g.renderList(br.Children)
				return
			}
		}

	case ast.NodeEach:
		g.renderEach(id)

	case ast.NodeWhile:
		w := g.b.While(id)
		// the compiler cannot advance opaque state, so a true condition
		// renders the body exactly once
		if g.evalCond(w.Condition) {
			g.renderList(w.Children)
		}

	case ast.NodeCase:
		g.renderCase(id)

	case ast.NodeBlock:
		g.renderList(g.b.Block(id).Children)

	case ast.NodeMixinDef, ast.NodeMixinBlock:
		// definitions and unexpanded placeholders render nothing

	case ast.NodeDocument:
		g.renderList(g.b.Document(id).Nodes)

	case ast.NodeMixinCall, ast.NodeInclude, ast.NodeExtends:
		g.fail(diag.GenUnresolvedNode, g.b.Node(id).Span,
			"unresolved "+g.b.Kind(id).String()+" reached code generation")

	default:
		g.fail(diag.GenUnresolvedNode, g.b.Node(id).Span, "invalid node")
	}
}

func (g *Generator) renderCode(id ast.NodeID) {
	c := g.b.Code(id)
	if c.Buffered {
		g.lineBreak()
		value := g.evalValue(c.Expr)
		if c.Escaped {
			value = escapeText(value)
		}
		g.out.WriteString(value)
		return
	}
	g.renderList(c.Children)
}

func (g *Generator) renderComment(id ast.NodeID) {
	c := g.b.Comment(id)
	if !c.Rendered {
		return
	}
	g.lineBreak()
	g.out.WriteString("<!--")
	g.out.WriteString(c.Content)
	if len(c.Children) > 0 {
		g.depth++
		g.renderList(c.Children)
		g.depth--
		g.lineBreak()
	}
	g.out.WriteString("-->")
}

func (g *Generator) renderEach(id ast.NodeID) {
	e := g.b.Each(id)
	items, ok := g.evalItems(e.Collection)
	if !ok || len(items) == 0 {
		g.renderList(e.ElseChildren)
		return
	}
	for i, item := range items {
		binds := map[string]string{e.ValueName: item}
		if e.IndexName != "" {
			binds[e.IndexName] = strconv.Itoa(i)
		}
		g.pushScope(binds)
		g.renderList(e.Children)
		g.popScope()
		if g.failed {
			return
		}
	}
}

func (g *Generator) renderCase(id ast.NodeID) {
	c := g.b.Case(id)
	subject := g.evalValue(c.Expr)

	for i := range c.Whens {
		if g.evalValue(c.Whens[i].Value) != subject {
			continue
		}
		// empty branches without a break fall through to the next body
		for j := i; j < len(c.Whens); j++ {
			if len(c.Whens[j].Children) > 0 {
				g.renderList(c.Whens[j].Children)
				return
			}
			if c.Whens[j].HasBreak {
				return
			}
		}
		g.renderList(c.DefaultChildren)
		return
	}
	g.renderList(c.DefaultChildren)
}

func (g *Generator) renderSegments(segs []ast.TextSegment) {
	for _, seg := range segs {
		switch seg.Kind {
		case ast.SegLiteral:
			g.out.WriteString(seg.Text)
		case ast.SegInterpEscaped:
			g.out.WriteString(escapeText(g.evalValue(seg.Text)))
		case ast.SegInterpUnescaped:
			g.out.WriteString(g.evalValue(seg.Text))
		case ast.SegInterpTag:
			g.renderElement(seg.Tag)
		}
	}
}

// lineBreak starts a new indented line in pretty mode. Inside raw tags
// and in compact mode it is a no-op.
func (g *Generator) lineBreak() {
	if !g.opts.Pretty || g.rawCtx > 0 || g.out.Len() == 0 {
		return
	}
	g.out.WriteByte('\n')
	for i := 0; i < g.depth; i++ {
		g.out.WriteString(g.opts.Indent)
	}
}

func (g *Generator) fail(code diag.Code, sp source.Span, msg string) {
	if !g.failed {
		diag.Error(g.opts.Reporter, code, sp, msg)
		g.failed = true
	}
}

func (g *Generator) failWithHint(code diag.Code, sp source.Span, msg, hint string) {
	if !g.failed {
		diag.ErrorWithHint(g.opts.Reporter, code, sp, msg, hint)
		g.failed = true
	}
}
