package parser

import (
	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/lexer"
	"plume/internal/token"
)

// parseSegments consumes a run of text and interpolation tokens.
func (p *Parser) parseSegments() []ast.TextSegment {
	var segs []ast.TextSegment
	for {
		switch t := p.peek(); t.Kind {
		case token.Text:
			p.next()
			segs = append(segs, ast.TextSegment{Kind: ast.SegLiteral, Text: t.Text, Span: t.Span})
		case token.InterpEscaped:
			p.next()
			segs = append(segs, ast.TextSegment{Kind: ast.SegInterpEscaped, Text: t.Text, Span: t.Span})
		case token.InterpUnescaped:
			p.next()
			segs = append(segs, ast.TextSegment{Kind: ast.SegInterpUnescaped, Text: t.Text, Span: t.Span})
		case token.InterpTag:
			p.next()
			tag := p.parseInlineTag(t)
			if p.failed {
				return nil
			}
			segs = append(segs, ast.TextSegment{Kind: ast.SegInterpTag, Tag: tag, Span: t.Span})
		default:
			return segs
		}
	}
}

// parseInlineTag re-lexes the source of a #[...] interpolation and
// parses it as a single inline element.
func (p *Parser) parseInlineTag(t token.Token) ast.NodeID {
	fileID := p.opts.Files.AddVirtual("#[inline]", []byte(t.Text))
	file := p.opts.Files.Get(fileID)

	lx := lexer.New(file, lexer.Options{Reporter: p.opts.Reporter})
	toks := lx.Tokenize()
	if lx.Failed() {
		p.failed = true
		return ast.NoNodeID
	}

	sub := New(toks, p.b, p.opts)
	id := sub.parseStatement()
	if sub.failed {
		p.failed = true
		return ast.NoNodeID
	}
	if p.b.Kind(id) == ast.NodeElement {
		p.b.Element(id).IsInline = true
	}
	return id
}

// parsePipeText parses one `| text` line into a Text node.
func (p *Parser) parsePipeText() ast.NodeID {
	pipe := p.next()
	segs := p.parseSegments()
	if p.failed {
		return ast.NoNodeID
	}
	p.expectNewline()
	if p.failed {
		return ast.NoNodeID
	}
	span := pipe.Span
	if len(segs) > 0 {
		span = span.Cover(segs[len(segs)-1].Span)
	}
	return p.b.NewText(span, ast.Text{Segments: segs})
}

// parseTextStatement parses a bare text line (literal HTML and the like).
func (p *Parser) parseTextStatement() ast.NodeID {
	start := p.peek().Span
	segs := p.parseSegments()
	if p.failed {
		return ast.NoNodeID
	}
	p.expectNewline()
	if p.failed {
		return ast.NoNodeID
	}
	span := start
	if len(segs) > 0 {
		span = span.Cover(segs[len(segs)-1].Span)
	}
	return p.b.NewText(span, ast.Text{Segments: segs})
}

// parseComment parses `//` and `//-` lines with their raw child lines.
func (p *Parser) parseComment() ast.NodeID {
	t := p.next()
	c := ast.Comment{
		Content:  t.Text,
		Rendered: t.Kind == token.Comment,
	}
	c.Children = p.parseCommentBody()
	if p.failed {
		return ast.NoNodeID
	}
	return p.b.NewComment(t.Span, c)
}

// parseCommentBody collects the comment's indented raw lines as Text
// nodes with a single literal segment each.
func (p *Parser) parseCommentBody() []ast.NodeID {
	p.expectNewline()
	if p.failed || !p.at(token.Indent) {
		return nil
	}
	p.next()

	var lines []ast.NodeID
	for {
		switch t := p.peek(); t.Kind {
		case token.Text:
			p.next()
			lines = append(lines, p.b.NewText(t.Span, ast.Text{
				Segments: []ast.TextSegment{{Kind: ast.SegLiteral, Text: t.Text, Span: t.Span}},
			}))
			p.expectNewline()
			if p.failed {
				return nil
			}
		case token.Newline:
			p.next()
		case token.Outdent:
			p.next()
			return lines
		default:
			p.fail(diag.SynUnexpectedToken, t.Span,
				"unexpected "+t.Kind.String()+" inside a comment block")
			return nil
		}
	}
}

// parseUnbufferedCode parses a `- code` line and its child block.
func (p *Parser) parseUnbufferedCode() ast.NodeID {
	dash := p.next()
	code := ast.Code{}
	span := dash.Span
	if expr, ok := p.eat(token.Text); ok {
		code.Expr = expr.Text
		span = span.Cover(expr.Span)
	}
	code.Children = p.parseChildBlock()
	if p.failed {
		return ast.NoNodeID
	}
	return p.b.NewCode(span, code)
}

// parseBufferedCode parses `= expr` and `!= expr` statement lines.
func (p *Parser) parseBufferedCode() ast.NodeID {
	op := p.next()
	code := ast.Code{
		Buffered: true,
		Escaped:  op.Kind == token.Equals,
	}
	span := op.Span
	if expr, ok := p.eat(token.Text); ok {
		code.Expr = expr.Text
		span = span.Cover(expr.Span)
	}
	p.expectNewline()
	if p.failed {
		return ast.NoNodeID
	}
	return p.b.NewCode(span, code)
}

// parseDoctype parses a doctype line; a bare `doctype` means html.
func (p *Parser) parseDoctype() ast.NodeID {
	kw := p.next()
	value := "html"
	span := kw.Span
	if v, ok := p.eat(token.Text); ok {
		value = v.Text
		span = span.Cover(v.Span)
	}
	p.expectNewline()
	if p.failed {
		return ast.NoNodeID
	}
	return p.b.NewDoctype(span, ast.Doctype{Value: value})
}
