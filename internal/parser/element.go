package parser

import (
	"strings"

	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/token"
)

// parseElement parses one element line: head, trailer and child block.
func (p *Parser) parseElement() ast.NodeID {
	head := p.next()
	span := head.Span
	el := ast.Element{Tag: head.Text}

loop:
	for {
		switch t := p.peek(); t.Kind {
		case token.ClassName:
			p.next()
			el.Classes = append(el.Classes, t.Text)
			span = span.Cover(t.Span)
		case token.IdName:
			p.next()
			el.ID = t.Text
			span = span.Cover(t.Span)
		case token.AttrsStart:
			el.Attrs = p.parseAttrList()
			if p.failed {
				return ast.NoNodeID
			}
		case token.Slash:
			p.next()
			el.SelfClosing = true
		default:
			break loop
		}
	}

	switch t := p.peek(); t.Kind {
	case token.Colon:
		// block expansion: the rest of the line is the only child
		p.next()
		child := p.parseStatement()
		if p.failed {
			return ast.NoNodeID
		}
		if child.IsValid() {
			el.Children = []ast.NodeID{child}
		}
		return p.b.NewElement(span, el)

	case token.Equals, token.BangEquals:
		p.next()
		el.BufferedEscaped = t.Kind == token.Equals
		if expr, ok := p.eat(token.Text); ok {
			el.BufferedCode = expr.Text
		}

	case token.Dot:
		p.next()
		if raw := p.parseRawBlock(); raw.IsValid() {
			el.Children = []ast.NodeID{raw}
		}
		return p.b.NewElement(span, el)

	case token.Text, token.InterpEscaped, token.InterpUnescaped, token.InterpTag:
		el.InlineText = p.parseSegments()
		if p.failed {
			return ast.NoNodeID
		}
	}

	el.Children = append(el.Children, p.parseChildBlock()...)
	if p.failed {
		return ast.NoNodeID
	}
	return p.b.NewElement(span, el)
}

// parseAttrList consumes AttrsStart .. AttrsEnd.
func (p *Parser) parseAttrList() []ast.Attr {
	p.next() // AttrsStart
	var attrs []ast.Attr
	for {
		switch t := p.peek(); t.Kind {
		case token.AttrsEnd:
			p.next()
			return attrs
		case token.AttrName:
			p.next()
			attr := ast.Attr{Name: t.Text, Span: t.Span}
			switch v := p.peek(); v.Kind {
			case token.AttrValue:
				p.next()
				attr.Value, attr.HasValue, attr.Escaped = v.Text, true, true
			case token.AttrValueUnescaped:
				p.next()
				attr.Value, attr.HasValue = v.Text, true
			}
			attrs = append(attrs, attr)
		default:
			p.fail(diag.SynMalformedAttr, t.Span,
				"malformed attribute list: unexpected "+t.Kind.String())
			return nil
		}
	}
}

// parseRawBlock turns a dot block's indented lines into one RawText node
// joined with newlines.
func (p *Parser) parseRawBlock() ast.NodeID {
	p.expectNewline()
	if p.failed || !p.at(token.Indent) {
		return ast.NoNodeID
	}
	open := p.next()
	span := open.Span

	var lines []string
	for {
		switch t := p.peek(); t.Kind {
		case token.Text:
			p.next()
			lines = append(lines, t.Text)
			span = span.Cover(t.Span)
			p.expectNewline()
			if p.failed {
				return ast.NoNodeID
			}
		case token.Newline:
			p.next()
		case token.Outdent:
			p.next()
			return p.b.NewRawText(span, ast.RawText{Content: strings.Join(lines, "\n")})
		default:
			p.fail(diag.SynUnexpectedToken, t.Span,
				"unexpected "+t.Kind.String()+" inside a raw text block")
			return ast.NoNodeID
		}
	}
}
