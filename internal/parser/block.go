package parser

import (
	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/token"
)

// parseBlock parses `block [append|prepend] name` and the shorthand
// `append name` / `prepend name` forms.
func (p *Parser) parseBlock() ast.NodeID {
	kw := p.next()
	bl := ast.Block{}

	switch kw.Kind {
	case token.KwAppend:
		bl.Mode = ast.BlockAppend
	case token.KwPrepend:
		bl.Mode = ast.BlockPrepend
	default:
		switch p.peek().Kind {
		case token.KwAppend:
			p.next()
			bl.Mode = ast.BlockAppend
		case token.KwPrepend:
			p.next()
			bl.Mode = ast.BlockPrepend
		}
	}

	name, ok := p.eat(token.Text)
	if !ok {
		if kw.Kind == token.KwBlock && bl.Mode == ast.BlockReplace {
			// a bare `block` is the mixin content placeholder
			p.expectNewline()
			if p.failed {
				return ast.NoNodeID
			}
			return p.b.NewMixinBlock(kw.Span)
		}
		p.failWithHint(diag.SynExpectBlockName, kw.Span,
			"block "+bl.Mode.String()+" needs a name",
			"write for example `block content`")
		return ast.NoNodeID
	}
	bl.Name = name.Text

	bl.Children = p.parseChildBlock()
	if p.failed {
		return ast.NoNodeID
	}
	return p.b.NewBlock(kw.Span.Cover(name.Span), bl)
}

// parseInclude parses `include path` and the filtered
// `include:filter path` form.
func (p *Parser) parseInclude() ast.NodeID {
	kw := p.next()
	inc := ast.Include{}

	if p.at(token.Colon) {
		p.next()
		filter, ok := p.eat(token.Text)
		if !ok {
			p.fail(diag.SynUnexpectedToken, kw.Span, "include filter needs a name")
			return ast.NoNodeID
		}
		inc.Filter = filter.Text
	}

	path, ok := p.eat(token.Text)
	if !ok {
		p.failWithHint(diag.SynExpectPath, kw.Span,
			"include needs a file path",
			"write for example `include partials/header`")
		return ast.NoNodeID
	}
	inc.Path = path.Text

	p.expectNewline()
	if p.failed {
		return ast.NoNodeID
	}
	return p.b.NewInclude(kw.Span.Cover(path.Span), inc)
}
