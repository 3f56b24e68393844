package parser

import (
	"strings"

	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/token"
)

// parseConditional parses an if/unless chain with any number of else-if
// branches and an optional trailing else.
func (p *Parser) parseConditional() ast.NodeID {
	start := p.peek().Span
	cond := ast.Conditional{}

	for {
		kw := p.next() // KwIf or KwUnless
		br := ast.CondBranch{IsUnless: kw.Kind == token.KwUnless, Span: kw.Span}
		c, ok := p.eat(token.Text)
		if !ok {
			p.fail(diag.SynUnexpectedToken, kw.Span, kw.Text+" needs a condition")
			return ast.NoNodeID
		}
		br.Condition = c.Text
		br.Children = p.parseChildBlock()
		if p.failed {
			return ast.NoNodeID
		}
		cond.Branches = append(cond.Branches, br)

		if !p.at(token.KwElse) {
			break
		}
		elseTok := p.next()
		if p.at(token.KwIf) || p.at(token.KwUnless) {
			continue
		}
		tail := ast.CondBranch{Span: elseTok.Span}
		tail.Children = p.parseChildBlock()
		if p.failed {
			return ast.NoNodeID
		}
		cond.Branches = append(cond.Branches, tail)
		break
	}
	return p.b.NewConditional(start, cond)
}

// parseEach parses `each value[, index] in collection` and an optional
// else block for empty collections.
func (p *Parser) parseEach() ast.NodeID {
	kw := p.next()
	head, ok := p.eat(token.Text)
	if !ok {
		p.failWithHint(diag.SynMalformedEach, kw.Span,
			"each needs a binding of the form `value[, index] in collection`",
			"write for example `each item in items`")
		return ast.NoNodeID
	}

	e := ast.Each{}
	sep := strings.Index(head.Text, " in ")
	if sep < 0 {
		p.failWithHint(diag.SynMalformedEach, head.Span,
			"each binding is missing the `in` keyword",
			"write for example `each item in items`")
		return ast.NoNodeID
	}
	names := strings.Split(head.Text[:sep], ",")
	e.ValueName = strings.TrimSpace(names[0])
	if len(names) == 2 {
		e.IndexName = strings.TrimSpace(names[1])
	}
	e.Collection = strings.TrimSpace(head.Text[sep+len(" in "):])
	if e.ValueName == "" || e.Collection == "" || len(names) > 2 {
		p.fail(diag.SynMalformedEach, head.Span,
			"each binding must name a value and a collection")
		return ast.NoNodeID
	}

	e.Children = p.parseChildBlock()
	if p.failed {
		return ast.NoNodeID
	}

	if p.at(token.KwElse) {
		p.next()
		e.ElseChildren = p.parseChildBlock()
		if p.failed {
			return ast.NoNodeID
		}
	}
	return p.b.NewEach(kw.Span.Cover(head.Span), e)
}

// parseWhile parses `while condition` with its body.
func (p *Parser) parseWhile() ast.NodeID {
	kw := p.next()
	c, ok := p.eat(token.Text)
	if !ok {
		p.fail(diag.SynUnexpectedToken, kw.Span, "while needs a condition")
		return ast.NoNodeID
	}
	w := ast.While{Condition: c.Text}
	w.Children = p.parseChildBlock()
	if p.failed {
		return ast.NoNodeID
	}
	return p.b.NewWhile(kw.Span.Cover(c.Span), w)
}

// parseCase parses a case block. Only when and default lines may appear
// in its body; a when with an empty body falls through to the next one.
func (p *Parser) parseCase() ast.NodeID {
	kw := p.next()
	expr, ok := p.eat(token.Text)
	if !ok {
		p.fail(diag.SynUnexpectedToken, kw.Span, "case needs an expression")
		return ast.NoNodeID
	}
	c := ast.Case{Expr: expr.Text}

	p.expectNewline()
	if p.failed {
		return ast.NoNodeID
	}
	if !p.at(token.Indent) {
		return p.b.NewCase(kw.Span.Cover(expr.Span), c)
	}
	p.next()

	for {
		p.skipNewlines()
		switch t := p.peek(); t.Kind {
		case token.KwWhen:
			p.next()
			val, ok := p.eat(token.Text)
			if !ok {
				p.fail(diag.SynUnexpectedToken, t.Span, "when needs a value")
				return ast.NoNodeID
			}
			when := ast.CaseWhen{Value: val.Text, Span: t.Span.Cover(val.Span)}
			when.Children = p.parseChildBlock()
			if p.failed {
				return ast.NoNodeID
			}
			when.Children, when.HasBreak = p.splitTrailingBreak(when.Children)
			c.Whens = append(c.Whens, when)

		case token.KwDefault:
			p.next()
			c.DefaultChildren = p.parseChildBlock()
			if p.failed {
				return ast.NoNodeID
			}

		case token.Outdent:
			p.next()
			return p.b.NewCase(kw.Span.Cover(expr.Span), c)

		default:
			p.failWithHint(diag.SynWhenOutsideCase, t.Span,
				"only when and default lines may appear inside case",
				"indent content under a when branch instead")
			return ast.NoNodeID
		}
	}
}

// splitTrailingBreak strips a trailing `- break` from a when body.
func (p *Parser) splitTrailingBreak(children []ast.NodeID) ([]ast.NodeID, bool) {
	if len(children) == 0 {
		return children, false
	}
	last := children[len(children)-1]
	if p.b.Kind(last) == ast.NodeCode {
		code := p.b.Code(last)
		if !code.Buffered && strings.TrimSpace(code.Expr) == "break" {
			return children[:len(children)-1], true
		}
	}
	return children, false
}
