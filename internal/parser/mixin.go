package parser

import (
	"strings"

	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/token"
)

// parseMixinDef parses `mixin name(params)` and its body.
func (p *Parser) parseMixinDef() ast.NodeID {
	kw := p.next()
	name, ok := p.eat(token.Text)
	if !ok {
		p.fail(diag.SynExpectMixinName, kw.Span, "mixin declaration needs a name")
		return ast.NoNodeID
	}
	def := ast.MixinDef{Name: name.Text}

	if p.at(token.AttrsStart) {
		p.next()
		for !p.at(token.AttrsEnd) {
			t, ok := p.eat(token.AttrName)
			if !ok {
				p.fail(diag.SynMalformedAttr, p.peek().Span,
					"malformed mixin parameter list")
				return ast.NoNodeID
			}
			if def.HasRest {
				p.failWithHint(diag.SynRestParamNotLast, t.Span,
					"rest parameter must be the last parameter",
					"move ..."+def.RestName+" to the end of the list")
				return ast.NoNodeID
			}
			if rest, isRest := strings.CutPrefix(t.Text, "..."); isRest {
				def.HasRest = true
				def.RestName = rest
				continue
			}
			param := ast.MixinParam{Name: t.Text}
			switch v := p.peek(); v.Kind {
			case token.AttrValue, token.AttrValueUnescaped:
				p.next()
				param.Default, param.HasDefault = v.Text, true
			}
			def.Params = append(def.Params, param)
		}
		p.next() // AttrsEnd
	}

	def.Children = p.parseChildBlock()
	if p.failed {
		return ast.NoNodeID
	}
	return p.b.NewMixinDef(kw.Span.Cover(name.Span), def)
}

// parseMixinCall parses `+name(args)(attrs)` and its nested content.
func (p *Parser) parseMixinCall() ast.NodeID {
	call := p.next()
	if call.Text == "" {
		p.fail(diag.SynExpectMixinName, call.Span, "mixin call needs a name")
		return ast.NoNodeID
	}
	mc := ast.MixinCall{Name: call.Text}

	for p.at(token.Arg) {
		mc.Args = append(mc.Args, p.next().Text)
	}
	if p.at(token.AttrsStart) {
		mc.Attrs = p.parseAttrList()
		if p.failed {
			return ast.NoNodeID
		}
	}

	mc.BlockChildren = p.parseChildBlock()
	if p.failed {
		return ast.NoNodeID
	}
	return p.b.NewMixinCall(call.Span, mc)
}
