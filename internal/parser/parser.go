package parser

import (
	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/source"
	"plume/internal/token"
)

// Options configure one Parser.
type Options struct {
	// Reporter receives the single fatal diagnostic; nil drops it.
	Reporter diag.Reporter
	// Files is used to register virtual files for #[...] tag
	// interpolations; a private set is created when nil.
	Files *source.FileSet
}

// Parser builds a Document from a token stream. Nesting follows the
// Indent/Outdent tokens; the first error is fatal and parsing stops.
type Parser struct {
	toks []token.Token
	pos  int
	b    *ast.Builder
	opts Options

	failed bool
}

// New creates a Parser over toks, allocating into builder. The stream
// must be EOF-terminated, as produced by the lexer.
func New(toks []token.Token, builder *ast.Builder, opts Options) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF})
	}
	if opts.Files == nil {
		opts.Files = source.NewFileSet()
	}
	return &Parser{toks: toks, b: builder, opts: opts}
}

// Failed reports whether a fatal diagnostic was emitted.
func (p *Parser) Failed() bool {
	return p.failed
}

// ParseDocument parses the whole stream into a Document node. On failure
// it returns NoNodeID.
func (p *Parser) ParseDocument() ast.NodeID {
	start := p.peek().Span
	doc := ast.Document{}

	p.skipNewlines()
	if p.at(token.KwExtends) {
		ext := p.next()
		path, ok := p.eat(token.Text)
		if !ok {
			p.fail(diag.SynExpectPath, ext.Span, "extends needs a template path")
			return ast.NoNodeID
		}
		doc.ExtendsPath = path.Text
		doc.ExtendsSpan = ext.Span.Cover(path.Span)
		doc.Nodes = append(doc.Nodes, p.b.NewExtends(doc.ExtendsSpan, ast.Extends{Path: path.Text}))
		p.expectNewline()
	}

	doc.Nodes = append(doc.Nodes, p.parseNodes()...)
	if p.failed {
		return ast.NoNodeID
	}
	if !p.at(token.EOF) {
		p.fail(diag.SynUnexpectedToken, p.peek().Span,
			"unexpected "+p.peek().Kind.String()+" at top level")
		return ast.NoNodeID
	}

	span := start
	if len(doc.Nodes) > 0 {
		span = span.Cover(p.b.Node(doc.Nodes[len(doc.Nodes)-1]).Span)
	}
	return p.b.NewDocument(span, doc)
}

// parseNodes parses statements until an Outdent or EOF. The terminator
// is left unconsumed.
func (p *Parser) parseNodes() []ast.NodeID {
	var nodes []ast.NodeID
	for !p.failed {
		p.skipNewlines()
		if p.at(token.Outdent) || p.at(token.EOF) {
			return nodes
		}
		id := p.parseStatement()
		if p.failed {
			return nil
		}
		if id.IsValid() {
			nodes = append(nodes, id)
		}
	}
	return nil
}

func (p *Parser) parseStatement() ast.NodeID {
	t := p.peek()
	switch t.Kind {
	case token.Tag:
		return p.parseElement()
	case token.Pipe:
		return p.parsePipeText()
	case token.Text, token.InterpEscaped, token.InterpUnescaped, token.InterpTag:
		return p.parseTextStatement()
	case token.Comment, token.CommentSilent:
		return p.parseComment()
	case token.Dash:
		return p.parseUnbufferedCode()
	case token.Equals, token.BangEquals:
		return p.parseBufferedCode()
	case token.KwDoctype:
		return p.parseDoctype()
	case token.KwIf, token.KwUnless:
		return p.parseConditional()
	case token.KwEach:
		return p.parseEach()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwCase:
		return p.parseCase()
	case token.KwMixin:
		return p.parseMixinDef()
	case token.Call:
		return p.parseMixinCall()
	case token.KwBlock, token.KwAppend, token.KwPrepend:
		return p.parseBlock()
	case token.KwInclude:
		return p.parseInclude()
	case token.KwExtends:
		p.failWithHint(diag.SynExtendsNotFirst, t.Span,
			"extends must be the first statement of the file",
			"move the extends line above everything else")
		return ast.NoNodeID
	case token.KwElse:
		p.fail(diag.SynElseWithoutIf, t.Span, "else without a preceding if or unless")
		return ast.NoNodeID
	case token.KwWhen, token.KwDefault:
		p.fail(diag.SynWhenOutsideCase, t.Span, t.Text+" is only valid inside a case block")
		return ast.NoNodeID
	case token.Outdent:
		p.fail(diag.SynUnexpectedOutdent, t.Span, "unexpected outdent")
		return ast.NoNodeID
	default:
		p.fail(diag.SynUnexpectedToken, t.Span,
			"unexpected "+t.Kind.String())
		return ast.NoNodeID
	}
}

// parseChildBlock parses an optional indented block following the
// current line's Newline.
func (p *Parser) parseChildBlock() []ast.NodeID {
	p.expectNewline()
	if p.failed || !p.at(token.Indent) {
		return nil
	}
	p.next()
	children := p.parseNodes()
	if p.failed {
		return nil
	}
	if _, ok := p.eat(token.Outdent); !ok {
		p.fail(diag.SynUnexpectedToken, p.peek().Span,
			"unexpected "+p.peek().Kind.String()+" inside an indented block")
		return nil
	}
	return children
}

func (p *Parser) expectNewline() {
	if p.at(token.Newline) {
		p.next()
		return
	}
	if p.at(token.EOF) {
		return
	}
	p.fail(diag.SynUnexpectedToken, p.peek().Span,
		"expected end of line, found "+p.peek().Kind.String())
}

func (p *Parser) skipNewlines() {
	for p.at(token.Newline) {
		p.next()
	}
}

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) next() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool {
	return p.toks[p.pos].Kind == k
}

func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	return token.Token{}, false
}

func (p *Parser) fail(code diag.Code, sp source.Span, msg string) {
	if !p.failed {
		diag.Error(p.opts.Reporter, code, sp, msg)
		p.failed = true
	}
}

func (p *Parser) failWithHint(code diag.Code, sp source.Span, msg, hint string) {
	if !p.failed {
		diag.ErrorWithHint(p.opts.Reporter, code, sp, msg, hint)
		p.failed = true
	}
}
