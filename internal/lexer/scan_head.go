package lexer

import (
	"plume/internal/source"
	"plume/internal/token"
)

// scanLineContent dispatches on the first significant byte of a logical
// line. Keywords are recognized here and nowhere else.
func (lx *Lexer) scanLineContent() {
	ch := lx.cursor.Peek()
	switch {
	case ch == '/' && lx.cursor.PeekAt(1) == '/':
		lx.scanComment()

	case ch == '|':
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.emit(token.Pipe, lx.cursor.SpanFrom(m), "")
		// at most one separating space is swallowed
		lx.cursor.Eat(' ')
		lx.scanTextRun()

	case ch == '-':
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.emit(token.Dash, lx.cursor.SpanFrom(m), "")
		if text, sp := lx.restOfLine(); text != "" {
			lx.emit(token.Text, sp, text)
		}

	case ch == '=':
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.emit(token.Equals, lx.cursor.SpanFrom(m), "")
		if text, sp := lx.restOfLine(); text != "" {
			lx.emit(token.Text, sp, text)
		}

	case ch == '!' && lx.cursor.PeekAt(1) == '=':
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.emit(token.BangEquals, lx.cursor.SpanFrom(m), "")
		if text, sp := lx.restOfLine(); text != "" {
			lx.emit(token.Text, sp, text)
		}

	case ch == '+':
		lx.scanMixinCall()

	case ch == '<':
		// literal HTML lines pass through as text
		lx.scanTextRun()

	case ch == '.' || ch == '#':
		next := lx.cursor.PeekAt(1)
		if ch == '#' && (next == '{' || next == '[') {
			lx.scanTextRun()
			return
		}
		if isWordPart(next) {
			lx.scanElementHead("", lx.cursor.SpanAt())
			return
		}
		lx.scanTextRun()

	default:
		if isWordStart(ch) {
			word, sp := lx.scanWord()
			if kw := token.LookupKeyword(word); kw != token.Invalid && lx.keywordBoundary(kw) {
				lx.scanKeyword(kw, sp, word)
				return
			}
			lx.scanElementHead(word, sp)
			return
		}
		lx.scanTextRun()
	}
}

// keywordBoundary reports whether the character after a keyword-shaped
// word lets it act as a keyword rather than a tag name.
func (lx *Lexer) keywordBoundary(kw token.Kind) bool {
	ch := lx.cursor.Peek()
	if ch == ' ' || ch == '\t' || ch == '\n' || ch == 0 {
		return true
	}
	// include:filter path
	return kw == token.KwInclude && ch == ':'
}

func (lx *Lexer) scanKeyword(kw token.Kind, sp source.Span, word string) {
	lx.emit(kw, sp, word)

	switch kw {
	case token.KwIf, token.KwUnless, token.KwWhile, token.KwCase, token.KwWhen, token.KwEach:
		if text, tsp := lx.restOfLine(); text != "" {
			lx.emit(token.Text, tsp, text)
		}

	case token.KwElse:
		lx.skipSpaces()
		save := lx.cursor
		w2, sp2 := lx.scanWord()
		switch w2 {
		case "if":
			lx.emit(token.KwIf, sp2, w2)
			if text, tsp := lx.restOfLine(); text != "" {
				lx.emit(token.Text, tsp, text)
			}
		case "unless":
			lx.emit(token.KwUnless, sp2, w2)
			if text, tsp := lx.restOfLine(); text != "" {
				lx.emit(token.Text, tsp, text)
			}
		default:
			lx.cursor = save
		}

	case token.KwDefault:
		// nothing follows

	case token.KwMixin:
		lx.skipSpaces()
		if name, nsp := lx.scanWord(); name != "" {
			lx.emit(token.Text, nsp, name)
		}
		if lx.cursor.Peek() == '(' {
			lx.scanAttrList()
		}

	case token.KwBlock:
		lx.skipSpaces()
		save := lx.cursor
		w2, sp2 := lx.scanWord()
		switch w2 {
		case "append":
			lx.emit(token.KwAppend, sp2, w2)
			lx.scanBlockName()
		case "prepend":
			lx.emit(token.KwPrepend, sp2, w2)
			lx.scanBlockName()
		case "":
			lx.cursor = save
		default:
			lx.emit(token.Text, sp2, w2)
		}

	case token.KwAppend, token.KwPrepend:
		// `append head` shorthand for `block append head`
		lx.scanBlockName()

	case token.KwInclude:
		if lx.cursor.Peek() == ':' {
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.emit(token.Colon, lx.cursor.SpanFrom(m), "")
			if filter, fsp := lx.scanWord(); filter != "" {
				lx.emit(token.Text, fsp, filter)
			}
		}
		if path, psp := lx.restOfLine(); path != "" {
			lx.emit(token.Text, psp, path)
		}

	case token.KwExtends:
		if path, psp := lx.restOfLine(); path != "" {
			lx.emit(token.Text, psp, path)
		}

	case token.KwDoctype:
		if text, tsp := lx.restOfLine(); text != "" {
			lx.emit(token.Text, tsp, text)
		}
	}
}

func (lx *Lexer) scanBlockName() {
	lx.skipSpaces()
	if name, nsp := lx.scanWord(); name != "" {
		lx.emit(token.Text, nsp, name)
	}
}

// scanElementHead scans `tag.class#id(attrs)` plus the trailing form:
// inline text, buffered code, block expansion, self-close or dot block.
// tag may be empty when the line starts with a class or id shorthand.
func (lx *Lexer) scanElementHead(tag string, sp source.Span) {
	if tag == "" {
		lx.emit(token.Tag, sp, "div")
	} else {
		lx.emit(token.Tag, sp, tag)
	}

	for {
		ch := lx.cursor.Peek()
		if ch == '.' && isWordPart(lx.cursor.PeekAt(1)) {
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			name := lx.scanNamePart()
			lx.emit(token.ClassName, lx.cursor.SpanFrom(m), name)
		} else if ch == '#' && isWordPart(lx.cursor.PeekAt(1)) {
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			name := lx.scanNamePart()
			lx.emit(token.IdName, lx.cursor.SpanFrom(m), name)
		} else {
			break
		}
	}

	if lx.cursor.Peek() == '(' {
		lx.scanAttrList()
		if lx.failed {
			return
		}
	}

	if lx.cursor.Peek() == '/' {
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.emit(token.Slash, lx.cursor.SpanFrom(m), "")
	}

	switch ch := lx.cursor.Peek(); {
	case ch == ':':
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.emit(token.Colon, lx.cursor.SpanFrom(m), "")
		lx.skipSpaces()
		lx.scanLineContent()

	case ch == '=':
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.emit(token.Equals, lx.cursor.SpanFrom(m), "")
		if text, tsp := lx.restOfLine(); text != "" {
			lx.emit(token.Text, tsp, text)
		}

	case ch == '!' && lx.cursor.PeekAt(1) == '=':
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.emit(token.BangEquals, lx.cursor.SpanFrom(m), "")
		if text, tsp := lx.restOfLine(); text != "" {
			lx.emit(token.Text, tsp, text)
		}

	case ch == '.' && (lx.cursor.PeekAt(1) == '\n' || lx.cursor.PeekAt(1) == 0):
		m := lx.cursor.Mark()
		lx.cursor.Bump()
		lx.emit(token.Dot, lx.cursor.SpanFrom(m), "")
		lx.scanRawBlock()

	case ch == ' ' || ch == '\t':
		lx.cursor.Bump()
		lx.scanTextRun()
	}
}

// scanMixinCall scans `+name(args)(attrs)`.
func (lx *Lexer) scanMixinCall() {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // '+'
	name, _ := lx.scanWord()
	lx.emit(token.Call, lx.cursor.SpanFrom(m), name)

	if lx.cursor.Peek() == '(' {
		lx.scanArgList()
		if lx.failed {
			return
		}
	}
	if lx.cursor.Peek() == '(' {
		lx.scanAttrList()
	}
}

// scanNamePart consumes a class/id name: letters, digits, '-' and '_'.
func (lx *Lexer) scanNamePart() string {
	start := lx.cursor.Mark()
	for isWordPart(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return string(lx.file.Content[sp.Start:sp.End])
}
