package lexer

import (
	"strings"

	"plume/internal/diag"
	"plume/internal/source"
	"plume/internal/token"
)

// scanTextRun scans plain text up to the end of the line, splitting out
// #{...}, !{...} and #[...] interpolations. Backslash before an opener
// keeps it literal.
func (lx *Lexer) scanTextRun() {
	var buf strings.Builder
	start := lx.cursor.Mark()

	flush := func() {
		if buf.Len() > 0 {
			lx.emit(token.Text, lx.cursor.SpanFrom(start), buf.String())
			buf.Reset()
		}
		start = lx.cursor.Mark()
	}

	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		ch := lx.cursor.Peek()
		next := lx.cursor.PeekAt(1)

		switch {
		case ch == '\\' && (next == '#' || next == '!') &&
			(lx.cursor.PeekAt(2) == '{' || lx.cursor.PeekAt(2) == '['):
			lx.cursor.Bump() // drop the backslash
			buf.WriteByte(lx.cursor.Bump())

		case ch == '#' && next == '{':
			flush()
			lx.scanInterpExpr(token.InterpEscaped)
			start = lx.cursor.Mark()

		case ch == '!' && next == '{':
			flush()
			lx.scanInterpExpr(token.InterpUnescaped)
			start = lx.cursor.Mark()

		case ch == '#' && next == '[':
			flush()
			lx.scanInterpTag()
			start = lx.cursor.Mark()

		default:
			buf.WriteByte(lx.cursor.Bump())
		}

		if lx.failed {
			return
		}
	}
	flush()
}

// scanInterpExpr scans #{expr} or !{expr}. Braces nest; string literals
// may contain unbalanced braces. Interpolations do not span lines.
func (lx *Lexer) scanInterpExpr(kind token.Kind) {
	open := lx.cursor.Mark()
	lx.cursor.Bump() // '#' or '!'
	lx.cursor.Bump() // '{'

	exprStart := lx.cursor.Mark()
	depth := 1
	var quote byte

	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			lx.failWithHint(diag.LexUnterminatedInterpolation, lx.cursor.SpanFrom(open),
				"interpolation is missing its closing '}'",
				"interpolations must close on the same line")
			return
		}
		ch := lx.cursor.Bump()
		switch {
		case quote != 0:
			if ch == '\\' {
				lx.cursor.Bump()
			} else if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				sp := lx.cursor.SpanFrom(exprStart)
				sp.End-- // exclude the '}'
				expr := strings.TrimSpace(string(lx.file.Content[sp.Start:sp.End]))
				lx.emit(kind, lx.cursor.SpanFrom(open), expr)
				return
			}
		}
	}
}

// scanInterpTag scans #[inline element source]. The bracketed source is
// handed to the parser unscanned; brackets nest.
func (lx *Lexer) scanInterpTag() {
	open := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	lx.cursor.Bump() // '['

	srcStart := lx.cursor.Mark()
	depth := 1

	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			lx.failWithHint(diag.LexUnterminatedInterpolation, lx.cursor.SpanFrom(open),
				"tag interpolation is missing its closing ']'",
				"interpolations must close on the same line")
			return
		}
		ch := lx.cursor.Bump()
		switch ch {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				sp := lx.cursor.SpanFrom(srcStart)
				sp.End-- // exclude the ']'
				lx.emit(token.InterpTag, lx.cursor.SpanFrom(open),
					string(lx.file.Content[sp.Start:sp.End]))
				return
			}
		}
	}
}

// scanComment scans `//` and `//-` lines. Lines indented under a comment
// are its raw body and are never interpolated.
func (lx *Lexer) scanComment() {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	kind := token.Comment
	if lx.cursor.Eat('-') {
		kind = token.CommentSilent
	}
	content, _ := lx.restOfRawLine()
	lx.emit(kind, lx.cursor.SpanFrom(m), content)
	lx.scanRawBlock()
}

// scanRawBlock consumes the lines indented deeper than the current level
// and emits them as a Newline, Indent, Text/Newline pairs, Outdent
// sequence. The shallowest indentation inside the block is stripped; the
// rest is kept verbatim and never interpolated.
func (lx *Lexer) scanRawBlock() {
	base := lx.currentWidth()

	nlMark := lx.cursor.Mark()
	if !lx.cursor.Eat('\n') {
		return // head line ends the file
	}
	lx.emit(token.Newline, lx.cursor.SpanFrom(nlMark), "")

	opened := false
	var strip uint32

	for !lx.cursor.EOF() {
		// measure the next line without consuming it
		var w uint32
		for lx.cursor.PeekAt(w) == ' ' || lx.cursor.PeekAt(w) == '\t' {
			w++
		}
		blankLine := lx.cursor.PeekAt(w) == '\n' || lx.cursor.PeekAt(w) == 0

		if blankLine {
			if opened {
				lx.emit(token.Text, lx.cursor.SpanAt(), "")
			}
			for lx.cursor.Peek() != '\n' && !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
			nl := lx.cursor.Mark()
			lx.cursor.Eat('\n')
			if opened {
				lx.emit(token.Newline, lx.cursor.SpanFrom(nl), "")
			}
			continue
		}
		if w <= base {
			break
		}

		if !opened {
			opened = true
			strip = w
			lx.emit(token.Indent, lx.cursor.SpanAt(), "")
		}
		for i := uint32(0); i < strip; i++ {
			if lx.cursor.Peek() != ' ' && lx.cursor.Peek() != '\t' {
				break
			}
			lx.cursor.Bump()
		}

		text, sp := lx.restOfRawLine()
		lx.emit(token.Text, sp, text)

		nl := lx.cursor.Mark()
		lx.cursor.Eat('\n')
		lx.emit(token.Newline, lx.cursor.SpanFrom(nl), "")
	}

	if opened {
		lx.emit(token.Outdent, lx.cursor.SpanAt(), "")
	}
}

// restOfRawLine consumes up to the newline and returns the text verbatim.
func (lx *Lexer) restOfRawLine() (string, source.Span) {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return string(lx.file.Content[sp.Start:sp.End]), sp
}
