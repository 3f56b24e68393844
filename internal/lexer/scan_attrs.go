package lexer

import (
	"strings"

	"plume/internal/diag"
	"plume/internal/token"
)

// scanAttrList scans a parenthesized attribute list. Attributes are
// name, name=expr or name!=expr, separated by commas or whitespace;
// newlines are allowed inside the parentheses.
func (lx *Lexer) scanAttrList() {
	open := lx.cursor.Mark()
	lx.cursor.Bump() // '('
	lx.emit(token.AttrsStart, lx.cursor.SpanFrom(open), "")

	for {
		lx.skipAttrSeparators()
		if lx.cursor.EOF() {
			lx.failWithHint(diag.LexUnclosedAttrList, lx.cursor.SpanFrom(open),
				"attribute list is missing its closing ')'",
				"close the attribute list before the end of the file")
			return
		}
		if lx.cursor.Peek() == ')' {
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.emit(token.AttrsEnd, lx.cursor.SpanFrom(m), "")
			return
		}

		nameStart := lx.cursor.Mark()
		for isAttrNameByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		nameSpan := lx.cursor.SpanFrom(nameStart)
		if nameSpan.Empty() {
			lx.fail(diag.LexUnknownChar, lx.cursor.SpanAt(),
				"unexpected character in attribute list")
			return
		}
		lx.emit(token.AttrName, nameSpan,
			string(lx.file.Content[nameSpan.Start:nameSpan.End]))

		switch {
		case lx.cursor.Peek() == '!' && lx.cursor.PeekAt(1) == '=':
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.scanAttrValue(token.AttrValueUnescaped)
		case lx.cursor.Peek() == '=':
			lx.cursor.Bump()
			lx.scanAttrValue(token.AttrValue)
		}
		if lx.failed {
			return
		}
	}
}

// scanAttrValue scans an attribute value expression. The expression ends
// at a top-level comma, whitespace or the closing paren; quotes and
// nested brackets keep it open.
func (lx *Lexer) scanAttrValue(kind token.Kind) {
	start := lx.cursor.Mark()
	depth := 0
	var quote byte
	var quoteMark Mark

	for {
		ch := lx.cursor.Peek()
		if lx.cursor.EOF() {
			if quote != 0 {
				lx.failWithHint(diag.LexUnterminatedString, lx.cursor.SpanFrom(quoteMark),
					"string literal is missing its closing quote",
					"close the string before the end of the file")
			} else {
				lx.fail(diag.LexUnclosedAttrList, lx.cursor.SpanAt(),
					"attribute list is missing its closing ')'")
			}
			return
		}
		if quote != 0 {
			lx.cursor.Bump()
			if ch == '\\' {
				lx.cursor.Bump()
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
			quoteMark = lx.cursor.Mark()
			lx.cursor.Bump()
		case ch == '(' || ch == '[' || ch == '{':
			depth++
			lx.cursor.Bump()
		case ch == ']' || ch == '}':
			depth--
			lx.cursor.Bump()
		case ch == ')':
			if depth == 0 {
				lx.emitAttrValue(kind, start)
				return
			}
			depth--
			lx.cursor.Bump()
		case depth == 0 && (ch == ',' || ch == ' ' || ch == '\t' || ch == '\n'):
			lx.emitAttrValue(kind, start)
			return
		default:
			lx.cursor.Bump()
		}
	}
}

func (lx *Lexer) emitAttrValue(kind token.Kind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	value := strings.TrimSpace(string(lx.file.Content[sp.Start:sp.End]))
	lx.emit(kind, sp, value)
}

// scanArgList scans a mixin call argument list: expressions separated by
// top-level commas.
func (lx *Lexer) scanArgList() {
	open := lx.cursor.Mark()
	lx.cursor.Bump() // '('

	argStart := lx.cursor.Mark()
	depth := 1
	var quote byte
	var quoteMark Mark

	finish := func(end Mark) {
		sp := lx.cursor.SpanFrom(argStart)
		sp.End = uint32(end)
		arg := strings.TrimSpace(string(lx.file.Content[sp.Start:sp.End]))
		if arg != "" {
			lx.emit(token.Arg, sp, arg)
		}
	}

	for {
		if lx.cursor.EOF() {
			if quote != 0 {
				lx.failWithHint(diag.LexUnterminatedString, lx.cursor.SpanFrom(quoteMark),
					"string literal is missing its closing quote",
					"close the string before the end of the file")
			} else {
				lx.failWithHint(diag.LexUnclosedAttrList, lx.cursor.SpanFrom(open),
					"argument list is missing its closing ')'",
					"close the argument list before the end of the file")
			}
			return
		}
		before := lx.cursor.Mark()
		ch := lx.cursor.Bump()
		if quote != 0 {
			if ch == '\\' {
				lx.cursor.Bump()
			} else if ch == quote {
				quote = 0
			}
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
			quoteMark = before
		case '(', '[', '{':
			depth++
		case ']', '}':
			depth--
		case ')':
			depth--
			if depth == 0 {
				finish(before)
				return
			}
		case ',':
			if depth == 1 {
				finish(before)
				argStart = lx.cursor.Mark()
			}
		}
	}
}

func (lx *Lexer) skipAttrSeparators() {
	for {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', ',':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

// isAttrNameByte reports bytes legal inside an attribute name. Anything
// except structure characters qualifies, which covers data-*, aria-* and
// namespaced names.
func isAttrNameByte(b byte) bool {
	switch b {
	case 0, ' ', '\t', '\n', ',', '(', ')', '=', '!':
		return false
	}
	return true
}
