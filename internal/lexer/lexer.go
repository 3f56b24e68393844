package lexer

import (
	"fmt"

	"plume/internal/diag"
	"plume/internal/source"
	"plume/internal/token"
)

// Lexer turns one normalized source file into a token stream. The scan is
// line-oriented: indentation is measured per physical line and mapped onto
// Indent/Outdent tokens through a width stack. The first error is fatal;
// no recovery is attempted.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	toks   []token.Token
	pos    int
	done   bool
	failed bool

	indents    []uint32 // previously seen widths, always starts with 0
	indentChar byte     // first indentation character seen; 0 until then
}

// New creates a Lexer over file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:    file,
		cursor:  NewCursor(file),
		opts:    opts,
		indents: []uint32{0},
	}
}

// Tokenize scans the whole file. On error the stream ends early with EOF
// and Failed reports true.
func (lx *Lexer) Tokenize() []token.Token {
	lx.run()
	return lx.toks
}

// Failed reports whether a fatal diagnostic was emitted.
func (lx *Lexer) Failed() bool {
	lx.run()
	return lx.failed
}

// Next returns the next token; after EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	lx.run()
	if lx.pos >= len(lx.toks) {
		return lx.toks[len(lx.toks)-1] // EOF is always last
	}
	t := lx.toks[lx.pos]
	lx.pos++
	return t
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	lx.run()
	if lx.pos >= len(lx.toks) {
		return lx.toks[len(lx.toks)-1]
	}
	return lx.toks[lx.pos]
}

func (lx *Lexer) emit(kind token.Kind, sp source.Span, text string) {
	lx.toks = append(lx.toks, token.Token{Kind: kind, Span: sp, Text: text})
}

func (lx *Lexer) run() {
	if lx.done {
		return
	}
	lx.done = true

	for !lx.cursor.EOF() && !lx.failed {
		lx.scanLine()
	}

	// close every open level
	if !lx.failed {
		for len(lx.indents) > 1 {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(token.Outdent, lx.cursor.SpanAt(), "")
		}
	}
	lx.emit(token.EOF, lx.cursor.SpanAt(), "")
}

// scanLine handles one physical line: indentation bookkeeping, then the
// line's content, then the trailing newline.
func (lx *Lexer) scanLine() {
	width, blank := lx.measureIndent()
	if lx.failed {
		return
	}
	if blank {
		// blank lines never touch the indent stack
		lx.cursor.Eat('\n')
		return
	}

	top := lx.indents[len(lx.indents)-1]
	switch {
	case width > top:
		lx.indents = append(lx.indents, width)
		lx.emit(token.Indent, lx.cursor.SpanAt(), "")
	case width < top:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1] > width {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(token.Outdent, lx.cursor.SpanAt(), "")
		}
		if lx.indents[len(lx.indents)-1] != width {
			lx.failWithHint(diag.LexBadIndent, lx.cursor.SpanAt(),
				fmt.Sprintf("indentation of %d does not match any enclosing level", width),
				"outdent to a previously used indentation width")
			return
		}
	}

	lx.scanLineContent()
	if lx.failed {
		return
	}

	nlMark := lx.cursor.Mark()
	if lx.cursor.Eat('\n') || lx.cursor.EOF() {
		lx.emit(token.Newline, lx.cursor.SpanFrom(nlMark), "")
	}
}

// measureIndent consumes leading whitespace and returns its width and
// whether the line is blank. Tabs and spaces may not be mixed.
func (lx *Lexer) measureIndent() (uint32, bool) {
	start := lx.cursor.Mark()
	for {
		ch := lx.cursor.Peek()
		if ch != ' ' && ch != '\t' {
			break
		}
		if lx.indentChar == 0 {
			lx.indentChar = ch
		} else if ch != lx.indentChar {
			lx.failWithHint(diag.LexMixedIndent, lx.cursor.SpanAt(),
				"tabs and spaces mixed in indentation",
				"use either tabs or spaces consistently across the file")
			return 0, false
		}
		lx.cursor.Bump()
	}
	width := lx.cursor.SpanFrom(start).Len()
	blank := lx.cursor.Peek() == '\n' || lx.cursor.EOF()
	return width, blank
}

// restOfLine consumes up to (not including) the newline and returns the
// trimmed text with its span.
func (lx *Lexer) restOfLine() (string, source.Span) {
	lx.skipSpaces()
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	// trailing spaces are not significant outside raw blocks
	for len(text) > 0 && (text[len(text)-1] == ' ' || text[len(text)-1] == '\t') {
		text = text[:len(text)-1]
		sp.End--
	}
	return text, sp
}

func (lx *Lexer) skipSpaces() {
	for lx.cursor.Peek() == ' ' || lx.cursor.Peek() == '\t' {
		lx.cursor.Bump()
	}
}

// scanWord consumes an identifier-shaped run: [A-Za-z_][A-Za-z0-9_-]*.
func (lx *Lexer) scanWord() (string, source.Span) {
	start := lx.cursor.Mark()
	if isWordStart(lx.cursor.Peek()) {
		lx.cursor.Bump()
		for isWordPart(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	return string(lx.file.Content[sp.Start:sp.End]), sp
}

func isWordStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isWordPart(b byte) bool {
	return isWordStart(b) || b == '-' || (b >= '0' && b <= '9')
}

// currentWidth is the width of the innermost open indentation level.
func (lx *Lexer) currentWidth() uint32 {
	return lx.indents[len(lx.indents)-1]
}
