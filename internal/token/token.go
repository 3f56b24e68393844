package token

import (
	"plume/internal/source"
)

// Token is a single template token. Text borrows from the normalized
// source buffer owned by the FileSet; tokens stay valid for the lifetime
// of one compilation.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsKeyword reports whether the token is a line-start keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwIf, KwUnless, KwElse, KwEach, KwWhile, KwCase, KwWhen, KwDefault,
		KwMixin, KwBlock, KwAppend, KwPrepend, KwInclude, KwExtends, KwDoctype:
		return true
	default:
		return false
	}
}

// IsComment reports whether the token opens a comment line.
func (t Token) IsComment() bool {
	return t.Kind == Comment || t.Kind == CommentSilent
}

// IsStructural reports whether the token only shapes the tree rather than
// carrying content.
func (t Token) IsStructural() bool {
	switch t.Kind {
	case Indent, Outdent, Newline, EOF:
		return true
	default:
		return false
	}
}
