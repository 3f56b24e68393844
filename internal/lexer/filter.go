package lexer

import (
	"plume/internal/token"
)

// FilterOptions select which comment flavor a filter pass removes.
// Unbuffered comments (`//-`) never reach the output document, so they
// are stripped by default; buffered comments (`//`) render as HTML
// comments and are kept.
type FilterOptions struct {
	StripUnbuffered bool
	StripBuffered   bool
}

// DefaultFilterOptions strips unbuffered comments only.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{StripUnbuffered: true}
}

// FilterComments removes comment tokens from toks according to opts.
// A stripped comment takes its trailing Newline and its indented body
// with it, so the remaining stream still nests correctly.
func FilterComments(toks []token.Token, opts FilterOptions) []token.Token {
	out := make([]token.Token, 0, len(toks))

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		strip := (t.Kind == token.CommentSilent && opts.StripUnbuffered) ||
			(t.Kind == token.Comment && opts.StripBuffered)
		if !strip {
			out = append(out, t)
			continue
		}

		if i+1 < len(toks) && toks[i+1].Kind == token.Newline {
			i++
		}
		if i+1 < len(toks) && toks[i+1].Kind == token.Indent {
			i++ // the Indent
			depth := 1
			for depth > 0 && i+1 < len(toks) {
				i++
				switch toks[i].Kind {
				case token.Indent:
					depth++
				case token.Outdent:
					depth--
				}
			}
		}
	}
	return out
}
