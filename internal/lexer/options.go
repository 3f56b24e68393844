package lexer

import (
	"plume/internal/diag"
	"plume/internal/source"
)

// Options configure one Lexer.
type Options struct {
	// Reporter receives the single fatal diagnostic; nil drops it (the
	// lexer still stops at the first error).
	Reporter diag.Reporter
}

func (lx *Lexer) fail(code diag.Code, sp source.Span, msg string) {
	if !lx.failed {
		diag.Error(lx.opts.Reporter, code, sp, msg)
		lx.failed = true
	}
}

func (lx *Lexer) failWithHint(code diag.Code, sp source.Span, msg, hint string) {
	if !lx.failed {
		diag.ErrorWithHint(lx.opts.Reporter, code, sp, msg, hint)
		lx.failed = true
	}
}
