package token_test

import (
	"testing"

	"plume/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		word string
		want token.Kind
	}{
		{"if", token.KwIf},
		{"unless", token.KwUnless},
		{"else", token.KwElse},
		{"each", token.KwEach},
		{"while", token.KwWhile},
		{"case", token.KwCase},
		{"when", token.KwWhen},
		{"default", token.KwDefault},
		{"mixin", token.KwMixin},
		{"block", token.KwBlock},
		{"append", token.KwAppend},
		{"prepend", token.KwPrepend},
		{"include", token.KwInclude},
		{"extends", token.KwExtends},
		{"doctype", token.KwDoctype},
		{"div", token.Invalid},
		{"IF", token.Invalid},
		{"", token.Invalid},
	}

	for _, tt := range tests {
		if got := token.LookupKeyword(tt.word); got != tt.want {
			t.Errorf("LookupKeyword(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestIsKeyword(t *testing.T) {
	tok := token.Token{Kind: token.KwMixin}
	if !tok.IsKeyword() {
		t.Error("KwMixin should be a keyword")
	}
	if (token.Token{Kind: token.Tag}).IsKeyword() {
		t.Error("Tag is not a keyword")
	}
}
