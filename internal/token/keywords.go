package token

// keywords is the fixed set recognized at logical-line start. Anything else
// at line start is a tag name or plain text.
var keywords = map[string]Kind{
	"if":      KwIf,
	"unless":  KwUnless,
	"else":    KwElse,
	"each":    KwEach,
	"while":   KwWhile,
	"case":    KwCase,
	"when":    KwWhen,
	"default": KwDefault,
	"mixin":   KwMixin,
	"block":   KwBlock,
	"append":  KwAppend,
	"prepend": KwPrepend,
	"include": KwInclude,
	"extends": KwExtends,
	"doctype": KwDoctype,
}

// LookupKeyword returns the keyword kind for word, or Invalid when word is
// not a keyword.
func LookupKeyword(word string) Kind {
	if k, ok := keywords[word]; ok {
		return k
	}
	return Invalid
}
