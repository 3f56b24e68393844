package token

// Kind represents the category of a template token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Indent is emitted once when a line is indented deeper than the
	// previous logical line.
	Indent
	// Outdent is emitted once per indentation level popped.
	Outdent
	// Newline terminates a logical line.
	Newline

	// Tag is an element tag name ("div" is synthesized when a line starts
	// with a class or id shorthand).
	Tag
	// ClassName is a ".name" shorthand on an element head.
	ClassName
	// IdName is a "#name" shorthand on an element head.
	IdName

	// AttrsStart opens an attribute list "(".
	AttrsStart
	// AttrsEnd closes an attribute list ")".
	AttrsEnd
	// AttrName is an attribute name inside an attribute list.
	AttrName
	// AttrValue is an attribute value expression (escaped on output).
	AttrValue
	// AttrValueUnescaped is an attribute value bound with "!=".
	AttrValueUnescaped
	// Arg is one positional argument of a mixin call.
	Arg

	// Text is a literal text run.
	Text
	// InterpEscaped is a "#{expr}" interpolation.
	InterpEscaped
	// InterpUnescaped is a "!{expr}" interpolation.
	InterpUnescaped
	// InterpTag is a "#[...]" inline tag interpolation; the payload is the
	// unparsed inner source.
	InterpTag

	// Pipe is a "|" plain-text line marker.
	Pipe
	// Comment is a buffered "//" comment (rendered as an HTML comment).
	Comment
	// CommentSilent is an unbuffered "//-" comment.
	CommentSilent

	// Colon separates block expansion ("ul: li Item").
	Colon
	// Dot marks a trailing raw text block ("script.").
	Dot
	// Slash marks an explicitly self-closing element ("foo/").
	Slash
	// Equals starts buffered escaped code ("p= expr" or "= expr").
	Equals
	// BangEquals starts buffered unescaped code ("p!= expr").
	BangEquals
	// Dash starts an unbuffered code line ("- break").
	Dash
	// Call is a "+name" mixin call.
	Call

	// Keywords, recognized only at logical-line start.

	KwIf
	KwUnless
	KwElse
	KwEach
	KwWhile
	KwCase
	KwWhen
	KwDefault
	KwMixin
	KwBlock
	KwAppend
	KwPrepend
	KwInclude
	KwExtends
	KwDoctype
)

var kindNames = [...]string{
	Invalid:            "Invalid",
	EOF:                "EOF",
	Indent:             "Indent",
	Outdent:            "Outdent",
	Newline:            "Newline",
	Tag:                "Tag",
	ClassName:          "ClassName",
	IdName:             "IdName",
	AttrsStart:         "AttrsStart",
	AttrsEnd:           "AttrsEnd",
	AttrName:           "AttrName",
	AttrValue:          "AttrValue",
	AttrValueUnescaped: "AttrValueUnescaped",
	Arg:                "Arg",
	Text:               "Text",
	InterpEscaped:      "InterpEscaped",
	InterpUnescaped:    "InterpUnescaped",
	InterpTag:          "InterpTag",
	Pipe:               "Pipe",
	Comment:            "Comment",
	CommentSilent:      "CommentSilent",
	Colon:              "Colon",
	Dot:                "Dot",
	Slash:              "Slash",
	Equals:             "Equals",
	BangEquals:         "BangEquals",
	Dash:               "Dash",
	Call:               "Call",
	KwIf:               "KwIf",
	KwUnless:           "KwUnless",
	KwElse:             "KwElse",
	KwEach:             "KwEach",
	KwWhile:            "KwWhile",
	KwCase:             "KwCase",
	KwWhen:             "KwWhen",
	KwDefault:          "KwDefault",
	KwMixin:            "KwMixin",
	KwBlock:            "KwBlock",
	KwAppend:           "KwAppend",
	KwPrepend:          "KwPrepend",
	KwInclude:          "KwInclude",
	KwExtends:          "KwExtends",
	KwDoctype:          "KwDoctype",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}
