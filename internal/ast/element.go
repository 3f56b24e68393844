package ast

import (
	"plume/internal/source"
)

// Attr is one attribute in an element's attribute list or a mixin call's
// passed attribute set.
type Attr struct {
	Name     string
	Value    string
	HasValue bool
	Escaped  bool
	Span     source.Span
}

// Element is the single representation for every surface form of an
// element: plain, inline-text ("p Hello"), buffered-code ("p= expr"),
// self-closing ("foo/") and block-expansion ("ul: li") all reduce to it.
type Element struct {
	Tag     string
	Classes []string
	ID      string
	Attrs   []Attr

	Children []NodeID

	SelfClosing bool
	// IsInline marks elements born from tag interpolation; the pretty
	// printer keeps them on one line.
	IsInline bool

	InlineText      []TextSegment
	BufferedCode    string
	BufferedEscaped bool
}

// Document is the root payload of one parsed file.
type Document struct {
	Nodes       []NodeID
	ExtendsPath string
	ExtendsSpan source.Span
}

// Doctype carries the raw doctype value ("html", "xml", custom text).
type Doctype struct {
	Value string
}

// RawText is emitted verbatim, bypassing escaping and pretty-printing.
type RawText struct {
	Content string
}
