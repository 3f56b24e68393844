package ast

import (
	"plume/internal/source"
)

// SegmentKind discriminates the text-segment sum type.
type SegmentKind uint8

const (
	// SegLiteral is literal text.
	SegLiteral SegmentKind = iota
	// SegInterpEscaped is a "#{expr}" interpolation, escaped on output.
	SegInterpEscaped
	// SegInterpUnescaped is a "!{expr}" interpolation, emitted raw.
	SegInterpUnescaped
	// SegInterpTag is a "#[...]" inline element; Tag points at it.
	SegInterpTag
)

// TextSegment is one piece of a text run. Text holds the literal bytes or
// the expression source; Tag is set only for SegInterpTag.
type TextSegment struct {
	Kind SegmentKind
	Text string
	Tag  NodeID
	Span source.Span
}

// Text is a run of segments produced by one or more text lines.
type Text struct {
	Segments []TextSegment
}

// Code is a "- code", "= expr" or "!= expr" line. Unbuffered code renders
// nothing; buffered code renders its expression value.
type Code struct {
	Expr     string
	Buffered bool
	Escaped  bool
	Children []NodeID
}

// Comment is a "//" (rendered) or "//-" (silent) comment, possibly owning
// an indented child block.
type Comment struct {
	Content  string
	Rendered bool
	Children []NodeID
}
