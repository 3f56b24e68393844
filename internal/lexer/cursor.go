package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"plume/internal/source"
)

// Cursor is a byte position inside one file.
type Cursor struct {
	File  *source.File
	Off   uint32
	limit uint32
}

// NewCursor creates a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Off: 0, limit: limit}
}

// EOF reports whether the cursor is past the last byte.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit
}

// Peek reads the current byte without consuming it; 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// PeekAt reads the byte n positions ahead; 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.limit {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Bump consumes and returns the current byte; 0 at EOF.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte when it equals b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark is a saved cursor position used to build spans.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom builds the span from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// SpanAt builds an empty span at the current position.
func (c *Cursor) SpanAt() source.Span {
	return source.Span{File: c.File.ID, Start: c.Off, End: c.Off}
}
