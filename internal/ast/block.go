package ast

// BlockMode selects how a descendant's block content merges with its
// ancestor's.
type BlockMode uint8

const (
	// BlockReplace fully replaces the current winner.
	BlockReplace BlockMode = iota
	// BlockAppend inserts the descendant's children after the winner's.
	BlockAppend
	// BlockPrepend inserts the descendant's children before the winner's.
	BlockPrepend
)

func (m BlockMode) String() string {
	switch m {
	case BlockReplace:
		return "replace"
	case BlockAppend:
		return "append"
	case BlockPrepend:
		return "prepend"
	}
	return "unknown"
}

// Block is a named, optionally inherited content region.
type Block struct {
	Name     string
	Mode     BlockMode
	Children []NodeID
}

// Include splices another file in place. A non-empty Filter inlines the
// target as raw text instead of parsing it.
type Include struct {
	Path   string
	Filter string
}

// Extends names the parent template of the document.
type Extends struct {
	Path string
}
