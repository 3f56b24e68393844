package ast

import (
	"plume/internal/source"
)

// NodeKind discriminates the closed set of node variants. Every traversal
// switches exhaustively over this set.
type NodeKind uint8

const (
	// NodeInvalid indicates an erroneous node.
	NodeInvalid NodeKind = iota
	// NodeDocument is the root of one parsed file.
	NodeDocument
	// NodeDoctype is a doctype declaration.
	NodeDoctype
	// NodeElement is an HTML element.
	NodeElement
	// NodeText is a run of text segments.
	NodeText
	// NodeCode is a buffered or unbuffered code line.
	NodeCode
	// NodeComment is a buffered ("//") or silent ("//-") comment.
	NodeComment
	// NodeConditional is an if/unless/else-if/else chain.
	NodeConditional
	// NodeEach is a collection iteration with an optional empty block.
	NodeEach
	// NodeWhile is a condition-driven loop.
	NodeWhile
	// NodeCase is a case/when/default switch.
	NodeCase
	// NodeMixinDef declares a reusable parameterized fragment.
	NodeMixinDef
	// NodeMixinCall invokes a mixin; expanded away before codegen.
	NodeMixinCall
	// NodeMixinBlock is the placeholder for call-site block content.
	NodeMixinBlock
	// NodeInclude splices another file; resolved away by the loader.
	NodeInclude
	// NodeExtends names the parent template; resolved away by the linker.
	NodeExtends
	// NodeBlock is a named, inheritable content region.
	NodeBlock
	// NodeRawText is verbatim output (filtered includes).
	NodeRawText
)

var nodeKindNames = [...]string{
	NodeInvalid:     "Invalid",
	NodeDocument:    "Document",
	NodeDoctype:     "Doctype",
	NodeElement:     "Element",
	NodeText:        "Text",
	NodeCode:        "Code",
	NodeComment:     "Comment",
	NodeConditional: "Conditional",
	NodeEach:        "Each",
	NodeWhile:       "While",
	NodeCase:        "Case",
	NodeMixinDef:    "MixinDef",
	NodeMixinCall:   "MixinCall",
	NodeMixinBlock:  "MixinBlock",
	NodeInclude:     "Include",
	NodeExtends:     "Extends",
	NodeBlock:       "Block",
	NodeRawText:     "RawText",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// Node is the fixed-size head of every AST node; kind-specific data lives
// in the payload arena for that kind.
type Node struct {
	Kind    NodeKind
	Span    source.Span
	Payload PayloadID
}
