package ast

import (
	"fmt"

	"plume/internal/source"
)

// Builder owns every arena for one compilation. All nodes allocated through
// it are released together when the Builder goes out of scope.
type Builder struct {
	Nodes *Arena[Node]

	Documents    *Arena[Document]
	Doctypes     *Arena[Doctype]
	Elements     *Arena[Element]
	Texts        *Arena[Text]
	Codes        *Arena[Code]
	Comments     *Arena[Comment]
	Conditionals *Arena[Conditional]
	Eaches       *Arena[Each]
	Whiles       *Arena[While]
	Cases        *Arena[Case]
	MixinDefs    *Arena[MixinDef]
	MixinCalls   *Arena[MixinCall]
	Includes     *Arena[Include]
	Extendses    *Arena[Extends]
	Blocks       *Arena[Block]
	RawTexts     *Arena[RawText]
}

// NewBuilder creates a Builder with capHint per arena (0 picks a default).
func NewBuilder(capHint uint) *Builder {
	if capHint == 0 {
		capHint = 1 << 7
	}
	small := capHint / 4
	return &Builder{
		Nodes:        NewArena[Node](capHint),
		Documents:    NewArena[Document](4),
		Doctypes:     NewArena[Doctype](2),
		Elements:     NewArena[Element](capHint),
		Texts:        NewArena[Text](capHint),
		Codes:        NewArena[Code](small),
		Comments:     NewArena[Comment](small),
		Conditionals: NewArena[Conditional](small),
		Eaches:       NewArena[Each](small),
		Whiles:       NewArena[While](small),
		Cases:        NewArena[Case](small),
		MixinDefs:    NewArena[MixinDef](small),
		MixinCalls:   NewArena[MixinCall](small),
		Includes:     NewArena[Include](small),
		Extendses:    NewArena[Extends](2),
		Blocks:       NewArena[Block](small),
		RawTexts:     NewArena[RawText](small),
	}
}

func (b *Builder) newNode(kind NodeKind, span source.Span, payload PayloadID) NodeID {
	return NodeID(b.Nodes.Allocate(Node{Kind: kind, Span: span, Payload: payload}))
}

// Node returns the head of id.
func (b *Builder) Node(id NodeID) *Node {
	return b.Nodes.Get(uint32(id))
}

// Kind returns the kind of id, NodeInvalid for the zero id.
func (b *Builder) Kind(id NodeID) NodeKind {
	n := b.Node(id)
	if n == nil {
		return NodeInvalid
	}
	return n.Kind
}

func (b *Builder) NewDocument(span source.Span, d Document) NodeID {
	return b.newNode(NodeDocument, span, PayloadID(b.Documents.Allocate(d)))
}

func (b *Builder) NewDoctype(span source.Span, d Doctype) NodeID {
	return b.newNode(NodeDoctype, span, PayloadID(b.Doctypes.Allocate(d)))
}

func (b *Builder) NewElement(span source.Span, e Element) NodeID {
	return b.newNode(NodeElement, span, PayloadID(b.Elements.Allocate(e)))
}

func (b *Builder) NewText(span source.Span, t Text) NodeID {
	return b.newNode(NodeText, span, PayloadID(b.Texts.Allocate(t)))
}

func (b *Builder) NewCode(span source.Span, c Code) NodeID {
	return b.newNode(NodeCode, span, PayloadID(b.Codes.Allocate(c)))
}

func (b *Builder) NewComment(span source.Span, c Comment) NodeID {
	return b.newNode(NodeComment, span, PayloadID(b.Comments.Allocate(c)))
}

func (b *Builder) NewConditional(span source.Span, c Conditional) NodeID {
	return b.newNode(NodeConditional, span, PayloadID(b.Conditionals.Allocate(c)))
}

func (b *Builder) NewEach(span source.Span, e Each) NodeID {
	return b.newNode(NodeEach, span, PayloadID(b.Eaches.Allocate(e)))
}

func (b *Builder) NewWhile(span source.Span, w While) NodeID {
	return b.newNode(NodeWhile, span, PayloadID(b.Whiles.Allocate(w)))
}

func (b *Builder) NewCase(span source.Span, c Case) NodeID {
	return b.newNode(NodeCase, span, PayloadID(b.Cases.Allocate(c)))
}

func (b *Builder) NewMixinDef(span source.Span, m MixinDef) NodeID {
	return b.newNode(NodeMixinDef, span, PayloadID(b.MixinDefs.Allocate(m)))
}

func (b *Builder) NewMixinCall(span source.Span, m MixinCall) NodeID {
	return b.newNode(NodeMixinCall, span, PayloadID(b.MixinCalls.Allocate(m)))
}

func (b *Builder) NewMixinBlock(span source.Span) NodeID {
	return b.newNode(NodeMixinBlock, span, NoPayloadID)
}

func (b *Builder) NewInclude(span source.Span, i Include) NodeID {
	return b.newNode(NodeInclude, span, PayloadID(b.Includes.Allocate(i)))
}

func (b *Builder) NewExtends(span source.Span, e Extends) NodeID {
	return b.newNode(NodeExtends, span, PayloadID(b.Extendses.Allocate(e)))
}

func (b *Builder) NewBlock(span source.Span, bl Block) NodeID {
	return b.newNode(NodeBlock, span, PayloadID(b.Blocks.Allocate(bl)))
}

func (b *Builder) NewRawText(span source.Span, r RawText) NodeID {
	return b.newNode(NodeRawText, span, PayloadID(b.RawTexts.Allocate(r)))
}

func (b *Builder) payload(id NodeID, want NodeKind) PayloadID {
	n := b.Node(id)
	if n == nil || n.Kind != want {
		panic(fmt.Errorf("ast: node %d is %v, want %v", id, b.Kind(id), want))
	}
	return n.Payload
}

// Typed payload accessors. Asking for the wrong kind is an internal
// consistency error and panics.

func (b *Builder) Document(id NodeID) *Document {
	return b.Documents.Get(uint32(b.payload(id, NodeDocument)))
}

func (b *Builder) Doctype(id NodeID) *Doctype {
	return b.Doctypes.Get(uint32(b.payload(id, NodeDoctype)))
}

func (b *Builder) Element(id NodeID) *Element {
	return b.Elements.Get(uint32(b.payload(id, NodeElement)))
}

func (b *Builder) Text(id NodeID) *Text {
	return b.Texts.Get(uint32(b.payload(id, NodeText)))
}

func (b *Builder) Code(id NodeID) *Code {
	return b.Codes.Get(uint32(b.payload(id, NodeCode)))
}

func (b *Builder) Comment(id NodeID) *Comment {
	return b.Comments.Get(uint32(b.payload(id, NodeComment)))
}

func (b *Builder) Conditional(id NodeID) *Conditional {
	return b.Conditionals.Get(uint32(b.payload(id, NodeConditional)))
}

func (b *Builder) Each(id NodeID) *Each {
	return b.Eaches.Get(uint32(b.payload(id, NodeEach)))
}

func (b *Builder) While(id NodeID) *While {
	return b.Whiles.Get(uint32(b.payload(id, NodeWhile)))
}

func (b *Builder) Case(id NodeID) *Case {
	return b.Cases.Get(uint32(b.payload(id, NodeCase)))
}

func (b *Builder) MixinDef(id NodeID) *MixinDef {
	return b.MixinDefs.Get(uint32(b.payload(id, NodeMixinDef)))
}

func (b *Builder) MixinCall(id NodeID) *MixinCall {
	return b.MixinCalls.Get(uint32(b.payload(id, NodeMixinCall)))
}

func (b *Builder) Include(id NodeID) *Include {
	return b.Includes.Get(uint32(b.payload(id, NodeInclude)))
}

func (b *Builder) Extends(id NodeID) *Extends {
	return b.Extendses.Get(uint32(b.payload(id, NodeExtends)))
}

func (b *Builder) Block(id NodeID) *Block {
	return b.Blocks.Get(uint32(b.payload(id, NodeBlock)))
}

func (b *Builder) RawText(id NodeID) *RawText {
	return b.RawTexts.Get(uint32(b.payload(id, NodeRawText)))
}

// Children returns the child list of any container node, nil for leaves.
func (b *Builder) Children(id NodeID) []NodeID {
	n := b.Node(id)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NodeDocument:
		return b.Document(id).Nodes
	case NodeElement:
		return b.Element(id).Children
	case NodeComment:
		return b.Comment(id).Children
	case NodeWhile:
		return b.While(id).Children
	case NodeMixinDef:
		return b.MixinDef(id).Children
	case NodeMixinCall:
		return b.MixinCall(id).BlockChildren
	case NodeBlock:
		return b.Block(id).Children
	case NodeCode:
		return b.Code(id).Children
	default:
		return nil
	}
}
