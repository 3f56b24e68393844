package ast

import (
	"slices"
)

// CloneSubtree deep-copies the subtree rooted at id into the same arena
// and returns the fresh root. The mixin expander substitutes into such
// copies so a definition's body is never mutated in place.
func (b *Builder) CloneSubtree(id NodeID) NodeID {
	n := b.Node(id)
	if n == nil {
		return NoNodeID
	}
	switch n.Kind {
	case NodeDocument:
		d := *b.Document(id)
		d.Nodes = b.cloneList(d.Nodes)
		return b.NewDocument(n.Span, d)
	case NodeDoctype:
		return b.NewDoctype(n.Span, *b.Doctype(id))
	case NodeElement:
		e := *b.Element(id)
		e.Classes = slices.Clone(e.Classes)
		e.Attrs = slices.Clone(e.Attrs)
		e.InlineText = b.cloneSegments(e.InlineText)
		e.Children = b.cloneList(e.Children)
		return b.NewElement(n.Span, e)
	case NodeText:
		t := *b.Text(id)
		t.Segments = b.cloneSegments(t.Segments)
		return b.NewText(n.Span, t)
	case NodeCode:
		c := *b.Code(id)
		c.Children = b.cloneList(c.Children)
		return b.NewCode(n.Span, c)
	case NodeComment:
		c := *b.Comment(id)
		c.Children = b.cloneList(c.Children)
		return b.NewComment(n.Span, c)
	case NodeConditional:
		c := *b.Conditional(id)
		branches := make([]CondBranch, len(c.Branches))
		for i, br := range c.Branches {
			br.Children = b.cloneList(br.Children)
			branches[i] = br
		}
		c.Branches = branches
		return b.NewConditional(n.Span, c)
	case NodeEach:
		e := *b.Each(id)
		e.Children = b.cloneList(e.Children)
		e.ElseChildren = b.cloneList(e.ElseChildren)
		return b.NewEach(n.Span, e)
	case NodeWhile:
		w := *b.While(id)
		w.Children = b.cloneList(w.Children)
		return b.NewWhile(n.Span, w)
	case NodeCase:
		c := *b.Case(id)
		whens := make([]CaseWhen, len(c.Whens))
		for i, w := range c.Whens {
			w.Children = b.cloneList(w.Children)
			whens[i] = w
		}
		c.Whens = whens
		c.DefaultChildren = b.cloneList(c.DefaultChildren)
		return b.NewCase(n.Span, c)
	case NodeMixinDef:
		m := *b.MixinDef(id)
		m.Params = slices.Clone(m.Params)
		m.Children = b.cloneList(m.Children)
		return b.NewMixinDef(n.Span, m)
	case NodeMixinCall:
		m := *b.MixinCall(id)
		m.Args = slices.Clone(m.Args)
		m.Attrs = slices.Clone(m.Attrs)
		m.BlockChildren = b.cloneList(m.BlockChildren)
		return b.NewMixinCall(n.Span, m)
	case NodeMixinBlock:
		return b.NewMixinBlock(n.Span)
	case NodeInclude:
		return b.NewInclude(n.Span, *b.Include(id))
	case NodeExtends:
		return b.NewExtends(n.Span, *b.Extends(id))
	case NodeBlock:
		bl := *b.Block(id)
		bl.Children = b.cloneList(bl.Children)
		return b.NewBlock(n.Span, bl)
	case NodeRawText:
		return b.NewRawText(n.Span, *b.RawText(id))
	default:
		return NoNodeID
	}
}

func (b *Builder) cloneList(ids []NodeID) []NodeID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]NodeID, len(ids))
	for i, id := range ids {
		out[i] = b.CloneSubtree(id)
	}
	return out
}

func (b *Builder) cloneSegments(segs []TextSegment) []TextSegment {
	if len(segs) == 0 {
		return nil
	}
	out := make([]TextSegment, len(segs))
	for i, s := range segs {
		if s.Kind == SegInterpTag && s.Tag.IsValid() {
			s.Tag = b.CloneSubtree(s.Tag)
		}
		out[i] = s
	}
	return out
}
