package mixin

import (
	"strconv"
	"strings"

	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/source"
)

// DefaultMaxDepth caps nested mixin expansion. Recursive mixins without
// a terminating branch hit this instead of looping forever.
const DefaultMaxDepth = 64

// Options configure one Expand run.
type Options struct {
	// Reporter receives the single fatal diagnostic; nil drops it.
	Reporter diag.Reporter
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int
}

// Expand rewrites every mixin call under doc into its expanded body.
// A call whose name is not registered passes its nested content through
// unchanged. Returns false after reporting when expansion fails.
func Expand(b *ast.Builder, doc ast.NodeID, reg *Registry, opts Options) bool {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	ex := &expander{b: b, reg: reg, opts: opts}
	d := b.Document(doc)
	d.Nodes = ex.expandList(d.Nodes, 0)
	return !ex.failed
}

type expander struct {
	b      *ast.Builder
	reg    *Registry
	opts   Options
	failed bool
}

func (ex *expander) expandList(ids []ast.NodeID, depth int) []ast.NodeID {
	out := make([]ast.NodeID, 0, len(ids))
	for _, id := range ids {
		if ex.failed {
			return nil
		}
		if ex.b.Kind(id) == ast.NodeMixinCall {
			out = append(out, ex.expandCall(id, depth)...)
			continue
		}
		ex.expandChildren(id, depth)
		out = append(out, id)
	}
	return out
}

func (ex *expander) expandChildren(id ast.NodeID, depth int) {
	switch ex.b.Kind(id) {
	case ast.NodeElement:
		e := ex.b.Element(id)
		e.Children = ex.expandList(e.Children, depth)
		for i := range e.InlineText {
			if e.InlineText[i].Kind == ast.SegInterpTag {
				ex.expandChildren(e.InlineText[i].Tag, depth)
			}
		}
	case ast.NodeCode:
		c := ex.b.Code(id)
		c.Children = ex.expandList(c.Children, depth)
	case ast.NodeConditional:
		c := ex.b.Conditional(id)
		for i := range c.Branches {
			c.Branches[i].Children = ex.expandList(c.Branches[i].Children, depth)
		}
	case ast.NodeEach:
		e := ex.b.Each(id)
		e.Children = ex.expandList(e.Children, depth)
		e.ElseChildren = ex.expandList(e.ElseChildren, depth)
	case ast.NodeWhile:
		w := ex.b.While(id)
		w.Children = ex.expandList(w.Children, depth)
	case ast.NodeCase:
		c := ex.b.Case(id)
		for i := range c.Whens {
			c.Whens[i].Children = ex.expandList(c.Whens[i].Children, depth)
		}
		c.DefaultChildren = ex.expandList(c.DefaultChildren, depth)
	case ast.NodeBlock:
		bl := ex.b.Block(id)
		bl.Children = ex.expandList(bl.Children, depth)
	case ast.NodeMixinDef:
		// definition bodies expand at the call site, not here
	}
}

// expandCall produces the node list a call rewrites into.
func (ex *expander) expandCall(id ast.NodeID, depth int) []ast.NodeID {
	call := ex.b.MixinCall(id)
	span := ex.b.Node(id).Span

	if depth >= ex.opts.MaxDepth {
		ex.failWithHint(diag.GenMixRecursionLimit, span,
			"mixin expansion exceeded "+strconv.Itoa(ex.opts.MaxDepth)+" nested calls",
			"check "+call.Name+" for unbounded recursion")
		return nil
	}

	defID, ok := ex.reg.Lookup(call.Name)
	if !ok {
		// unknown mixin: its nested content survives, the wrapper is lost
		return ex.expandList(call.BlockChildren, depth)
	}
	def := ex.b.MixinDef(defID)
	binds := bindArgs(def, call)

	content := ex.expandList(call.BlockChildren, depth)
	if ex.failed {
		return nil
	}

	body := make([]ast.NodeID, 0, len(def.Children))
	for _, childID := range def.Children {
		clone := ex.b.CloneSubtree(childID)
		ex.applyBinds(clone, binds)
		body = append(body, clone)
	}
	body = ex.spliceBlock(body, content)

	if len(call.Attrs) > 0 {
		ex.mergeCallAttrs(body, call.Attrs)
	}
	return ex.expandList(body, depth+1)
}

// bindArgs pairs declared parameters with call arguments. Missing
// arguments fall back to the declared default, then to the empty string
// literal; extra arguments collect into the rest parameter.
func bindArgs(def *ast.MixinDef, call *ast.MixinCall) map[string]string {
	binds := make(map[string]string, len(def.Params)+1)
	for i, param := range def.Params {
		switch {
		case i < len(call.Args):
			binds[param.Name] = call.Args[i]
		case param.HasDefault:
			binds[param.Name] = param.Default
		default:
			binds[param.Name] = "''"
		}
	}
	if def.HasRest {
		rest := call.Args
		if len(def.Params) < len(rest) {
			rest = rest[len(def.Params):]
		} else {
			rest = nil
		}
		binds[def.RestName] = "[" + strings.Join(rest, ", ") + "]"
	}
	return binds
}

// applyBinds substitutes bound parameters into every expression position
// of a cloned subtree. Loop bindings and nested definitions shadow.
func (ex *expander) applyBinds(id ast.NodeID, binds map[string]string) {
	if len(binds) == 0 {
		return
	}
	switch ex.b.Kind(id) {
	case ast.NodeElement:
		e := ex.b.Element(id)
		for i := range e.Attrs {
			if e.Attrs[i].HasValue {
				e.Attrs[i].Value = substitute(e.Attrs[i].Value, binds)
			}
		}
		e.BufferedCode = substitute(e.BufferedCode, binds)
		ex.applySegments(e.InlineText, binds)
		ex.applyList(e.Children, binds)

	case ast.NodeText:
		ex.applySegments(ex.b.Text(id).Segments, binds)

	case ast.NodeCode:
		c := ex.b.Code(id)
		c.Expr = substitute(c.Expr, binds)
		ex.applyList(c.Children, binds)

	case ast.NodeConditional:
		c := ex.b.Conditional(id)
		for i := range c.Branches {
			c.Branches[i].Condition = substitute(c.Branches[i].Condition, binds)
			ex.applyList(c.Branches[i].Children, binds)
		}

	case ast.NodeEach:
		e := ex.b.Each(id)
		e.Collection = substitute(e.Collection, binds)
		ex.applyList(e.Children, without(binds, e.ValueName, e.IndexName))
		ex.applyList(e.ElseChildren, binds)

	case ast.NodeWhile:
		w := ex.b.While(id)
		w.Condition = substitute(w.Condition, binds)
		ex.applyList(w.Children, binds)

	case ast.NodeCase:
		c := ex.b.Case(id)
		c.Expr = substitute(c.Expr, binds)
		for i := range c.Whens {
			c.Whens[i].Value = substitute(c.Whens[i].Value, binds)
			ex.applyList(c.Whens[i].Children, binds)
		}
		ex.applyList(c.DefaultChildren, binds)

	case ast.NodeMixinCall:
		m := ex.b.MixinCall(id)
		for i := range m.Args {
			m.Args[i] = substitute(m.Args[i], binds)
		}
		for i := range m.Attrs {
			if m.Attrs[i].HasValue {
				m.Attrs[i].Value = substitute(m.Attrs[i].Value, binds)
			}
		}
		ex.applyList(m.BlockChildren, binds)

	case ast.NodeMixinDef:
		def := ex.b.MixinDef(id)
		shadowed := []string{def.RestName}
		for _, p := range def.Params {
			shadowed = append(shadowed, p.Name)
		}
		ex.applyList(def.Children, without(binds, shadowed...))

	case ast.NodeBlock:
		ex.applyList(ex.b.Block(id).Children, binds)
	}
}

func (ex *expander) applyList(ids []ast.NodeID, binds map[string]string) {
	for _, id := range ids {
		ex.applyBinds(id, binds)
	}
}

func (ex *expander) applySegments(segs []ast.TextSegment, binds map[string]string) {
	for i := range segs {
		switch segs[i].Kind {
		case ast.SegInterpEscaped, ast.SegInterpUnescaped:
			segs[i].Text = substitute(segs[i].Text, binds)
		case ast.SegInterpTag:
			ex.applyBinds(segs[i].Tag, binds)
		}
	}
}

// spliceBlock replaces every content placeholder in the body with a
// fresh copy of the call's nested content.
func (ex *expander) spliceBlock(ids []ast.NodeID, content []ast.NodeID) []ast.NodeID {
	out := make([]ast.NodeID, 0, len(ids))
	for _, id := range ids {
		if ex.b.Kind(id) == ast.NodeMixinBlock {
			for _, c := range content {
				out = append(out, ex.b.CloneSubtree(c))
			}
			continue
		}
		ex.spliceBlockChildren(id, content)
		out = append(out, id)
	}
	return out
}

func (ex *expander) spliceBlockChildren(id ast.NodeID, content []ast.NodeID) {
	switch ex.b.Kind(id) {
	case ast.NodeElement:
		e := ex.b.Element(id)
		e.Children = ex.spliceBlock(e.Children, content)
	case ast.NodeCode:
		c := ex.b.Code(id)
		c.Children = ex.spliceBlock(c.Children, content)
	case ast.NodeConditional:
		c := ex.b.Conditional(id)
		for i := range c.Branches {
			c.Branches[i].Children = ex.spliceBlock(c.Branches[i].Children, content)
		}
	case ast.NodeEach:
		e := ex.b.Each(id)
		e.Children = ex.spliceBlock(e.Children, content)
		e.ElseChildren = ex.spliceBlock(e.ElseChildren, content)
	case ast.NodeWhile:
		w := ex.b.While(id)
		w.Children = ex.spliceBlock(w.Children, content)
	case ast.NodeCase:
		c := ex.b.Case(id)
		for i := range c.Whens {
			c.Whens[i].Children = ex.spliceBlock(c.Whens[i].Children, content)
		}
		c.DefaultChildren = ex.spliceBlock(c.DefaultChildren, content)
	case ast.NodeBlock:
		bl := ex.b.Block(id)
		bl.Children = ex.spliceBlock(bl.Children, content)
	}
}

// mergeCallAttrs adds the call's passed attributes to the first element
// the body renders. A body that opens with a conditional, loop or case
// gets them on the first element of every branch, so whichever branch
// renders carries them.
func (ex *expander) mergeCallAttrs(body []ast.NodeID, attrs []ast.Attr) {
	ex.attrsToFirstElement(body, attrs)
}

func (ex *expander) attrsToFirstElement(ids []ast.NodeID, attrs []ast.Attr) bool {
	for _, id := range ids {
		switch ex.b.Kind(id) {
		case ast.NodeElement:
			e := ex.b.Element(id)
			e.Attrs = append(e.Attrs, attrs...)
			return true
		case ast.NodeConditional:
			c := ex.b.Conditional(id)
			applied := false
			for i := range c.Branches {
				if ex.attrsToFirstElement(c.Branches[i].Children, attrs) {
					applied = true
				}
			}
			if applied {
				return true
			}
		case ast.NodeEach:
			e := ex.b.Each(id)
			applied := ex.attrsToFirstElement(e.Children, attrs)
			if ex.attrsToFirstElement(e.ElseChildren, attrs) {
				applied = true
			}
			if applied {
				return true
			}
		case ast.NodeWhile:
			if ex.attrsToFirstElement(ex.b.While(id).Children, attrs) {
				return true
			}
		case ast.NodeCase:
			c := ex.b.Case(id)
			applied := false
			for i := range c.Whens {
				if ex.attrsToFirstElement(c.Whens[i].Children, attrs) {
					applied = true
				}
			}
			if ex.attrsToFirstElement(c.DefaultChildren, attrs) {
				applied = true
			}
			if applied {
				return true
			}
		}
	}
	return false
}

// without copies binds minus the shadowing names.
func without(binds map[string]string, names ...string) map[string]string {
	drop := false
	for _, n := range names {
		if n != "" {
			if _, ok := binds[n]; ok {
				drop = true
			}
		}
	}
	if !drop {
		return binds
	}
	out := make(map[string]string, len(binds))
	for k, v := range binds {
		out[k] = v
	}
	for _, n := range names {
		delete(out, n)
	}
	return out
}

func (ex *expander) failWithHint(code diag.Code, sp source.Span, msg, hint string) {
	if !ex.failed {
		diag.ErrorWithHint(ex.opts.Reporter, code, sp, msg, hint)
		ex.failed = true
	}
}
