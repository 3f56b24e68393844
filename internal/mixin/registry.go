package mixin

import (
	"golang.org/x/text/unicode/norm"

	"plume/internal/ast"
)

// Registry maps mixin names to their definitions. Names are normalized
// to NFC so a call site and a definition written with different Unicode
// compositions still meet.
type Registry struct {
	defs map[string]ast.NodeID
	b    *ast.Builder
}

// Collect walks the document and registers every mixin definition it
// finds, wherever it is nested. A name defined twice keeps the last
// definition.
func Collect(b *ast.Builder, doc ast.NodeID) *Registry {
	r := &Registry{defs: make(map[string]ast.NodeID), b: b}
	r.walk(b.Document(doc).Nodes)
	return r
}

func (r *Registry) walk(ids []ast.NodeID) {
	for _, id := range ids {
		if r.b.Kind(id) == ast.NodeMixinDef {
			r.defs[norm.NFC.String(r.b.MixinDef(id).Name)] = id
			// a nested definition inside a mixin body is legal
		}
		switch r.b.Kind(id) {
		case ast.NodeConditional:
			c := r.b.Conditional(id)
			for i := range c.Branches {
				r.walk(c.Branches[i].Children)
			}
		case ast.NodeEach:
			e := r.b.Each(id)
			r.walk(e.Children)
			r.walk(e.ElseChildren)
		case ast.NodeCase:
			c := r.b.Case(id)
			for i := range c.Whens {
				r.walk(c.Whens[i].Children)
			}
			r.walk(c.DefaultChildren)
		default:
			r.walk(r.b.Children(id))
		}
	}
}

// Lookup resolves a call name to its definition.
func (r *Registry) Lookup(name string) (ast.NodeID, bool) {
	id, ok := r.defs[norm.NFC.String(name)]
	return id, ok
}

// Len reports the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}
