package linker

import (
	"sort"
	"strings"

	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/source"
)

// Options configure one Link run.
type Options struct {
	// Reporter receives the single fatal diagnostic; nil drops it.
	Reporter diag.Reporter
}

// Link merges an inheritance chain (root ancestor first, entry last)
// into one document and returns it. Each descendant may contribute block
// overrides and mixin definitions; any other top-level content conflicts
// with inheritance. On failure Link returns NoNodeID.
func Link(b *ast.Builder, chain []ast.NodeID, opts Options) (ast.NodeID, bool) {
	if len(chain) == 0 {
		return ast.NoNodeID, false
	}
	base := chain[0]

	lk := &linker{b: b, opts: opts}
	for _, doc := range chain[1:] {
		lk.merge(base, doc)
		if lk.failed {
			return ast.NoNodeID, false
		}
	}
	return base, true
}

type linker struct {
	b      *ast.Builder
	opts   Options
	failed bool
}

// merge applies one descendant document onto the accumulated base.
func (lk *linker) merge(base, doc ast.NodeID) {
	// content merged from earlier descendants may have introduced new
	// block placements, so the registry is rebuilt per level
	registry := lk.collectBlocks(base)

	var mixins []ast.NodeID
	for _, id := range lk.b.Document(doc).Nodes {
		switch lk.b.Kind(id) {
		case ast.NodeExtends, ast.NodeDoctype, ast.NodeComment:
			// the chain already encodes extends; a descendant's
			// doctype never overrides its ancestor's
		case ast.NodeMixinDef:
			mixins = append(mixins, id)
		case ast.NodeBlock:
			lk.applyBlock(registry, id)
			if lk.failed {
				return
			}
		default:
			lk.failWithHint(diag.LnkExtendsConflict, lk.b.Node(id).Span,
				"content outside a block cannot take part in inheritance",
				"wrap this content in a `block` the parent template defines")
			return
		}
	}

	if len(mixins) > 0 {
		d := lk.b.Document(base)
		d.Nodes = append(mixins, d.Nodes...)
	}
}

// applyBlock merges one override into the block it names.
func (lk *linker) applyBlock(registry map[string]ast.NodeID, id ast.NodeID) {
	override := lk.b.Block(id)
	target, ok := registry[override.Name]
	if !ok {
		lk.failWithHint(diag.LnkDanglingBlock, lk.b.Node(id).Span,
			"block "+override.Name+" does not exist in the parent template",
			"known blocks: "+lk.knownBlocks(registry))
		return
	}

	winner := lk.b.Block(target)
	switch override.Mode {
	case ast.BlockAppend:
		winner.Children = append(winner.Children, override.Children...)
	case ast.BlockPrepend:
		winner.Children = append(append([]ast.NodeID{}, override.Children...), winner.Children...)
	default:
		winner.Children = override.Children
	}
}

// collectBlocks walks the merged tree and indexes every block placement
// by name. A name placed twice keeps the last occurrence.
func (lk *linker) collectBlocks(doc ast.NodeID) map[string]ast.NodeID {
	registry := make(map[string]ast.NodeID)
	var visit func(ids []ast.NodeID)
	visit = func(ids []ast.NodeID) {
		for _, id := range ids {
			if lk.b.Kind(id) == ast.NodeBlock {
				registry[lk.b.Block(id).Name] = id
			}
			for _, list := range lk.childLists(id) {
				visit(list)
			}
		}
	}
	visit(lk.b.Document(doc).Nodes)
	return registry
}

// childLists returns every child list a node owns, branch bodies included.
func (lk *linker) childLists(id ast.NodeID) [][]ast.NodeID {
	switch lk.b.Kind(id) {
	case ast.NodeConditional:
		c := lk.b.Conditional(id)
		lists := make([][]ast.NodeID, 0, len(c.Branches))
		for i := range c.Branches {
			lists = append(lists, c.Branches[i].Children)
		}
		return lists
	case ast.NodeEach:
		e := lk.b.Each(id)
		return [][]ast.NodeID{e.Children, e.ElseChildren}
	case ast.NodeCase:
		c := lk.b.Case(id)
		lists := make([][]ast.NodeID, 0, len(c.Whens)+1)
		for i := range c.Whens {
			lists = append(lists, c.Whens[i].Children)
		}
		return append(lists, c.DefaultChildren)
	default:
		return [][]ast.NodeID{lk.b.Children(id)}
	}
}

func (lk *linker) knownBlocks(registry map[string]ast.NodeID) string {
	if len(registry) == 0 {
		return "(none)"
	}
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func (lk *linker) failWithHint(code diag.Code, sp source.Span, msg, hint string) {
	if !lk.failed {
		diag.ErrorWithHint(lk.opts.Reporter, code, sp, msg, hint)
		lk.failed = true
	}
}
