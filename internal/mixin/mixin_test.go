package mixin_test

import (
	"testing"

	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/lexer"
	"plume/internal/mixin"
	"plume/internal/parser"
	"plume/internal/source"
)

func expandSource(t *testing.T, input string) (*ast.Builder, ast.NodeID, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.plume", []byte(input)))

	bag := diag.NewBag(8)
	rep := diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: rep})
	toks := lx.Tokenize()
	if lx.Failed() {
		t.Fatalf("lexer failed: %+v", bag.Items())
	}
	toks = lexer.FilterComments(toks, lexer.DefaultFilterOptions())

	b := ast.NewBuilder(0)
	p := parser.New(toks, b, parser.Options{Reporter: rep, Files: fs})
	doc := p.ParseDocument()
	if p.Failed() {
		t.Fatalf("parser failed: %+v", bag.Items())
	}

	reg := mixin.Collect(b, doc)
	ok := mixin.Expand(b, doc, reg, mixin.Options{Reporter: rep})
	return b, doc, bag, ok
}

func mustExpand(t *testing.T, input string) (*ast.Builder, ast.NodeID) {
	t.Helper()
	b, doc, bag, ok := expandSource(t, input)
	if !ok || bag.HasErrors() {
		t.Fatalf("expand failed: %+v", bag.Items())
	}
	return b, doc
}

// contentNodes drops definition nodes from the top level.
func contentNodes(b *ast.Builder, doc ast.NodeID) []ast.NodeID {
	var out []ast.NodeID
	for _, id := range b.Document(doc).Nodes {
		if b.Kind(id) != ast.NodeMixinDef {
			out = append(out, id)
		}
	}
	return out
}

func TestExpandSubstitutesArgs(t *testing.T) {
	b, doc := mustExpand(t,
		"mixin btn(label, kind)\n  button(class=kind)= label\n+btn('Go', 'primary')\n")
	nodes := contentNodes(b, doc)
	if len(nodes) != 1 {
		t.Fatalf("nodes = %d", len(nodes))
	}
	button := b.Element(nodes[0])
	if button.Tag != "button" || button.BufferedCode != "'Go'" {
		t.Fatalf("button = %+v", button)
	}
	if button.Attrs[0].Value != "'primary'" {
		t.Errorf("class attr = %q", button.Attrs[0].Value)
	}
}

func TestExpandUsesDefaults(t *testing.T) {
	b, doc := mustExpand(t,
		"mixin btn(label, kind='primary')\n  button(class=kind)= label\n+btn('Go')\n")
	button := b.Element(contentNodes(b, doc)[0])
	if button.Attrs[0].Value != "'primary'" {
		t.Errorf("class attr = %q", button.Attrs[0].Value)
	}
}

func TestExpandMissingArgIsEmpty(t *testing.T) {
	b, doc := mustExpand(t,
		"mixin btn(label)\n  button= label\n+btn\n")
	button := b.Element(contentNodes(b, doc)[0])
	if button.BufferedCode != "''" {
		t.Errorf("buffered code = %q", button.BufferedCode)
	}
}

func TestExpandRestParam(t *testing.T) {
	b, doc := mustExpand(t,
		"mixin list(first, ...items)\n  ul= items\n+list('a', 'b', 'c')\n")
	ul := b.Element(contentNodes(b, doc)[0])
	if ul.BufferedCode != "['b', 'c']" {
		t.Errorf("rest = %q", ul.BufferedCode)
	}
}

func TestExpandBlockPlaceholder(t *testing.T) {
	b, doc := mustExpand(t,
		"mixin frame\n  div.frame\n    block\n+frame\n  p inside\n")
	frame := b.Element(contentNodes(b, doc)[0])
	if len(frame.Children) != 1 {
		t.Fatalf("frame children = %d", len(frame.Children))
	}
	if b.Element(frame.Children[0]).Tag != "p" {
		t.Errorf("spliced = %+v", b.Element(frame.Children[0]))
	}
}

func TestExpandUnknownMixinPassesContentThrough(t *testing.T) {
	b, doc := mustExpand(t, "+ghost\n  p survivor\n")
	nodes := contentNodes(b, doc)
	if len(nodes) != 1 || b.Element(nodes[0]).Tag != "p" {
		t.Fatalf("nodes = %+v", nodes)
	}
}

func TestExpandRecursionLimit(t *testing.T) {
	_, _, bag, ok := expandSource(t, "mixin loop\n  +loop\n+loop\n")
	if ok {
		t.Fatal("expected expansion failure")
	}
	if first := bag.First(); first == nil || first.Code != diag.GenMixRecursionLimit {
		t.Fatalf("diagnostic = %+v, want GenMixRecursionLimit", first)
	}
}

func TestExpandLoopBindingShadowsParam(t *testing.T) {
	b, doc := mustExpand(t,
		"mixin rows(item)\n  each item in list\n    li= item\n+rows('outer')\n")
	each := b.Each(contentNodes(b, doc)[0])
	li := b.Element(each.Children[0])
	if li.BufferedCode != "item" {
		t.Errorf("shadowed binding = %q", li.BufferedCode)
	}
}

func TestExpandCallAttrsMerge(t *testing.T) {
	b, doc := mustExpand(t,
		"mixin card\n  div.card\n+card()(data-id='7')\n")
	card := b.Element(contentNodes(b, doc)[0])
	if len(card.Attrs) != 1 || card.Attrs[0].Name != "data-id" {
		t.Fatalf("attrs = %+v", card.Attrs)
	}
}

func TestExpandCallAttrsReachBranches(t *testing.T) {
	b, doc := mustExpand(t,
		"mixin box\n  if ready\n    div one\n  else\n    span two\n+box()(class='wide')\n")
	cond := b.Conditional(contentNodes(b, doc)[0])
	if len(cond.Branches) != 2 {
		t.Fatalf("branches = %d", len(cond.Branches))
	}
	for i := range cond.Branches {
		el := b.Element(cond.Branches[i].Children[0])
		if len(el.Attrs) != 1 || el.Attrs[0].Name != "class" || el.Attrs[0].Value != "'wide'" {
			t.Errorf("branch %d attrs = %+v", i, el.Attrs)
		}
	}
}

func TestRegistryNormalizesNames(t *testing.T) {
	b := ast.NewBuilder(0)
	def := b.NewMixinDef(source.Span{}, ast.MixinDef{Name: "café"}) // NFD
	doc := b.NewDocument(source.Span{}, ast.Document{Nodes: []ast.NodeID{def}})

	reg := mixin.Collect(b, doc)
	if _, ok := reg.Lookup("café"); !ok { // NFC
		t.Error("NFC lookup missed an NFD-registered name")
	}
	if reg.Len() != 1 {
		t.Errorf("registry size = %d", reg.Len())
	}
}
