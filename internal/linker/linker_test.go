package linker_test

import (
	"testing"

	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/lexer"
	"plume/internal/linker"
	"plume/internal/loader"
	"plume/internal/source"
)

func linkFiles(t *testing.T, entry string, files map[string]string) (*ast.Builder, ast.NodeID, *diag.Bag) {
	t.Helper()
	reader := loader.MapReader{}
	for path, content := range files {
		reader[path] = []byte(content)
	}

	fs := source.NewFileSet()
	b := ast.NewBuilder(0)
	bag := diag.NewBag(8)
	rep := diag.BagReporter{Bag: bag}

	l := loader.New(fs, b, loader.Options{
		Reporter: rep,
		Basedir:  "/site",
		Reader:   reader,
		Filter:   lexer.DefaultFilterOptions(),
	})
	res, ok := l.Load(entry)
	if !ok {
		t.Fatalf("load failed: %+v", bag.Items())
	}

	doc, _ := linker.Link(b, res.Chain, linker.Options{Reporter: rep})
	return b, doc, bag
}

// findBlock returns the first block with the given name in a depth-first
// walk of the merged document.
func findBlock(b *ast.Builder, doc ast.NodeID, name string) *ast.Block {
	var found *ast.Block
	var visit func(ids []ast.NodeID)
	visit = func(ids []ast.NodeID) {
		for _, id := range ids {
			if found != nil {
				return
			}
			if b.Kind(id) == ast.NodeBlock && b.Block(id).Name == name {
				found = b.Block(id)
				return
			}
			visit(b.Children(id))
		}
	}
	visit(b.Document(doc).Nodes)
	return found
}

func TestBlockReplace(t *testing.T) {
	b, doc, bag := linkFiles(t, "/site/page.plume", map[string]string{
		"/site/layout.plume": "html\n  body\n    block content\n      p fallback\n",
		"/site/page.plume":   "extends layout\nblock content\n  h1 Page\n",
	})
	if bag.HasErrors() {
		t.Fatalf("link failed: %+v", bag.Items())
	}
	bl := findBlock(b, doc, "content")
	if bl == nil || len(bl.Children) != 1 {
		t.Fatalf("block = %+v", bl)
	}
	if b.Element(bl.Children[0]).Tag != "h1" {
		t.Errorf("child = %+v", b.Element(bl.Children[0]))
	}
}

func TestBlockAppendPrepend(t *testing.T) {
	b, doc, bag := linkFiles(t, "/site/page.plume", map[string]string{
		"/site/layout.plume": "block scripts\n  script(src='base.js')\n",
		"/site/page.plume": "extends layout\n" +
			"block append scripts\n  script(src='page.js')\n" +
			"prepend scripts\n  script(src='first.js')\n",
	})
	if bag.HasErrors() {
		t.Fatalf("link failed: %+v", bag.Items())
	}
	bl := findBlock(b, doc, "scripts")
	if bl == nil || len(bl.Children) != 3 {
		t.Fatalf("block = %+v", bl)
	}
	srcs := make([]string, 0, 3)
	for _, id := range bl.Children {
		srcs = append(srcs, b.Element(id).Attrs[0].Value)
	}
	want := []string{"'first.js'", "'base.js'", "'page.js'"}
	for i := range want {
		if srcs[i] != want[i] {
			t.Fatalf("script order = %v, want %v", srcs, want)
		}
	}
}

func TestThreeLevelChain(t *testing.T) {
	b, doc, bag := linkFiles(t, "/site/leaf.plume", map[string]string{
		"/site/root.plume": "main\n  block body\n",
		"/site/mid.plume":  "extends root\nblock body\n  section\n    block inner\n",
		"/site/leaf.plume": "extends mid\nblock inner\n  p deep\n",
	})
	if bag.HasErrors() {
		t.Fatalf("link failed: %+v", bag.Items())
	}
	inner := findBlock(b, doc, "inner")
	if inner == nil || len(inner.Children) != 1 {
		t.Fatalf("inner = %+v", inner)
	}
	if b.Element(inner.Children[0]).Tag != "p" {
		t.Errorf("inner child = %+v", b.Element(inner.Children[0]))
	}
}

func TestDanglingBlock(t *testing.T) {
	_, doc, bag := linkFiles(t, "/site/page.plume", map[string]string{
		"/site/layout.plume": "block content\n",
		"/site/page.plume":   "extends layout\nblock sidebar\n  p lost\n",
	})
	if doc.IsValid() {
		t.Fatal("expected link failure")
	}
	if first := bag.First(); first == nil || first.Code != diag.LnkDanglingBlock {
		t.Fatalf("diagnostic = %+v, want LnkDanglingBlock", first)
	}
}

func TestContentOutsideBlock(t *testing.T) {
	_, doc, bag := linkFiles(t, "/site/page.plume", map[string]string{
		"/site/layout.plume": "block content\n",
		"/site/page.plume":   "extends layout\np stray\n",
	})
	if doc.IsValid() {
		t.Fatal("expected link failure")
	}
	if first := bag.First(); first == nil || first.Code != diag.LnkExtendsConflict {
		t.Fatalf("diagnostic = %+v, want LnkExtendsConflict", first)
	}
}

func TestMixinDefsCarried(t *testing.T) {
	b, doc, bag := linkFiles(t, "/site/page.plume", map[string]string{
		"/site/layout.plume": "block content\n",
		"/site/page.plume":   "extends layout\nmixin tag(x)\n  span= x\nblock content\n  +tag('v')\n",
	})
	if bag.HasErrors() {
		t.Fatalf("link failed: %+v", bag.Items())
	}
	nodes := b.Document(doc).Nodes
	if b.Kind(nodes[0]) != ast.NodeMixinDef {
		t.Fatalf("first merged node = %v", b.Kind(nodes[0]))
	}
	if b.MixinDef(nodes[0]).Name != "tag" {
		t.Errorf("mixin = %+v", b.MixinDef(nodes[0]))
	}
}

func TestDuplicateBlockLastWins(t *testing.T) {
	b, doc, bag := linkFiles(t, "/site/page.plume", map[string]string{
		"/site/layout.plume": "block note\n  p first\nblock note\n  p second\n",
		"/site/page.plume":   "extends layout\nblock note\n  p override\n",
	})
	if bag.HasErrors() {
		t.Fatalf("link failed: %+v", bag.Items())
	}
	// the override lands on the last placement; the first keeps its body
	nodes := b.Document(doc).Nodes
	first := b.Block(nodes[0])
	last := b.Block(nodes[1])
	if got := textOfOnlyChild(b, first); got != "first" {
		t.Errorf("first placement = %q", got)
	}
	if got := textOfOnlyChild(b, last); got != "override" {
		t.Errorf("last placement = %q", got)
	}
}

func textOfOnlyChild(b *ast.Builder, bl *ast.Block) string {
	if len(bl.Children) != 1 {
		return ""
	}
	el := b.Element(bl.Children[0])
	if len(el.InlineText) != 1 {
		return ""
	}
	return el.InlineText[0].Text
}
