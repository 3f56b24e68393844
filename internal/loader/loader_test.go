package loader_test

import (
	"testing"

	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/lexer"
	"plume/internal/loader"
	"plume/internal/source"
)

func makeLoader(files map[string]string) (*loader.Loader, *ast.Builder, *diag.Bag) {
	reader := loader.MapReader{}
	for path, content := range files {
		reader[path] = []byte(content)
	}

	fs := source.NewFileSet()
	b := ast.NewBuilder(0)
	bag := diag.NewBag(8)
	l := loader.New(fs, b, loader.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Basedir:  "/site",
		Reader:   reader,
		Filter:   lexer.DefaultFilterOptions(),
	})
	return l, b, bag
}

func TestIncludeSplice(t *testing.T) {
	l, b, bag := makeLoader(map[string]string{
		"/site/index.plume":           "div\n  include partials/header\n  p body\n",
		"/site/partials/header.plume": "header\n  h1 Title\n",
	})
	res, ok := l.Load("/site/index.plume")
	if !ok {
		t.Fatalf("load failed: %+v", bag.Items())
	}
	if len(res.Chain) != 1 {
		t.Fatalf("chain = %d", len(res.Chain))
	}
	div := b.Element(b.Document(res.Chain[0]).Nodes[0])
	if len(div.Children) != 2 {
		t.Fatalf("div children = %d", len(div.Children))
	}
	header := b.Element(div.Children[0])
	if header.Tag != "header" || len(header.Children) != 1 {
		t.Errorf("spliced header = %+v", header)
	}
}

func TestIncludeTwiceDoesNotAlias(t *testing.T) {
	l, b, bag := makeLoader(map[string]string{
		"/site/index.plume": "include part\ninclude part\n",
		"/site/part.plume":  "p shared\n",
	})
	res, ok := l.Load("/site/index.plume")
	if !ok {
		t.Fatalf("load failed: %+v", bag.Items())
	}
	nodes := b.Document(res.Chain[0]).Nodes
	if len(nodes) != 2 {
		t.Fatalf("nodes = %d", len(nodes))
	}
	if nodes[0] == nodes[1] {
		t.Fatal("included subtrees share node ids")
	}
	b.Element(nodes[0]).Tag = "div"
	if b.Element(nodes[1]).Tag != "p" {
		t.Error("mutating one include changed the other")
	}
}

func TestIncludeOfExtendingFile(t *testing.T) {
	l, b, bag := makeLoader(map[string]string{
		"/site/index.plume":  "div\n  include card\n  include card\n",
		"/site/card.plume":   "extends layout\nblock body\n  p card\n",
		"/site/layout.plume": "section\n  block body\n",
	})
	res, ok := l.Load("/site/index.plume")
	if !ok {
		t.Fatalf("load failed: %+v", bag.Items())
	}
	div := b.Element(b.Document(res.Chain[0]).Nodes[0])
	if len(div.Children) != 2 {
		t.Fatalf("div children = %d", len(div.Children))
	}
	if div.Children[0] == div.Children[1] {
		t.Fatal("included subtrees share node ids")
	}
	for i, id := range div.Children {
		section := b.Element(id)
		if section.Tag != "section" || len(section.Children) != 1 {
			t.Fatalf("splice %d = %+v", i, section)
		}
		body := b.Block(section.Children[0])
		if len(body.Children) != 1 {
			t.Fatalf("splice %d block children = %d", i, len(body.Children))
		}
		p := b.Element(body.Children[0])
		if p.Tag != "p" || p.InlineText[0].Text != "card" {
			t.Errorf("splice %d content = %+v", i, p)
		}
	}
}

func TestIncludeNotFound(t *testing.T) {
	l, _, bag := makeLoader(map[string]string{
		"/site/index.plume": "include missing\n",
	})
	if _, ok := l.Load("/site/index.plume"); ok {
		t.Fatal("expected failure")
	}
	if first := bag.First(); first == nil || first.Code != diag.LodFileNotFound {
		t.Fatalf("diagnostic = %+v, want LodFileNotFound", first)
	}
}

func TestIncludeCycle(t *testing.T) {
	l, _, bag := makeLoader(map[string]string{
		"/site/a.plume": "include b\n",
		"/site/b.plume": "include a\n",
	})
	if _, ok := l.Load("/site/a.plume"); ok {
		t.Fatal("expected failure")
	}
	if first := bag.First(); first == nil || first.Code != diag.LodIncludeCycle {
		t.Fatalf("diagnostic = %+v, want LodIncludeCycle", first)
	}
}

func TestPathEscape(t *testing.T) {
	l, _, bag := makeLoader(map[string]string{
		"/site/index.plume": "include ../secrets\n",
	})
	if _, ok := l.Load("/site/index.plume"); ok {
		t.Fatal("expected failure")
	}
	if first := bag.First(); first == nil || first.Code != diag.LodPathEscape {
		t.Fatalf("diagnostic = %+v, want LodPathEscape", first)
	}
}

func TestExtendsChain(t *testing.T) {
	l, b, bag := makeLoader(map[string]string{
		"/site/page.plume":   "extends layout\nblock content\n  p hello\n",
		"/site/layout.plume": "html\n  body\n    block content\n",
	})
	res, ok := l.Load("/site/page.plume")
	if !ok {
		t.Fatalf("load failed: %+v", bag.Items())
	}
	if len(res.Chain) != 2 {
		t.Fatalf("chain = %d", len(res.Chain))
	}
	root := b.Document(res.Chain[0])
	if root.ExtendsPath != "" {
		t.Errorf("root still extends %q", root.ExtendsPath)
	}
	leaf := b.Document(res.Chain[1])
	if leaf.ExtendsPath != "layout" {
		t.Errorf("leaf extends = %q", leaf.ExtendsPath)
	}
}

func TestExtendsCycle(t *testing.T) {
	l, _, bag := makeLoader(map[string]string{
		"/site/a.plume": "extends b\nblock x\n  p a\n",
		"/site/b.plume": "extends a\nblock x\n  p b\n",
	})
	if _, ok := l.Load("/site/a.plume"); ok {
		t.Fatal("expected failure")
	}
	if first := bag.First(); first == nil || first.Code != diag.LodIncludeCycle {
		t.Fatalf("diagnostic = %+v, want LodIncludeCycle", first)
	}
}

func TestFilteredIncludeIsRaw(t *testing.T) {
	l, b, bag := makeLoader(map[string]string{
		"/site/index.plume": "div\n  include:verbatim snippet.html\n",
		"/site/snippet.html": "<b>kept as is</b>\n",
	})
	res, ok := l.Load("/site/index.plume")
	if !ok {
		t.Fatalf("load failed: %+v", bag.Items())
	}
	div := b.Element(b.Document(res.Chain[0]).Nodes[0])
	raw := b.RawText(div.Children[0])
	if raw.Content != "<b>kept as is</b>\n" {
		t.Errorf("raw = %q", raw.Content)
	}
}

func TestLoadContent(t *testing.T) {
	l, b, bag := makeLoader(map[string]string{
		"/site/part.plume": "p included\n",
	})
	res, ok := l.LoadContent("stdin", []byte("div\n  include part\n"))
	if !ok {
		t.Fatalf("load failed: %+v", bag.Items())
	}
	div := b.Element(b.Document(res.Chain[0]).Nodes[0])
	if b.Element(div.Children[0]).Tag != "p" {
		t.Errorf("children = %+v", div.Children)
	}
}
