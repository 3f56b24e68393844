package codegen_test

import (
	"testing"

	"plume/internal/ast"
	"plume/internal/codegen"
	"plume/internal/diag"
	"plume/internal/lexer"
	"plume/internal/mixin"
	"plume/internal/parser"
	"plume/internal/source"
)

func render(t *testing.T, input string, opts codegen.Options) (string, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.plume", []byte(input)))

	bag := diag.NewBag(8)
	rep := diag.BagReporter{Bag: bag}
	opts.Reporter = rep

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
	if !mixin.Expand(b, doc, mixin.Collect(b, doc), mixin.Options{Reporter: rep}) {
		t.Fatalf("expand failed: %+v", bag.Items())
	}

	html, ok := codegen.Generate(b, doc, opts)
	return html, bag, ok
}

func mustRender(t *testing.T, input string, opts codegen.Options) string {
	t.Helper()
	html, bag, ok := render(t, input, opts)
	if !ok {
		t.Fatalf("generate failed: %+v", bag.Items())
	}
	return html
}

func TestBasicStructure(t *testing.T) {
	got := mustRender(t, "div.card#main\n  p Hello\n", codegen.Options{})
	want := `<div class="card" id="main"><p>Hello</p></div>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPrettyPrint(t *testing.T) {
	got := mustRender(t, "div.card\n  p Hello\n  p World\n", codegen.Options{Pretty: true})
	want := "<div class=\"card\">\n  <p>Hello</p>\n  <p>World</p>\n</div>\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestEscapedInterpolation(t *testing.T) {
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Values: map[string]string{"name": `<b>&"x"`},
	}}
	got := mustRender(t, "p #{name}\n", opts)
	want := `<p>&lt;b&gt;&amp;"x"</p>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestUnescapedInterpolation(t *testing.T) {
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Values: map[string]string{"html": "<em>raw</em>"},
	}}
	got := mustRender(t, "p !{html}\n", opts)
	want := "<p><em>raw</em></p>"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestEntityNotDoubleEscaped(t *testing.T) {
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Values: map[string]string{"s": "a &amp; b & c &#x27; &#10;"},
	}}
	got := mustRender(t, "p= s\n", opts)
	want := "<p>a &amp; b &amp; c &#x27; &#10;</p>"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestInlineTagInterpolation(t *testing.T) {
	got := mustRender(t, "p Click #[a(href='/go') here] now\n", codegen.Options{Pretty: true})
	want := "<p>Click <a href=\"/go\">here</a> now</p>\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestAttrValueEscaping(t *testing.T) {
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Values: map[string]string{"url": `/x?a=1&b="2"`},
	}}
	got := mustRender(t, "a(href=url) link\n", opts)
	want := `<a href="/x?a=1&amp;b=&quot;2&quot;">link</a>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestUnescapedAttr(t *testing.T) {
	got := mustRender(t, "div(data-raw!='a&b')\n", codegen.Options{})
	want := `<div data-raw="a&b"></div>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestBooleanAttrTerse(t *testing.T) {
	got := mustRender(t, "input(type='checkbox', checked)\n", codegen.Options{})
	want := `<input type="checkbox" checked>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestBooleanAttrVerbose(t *testing.T) {
	got := mustRender(t, "doctype strict\ninput(checked)\n", codegen.Options{})
	want := `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" ` +
		`"http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">` +
		`<input checked="checked"/>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestAttrFalseOmitted(t *testing.T) {
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Values: map[string]string{"on": "false"},
	}}
	got := mustRender(t, "input(disabled=on)\n", opts)
	want := "<input>"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestAttrUnresolvedOmitted(t *testing.T) {
	got := mustRender(t, "a(href=missing) text\n", codegen.Options{})
	want := "<a>text</a>"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestClassMergeKeepsOrder(t *testing.T) {
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Values: map[string]string{"extra": "wide wide"},
	}}
	got := mustRender(t, "div.btn.active(class=extra)\n", opts)
	want := `<div class="btn active wide wide"></div>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestStyleTrailingSemicolon(t *testing.T) {
	got := mustRender(t, "div(style='color:red')\n", codegen.Options{})
	want := `<div style="color:red;"></div>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestStyleMergeAcrossSources(t *testing.T) {
	got := mustRender(t,
		"mixin box\n  div(style='color:red')\n+box()(style='margin:0')\n",
		codegen.Options{})
	want := `<div style="color:red;margin:0;"></div>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestConditionalBranches(t *testing.T) {
	input := "if admin\n  p admin\nelse if user\n  p user\nelse\n  p guest\n"

	cases := []struct {
		values map[string]string
		want   string
	}{
		{map[string]string{"admin": "yes"}, "<p>admin</p>"},
		{map[string]string{"user": "yes"}, "<p>user</p>"},
		{map[string]string{}, "<p>guest</p>"},
	}
	for _, tc := range cases {
		opts := codegen.Options{Lookup: codegen.MapLookup{Values: tc.values}}
		if got := mustRender(t, input, opts); got != tc.want {
			t.Errorf("values %v: got %q, want %q", tc.values, got, tc.want)
		}
	}
}

func TestUnlessInverts(t *testing.T) {
	got := mustRender(t, "unless hidden\n  p shown\n", codegen.Options{})
	if got != "<p>shown</p>" {
		t.Errorf("got %q", got)
	}
}

func TestCompoundConditionIsFalse(t *testing.T) {
	got := mustRender(t, "if a && b\n  p never\nelse\n  p fallback\n", codegen.Options{})
	if got != "<p>fallback</p>" {
		t.Errorf("got %q", got)
	}
}

func TestEachWithIndex(t *testing.T) {
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Lists: map[string][]string{"items": {"a", "b"}},
	}}
	got := mustRender(t, "ul\n  each item, i in items\n    li #{i}:#{item}\n", opts)
	want := "<ul><li>0:a</li><li>1:b</li></ul>"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestEachElseOnEmpty(t *testing.T) {
	got := mustRender(t, "each item in items\n  li= item\nelse\n  li none\n", codegen.Options{})
	if got != "<li>none</li>" {
		t.Errorf("got %q", got)
	}
}

func TestWhileRendersBodyOnce(t *testing.T) {
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Values: map[string]string{"more": "true"},
	}}
	got := mustRender(t, "while more\n  p tick\n", opts)
	if got != "<p>tick</p>" {
		t.Errorf("got %q", got)
	}
}

func TestCaseMatchAndFallthrough(t *testing.T) {
	input := "case kind\n  when 'a'\n  when 'b'\n    p ab\n  when 'c'\n    p c\n  default\n    p other\n"

	cases := []struct{ kind, want string }{
		{"a", "<p>ab</p>"},
		{"b", "<p>ab</p>"},
		{"c", "<p>c</p>"},
		{"z", "<p>other</p>"},
	}
	for _, tc := range cases {
		opts := codegen.Options{Lookup: codegen.MapLookup{
			Values: map[string]string{"kind": tc.kind},
		}}
		if got := mustRender(t, input, opts); got != tc.want {
			t.Errorf("kind %q: got %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestCaseBreakSuppressesOutput(t *testing.T) {
	input := "case kind\n  when 'quiet'\n    - break\n  default\n    p loud\n"
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Values: map[string]string{"kind": "quiet"},
	}}
	if got := mustRender(t, input, opts); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestVoidWithChildrenFails(t *testing.T) {
	_, bag, ok := render(t, "br\n  p nope\n", codegen.Options{})
	if ok {
		t.Fatal("expected failure")
	}
	if first := bag.First(); first == nil || first.Code != diag.GenVoidWithChildren {
		t.Fatalf("diagnostic = %+v, want GenVoidWithChildren", first)
	}
}

func TestSelfClosingWithChildrenFails(t *testing.T) {
	_, bag, ok := render(t, "foo/\n  p nope\n", codegen.Options{})
	if ok {
		t.Fatal("expected failure")
	}
	if first := bag.First(); first == nil || first.Code != diag.GenVoidWithChildren {
		t.Fatalf("diagnostic = %+v, want GenVoidWithChildren", first)
	}
}

func TestUnresolvedIncludeFails(t *testing.T) {
	_, bag, ok := render(t, "include other\n", codegen.Options{})
	if ok {
		t.Fatal("expected failure")
	}
	if first := bag.First(); first == nil || first.Code != diag.GenUnresolvedNode {
		t.Fatalf("diagnostic = %+v, want GenUnresolvedNode", first)
	}
}

func TestDoctypeTerse(t *testing.T) {
	got := mustRender(t, "doctype html\nhtml\n  body\n    br\n", codegen.Options{})
	want := "<!DOCTYPE html><html><body><br></body></html>"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestSelfClosingTag(t *testing.T) {
	got := mustRender(t, "thing/\n", codegen.Options{})
	if got != "<thing/>" {
		t.Errorf("got %q", got)
	}
}

func TestRawBlockKeepsWhitespace(t *testing.T) {
	got := mustRender(t, "script.\n  var a = 1;\n  var b = 2;\n", codegen.Options{Pretty: true})
	want := "<script>var a = 1;\nvar b = 2;</script>\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestCodeKeepsWhitespace(t *testing.T) {
	got := mustRender(t, "code\n  | line1\n  | line2\n", codegen.Options{Pretty: true})
	want := "<code>line1line2</code>\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestRenderedComment(t *testing.T) {
	got := mustRender(t, "// note\np after\n", codegen.Options{})
	want := "<!-- note--><p>after</p>"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPipeTextLines(t *testing.T) {
	got := mustRender(t, "p\n  | one\n  | two\n", codegen.Options{})
	want := "<p>onetwo</p>"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestMixinEndToEnd(t *testing.T) {
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Values: map[string]string{"target": "/docs"},
	}}
	got := mustRender(t,
		"mixin link(href, label)\n  a(href=href)= label\n+link(target, 'Docs')\n", opts)
	want := `<a href="/docs">Docs</a>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestDeterministicOutput(t *testing.T) {
	input := "div.a(data-x='1', data-y='2')\n  p #{x} and #[b bold]\n"
	opts := codegen.Options{Lookup: codegen.MapLookup{
		Values: map[string]string{"x": "v"},
	}, Pretty: true}
	first := mustRender(t, input, opts)
	for i := 0; i < 5; i++ {
		if again := mustRender(t, input, opts); again != first {
			t.Fatalf("run %d differs:\n%q\n%q", i, first, again)
		}
	}
}
