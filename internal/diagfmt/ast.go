package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"plume/internal/ast"
	"plume/internal/source"
)

// ASTNodeOutput is one node in the JSON AST dump.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
}

// FormatASTTree prints the document as a box-drawing tree, the shape the
// `plume parse` command shows by default.
func FormatASTTree(w io.Writer, b *ast.Builder, doc ast.NodeID, fs *source.FileSet) error {
	if doc == ast.NoNodeID {
		return fmt.Errorf("no document")
	}
	fmt.Fprintf(w, "Document (%s)\n", formatSpan(b.Node(doc).Span, fs))
	nodes := b.Document(doc).Nodes
	for i, id := range nodes {
		writeTreeNode(w, b, fs, id, "", i == len(nodes)-1)
	}
	return nil
}

func writeTreeNode(w io.Writer, b *ast.Builder, fs *source.FileSet, id ast.NodeID, prefix string, last bool) {
	branch, childPrefix := "├─ ", prefix+"│  "
	if last {
		branch, childPrefix = "└─ ", prefix+"   "
	}
	fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLabel(b, id))

	groups := childGroups(b, id)
	total := 0
	for _, g := range groups {
		if g.name != "" {
			total++
		} else {
			total += len(g.ids)
		}
	}
	n := 0
	for _, g := range groups {
		if g.name != "" {
			n++
			gb, gp := "├─ ", childPrefix+"│  "
			if n == total {
				gb, gp = "└─ ", childPrefix+"   "
			}
			fmt.Fprintf(w, "%s%s%s\n", childPrefix, gb, g.name)
			for i, cid := range g.ids {
				writeTreeNode(w, b, fs, cid, gp, i == len(g.ids)-1)
			}
			continue
		}
		for _, cid := range g.ids {
			n++
			writeTreeNode(w, b, fs, cid, childPrefix, n == total)
		}
	}
}

// childGroup is a named slice of children; an empty name inlines the
// children directly under the parent.
type childGroup struct {
	name string
	ids  []ast.NodeID
}

func childGroups(b *ast.Builder, id ast.NodeID) []childGroup {
	switch b.Kind(id) {
	case ast.NodeConditional:
		c := b.Conditional(id)
		groups := make([]childGroup, 0, len(c.Branches))
		for i := range c.Branches {
			br := &c.Branches[i]
			name := "else"
			switch {
			case br.Condition != "" && br.IsUnless:
				name = fmt.Sprintf("unless %s", br.Condition)
			case br.Condition != "":
				name = fmt.Sprintf("if %s", br.Condition)
			}
			groups = append(groups, childGroup{name: name, ids: br.Children})
		}
		return groups
	case ast.NodeEach:
		e := b.Each(id)
		groups := []childGroup{{ids: e.Children}}
		if len(e.ElseChildren) > 0 {
			groups = append(groups, childGroup{name: "else", ids: e.ElseChildren})
		}
		return groups
	case ast.NodeCase:
		c := b.Case(id)
		groups := make([]childGroup, 0, len(c.Whens)+1)
		for i := range c.Whens {
			name := fmt.Sprintf("when %s", c.Whens[i].Value)
			if c.Whens[i].HasBreak {
				name += " (break)"
			}
			groups = append(groups, childGroup{name: name, ids: c.Whens[i].Children})
		}
		if len(c.DefaultChildren) > 0 {
			groups = append(groups, childGroup{name: "default", ids: c.DefaultChildren})
		}
		return groups
	default:
		if kids := b.Children(id); len(kids) > 0 {
			return []childGroup{{ids: kids}}
		}
		return nil
	}
}

func nodeLabel(b *ast.Builder, id ast.NodeID) string {
	kind := b.Kind(id)
	switch kind {
	case ast.NodeDoctype:
		return fmt.Sprintf("Doctype %q", b.Doctype(id).Value)
	case ast.NodeElement:
		return "Element " + elementSignature(b.Element(id))
	case ast.NodeText:
		return "Text " + segmentsPreview(b.Text(id).Segments)
	case ast.NodeRawText:
		return fmt.Sprintf("RawText (%d bytes)", len(b.RawText(id).Content))
	case ast.NodeCode:
		c := b.Code(id)
		if c.Buffered {
			return fmt.Sprintf("Code = %s", c.Expr)
		}
		return fmt.Sprintf("Code - %s", c.Expr)
	case ast.NodeComment:
		c := b.Comment(id)
		if c.Rendered {
			return fmt.Sprintf("Comment %q", c.Content)
		}
		return fmt.Sprintf("Comment (silent) %q", c.Content)
	case ast.NodeConditional:
		return "Conditional"
	case ast.NodeEach:
		e := b.Each(id)
		if e.IndexName != "" {
			return fmt.Sprintf("Each %s, %s in %s", e.ValueName, e.IndexName, e.Collection)
		}
		return fmt.Sprintf("Each %s in %s", e.ValueName, e.Collection)
	case ast.NodeWhile:
		return fmt.Sprintf("While %s", b.While(id).Condition)
	case ast.NodeCase:
		return fmt.Sprintf("Case %s", b.Case(id).Expr)
	case ast.NodeMixinDef:
		m := b.MixinDef(id)
		return fmt.Sprintf("MixinDef %s(%s)", m.Name, paramsSignature(m))
	case ast.NodeMixinCall:
		m := b.MixinCall(id)
		return fmt.Sprintf("MixinCall +%s(%s)", m.Name, strings.Join(m.Args, ", "))
	case ast.NodeMixinBlock:
		return "MixinBlock"
	case ast.NodeInclude:
		inc := b.Include(id)
		if inc.Filter != "" {
			return fmt.Sprintf("Include :%s %s", inc.Filter, inc.Path)
		}
		return fmt.Sprintf("Include %s", inc.Path)
	case ast.NodeExtends:
		return fmt.Sprintf("Extends %s", b.Extends(id).Path)
	case ast.NodeBlock:
		bl := b.Block(id)
		if bl.Mode != ast.BlockReplace {
			return fmt.Sprintf("Block %s (%s)", bl.Name, bl.Mode)
		}
		return fmt.Sprintf("Block %s", bl.Name)
	default:
		return kind.String()
	}
}

func elementSignature(el *ast.Element) string {
	var sb strings.Builder
	sb.WriteString(el.Tag)
	for _, c := range el.Classes {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	if el.ID != "" {
		sb.WriteByte('#')
		sb.WriteString(el.ID)
	}
	if len(el.Attrs) > 0 {
		fmt.Fprintf(&sb, " (%d attrs)", len(el.Attrs))
	}
	if el.SelfClosing {
		sb.WriteString(" self-closing")
	}
	return sb.String()
}

func paramsSignature(m *ast.MixinDef) string {
	parts := make([]string, 0, len(m.Params)+1)
	for _, p := range m.Params {
		if p.HasDefault {
			parts = append(parts, p.Name+"="+p.Default)
			continue
		}
		parts = append(parts, p.Name)
	}
	if m.HasRest {
		parts = append(parts, "..."+m.RestName)
	}
	return strings.Join(parts, ", ")
}

const previewLimit = 40

func segmentsPreview(segs []ast.TextSegment) string {
	var sb strings.Builder
	for _, seg := range segs {
		switch seg.Kind {
		case ast.SegLiteral:
			sb.WriteString(seg.Text)
		case ast.SegInterpEscaped:
			sb.WriteString("#{" + seg.Text + "}")
		case ast.SegInterpUnescaped:
			sb.WriteString("!{" + seg.Text + "}")
		case ast.SegInterpTag:
			sb.WriteString("#[...]")
		}
	}
	s := sb.String()
	if len(s) > previewLimit {
		s = s[:previewLimit] + "…"
	}
	return fmt.Sprintf("%q", s)
}

func formatSpan(sp source.Span, fs *source.FileSet) string {
	start, end := fs.Resolve(sp)
	return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

// BuildASTJSON assembles the JSON AST without serializing it.
func BuildASTJSON(b *ast.Builder, doc ast.NodeID) (ASTNodeOutput, error) {
	if doc == ast.NoNodeID {
		return ASTNodeOutput{}, fmt.Errorf("no document")
	}
	return buildJSONNode(b, doc), nil
}

// FormatASTJSON writes the document as an indented JSON tree.
func FormatASTJSON(w io.Writer, b *ast.Builder, doc ast.NodeID) error {
	root, err := BuildASTJSON(b, doc)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

func buildJSONNode(b *ast.Builder, id ast.NodeID) ASTNodeOutput {
	n := b.Node(id)
	out := ASTNodeOutput{Type: n.Kind.String(), Span: n.Span}

	switch n.Kind {
	case ast.NodeDoctype:
		out.Text = b.Doctype(id).Value
	case ast.NodeElement:
		el := b.Element(id)
		out.Text = el.Tag
		out.Fields = map[string]any{}
		if len(el.Classes) > 0 {
			out.Fields["classes"] = el.Classes
		}
		if el.ID != "" {
			out.Fields["id"] = el.ID
		}
		if len(el.Attrs) > 0 {
			attrs := make(map[string]string, len(el.Attrs))
			for _, a := range el.Attrs {
				attrs[a.Name] = a.Value
			}
			out.Fields["attrs"] = attrs
		}
		if el.SelfClosing {
			out.Fields["self_closing"] = true
		}
		if el.BufferedCode != "" {
			out.Fields["code"] = el.BufferedCode
		}
		if len(out.Fields) == 0 {
			out.Fields = nil
		}
	case ast.NodeText:
		out.Text = segmentsPreview(b.Text(id).Segments)
	case ast.NodeRawText:
		out.Text = b.RawText(id).Content
	case ast.NodeCode:
		c := b.Code(id)
		out.Text = c.Expr
		out.Fields = map[string]any{"buffered": c.Buffered, "escaped": c.Escaped}
	case ast.NodeComment:
		c := b.Comment(id)
		out.Text = c.Content
		out.Fields = map[string]any{"rendered": c.Rendered}
	case ast.NodeEach:
		e := b.Each(id)
		out.Fields = map[string]any{"value": e.ValueName, "collection": e.Collection}
		if e.IndexName != "" {
			out.Fields["index"] = e.IndexName
		}
	case ast.NodeWhile:
		out.Text = b.While(id).Condition
	case ast.NodeCase:
		out.Text = b.Case(id).Expr
	case ast.NodeMixinDef:
		m := b.MixinDef(id)
		out.Text = m.Name
		out.Fields = map[string]any{"params": paramsSignature(m)}
	case ast.NodeMixinCall:
		m := b.MixinCall(id)
		out.Text = m.Name
		if len(m.Args) > 0 {
			out.Fields = map[string]any{"args": m.Args}
		}
	case ast.NodeInclude:
		inc := b.Include(id)
		out.Text = inc.Path
		if inc.Filter != "" {
			out.Fields = map[string]any{"filter": inc.Filter}
		}
	case ast.NodeExtends:
		out.Text = b.Extends(id).Path
	case ast.NodeBlock:
		bl := b.Block(id)
		out.Text = bl.Name
		out.Fields = map[string]any{"mode": bl.Mode.String()}
	}

	for _, g := range childGroups(b, id) {
		for _, cid := range g.ids {
			child := buildJSONNode(b, cid)
			if g.name != "" {
				if child.Fields == nil {
					child.Fields = map[string]any{}
				}
				child.Fields["branch"] = g.name
			}
			out.Children = append(out.Children, child)
		}
	}
	return out
}
