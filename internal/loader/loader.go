package loader

import (
	"path/filepath"
	"strings"

	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/lexer"
	"plume/internal/linker"
	"plume/internal/parser"
	"plume/internal/source"
)

// DefaultExt is appended to include and extends paths written without an
// extension.
const DefaultExt = ".plume"

// Options configure one Loader.
type Options struct {
	// Reporter receives the single fatal diagnostic; nil drops it.
	Reporter diag.Reporter
	// Basedir bounds include and extends resolution; a path resolving
	// outside it is rejected. Defaults to the entry file's directory.
	Basedir string
	// Reader supplies template bytes; defaults to the local filesystem.
	Reader FileReader
	// Filter selects which comment flavors survive tokenization.
	Filter lexer.FilterOptions
}

// Result is a fully loaded template: every include spliced in, and the
// inheritance chain collected root ancestor first, entry document last.
type Result struct {
	Chain []ast.NodeID
}

// Loader reads, parses and splices template files. The first error is
// fatal; the loader stops and Failed reports true.
type Loader struct {
	fs   *source.FileSet
	b    *ast.Builder
	opts Options

	stack  []string              // active include chain, canonical paths
	docs   map[string]ast.NodeID // finished documents by canonical path
	failed bool
}

// New creates a Loader allocating into builder and registering files
// with fileSet.
func New(fileSet *source.FileSet, builder *ast.Builder, opts Options) *Loader {
	if opts.Reader == nil {
		opts.Reader = OSReader{}
	}
	return &Loader{
		fs:   fileSet,
		b:    builder,
		opts: opts,
		docs: make(map[string]ast.NodeID),
	}
}

// Failed reports whether a fatal diagnostic was emitted.
func (l *Loader) Failed() bool {
	return l.failed
}

// Load loads the template rooted at entryPath.
func (l *Loader) Load(entryPath string) (Result, bool) {
	abs := canonical(entryPath)
	if l.opts.Basedir == "" {
		l.opts.Basedir = filepath.Dir(abs)
	}
	doc := l.loadFile(abs, source.Span{})
	if l.failed {
		return Result{}, false
	}
	return l.buildChain(doc)
}

// LoadContent loads an in-memory template (stdin, tests). Includes and
// extends resolve against Basedir.
func (l *Loader) LoadContent(name string, content []byte) (Result, bool) {
	fileID := l.fs.AddVirtual(name, content)
	doc := l.parseFile(fileID)
	if l.failed {
		return Result{}, false
	}
	l.resolveIncludes(doc, l.opts.Basedir)
	if l.failed {
		return Result{}, false
	}
	return l.buildChain(doc)
}

// loadFile loads one file, resolves its includes and caches the result.
// at is the span of the include or extends line that asked for it.
func (l *Loader) loadFile(path string, at source.Span) ast.NodeID {
	for _, open := range l.stack {
		if open == path {
			l.failWithHint(diag.LodIncludeCycle, at,
				"include cycle through "+filepath.Base(path),
				"chain: "+strings.Join(l.stack, " -> "))
			return ast.NoNodeID
		}
	}
	if doc, ok := l.docs[path]; ok {
		// a file spliced twice must not share nodes
		return l.b.CloneSubtree(doc)
	}

	content, err := l.opts.Reader.ReadFile(path)
	if err != nil {
		if IsNotFound(err) {
			l.fail(diag.LodFileNotFound, at, "file not found: "+path)
		} else {
			l.fail(diag.LodReadError, at, "cannot read "+path+": "+err.Error())
		}
		return ast.NoNodeID
	}

	fileID := l.fs.AddBytes(path, content)
	doc := l.parseFile(fileID)
	if l.failed {
		return ast.NoNodeID
	}

	l.stack = append(l.stack, path)
	l.resolveIncludes(doc, filepath.Dir(path))
	l.stack = l.stack[:len(l.stack)-1]
	if l.failed {
		return ast.NoNodeID
	}

	l.docs[path] = doc
	return doc
}

// parseFile tokenizes and parses a registered file.
func (l *Loader) parseFile(fileID source.FileID) ast.NodeID {
	file := l.fs.Get(fileID)

	lx := lexer.New(file, lexer.Options{Reporter: l.opts.Reporter})
	toks := lx.Tokenize()
	if lx.Failed() {
		l.failed = true
		return ast.NoNodeID
	}
	toks = lexer.FilterComments(toks, l.opts.Filter)

	p := parser.New(toks, l.b, parser.Options{Reporter: l.opts.Reporter, Files: l.fs})
	doc := p.ParseDocument()
	if p.Failed() {
		l.failed = true
		return ast.NoNodeID
	}
	return doc
}

// buildChain follows extends links from entry upward and returns the
// chain root ancestor first.
func (l *Loader) buildChain(entry ast.NodeID) (Result, bool) {
	chain := []ast.NodeID{entry}
	seen := map[string]bool{l.docPath(entry): true}

	cur := entry
	for {
		doc := l.b.Document(cur)
		if doc.ExtendsPath == "" {
			break
		}
		target := l.resolveTarget(l.docDir(cur), doc.ExtendsPath, doc.ExtendsSpan)
		if l.failed {
			return Result{}, false
		}
		if seen[target] {
			l.failWithHint(diag.LodIncludeCycle, doc.ExtendsSpan,
				"inheritance cycle through "+filepath.Base(target),
				"a template may not extend one of its own descendants")
			return Result{}, false
		}
		seen[target] = true

		parent := l.loadFile(target, doc.ExtendsSpan)
		if l.failed {
			return Result{}, false
		}
		chain = append([]ast.NodeID{parent}, chain...)
		cur = parent
	}
	return Result{Chain: chain}, true
}

// resolveIncludes rewrites every Include node under doc into the loaded
// target's content. dir anchors relative paths.
func (l *Loader) resolveIncludes(doc ast.NodeID, dir string) {
	d := l.b.Document(doc)
	d.Nodes = l.resolveList(d.Nodes, dir)
}

func (l *Loader) resolveList(nodes []ast.NodeID, dir string) []ast.NodeID {
	out := make([]ast.NodeID, 0, len(nodes))
	for _, id := range nodes {
		if l.failed {
			return nil
		}
		if l.b.Kind(id) != ast.NodeInclude {
			l.resolveChildren(id, dir)
			out = append(out, id)
			continue
		}

		inc := l.b.Include(id)
		span := l.b.Node(id).Span
		target := l.resolveTarget(dir, inc.Path, span)
		if l.failed {
			return nil
		}

		if inc.Filter != "" {
			// filtered includes inline the target verbatim
			content, err := l.opts.Reader.ReadFile(target)
			if err != nil {
				if IsNotFound(err) {
					l.fail(diag.LodFileNotFound, span, "file not found: "+target)
				} else {
					l.fail(diag.LodReadError, span, "cannot read "+target+": "+err.Error())
				}
				return nil
			}
			out = append(out, l.b.NewRawText(span, ast.RawText{Content: string(content)}))
			continue
		}

		sub := l.loadFile(target, span)
		if l.failed {
			return nil
		}
		if l.b.Document(sub).ExtendsPath != "" {
			sub = l.linkInclude(sub)
			if l.failed {
				return nil
			}
		}
		for _, n := range l.b.Document(sub).Nodes {
			// the chain has been folded in by now
			if l.b.Kind(n) == ast.NodeExtends {
				continue
			}
			out = append(out, n)
		}
	}
	return out
}

// linkInclude folds an included file's own inheritance chain into one
// document, so the splice carries the fully merged content.
func (l *Loader) linkInclude(doc ast.NodeID) ast.NodeID {
	res, ok := l.buildChain(doc)
	if !ok {
		return ast.NoNodeID
	}
	// the merge mutates the chain root in place; clone it so the cached
	// ancestor document stays pristine for other splices
	chain := append([]ast.NodeID{}, res.Chain...)
	chain[0] = l.b.CloneSubtree(chain[0])
	linked, ok := linker.Link(l.b, chain, linker.Options{Reporter: l.opts.Reporter})
	if !ok {
		l.failed = true
		return ast.NoNodeID
	}
	return linked
}

// resolveChildren descends into every child list a node kind owns.
func (l *Loader) resolveChildren(id ast.NodeID, dir string) {
	switch l.b.Kind(id) {
	case ast.NodeElement:
		e := l.b.Element(id)
		e.Children = l.resolveList(e.Children, dir)
	case ast.NodeCode:
		c := l.b.Code(id)
		c.Children = l.resolveList(c.Children, dir)
	case ast.NodeComment:
		c := l.b.Comment(id)
		c.Children = l.resolveList(c.Children, dir)
	case ast.NodeConditional:
		c := l.b.Conditional(id)
		for i := range c.Branches {
			c.Branches[i].Children = l.resolveList(c.Branches[i].Children, dir)
		}
	case ast.NodeEach:
		e := l.b.Each(id)
		e.Children = l.resolveList(e.Children, dir)
		e.ElseChildren = l.resolveList(e.ElseChildren, dir)
	case ast.NodeWhile:
		w := l.b.While(id)
		w.Children = l.resolveList(w.Children, dir)
	case ast.NodeCase:
		c := l.b.Case(id)
		for i := range c.Whens {
			c.Whens[i].Children = l.resolveList(c.Whens[i].Children, dir)
		}
		c.DefaultChildren = l.resolveList(c.DefaultChildren, dir)
	case ast.NodeMixinDef:
		m := l.b.MixinDef(id)
		m.Children = l.resolveList(m.Children, dir)
	case ast.NodeMixinCall:
		m := l.b.MixinCall(id)
		m.BlockChildren = l.resolveList(m.BlockChildren, dir)
	case ast.NodeBlock:
		bl := l.b.Block(id)
		bl.Children = l.resolveList(bl.Children, dir)
	}
}

// resolveTarget turns a template-relative path into a canonical one,
// appending DefaultExt when missing and rejecting basedir escapes.
func (l *Loader) resolveTarget(dir, rel string, at source.Span) string {
	if filepath.Ext(rel) == "" {
		rel += DefaultExt
	}
	var target string
	if strings.HasPrefix(rel, "/") {
		// rooted paths resolve against the base directory
		target = filepath.Join(l.opts.Basedir, rel[1:])
	} else {
		target = filepath.Join(dir, rel)
	}
	target = canonical(target)

	if l.opts.Basedir != "" {
		relToBase, err := filepath.Rel(canonical(l.opts.Basedir), target)
		if err != nil || relToBase == ".." || strings.HasPrefix(relToBase, ".."+string(filepath.Separator)) {
			l.failWithHint(diag.LodPathEscape, at,
				"path "+rel+" resolves outside the template root",
				"keep includes inside "+l.opts.Basedir)
			return ""
		}
	}
	return target
}

// docPath returns the canonical path of the file doc was parsed from.
func (l *Loader) docPath(doc ast.NodeID) string {
	return l.fs.Get(l.b.Node(doc).Span.File).Path
}

// docDir anchors relative paths written in doc's file. Virtual files
// anchor at the base directory.
func (l *Loader) docDir(doc ast.NodeID) string {
	f := l.fs.Get(l.b.Node(doc).Span.File)
	if f.Flags&source.FileVirtual != 0 {
		return l.opts.Basedir
	}
	return filepath.Dir(f.Path)
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (l *Loader) fail(code diag.Code, sp source.Span, msg string) {
	if !l.failed {
		diag.Error(l.opts.Reporter, code, sp, msg)
		l.failed = true
	}
}

func (l *Loader) failWithHint(code diag.Code, sp source.Span, msg, hint string) {
	if !l.failed {
		diag.ErrorWithHint(l.opts.Reporter, code, sp, msg, hint)
		l.failed = true
	}
}
