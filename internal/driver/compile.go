package driver

import (
	"plume/internal/ast"
	"plume/internal/codegen"
	"plume/internal/diag"
	"plume/internal/lexer"
	"plume/internal/linker"
	"plume/internal/loader"
	"plume/internal/mixin"
	"plume/internal/source"
)

// DefaultMaxDiagnostics bounds the bag when the caller does not.
const DefaultMaxDiagnostics = 64

// Options configure one compilation.
type Options struct {
	// Basedir bounds include and extends resolution. Defaults to the
	// entry file's directory.
	Basedir string
	// Reader supplies template bytes; defaults to the local filesystem.
	Reader loader.FileReader
	// Filter selects which comment flavors survive tokenization. The
	// zero value keeps rendered comments and strips silent ones.
	Filter lexer.FilterOptions
	// Lookup resolves template expressions; nil leaves identifiers
	// unresolved.
	Lookup codegen.Lookup
	// Pretty emits indented output with one block node per line.
	Pretty bool
	// Indent is the pretty-print unit, two spaces by default.
	Indent string
	// Doctype applies when the document declares none.
	Doctype string
	// MaxMixinDepth caps nested mixin expansion when positive.
	MaxMixinDepth  int
	MaxDiagnostics int
	// Observer receives per-stage progress events; nil disables them.
	Observer Observer
}

// Result is the outcome of one compilation. HTML is valid only when Ok
// is true; on failure the Bag holds the diagnostic.
type Result struct {
	HTML    string
	Ok      bool
	FileSet *source.FileSet
	Bag     *diag.Bag
}

// Compile runs the full pipeline on the template rooted at path:
// load (with includes and inheritance), link, expand mixins, generate.
func Compile(path string, opts Options) *Result {
	return compile(path, opts, func(ld *loader.Loader) (loader.Result, bool) {
		return ld.Load(path)
	})
}

// CompileContent compiles in-memory template bytes. Includes and extends
// resolve against opts.Basedir.
func CompileContent(name string, content []byte, opts Options) *Result {
	return compile(name, opts, func(ld *loader.Loader) (loader.Result, bool) {
		return ld.LoadContent(name, content)
	})
}

func compile(name string, opts Options, load func(*loader.Loader) (loader.Result, bool)) *Result {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = DefaultMaxDiagnostics
	}
	fs := source.NewFileSetWithBase(opts.Basedir)
	bag := diag.NewBag(opts.MaxDiagnostics)
	rep := diag.BagReporter{Bag: bag}
	res := &Result{FileSet: fs, Bag: bag}

	builder := ast.NewBuilder(0)
	ld := loader.New(fs, builder, loader.Options{
		Reporter: rep,
		Basedir:  opts.Basedir,
		Reader:   opts.Reader,
		Filter:   opts.Filter,
	})
	opts.Observer.emit(name, StageLoad, StatusWorking)
	loaded, ok := load(ld)
	if !ok {
		opts.Observer.emit(name, StageLoad, StatusError)
		return res
	}

	opts.Observer.emit(name, StageLink, StatusWorking)
	doc, ok := linker.Link(builder, loaded.Chain, linker.Options{Reporter: rep})
	if !ok {
		opts.Observer.emit(name, StageLink, StatusError)
		return res
	}

	opts.Observer.emit(name, StageExpand, StatusWorking)
	reg := mixin.Collect(builder, doc)
	if !mixin.Expand(builder, doc, reg, mixin.Options{Reporter: rep, MaxDepth: opts.MaxMixinDepth}) {
		opts.Observer.emit(name, StageExpand, StatusError)
		return res
	}

	opts.Observer.emit(name, StageGenerate, StatusWorking)
	html, ok := codegen.Generate(builder, doc, codegen.Options{
		Reporter: rep,
		Lookup:   opts.Lookup,
		Pretty:   opts.Pretty,
		Indent:   opts.Indent,
		Doctype:  opts.Doctype,
	})
	if !ok {
		opts.Observer.emit(name, StageGenerate, StatusError)
		return res
	}

	res.HTML = html
	res.Ok = true
	opts.Observer.emit(name, StageGenerate, StatusDone)
	return res
}
