package driver

import (
	"plume/internal/ast"
	"plume/internal/diag"
	"plume/internal/lexer"
	"plume/internal/parser"
	"plume/internal/source"
)

// ParseResult carries the parsed document of one file. Includes and
// extends are left unresolved; use Compile for the full pipeline.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	Doc     ast.NodeID
	Bag     *diag.Bag
}

// Parse tokenizes and parses one template file.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return parseFile(fs, fileID, maxDiagnostics), nil
}

// ParseContent parses in-memory template bytes.
func ParseContent(name string, content []byte, maxDiagnostics int) *ParseResult {
	fs := source.NewFileSet()
	return parseFile(fs, fs.AddVirtual(name, content), maxDiagnostics)
}

func parseFile(fs *source.FileSet, fileID source.FileID, maxDiagnostics int) *ParseResult {
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	rep := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(0)

	res := &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		Doc:     ast.NoNodeID,
		Bag:     bag,
	}

	lx := lexer.New(file, lexer.Options{Reporter: rep})
	toks := lx.Tokenize()
	if lx.Failed() {
		return res
	}
	toks = lexer.FilterComments(toks, lexer.DefaultFilterOptions())

	p := parser.New(toks, builder, parser.Options{Reporter: rep, Files: fs})
	doc := p.ParseDocument()
	if p.Failed() {
		return res
	}
	res.Doc = doc
	return res
}
