package driver

import (
	"plume/internal/diag"
	"plume/internal/lexer"
	"plume/internal/source"
	"plume/internal/token"
)

// TokenizeResult carries the raw token stream of one file.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize scans one template file and returns its token stream. The
// stream is unfiltered: comment tokens are kept so the dump shows what
// the scanner actually produced.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeFile(fs, fileID, maxDiagnostics), nil
}

// TokenizeContent scans in-memory template bytes (stdin, tests).
func TokenizeContent(name string, content []byte, maxDiagnostics int) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenizeFile(fs, fs.AddVirtual(name, content), maxDiagnostics)
}

func tokenizeFile(fs *source.FileSet, fileID source.FileID, maxDiagnostics int) *TokenizeResult {
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)

	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	tokens := lx.Tokenize()

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}
}
