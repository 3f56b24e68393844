package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"plume/internal/diag"
	"plume/internal/lexer"
	"plume/internal/source"
	"plume/internal/token"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("p text #{name\n")
	fileID := fs.AddVirtual("views/test.plume", content)

	bag := diag.NewBag(10)
	rep := diag.BagReporter{Bag: bag}
	rep.Report(diag.LexUnterminatedInterpolation, diag.SevError,
		source.Span{File: fileID, Start: 7, End: 13},
		"interpolation is missing its closing '}'",
		"interpolations must close on the same line", nil)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeHints:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}

	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("expected one diagnostic, got count=%d len=%d",
			output.Count, len(output.Diagnostics))
	}

	d := output.Diagnostics[0]
	if d.Severity != "error" {
		t.Errorf("severity = %q, want error", d.Severity)
	}
	if d.Code != "LEX1003" {
		t.Errorf("code = %q, want LEX1003", d.Code)
	}
	if d.Location.File != "test.plume" {
		t.Errorf("file = %q, want test.plume", d.Location.File)
	}
	if d.Location.StartByte != 7 || d.Location.EndByte != 13 {
		t.Errorf("bytes = %d..%d, want 7..13", d.Location.StartByte, d.Location.EndByte)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 8 {
		t.Errorf("position = %d:%d, want 1:8", d.Location.StartLine, d.Location.StartCol)
	}
	if d.Hint == "" {
		t.Error("hint missing despite IncludeHints")
	}
}

func TestJSONMaxTruncates(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.plume", []byte("p one\n"))

	bag := diag.NewBag(10)
	rep := diag.BagReporter{Bag: bag}
	for range 3 {
		rep.Report(diag.SynUnexpectedToken, diag.SevError,
			source.Span{File: fileID, Start: 0, End: 1}, "boom", "", nil)
	}

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if output.Count != 2 || len(output.Diagnostics) != 2 {
		t.Errorf("count = %d len = %d, want 2", output.Count, len(output.Diagnostics))
	}
	if bag.Len() != 3 {
		t.Errorf("bag mutated: len = %d, want 3", bag.Len())
	}
}

func TestJSONHintsOmitted(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.plume", []byte("p one\n"))

	bag := diag.NewBag(4)
	rep := diag.BagReporter{Bag: bag}
	rep.Report(diag.SynUnexpectedToken, diag.SevError,
		source.Span{File: fileID, Start: 0, End: 1}, "boom", "try removing it", nil)

	output := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if output.Diagnostics[0].Hint != "" {
		t.Errorf("hint = %q, want empty without IncludeHints", output.Diagnostics[0].Hint)
	}
}

func TestFormatTokensJSON(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("tok.plume", []byte("p hi\n")))

	bag := diag.NewBag(4)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	toks := lx.Tokenize()
	if lx.Failed() {
		t.Fatalf("lexer failed: %+v", bag.Items())
	}

	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatalf("FormatTokensJSON() error: %v", err)
	}

	var output []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if len(output) == 0 {
		t.Fatal("no tokens emitted")
	}
	if output[0].Kind != token.Tag.String() {
		t.Errorf("first token = %q, want %q", output[0].Kind, token.Tag.String())
	}
	if output[len(output)-1].Kind != token.EOF.String() {
		t.Errorf("last token = %q, want EOF", output[len(output)-1].Kind)
	}
}

func TestFormatTokensPretty(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("tok.plume", []byte("p hi\n")))

	bag := diag.NewBag(4)
	lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	toks := lx.Tokenize()

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatalf("FormatTokensPretty() error: %v", err)
	}
	got := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte(`"p"`)) {
		t.Errorf("token text missing:\n%s", got)
	}
	if !bytes.Contains(buf.Bytes(), []byte("at 1:1-1:2")) {
		t.Errorf("token position missing:\n%s", got)
	}
}
