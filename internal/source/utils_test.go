package source

import (
	"bytes"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		changed bool
	}{
		{"no carriage returns", "p Hello\n", "p Hello\n", false},
		{"crlf pairs", "div\r\n  p Hi\r\n", "div\n  p Hi\n", true},
		{"lone cr untouched", "a\rb", "a\rb", false},
		{"mixed", "a\r\nb\rc", "a\nb\rc", true},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := normalizeCRLF([]byte(tt.in))
			if !bytes.Equal(got, []byte(tt.want)) {
				t.Errorf("normalizeCRLF(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if changed != tt.changed {
				t.Errorf("normalizeCRLF(%q) changed = %v, want %v", tt.in, changed, tt.changed)
			}
		})
	}
}

func TestRemoveBOM(t *testing.T) {
	in := []byte{0xEF, 0xBB, 0xBF, 'p'}
	got, had := removeBOM(in)
	if !had || !bytes.Equal(got, []byte("p")) {
		t.Errorf("removeBOM: got %q had=%v", got, had)
	}

	got, had = removeBOM([]byte("p"))
	if had || !bytes.Equal(got, []byte("p")) {
		t.Errorf("removeBOM without BOM: got %q had=%v", got, had)
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("div\n  p Hi\nbr\n")
	idx := buildLineIndex(content)

	tests := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},   // 'd'
		{3, 1, 4},   // '\n' stays on line 1
		{4, 2, 1},   // ' '
		{6, 2, 3},   // 'p'
		{11, 3, 1},  // 'b'
		{13, 3, 3},  // trailing '\n'
		{14, 4, 1},  // EOF position
	}

	for _, tt := range tests {
		got := toLineCol(idx, tt.off)
		if got.Line != tt.line || got.Col != tt.col {
			t.Errorf("toLineCol(%d) = %d:%d, want %d:%d", tt.off, got.Line, got.Col, tt.line, tt.col)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.plume", []byte("div\n  p Hi\nbr"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "div" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := f.GetLine(2); got != "  p Hi" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "br" {
		t.Errorf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("GetLine(4) = %q, want empty", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	c := a.Cover(b)
	if c.Start != 2 || c.End != 8 {
		t.Errorf("Cover = %v", c)
	}

	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files = %v, want %v", got, a)
	}
}
