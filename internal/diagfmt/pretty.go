package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"plume/internal/diag"
	"plume/internal/source"
)

// Pretty renders diagnostics in a human-readable form. It walks
// bag.Items() in order (call bag.Sort() beforehand). Each diagnostic
// prints as:
//
//	<severity>[CODE]: <message>
//	 --> <path>:<line>:<col>
//	  N | <source line>
//	    | ^~~~
//	  = hint: <hint>
//
// followed by its notes in the same shape.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	for i := range maxItems {
		if i > 0 {
			fmt.Fprintln(w)
		}
		d := &items[i]

		head := severityColor(d.Severity, opts.Color)
		fmt.Fprintf(w, "%s[%s]: %s\n",
			head.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
		writeLocation(w, fs, d.Primary, opts)
		writeSnippet(w, fs, d.Primary, opts)

		if opts.ShowHints && d.Hint != "" {
			fmt.Fprintf(w, "  = hint: %s\n", d.Hint)
		}
		if opts.ShowNotes {
			for _, note := range d.Notes {
				fmt.Fprintf(w, "  = note: %s\n", note.Msg)
				writeLocation(w, fs, note.Span, opts)
			}
		}
	}

	if dropped := len(items) - maxItems; dropped > 0 {
		fmt.Fprintf(w, "... and %d more\n", dropped)
	}
}

// Short renders one diagnostic per line: path:line:col: severity[CODE]: message.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}
	for i := range maxItems {
		d := &items[i]
		start, _ := fs.Resolve(d.Primary)
		head := severityColor(d.Severity, opts.Color)
		fmt.Fprintf(w, "%s:%d:%d: %s[%s]: %s\n",
			formatPath(fs, d.Primary.File, opts.PathMode),
			start.Line, start.Col,
			head.Sprint(d.Severity.String()), d.Code.ID(), d.Message)
	}
}

func writeLocation(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	start, _ := fs.Resolve(sp)
	fmt.Fprintf(w, " --> %s:%d:%d\n",
		formatPath(fs, sp.File, opts.PathMode), start.Line, start.Col)
}

// writeSnippet prints the first line a span touches with a caret run
// underneath. Alignment uses display widths, so wide runes in the source
// do not skew the underline.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	start, end := fs.Resolve(sp)
	f := fs.Get(sp.File)
	line := f.GetLine(start.Line)
	if line == "" && start.Col > 1 {
		return
	}

	startCol := int(start.Col)
	endCol := len(line) + 1
	if end.Line == start.Line && int(end.Col) > startCol {
		endCol = int(end.Col)
	}
	if startCol > len(line)+1 {
		startCol = len(line) + 1
	}
	if endCol > len(line)+1 {
		endCol = len(line) + 1
	}

	prefix := expandTabs(line[:startCol-1])
	marked := expandTabs(line[startCol-1 : endCol-1])

	markWidth := runewidth.StringWidth(marked)
	if markWidth < 1 {
		markWidth = 1
	}
	underline := "^" + strings.Repeat("~", markWidth-1)
	if opts.Color {
		underline = severityColor(diag.SevError, true).Sprint(underline)
	}

	gutter := fmt.Sprintf("%d", start.Line)
	pad := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(w, "  %s | %s\n", gutter, expandTabs(line))
	fmt.Fprintf(w, "  %s | %s%s\n", pad,
		strings.Repeat(" ", runewidth.StringWidth(prefix)), underline)
}

// expandTabs keeps the snippet and its underline on the same grid.
func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func severityColor(sev diag.Severity, enabled bool) *color.Color {
	var c *color.Color
	switch sev {
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan)
	}
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.Path
	}
}
