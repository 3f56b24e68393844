package diag

import (
	"plume/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one reported problem with source context.
// Hint carries the optional "= hint:" line of the rendered form.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Hint     string
	Notes    []Note
}
