package diag

import "plume/internal/source"

// Reporter is the minimal contract for receiving diagnostics from phases.
// Implementations: BagReporter (stores into a Bag), NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg, hint string, notes []Note)
}

// BagReporter writes every report into a *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg, hint string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Hint: hint, Notes: notes,
	})
}

// NopReporter discards every report.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, string, []Note) {}

// Error is a convenience for the common fail-fast error report.
func Error(r Reporter, code Code, primary source.Span, msg string) {
	if r != nil {
		r.Report(code, SevError, primary, msg, "", nil)
	}
}

// ErrorWithHint reports an error carrying a "= hint:" line.
func ErrorWithHint(r Reporter, code Code, primary source.Span, msg, hint string) {
	if r != nil {
		r.Report(code, SevError, primary, msg, hint, nil)
	}
}
