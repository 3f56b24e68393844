package diag

import (
	"sort"
)

// Bag accumulates diagnostics up to a fixed limit. Every pipeline stage
// fails fast, so in practice a bag holds at most one error plus notes,
// but the container does not rely on that.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   uint16(max),
	}
}

// Add appends a diagnostic, respecting the limit. Returns false when the
// diagnostic was dropped.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any diagnostic has Severity >= Error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has Severity == SevWarning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity == SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the accumulated diagnostics.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// First returns the first error-severity diagnostic, or nil.
func (b *Bag) First() *Diagnostic {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return &b.items[i]
		}
	}
	return nil
}

// Sort orders diagnostics by file, start, end, severity (desc), code for a
// deterministic output order.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
