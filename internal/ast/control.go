package ast

import (
	"plume/internal/source"
)

// CondBranch is one branch of a conditional chain. Condition is empty for
// a trailing else. IsUnless defers negation to the evaluator.
type CondBranch struct {
	Condition string
	IsUnless  bool
	Children  []NodeID
	Span      source.Span
}

// Conditional is an if/unless/else-if/else chain in source order.
type Conditional struct {
	Branches []CondBranch
}

// Each iterates a collection, binding value and optionally index; the
// optional ElseChildren render when the collection is empty.
type Each struct {
	ValueName  string
	IndexName  string
	Collection string

	Children     []NodeID
	ElseChildren []NodeID
}

// While repeats its children as long as the condition holds.
type While struct {
	Condition string
	Children  []NodeID
}

// CaseWhen is one when branch. Empty Children signal fallthrough to the
// next branch's body. HasBreak is interpreted by the renderer.
type CaseWhen struct {
	Value    string
	Children []NodeID
	HasBreak bool
	Span     source.Span
}

// Case is a case/when/default switch over an opaque expression.
type Case struct {
	Expr            string
	Whens           []CaseWhen
	DefaultChildren []NodeID
}
