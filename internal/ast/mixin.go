package ast

// MixinParam is one declared parameter, optionally carrying a default
// expression.
type MixinParam struct {
	Name       string
	Default    string
	HasDefault bool
}

// MixinDef declares a named fragment. At most one trailing rest parameter
// collects extra positional arguments.
type MixinDef struct {
	Name     string
	Params   []MixinParam
	RestName string
	HasRest  bool
	Children []NodeID
}

// MixinCall invokes a mixin with raw argument text, an optional passed
// attribute list, and nested content substituted at the body's placeholder.
type MixinCall struct {
	Name          string
	Args          []string
	Attrs         []Attr
	BlockChildren []NodeID
}
