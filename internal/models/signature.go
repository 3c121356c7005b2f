package models

import "strings"

// MethodSignature is the rendered structural view of one action's method.
// It lives for the duration of a single action's rendering.
type MethodSignature struct {
	Name          string
	Module        string // name of the module the action was resolved to
	DeclaringType string // qualified class declaring the method
	Params        []ParamSignature
	ReturnType    string // rendered return type, empty when none is declared
	ReturnsValue  bool   // whether the wrapper returns the delegated result
	Doc           string // resolved doc body, never empty
	Step          StepKind
}

// ParamList renders the parameter list without parentheses
func (s MethodSignature) ParamList() string {
	parts := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, ", ")
}

// ReturnClause renders the ": type" suffix, or nothing
func (s MethodSignature) ReturnClause() string {
	if s.ReturnType == "" {
		return ""
	}
	return ": " + s.ReturnType
}

// ParamSignature is one rendered parameter
type ParamSignature struct {
	Name     string
	Type     string // rendered type, empty when untyped
	Default  string // rendered default literal
	Optional bool   // Default is emitted only when set
	Variadic bool
	ByRef    bool
}

// String renders the parameter as it appears in a signature
func (p ParamSignature) String() string {
	var b strings.Builder
	if p.Type != "" {
		b.WriteString(p.Type)
		b.WriteByte(' ')
	}
	if p.ByRef {
		b.WriteByte('&')
	}
	if p.Variadic {
		b.WriteString("...")
	}
	b.WriteByte('$')
	b.WriteString(p.Name)
	if p.Optional && !p.Variadic && p.Default != "" {
		b.WriteString(" = ")
		b.WriteString(p.Default)
	}
	return b.String()
}
