package generator

import (
	"github.com/toyz/actiongen/internal/introspect"
	"github.com/toyz/actiongen/internal/templates"
)

// ResolveDoc finds the raw doc block for method. It tries the method itself,
// then the first directly implemented interface declaring a method of the same
// name, then the immediate parent class. Only one level is searched.
func ResolveDoc(method introspect.Method, declaring introspect.Class) string {
	if doc := method.DocComment(); doc != "" {
		return doc
	}
	if declaring == nil {
		return ""
	}

	var doc string
	for _, iface := range declaring.Interfaces() {
		if m, ok := iface.Method(method.Name()); ok {
			doc = m.DocComment()
			break
		}
	}
	if doc != "" {
		return doc
	}

	if parent := declaring.Parent(); parent != nil {
		if m, ok := parent.Method(method.Name()); ok {
			return m.DocComment()
		}
	}
	return ""
}

// FormatDoc strips the doc block delimiters. An empty doc becomes "*" so the
// generated block always has a body line.
func FormatDoc(raw string) string {
	doc := templates.DefaultTemplateUtils.TrimDocDelimiters(raw)
	if doc == "" {
		return "*"
	}
	return doc
}
