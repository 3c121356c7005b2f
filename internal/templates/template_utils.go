package templates

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TemplateUtils provides common helpers for filling skeletons
type TemplateUtils struct{}

// NewTemplateUtils creates a new template utilities instance
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// UpperFirst upper-cases the first letter, e.g. click -> Click
func (tu *TemplateUtils) UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// LowerFirst lower-cases the first letter
func (tu *TemplateUtils) LowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// NamespacePrefix turns an actor namespace into the prefix spliced before
// "_generated": "Tests\Support" -> "Tests\Support\", "" -> "".
func (tu *TemplateUtils) NamespacePrefix(namespace string) string {
	trimmed := strings.Trim(namespace, `\`)
	if trimmed == "" {
		return ""
	}
	return trimmed + `\`
}

// DocLines renders extra lines for a doc block body, each prefixed with " * "
// to line up under the first "*" of the skeleton.
func (tu *TemplateUtils) DocLines(lines ...string) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n     ")
		}
		if line == "" {
			b.WriteString("*")
			continue
		}
		b.WriteString("* ")
		b.WriteString(line)
	}
	return b.String()
}

// TrimDocDelimiters strips the /** and */ delimiters from a raw doc block
func (tu *TemplateUtils) TrimDocDelimiters(doc string) string {
	doc = strings.ReplaceAll(doc, "/**", "")
	doc = strings.ReplaceAll(doc, "*/", "")
	return strings.TrimSpace(doc)
}

// DefaultTemplateUtils provides a global instance for convenience
var DefaultTemplateUtils = NewTemplateUtils()
