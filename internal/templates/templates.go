// Package templates holds the PHP skeletons the generator fills in and the
// immutable placeholder builder used to fill them.
package templates

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"
	"text/template/parse"

	"github.com/toyz/actiongen/internal/errors"
)

// Template is an immutable placeholder-substitution builder over a fixed
// skeleton. Placeholders are written {{.key}}; the set of keys is taken from
// the skeleton when it is parsed and never changes.
type Template struct {
	name         string
	tmpl         *template.Template
	placeholders map[string]bool
	values       map[string]string
	err          error
}

// New parses a skeleton. Only literal text and single-key placeholders are
// allowed; conditionals, ranges and pipelines are rejected.
func New(name, text string) (*Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, errors.NewTemplateError(name, "", "failed to parse skeleton").WithCause(err)
	}

	placeholders := make(map[string]bool)
	if tmpl.Tree != nil && tmpl.Tree.Root != nil {
		if err := collectPlaceholders(name, tmpl.Tree.Root, placeholders); err != nil {
			return nil, err
		}
	}

	return &Template{
		name:         name,
		tmpl:         tmpl,
		placeholders: placeholders,
		values:       make(map[string]string),
	}, nil
}

// MustNew is like New but panics on a malformed skeleton
func MustNew(name, text string) *Template {
	t, err := New(name, text)
	if err != nil {
		panic(err)
	}
	return t
}

func collectPlaceholders(name string, list *parse.ListNode, out map[string]bool) error {
	for _, node := range list.Nodes {
		switch n := node.(type) {
		case *parse.TextNode, *parse.CommentNode:
		case *parse.ActionNode:
			key, ok := placeholderKey(n)
			if !ok {
				return errors.NewTemplateError(name, n.String(), fmt.Sprintf("unsupported action %s, only {{.key}} placeholders are allowed", n.String()))
			}
			out[key] = true
		default:
			return errors.NewTemplateError(name, node.String(), fmt.Sprintf("control flow is not allowed: %s", node.String()))
		}
	}
	return nil
}

func placeholderKey(n *parse.ActionNode) (string, bool) {
	if n.Pipe == nil || len(n.Pipe.Decl) > 0 || len(n.Pipe.Cmds) != 1 {
		return "", false
	}
	args := n.Pipe.Cmds[0].Args
	if len(args) != 1 {
		return "", false
	}
	field, ok := args[0].(*parse.FieldNode)
	if !ok || len(field.Ident) != 1 {
		return "", false
	}
	return field.Ident[0], true
}

// Name returns the skeleton name
func (t *Template) Name() string { return t.name }

// Placeholders returns the skeleton's placeholder keys, sorted
func (t *Template) Placeholders() []string {
	keys := make([]string, 0, len(t.placeholders))
	for k := range t.placeholders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// With returns a copy of t with key bound to value. Binding a key the
// skeleton does not declare is reported by Render.
func (t *Template) With(key, value string) *Template {
	next := t.clone()
	if next.err != nil {
		return next
	}
	if !t.placeholders[key] {
		next.err = errors.NewTemplateError(t.name, key, fmt.Sprintf("unknown placeholder '%s'", key))
		return next
	}
	next.values[key] = value
	return next
}

// Get returns the value bound to key, or "" when unbound
func (t *Template) Get(key string) string {
	return t.values[key]
}

// Has reports whether key is bound
func (t *Template) Has(key string) bool {
	_, ok := t.values[key]
	return ok
}

// Clone returns an independent copy of t
func (t *Template) Clone() *Template {
	return t.clone()
}

func (t *Template) clone() *Template {
	values := make(map[string]string, len(t.values))
	for k, v := range t.values {
		values[k] = v
	}
	return &Template{
		name:         t.name,
		tmpl:         t.tmpl,
		placeholders: t.placeholders,
		values:       values,
		err:          t.err,
	}
}

// Render substitutes every placeholder. All placeholders must be bound.
func (t *Template) Render() (string, error) {
	if t.err != nil {
		return "", t.err
	}
	for _, key := range t.Placeholders() {
		if _, ok := t.values[key]; !ok {
			return "", errors.NewTemplateError(t.name, key, fmt.Sprintf("placeholder '%s' is not bound", key))
		}
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, t.values); err != nil {
		return "", errors.NewTemplateError(t.name, "", "failed to execute skeleton").WithCause(err)
	}
	return buf.String(), nil
}
