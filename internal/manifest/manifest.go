// Package manifest loads the reflection dump describing module classes: their
// parents, interfaces and public method signatures. It is the reflection
// substrate behind the introspect interfaces.
package manifest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	crdb "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/introspect"
	"github.com/toyz/actiongen/internal/typeexpr"
)

// Module is a module declared by the manifest
type Module struct {
	Name             string
	Class            *introspect.ClassDef
	OnlyActions      []string
	ExcludeActions   []string
	IncludeInherited bool
}

// Manifest is a loaded reflection dump
type Manifest struct {
	Path    string
	classes map[string]*introspect.ClassDef // keyed by lower-cased qualified name
	modules map[string]Module
}

// Load reads and resolves the manifest at path
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, crdb.WithHint(
			crdb.Wrapf(err, "failed to read module manifest %s", path),
			"set 'manifest' in the suite configuration to the reflection dump of your modules")
	}
	return Parse(data, path)
}

// Parse decodes and resolves manifest data. path is used in error locations.
func Parse(data []byte, path string) (*Manifest, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, crdb.Wrapf(err, "failed to decode module manifest %s", path)
	}

	r := &resolver{
		path:     path,
		parser:   typeexpr.NewParser(),
		manifest: &Manifest{Path: path, classes: map[string]*introspect.ClassDef{}, modules: map[string]Module{}},
	}
	if err := r.resolve(&doc); err != nil {
		return nil, err
	}
	return r.manifest, nil
}

// Class looks a class or interface up by qualified name, case-insensitively
func (m *Manifest) Class(name string) (*introspect.ClassDef, bool) {
	c, ok := m.classes[classKey(name)]
	return c, ok
}

// Module looks a module up by name
func (m *Manifest) Module(name string) (Module, bool) {
	mod, ok := m.modules[name]
	return mod, ok
}

// ModuleNames lists declared module names
func (m *Manifest) ModuleNames() []string {
	names := make([]string, 0, len(m.modules))
	for name := range m.modules {
		names = append(names, name)
	}
	return names
}

func classKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, `\`))
}

type resolver struct {
	path     string
	parser   *typeexpr.Parser
	manifest *Manifest
}

func (r *resolver) location(format string, args ...interface{}) errors.SourceLocation {
	return errors.SourceLocation{File: r.path, Path: fmt.Sprintf(format, args...)}
}

func (r *resolver) resolve(doc *document) error {
	// declare every type first so references may point forward
	for i, entry := range doc.Classes {
		if err := r.declare(entry, false, r.location("classes[%d]", i)); err != nil {
			return err
		}
	}
	for i, entry := range doc.Interfaces {
		if err := r.declare(entry, true, r.location("interfaces[%d]", i)); err != nil {
			return err
		}
	}

	for i, entry := range doc.Classes {
		if err := r.link(entry, r.location("classes[%d]", i)); err != nil {
			return err
		}
	}
	for i, entry := range doc.Interfaces {
		if err := r.link(entry, r.location("interfaces[%d]", i)); err != nil {
			return err
		}
	}

	// declaration order keeps the reported error stable
	for _, entry := range append(append([]classEntry(nil), doc.Classes...), doc.Interfaces...) {
		c, ok := r.manifest.Class(entry.Name)
		if !ok {
			continue
		}
		if err := checkAncestry(c); err != nil {
			return err.WithLocation(r.location("%s", c.ClassName))
		}
	}

	names := make([]string, 0, len(doc.Modules))
	for name := range doc.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := doc.Modules[name]
		loc := r.location("modules.%s", name)
		if entry.Class == "" {
			return errors.NewConfigurationError(name, fmt.Sprintf("module '%s' names no class", name)).
				WithLocation(loc)
		}
		class, ok := r.manifest.Class(entry.Class)
		if !ok || class.Interface {
			return errors.NewConfigurationError(name, fmt.Sprintf("module '%s' refers to unknown class '%s'", name, entry.Class)).
				WithLocation(loc).
				WithSuggestion("Add the class under 'classes'")
		}
		r.manifest.modules[name] = Module{
			Name:             name,
			Class:            class,
			OnlyActions:      entry.OnlyActions,
			ExcludeActions:   entry.ExcludeActions,
			IncludeInherited: entry.IncludeInherited == nil || *entry.IncludeInherited,
		}
	}
	return nil
}

func (r *resolver) declare(entry classEntry, iface bool, loc errors.SourceLocation) error {
	if entry.Name == "" {
		return errors.NewConfigurationError("", "class entry has no name").WithLocation(loc)
	}
	key := classKey(entry.Name)
	if _, exists := r.manifest.classes[key]; exists {
		return errors.NewConfigurationError(entry.Name, fmt.Sprintf("class '%s' is declared twice", entry.Name)).
			WithLocation(loc)
	}

	var class *introspect.ClassDef
	if iface {
		class = introspect.NewInterface(entry.Name)
	} else {
		class = introspect.NewClass(entry.Name)
	}

	for j, m := range entry.Methods {
		method, err := r.method(m, class, loc.Path+fmt.Sprintf(".methods[%d]", j))
		if err != nil {
			return err
		}
		class.AddMethod(method)
	}
	r.manifest.classes[key] = class
	return nil
}

func (r *resolver) link(entry classEntry, loc errors.SourceLocation) error {
	class, _ := r.manifest.Class(entry.Name)

	if entry.Parent != "" {
		if class.Interface {
			return errors.NewConfigurationError(entry.Name, "interfaces extend other interfaces through 'interfaces', not 'parent'").
				WithLocation(loc)
		}
		parent, ok := r.manifest.Class(entry.Parent)
		if !ok || parent.Interface {
			return errors.NewConfigurationError(entry.Name, fmt.Sprintf("unknown parent class '%s'", entry.Parent)).
				WithLocation(loc)
		}
		class.WithParent(parent)
	}

	for _, name := range entry.Interfaces {
		iface, ok := r.manifest.Class(name)
		if !ok || !iface.Interface {
			return errors.NewConfigurationError(entry.Name, fmt.Sprintf("unknown interface '%s'", name)).
				WithLocation(loc)
		}
		class.WithInterfaces(iface)
	}
	return nil
}

func checkAncestry(c *introspect.ClassDef) *errors.ConfigurationError {
	seen := map[*introspect.ClassDef]bool{}
	for cls := c; cls != nil; cls = cls.ParentClass {
		if seen[cls] {
			return errors.NewConfigurationError(c.ClassName, fmt.Sprintf("class '%s' inherits from itself", c.ClassName))
		}
		seen[cls] = true
	}
	return nil
}

func (r *resolver) method(entry methodEntry, owner *introspect.ClassDef, path string) (*introspect.MethodDef, error) {
	loc := errors.SourceLocation{File: r.path, Path: path}
	if entry.Name == "" {
		return nil, errors.NewConfigurationError(owner.ClassName, "method entry has no name").WithLocation(loc)
	}
	subject := owner.ClassName + "::" + entry.Name

	method := &introspect.MethodDef{
		MethodName: entry.Name,
		Doc:        entry.Doc,
		Static:     entry.Static,
	}

	if entry.Return != "" {
		t, err := r.parser.ParseType(entry.Return)
		if err != nil {
			return nil, errors.NewConfigurationError(subject, fmt.Sprintf("invalid return type of %s()", subject)).
				WithLocation(loc).
				WithCause(err)
		}
		method.Returns = t.Ptr()
	}

	for _, p := range entry.Params {
		param, err := r.param(p, subject, loc)
		if err != nil {
			return nil, err
		}
		method.Parameters = append(method.Parameters, param)
	}
	return method, nil
}

func (r *resolver) param(entry paramEntry, subject string, loc errors.SourceLocation) (introspect.Param, error) {
	name := strings.TrimPrefix(entry.Name, "$")
	if name == "" {
		return introspect.Param{}, errors.NewConfigurationError(subject, fmt.Sprintf("parameter of %s() has no name", subject)).
			WithLocation(loc)
	}
	param := introspect.Param{
		Name:     name,
		Optional: entry.Optional || entry.Variadic || entry.hasDefault(),
		Variadic: entry.Variadic,
		ByRef:    entry.ByRef,
	}

	if entry.Type != "" {
		t, err := r.parser.ParseType(entry.Type)
		if err != nil {
			return param, errors.NewConfigurationError(subject, fmt.Sprintf("invalid type of parameter $%s of %s()", name, subject)).
				WithLocation(loc).
				WithCause(err)
		}
		param.Type = t.Ptr()
	}

	if entry.hasDefault() {
		if entry.Variadic {
			return param, errors.NewConfigurationError(subject, fmt.Sprintf("variadic parameter $%s of %s() cannot have a default", name, subject)).
				WithLocation(loc)
		}
		if entry.Default.Kind != yaml.ScalarNode {
			return param, errors.NewConfigurationError(subject, fmt.Sprintf("default of $%s in %s() must be written as a quoted literal", name, subject)).
				WithLocation(loc).
				WithSuggestion(`Write array defaults as a string, e.g. default: "['a' => 1]"`)
		}
		lit, err := r.parser.ParseLiteral(entry.Default.Value)
		if err != nil {
			return param, errors.NewConfigurationError(subject, fmt.Sprintf("invalid default of $%s in %s()", name, subject)).
				WithLocation(loc).
				WithCause(err).
				WithSuggestion(`String defaults keep their quotes, e.g. default: '"body"'`)
		}
		if quotedConstant(entry.Default, lit) {
			return param, errors.NewConfigurationError(subject, fmt.Sprintf("default of $%s in %s() reads as the constant %s", name, subject, lit.Name)).
				WithLocation(loc).
				WithSuggestion(fmt.Sprintf(`YAML quotes are not part of the literal; write default: '"%s"' for a string`, lit.Name)).
				WithSuggestion(fmt.Sprintf("Leave a constant unquoted, e.g. default: %s", lit.Name))
		}
		param.Default = &lit
	}
	return param, nil
}

// quotedConstant reports whether a YAML-quoted default parsed as a bare
// global constant, which almost always means a string lost its PHP quotes
func quotedConstant(node yaml.Node, lit introspect.Literal) bool {
	if node.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) == 0 {
		return false
	}
	return lit.Kind == introspect.LiteralConstant && !strings.Contains(lit.Name, `\`)
}
