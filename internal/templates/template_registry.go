package templates

import (
	"sort"

	"github.com/toyz/actiongen/internal/errors"
)

// Skeleton names
const (
	ActionsClass  = "actions-class"
	ActionsMethod = "actions-method"
)

// TemplateRegistry provides a centralized way to access all skeletons
type TemplateRegistry struct {
	templates map[string]*Template
}

// NewTemplateRegistry creates a new template registry with all skeletons
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]*Template),
	}

	registry.registerActionsTemplates()

	return registry
}

// Get retrieves a skeleton by name
func (tr *TemplateRegistry) Get(name string) (*Template, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a skeleton by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) *Template {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Register adds or replaces a skeleton
func (tr *TemplateRegistry) Register(name, text string) error {
	template, err := New(name, text)
	if err != nil {
		return err
	}
	tr.templates[name] = template
	return nil
}

// Lookup is like Get but reports a missing skeleton as a TemplateError
func (tr *TemplateRegistry) Lookup(name string) (*Template, error) {
	template, exists := tr.templates[name]
	if !exists {
		return nil, errors.NewTemplateError(name, "", "skeleton is not registered")
	}
	return template, nil
}

// Names lists the registered skeletons, sorted
func (tr *TemplateRegistry) Names() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// registerActionsTemplates registers the actor trait skeletons
func (tr *TemplateRegistry) registerActionsTemplates() {
	// Trait wrapping every generated method. The first line carries the
	// fingerprint read back by the build orchestrator and the cleaner.
	tr.templates[ActionsClass] = MustNew(ActionsClass, `<?php  //[STAMP] {{.hash}}
namespace {{.namespace}}_generated;

// This class was automatically generated by build task
// You should not change it manually as it will be overwritten on next build
// @codingStandardsIgnoreFile

trait {{.name}}Actions
{
    /**
     * @return \Codeception\Scenario
     */
    abstract protected function getScenario();
{{.methods}}
}
`)

	// One delegating method. Step decorators receive a copy with everything
	// but doc, action and step already bound.
	tr.templates[ActionsMethod] = MustNew(ActionsMethod, `
    /**
     * [!] Method is generated. Documentation taken from corresponding module.
     *
     {{.doc}}
     * @see \{{.module}}::{{.method}}()
     */
    public function {{.action}}({{.params}}){{.return_type}} {
        {{.return}}$this->getScenario()->runStep(new {{.step_namespace}}\{{.step}}('{{.method}}', func_get_args()));
    }
`)
}
