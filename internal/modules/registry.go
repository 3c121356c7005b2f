// Package modules resolves the enabled modules of a suite into the module
// registry and action map consumed by the generator.
package modules

import (
	"github.com/toyz/actiongen/internal/introspect"
	"github.com/toyz/actiongen/internal/utils"
)

// Registry maps module names to their classes in the order modules were enabled
type Registry struct {
	modules *utils.BaseRegistry[string, introspect.Class]
}

// NewRegistry creates an empty module registry
func NewRegistry() *Registry {
	modules := utils.NewBaseRegistry[string, introspect.Class]("module")
	modules.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[introspect.Class]("module name"),
		utils.NoDuplicateValidator[string, introspect.Class]("module"),
		func(name string, class introspect.Class, _ map[string]introspect.Class) error {
			if class == nil {
				return utils.ValidationError{Field: name, Message: "module class cannot be nil"}
			}
			return nil
		},
	))
	return &Registry{modules: modules}
}

// Add registers a module. Names must be unique.
func (r *Registry) Add(name string, class introspect.Class) error {
	return r.modules.Register(name, class)
}

// Get returns the class of a module
func (r *Registry) Get(name string) (introspect.Class, bool) {
	return r.modules.Get(name)
}

// Has reports whether a module is registered
func (r *Registry) Has(name string) bool {
	return r.modules.Has(name)
}

// Names lists module names in registration order
func (r *Registry) Names() []string {
	return r.modules.List()
}

// Len returns the number of modules
func (r *Registry) Len() int {
	return r.modules.Size()
}

// Action binds an action name to the module that implements it
type Action struct {
	Name   string
	Module string
}

// ActionMap lists actions in generation order. The same name may be claimed
// by several modules; the first claim wins.
type ActionMap []Action

// Add appends an action claim
func (m *ActionMap) Add(name, module string) {
	*m = append(*m, Action{Name: name, Module: module})
}

// Resolved returns the winning module for every distinct action in order
func (m ActionMap) Resolved() ActionMap {
	seen := make(map[string]bool, len(m))
	out := make(ActionMap, 0, len(m))
	for _, a := range m {
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		out = append(out, a)
	}
	return out
}

// ModuleOf returns the winning module for action
func (m ActionMap) ModuleOf(action string) (string, bool) {
	for _, a := range m {
		if a.Name == action {
			return a.Module, true
		}
	}
	return "", false
}
