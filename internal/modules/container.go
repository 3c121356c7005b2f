package modules

import (
	"strings"

	"go.uber.org/zap"

	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/introspect"
	"github.com/toyz/actiongen/internal/manifest"
)

// Container derives the module registry and action map of a suite from the
// enabled module list and the manifest describing module classes
type Container struct {
	manifest *manifest.Manifest
	logger   *zap.Logger
}

// NewContainer creates a container over a loaded manifest
func NewContainer(m *manifest.Manifest, logger *zap.Logger) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Container{manifest: m, logger: logger}
}

// Build registers every enabled module in order and collects its actions.
// A module enabled twice is registered once.
func (c *Container) Build(enabled []string) (*Registry, ActionMap, error) {
	registry := NewRegistry()
	var actions ActionMap

	for _, name := range enabled {
		if registry.Has(name) {
			c.logger.Debug("module enabled twice", zap.String("module", name))
			continue
		}
		module, ok := c.manifest.Module(name)
		if !ok {
			return nil, nil, errors.ModuleNotFound(name, "").
				WithLocation(errors.SourceLocation{File: c.manifest.Path, Path: "modules"})
		}
		if err := registry.Add(name, module.Class); err != nil {
			return nil, nil, errors.NewConfigurationError(name, "cannot register module").WithCause(err)
		}

		count := 0
		for _, method := range Actions(module) {
			actions.Add(method.Name(), name)
			count++
		}
		c.logger.Debug("module loaded",
			zap.String("module", name),
			zap.String("class", module.Class.Name()),
			zap.Int("actions", count))
	}
	return registry, actions, nil
}

// Actions lists the methods of a module exposed as actions, in class order:
// public instance methods not starting with an underscore, narrowed by the
// module's only/exclude lists and, unless inherited methods are included, to
// the module class's own declarations
func Actions(module manifest.Module) []introspect.Method {
	only := toSet(module.OnlyActions)
	exclude := toSet(module.ExcludeActions)

	var out []introspect.Method
	for _, method := range module.Class.Methods() {
		name := method.Name()
		switch {
		case method.IsStatic(), strings.HasPrefix(name, "_"):
			continue
		case len(only) > 0 && !only[name]:
			continue
		case exclude[name]:
			continue
		case !module.IncludeInherited && !declaredOn(method, module.Class):
			continue
		}
		out = append(out, method)
	}
	return out
}

func declaredOn(method introspect.Method, class introspect.Class) bool {
	declaring := method.DeclaringClass()
	return declaring != nil && declaring.Name() == class.Name()
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
