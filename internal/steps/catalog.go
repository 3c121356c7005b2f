package steps

import (
	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/utils"
)

// Catalog holds the plugins that may be named in step_decorators
type Catalog struct {
	plugins *utils.BaseRegistry[string, Plugin]
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	plugins := utils.NewBaseRegistry[string, Plugin]("step decorator")
	plugins.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[Plugin]("step decorator name"),
		utils.NoDuplicateValidator[string, Plugin]("step decorator"),
	))
	return &Catalog{plugins: plugins}
}

// DefaultCatalog returns a catalog with the built-in decorators registered
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, p := range []Plugin{ConditionalAssertion{}, TryTo{}, Retry{}} {
		if err := c.Register(p); err != nil {
			panic(err)
		}
	}
	return c
}

// Register adds a plugin under its name
func (c *Catalog) Register(p Plugin) error {
	return c.plugins.Register(p.Name(), p)
}

// Names lists registered plugins in registration order
func (c *Catalog) Names() []string {
	return c.plugins.List()
}

// Resolve turns configured decorator names into a registry. Duplicate names
// collapse to their first occurrence. An unknown name, or a plugin without
// the Produce capability, is a configuration error naming it.
func (c *Catalog) Resolve(names []string) (*Registry, error) {
	decorators := make([]StepDecorator, 0, len(names))
	for _, name := range names {
		plugin, ok := c.plugins.Get(name)
		if !ok {
			return nil, errors.UnknownDecorator(name).
				WithContext("available", c.plugins.List())
		}
		decorator, ok := plugin.(StepDecorator)
		if !ok {
			return nil, errors.IncapableDecorator(name)
		}
		decorators = append(decorators, decorator)
	}
	return NewRegistry(decorators...), nil
}
