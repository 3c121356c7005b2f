package steps

import (
	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/templates"
)

// Registry is an ordered set of step decorators, de-duplicated by name
type Registry struct {
	decorators []StepDecorator
}

// NewRegistry builds a registry; a decorator whose name was already added is dropped
func NewRegistry(decorators ...StepDecorator) *Registry {
	seen := make(map[string]bool, len(decorators))
	r := &Registry{}
	for _, d := range decorators {
		if d == nil || seen[d.Name()] {
			continue
		}
		seen[d.Name()] = true
		r.decorators = append(r.decorators, d)
	}
	return r
}

// Names lists decorator names in order
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.decorators))
	for _, d := range r.decorators {
		names = append(names, d.Name())
	}
	return names
}

// Len returns the number of decorators
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.decorators)
}

// Apply hands each decorator its own copy of the method skeleton and renders
// what it produces, in registry order.
func (r *Registry) Apply(method *templates.Template) ([]string, error) {
	if r == nil {
		return nil, nil
	}
	var blocks []string
	for _, d := range r.decorators {
		produced, err := d.Produce(method.Clone())
		if err != nil {
			return nil, errors.Wrapf(errors.GenerationErrorCode, err, "step decorator '%s' failed", d.Name()).
				WithContext("decorator", d.Name())
		}
		if produced == nil {
			continue
		}
		block, err := produced.Render()
		if err != nil {
			return nil, errors.Wrapf(errors.GenerationErrorCode, err, "step decorator '%s' produced an incomplete method", d.Name()).
				WithContext("decorator", d.Name())
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}
