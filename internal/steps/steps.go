// Package steps defines the step decorator plugin boundary. A step decorator
// contributes extra generated methods per action, next to the native wrapper.
package steps

import (
	"github.com/toyz/actiongen/internal/templates"
)

// Plugin is anything registered in the catalog under a name
type Plugin interface {
	Name() string
}

// StepDecorator produces an additional method from the native method's
// skeleton. The skeleton it receives is a private copy with every placeholder
// bound; a decorator typically rebinds action, doc and step. A nil result
// means no contribution for this action.
type StepDecorator interface {
	Plugin
	Produce(method *templates.Template) (*templates.Template, error)
}

// Placeholder keys decorators read and bind
const (
	KeyAction = "action"
	KeyMethod = "method"
	KeyDoc    = "doc"
	KeyStep   = "step"
)
