package generator

import (
	"github.com/toyz/actiongen/internal/models"
	"github.com/toyz/actiongen/internal/modules"
	"github.com/toyz/actiongen/internal/steps"
)

// CodeGenerator produces the actor actions trait for one suite
type CodeGenerator interface {
	Generate(settings models.Settings, actions modules.ActionMap, registry *modules.Registry, decorators *steps.Registry) (*models.GenerationResult, error)
}

var _ CodeGenerator = (*ActionsGenerator)(nil)
