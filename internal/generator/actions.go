// Package generator builds the actor actions trait: one delegating method per
// action, each recording its call as a step, plus the methods contributed by
// step decorators.
package generator

import (
	"strings"

	"go.uber.org/zap"

	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/introspect"
	"github.com/toyz/actiongen/internal/models"
	"github.com/toyz/actiongen/internal/modules"
	"github.com/toyz/actiongen/internal/steps"
	"github.com/toyz/actiongen/internal/templates"
)

// DefaultStepNamespace is where step classes live when settings name none
const DefaultStepNamespace = `\Codeception\Step`

// Generation stages reported in GenerationError
const (
	StageSettings    = "settings"
	StageFingerprint = "fingerprint"
	StageResolve     = "resolve"
	StageIntrospect  = "introspect"
	StageRender      = "render"
	StageDecorate    = "decorate"
	StageAssemble    = "assemble"
)

// ActionsGenerator renders the actions trait of one actor
type ActionsGenerator struct {
	templates *templates.TemplateRegistry
	logger    *zap.Logger
}

// NewActionsGenerator creates a generator using the built-in skeletons
func NewActionsGenerator(logger *zap.Logger) *ActionsGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionsGenerator{
		templates: templates.NewTemplateRegistry(),
		logger:    logger,
	}
}

// NewActionsGeneratorWithTemplates creates a generator with custom skeletons
func NewActionsGeneratorWithTemplates(tr *templates.TemplateRegistry, logger *zap.Logger) *ActionsGenerator {
	g := NewActionsGenerator(logger)
	g.templates = tr
	return g
}

// Generate renders the trait for every distinct action in map order. The first
// module claiming an action wins. Any failure aborts the pass and no source is
// returned.
func (g *ActionsGenerator) Generate(settings models.Settings, actions modules.ActionMap, registry *modules.Registry, decorators *steps.Registry) (*models.GenerationResult, error) {
	if strings.TrimSpace(settings.Actor) == "" {
		return nil, errors.WrapGenerationError("", "", StageSettings,
			errors.InvalidSetting("actor", "the actor name cannot be empty"))
	}
	if registry == nil {
		registry = modules.NewRegistry()
	}

	fingerprint, err := Fingerprint(registry, settings)
	if err != nil {
		return nil, errors.WrapGenerationError("", "", StageFingerprint, err)
	}

	classTmpl, err := g.templates.Lookup(templates.ActionsClass)
	if err != nil {
		return nil, errors.WrapGenerationError("", "", StageAssemble, err)
	}
	methodTmpl, err := g.templates.Lookup(templates.ActionsMethod)
	if err != nil {
		return nil, errors.WrapGenerationError("", "", StageRender, err)
	}
	methodTmpl = methodTmpl.With("step_namespace", stepNamespace(settings.StepNamespace))

	emitted := make(map[string]bool, len(actions))
	names := make([]string, 0, len(actions))
	var code strings.Builder

	for _, action := range actions {
		if emitted[action.Name] {
			g.logger.Debug("skipping duplicate action",
				zap.String("action", action.Name),
				zap.String("module", action.Module))
			continue
		}

		class, ok := registry.Get(action.Module)
		if !ok {
			return nil, errors.WrapGenerationError(action.Name, action.Module, StageResolve,
				errors.ModuleNotFound(action.Module, action.Name))
		}
		method, ok := class.Method(action.Name)
		if !ok {
			return nil, errors.WrapGenerationError(action.Name, action.Module, StageResolve,
				errors.MethodNotFound(action.Module, action.Name))
		}

		block, step, err := g.renderAction(action, method, methodTmpl, decorators)
		if err != nil {
			return nil, err
		}
		code.WriteString(block)

		emitted[action.Name] = true
		names = append(names, action.Name)
		g.logger.Debug("generated action",
			zap.String("action", action.Name),
			zap.String("module", action.Module),
			zap.String("step", step.String()))
	}

	source, err := classTmpl.
		With("hash", fingerprint).
		With("namespace", templates.DefaultTemplateUtils.NamespacePrefix(settings.Namespace)).
		With("name", settings.Actor).
		With("methods", strings.TrimSuffix(code.String(), "\n")).
		Render()
	if err != nil {
		return nil, errors.WrapGenerationError("", "", StageAssemble, err)
	}

	g.logger.Info("generated actions",
		zap.String("actor", settings.Actor),
		zap.Int("count", len(names)),
		zap.String("fingerprint", fingerprint))

	return &models.GenerationResult{
		Source:      source,
		Fingerprint: fingerprint,
		MethodCount: len(names),
		Actions:     names,
	}, nil
}

// renderAction renders the native wrapper of one action followed by the
// blocks its decorators contribute
func (g *ActionsGenerator) renderAction(action modules.Action, method introspect.Method, methodTmpl *templates.Template, decorators *steps.Registry) (string, models.StepKind, error) {
	sig, err := Introspect(method)
	if err != nil {
		return "", 0, errors.WrapGenerationError(action.Name, action.Module, StageIntrospect, err)
	}
	sig.Module = action.Module

	returnKeyword := ""
	if sig.ReturnsValue {
		returnKeyword = "return "
	}

	native := methodTmpl.
		With("module", sig.DeclaringType).
		With("method", sig.Name).
		With("return_type", sig.ReturnClause()).
		With("return", returnKeyword).
		With("params", sig.ParamList()).
		With(steps.KeyDoc, sig.Doc).
		With(steps.KeyAction, action.Name).
		With(steps.KeyStep, sig.Step.String())

	block, err := native.Render()
	if err != nil {
		return "", 0, errors.WrapGenerationError(action.Name, action.Module, StageRender, err)
	}

	extra, err := decorators.Apply(native)
	if err != nil {
		return "", 0, errors.WrapGenerationError(action.Name, action.Module, StageDecorate, err)
	}
	return block + strings.Join(extra, ""), sig.Step, nil
}

func stepNamespace(ns string) string {
	ns = strings.Trim(strings.TrimSpace(ns), `\`)
	if ns == "" {
		return DefaultStepNamespace
	}
	return `\` + ns
}
