package generator

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/introspect"
	"github.com/toyz/actiongen/internal/models"
	"github.com/toyz/actiongen/internal/modules"
	"github.com/toyz/actiongen/internal/steps"
	"github.com/toyz/actiongen/internal/templates"
)

func testSettings() models.Settings {
	return models.Settings{
		Actor:     "Acceptance",
		Namespace: `Tests\Support`,
		Version:   "v1.0.0",
		ModulesConfig: map[string]any{
			"enabled": []any{"ModuleA", "ModuleB"},
		},
	}
}

// clickAndSeeText builds ModuleA::click(string $selector): void and
// ModuleB::seeText(string $text, string $context = "body"): bool
func clickAndSeeText(t *testing.T) *modules.Registry {
	t.Helper()

	moduleA := introspect.NewClass(`Acme\ModuleA`).AddMethod(&introspect.MethodDef{
		MethodName: "click",
		Doc:        "/**\n     * Clicks an element.\n     */",
		Parameters: []introspect.Param{{Name: "selector", Type: introspect.Builtin("string").Ptr()}},
		Returns:    introspect.Builtin("void").Ptr(),
	})
	moduleB := introspect.NewClass(`Acme\ModuleB`).AddMethod(&introspect.MethodDef{
		MethodName: "seeText",
		Parameters: []introspect.Param{
			{Name: "text", Type: introspect.Builtin("string").Ptr()},
			{
				Name:     "context",
				Type:     introspect.Builtin("string").Ptr(),
				Optional: true,
				Default:  &introspect.Literal{Kind: introspect.LiteralString, Raw: `"body"`},
			},
		},
		Returns: introspect.Builtin("bool").Ptr(),
	})

	registry := modules.NewRegistry()
	require.NoError(t, registry.Add("ModuleA", moduleA))
	require.NoError(t, registry.Add("ModuleB", moduleB))
	return registry
}

func actionMap(pairs ...string) modules.ActionMap {
	var actions modules.ActionMap
	for i := 0; i+1 < len(pairs); i += 2 {
		actions.Add(pairs[i], pairs[i+1])
	}
	return actions
}

func TestGenerateClickAndSeeText(t *testing.T) {
	registry := clickAndSeeText(t)
	actions := actionMap("click", "ModuleA", "seeText", "ModuleB")

	result, err := NewActionsGenerator(nil).Generate(testSettings(), actions, registry, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.MethodCount)
	assert.Equal(t, []string{"click", "seeText"}, result.Actions)

	src := result.Source
	assert.True(t, strings.HasPrefix(src, "<?php  //[STAMP] "+result.Fingerprint+"\n"))
	assert.Contains(t, src, `namespace Tests\Support\_generated;`)
	assert.Contains(t, src, "trait AcceptanceActions\n{")
	assert.Contains(t, src, "abstract protected function getScenario();")

	assert.Contains(t, src, "public function click(string $selector): void {\n"+
		`        $this->getScenario()->runStep(new \Codeception\Step\Action('click', func_get_args()));`)
	assert.Contains(t, src, `public function seeText(string $text, string $context = "body"): bool {`+"\n"+
		`        return $this->getScenario()->runStep(new \Codeception\Step\Assertion('seeText', func_get_args()));`)
	assert.Contains(t, src, "     * Clicks an element.\n     * @see \\Acme\\ModuleA::click()")
	assert.Contains(t, src, "     *\n     *\n     * @see \\Acme\\ModuleB::seeText()")

	assert.Less(t, strings.Index(src, "function click("), strings.Index(src, "function seeText("))
	assert.True(t, strings.HasSuffix(src, "    }\n}\n"))
}

func TestGenerateOrderAndCount(t *testing.T) {
	class := introspect.NewClass(`Acme\Web`)
	names := []string{"wait", "amOnPage", "click", "seeElement", "fillField"}
	for _, name := range names {
		class.AddMethod(&introspect.MethodDef{MethodName: name})
	}
	registry := modules.NewRegistry()
	require.NoError(t, registry.Add("Web", class))

	var actions modules.ActionMap
	for _, name := range names {
		actions.Add(name, "Web")
	}

	result, err := NewActionsGenerator(nil).Generate(testSettings(), actions, registry, nil)
	require.NoError(t, err)
	assert.Equal(t, len(names), result.MethodCount)
	assert.Equal(t, names, result.Actions)

	last := -1
	for _, name := range names {
		i := strings.Index(result.Source, "public function "+name+"(")
		require.GreaterOrEqual(t, i, 0, name)
		assert.Greater(t, i, last, name)
		last = i
	}

	// untyped methods return the delegated result
	assert.Contains(t, result.Source, "public function wait() {\n        return $this->getScenario()")
	assert.Contains(t, result.Source, `new \Codeception\Step\Condition('amOnPage'`)
}

func TestGenerateDuplicateFirstWins(t *testing.T) {
	registry := clickAndSeeText(t)
	moduleC := introspect.NewClass(`Acme\ModuleC`).AddMethod(&introspect.MethodDef{MethodName: "click"})
	require.NoError(t, registry.Add("ModuleC", moduleC))

	core, logs := observer.New(zap.DebugLevel)
	actions := actionMap("click", "ModuleA", "seeText", "ModuleB", "click", "ModuleC")

	result, err := NewActionsGenerator(zap.New(core)).Generate(testSettings(), actions, registry, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.MethodCount)
	assert.Equal(t, 1, strings.Count(result.Source, "public function click("))
	assert.Contains(t, result.Source, `@see \Acme\ModuleA::click()`)
	assert.NotContains(t, result.Source, `ModuleC`)

	skipped := logs.FilterMessage("skipping duplicate action").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "ModuleC", skipped[0].ContextMap()["module"])

	passes := logs.FilterMessage("generated actions").All()
	require.Len(t, passes, 1)
	assert.Equal(t, int64(2), passes[0].ContextMap()["count"])
}

func TestGenerateInheritedMethodUsesDeclaringClass(t *testing.T) {
	base := introspect.NewClass(`Acme\Framework`).AddMethod(&introspect.MethodDef{
		MethodName: "amOnPage",
		Parameters: []introspect.Param{{Name: "page", Type: introspect.Named("self").OrNull().Ptr()}},
		Returns:    introspect.Named("static").Ptr(),
	})
	web := introspect.NewClass(`Acme\PhpBrowser`).WithParent(base)

	registry := modules.NewRegistry()
	require.NoError(t, registry.Add("PhpBrowser", web))

	result, err := NewActionsGenerator(nil).Generate(testSettings(), actionMap("amOnPage", "PhpBrowser"), registry, nil)
	require.NoError(t, err)

	assert.Contains(t, result.Source, `@see \Acme\Framework::amOnPage()`)
	assert.Contains(t, result.Source, `public function amOnPage(?\Acme\Framework $page): \Acme\Framework {`)
}

func TestGenerateDecorators(t *testing.T) {
	registry := clickAndSeeText(t)
	actions := actionMap("click", "ModuleA", "seeText", "ModuleB")

	decorators := steps.NewRegistry(steps.ConditionalAssertion{}, steps.TryTo{}, steps.ConditionalAssertion{})
	require.Equal(t, []string{"ConditionalAssertion", "TryTo"}, decorators.Names())

	result, err := NewActionsGenerator(nil).Generate(testSettings(), actions, registry, decorators)
	require.NoError(t, err)

	src := result.Source
	assert.Equal(t, 2, result.MethodCount)
	assert.Equal(t, 1, strings.Count(src, "public function canSeeText("))
	assert.Equal(t, 1, strings.Count(src, "public function tryToClick("))
	assert.Equal(t, 1, strings.Count(src, "public function tryToSeeText("))
	assert.NotContains(t, src, "canClick")

	assert.Contains(t, src, `public function canSeeText(string $text, string $context = "body"): bool {`+"\n"+
		`        return $this->getScenario()->runStep(new \Codeception\Step\ConditionalAssertion('seeText', func_get_args()));`)
	assert.Contains(t, src, `new \Codeception\Step\TryTo('click', func_get_args())`)

	// native block first, then decorators in registry order, per action
	order := []string{"function click(", "function tryToClick(", "function seeText(", "function canSeeText(", "function tryToSeeText("}
	last := -1
	for _, marker := range order {
		i := strings.Index(src, marker)
		require.GreaterOrEqual(t, i, 0, marker)
		assert.Greater(t, i, last, marker)
		last = i
	}
}

func TestGenerateCustomStepNamespace(t *testing.T) {
	settings := testSettings()
	settings.StepNamespace = `\Acme\Steps\`
	settings.Namespace = ""

	result, err := NewActionsGenerator(nil).Generate(settings, actionMap("click", "ModuleA"), clickAndSeeText(t), nil)
	require.NoError(t, err)
	assert.Contains(t, result.Source, `new \Acme\Steps\Action('click'`)
	assert.Contains(t, result.Source, "namespace _generated;")
}

func TestGenerateErrors(t *testing.T) {
	t.Run("missing module", func(t *testing.T) {
		_, err := NewActionsGenerator(nil).Generate(testSettings(), actionMap("click", "Nope"), clickAndSeeText(t), nil)

		var genErr *errors.GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, "click", genErr.Action)
		assert.Equal(t, "Nope", genErr.Module)
		assert.Equal(t, StageResolve, genErr.Stage)

		var cfgErr *errors.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "Nope", cfgErr.Subject)
		assert.NotEmpty(t, genErr.Suggestions())
	})

	t.Run("missing method", func(t *testing.T) {
		_, err := NewActionsGenerator(nil).Generate(testSettings(), actionMap("click", "ModuleB"), clickAndSeeText(t), nil)

		var genErr *errors.GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, StageResolve, genErr.Stage)
		var cfgErr *errors.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "ModuleB::click", cfgErr.Subject)
	})

	t.Run("missing parent aborts the pass", func(t *testing.T) {
		registry := clickAndSeeText(t)
		broken := introspect.NewClass(`Acme\Broken`).AddMethod(&introspect.MethodDef{
			MethodName: "clone",
			Returns:    introspect.Named("parent").Ptr(),
		})
		require.NoError(t, registry.Add("Broken", broken))

		result, err := NewActionsGenerator(nil).Generate(testSettings(), actionMap("click", "ModuleA", "clone", "Broken"), registry, nil)
		assert.Nil(t, result)

		var genErr *errors.GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, StageIntrospect, genErr.Stage)
		var renderErr *errors.TypeRenderError
		require.True(t, errors.As(err, &renderErr))
	})

	t.Run("empty actor", func(t *testing.T) {
		settings := testSettings()
		settings.Actor = " "
		_, err := NewActionsGenerator(nil).Generate(settings, nil, clickAndSeeText(t), nil)
		assert.Equal(t, errors.GenerationErrorCode, errors.CodeOf(err))
		var cfgErr *errors.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
	})

	t.Run("invalid version", func(t *testing.T) {
		settings := testSettings()
		settings.Version = "1.0"
		_, err := NewActionsGenerator(nil).Generate(settings, nil, clickAndSeeText(t), nil)

		var genErr *errors.GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, StageFingerprint, genErr.Stage)
	})

	t.Run("failing decorator", func(t *testing.T) {
		_, err := NewActionsGenerator(nil).Generate(testSettings(), actionMap("click", "ModuleA"), clickAndSeeText(t),
			steps.NewRegistry(failingDecorator{}))

		var genErr *errors.GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, StageDecorate, genErr.Stage)
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("method skeleton with unknown placeholder", func(t *testing.T) {
		tr := templates.NewTemplateRegistry()
		require.NoError(t, tr.Register(templates.ActionsMethod, "{{.action}} {{.unknown}}"))

		_, err := NewActionsGeneratorWithTemplates(tr, nil).Generate(testSettings(), actionMap("click", "ModuleA"), clickAndSeeText(t), nil)

		var genErr *errors.GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Equal(t, StageRender, genErr.Stage)
		var tmplErr *errors.TemplateError
		require.True(t, errors.As(err, &tmplErr))
	})
}

var errBoom = stderrors.New("boom")

type failingDecorator struct{}

func (failingDecorator) Name() string { return "Failing" }

func (failingDecorator) Produce(*templates.Template) (*templates.Template, error) {
	return nil, errBoom
}
