package steps

import (
	"strings"

	"github.com/toyz/actiongen/internal/templates"
)

var tu = templates.DefaultTemplateUtils

// hasAnyPrefix reports whether action starts with one of prefixes
func hasAnyPrefix(action string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(action, p) {
			return true
		}
	}
	return false
}

// ConditionalAssertion turns seeX into canSeeX and dontSeeX into cantSeeX.
// The generated method records a failed check without stopping the test.
type ConditionalAssertion struct{}

// Name implements Plugin
func (ConditionalAssertion) Name() string { return "ConditionalAssertion" }

// Produce implements StepDecorator
func (ConditionalAssertion) Produce(method *templates.Template) (*templates.Template, error) {
	action := method.Get(KeyAction)

	var name string
	switch {
	case strings.HasPrefix(action, "dontSee"):
		name = "cant" + tu.UpperFirst(strings.TrimPrefix(action, "dont"))
	case strings.HasPrefix(action, "see"):
		name = "can" + tu.UpperFirst(action)
	default:
		return nil, nil
	}

	doc := tu.DocLines("[!] Conditional Assertion: Test won't be stopped on fail") + "\n     " + method.Get(KeyDoc)
	return method.
		With(KeyDoc, doc).
		With(KeyAction, name).
		With(KeyStep, "ConditionalAssertion"), nil
}

// TryTo emits tryToX, which swallows a failure and returns false instead.
// Conditions, haves and waiters are left alone.
type TryTo struct{}

// Name implements Plugin
func (TryTo) Name() string { return "TryTo" }

// Produce implements StepDecorator
func (TryTo) Produce(method *templates.Template) (*templates.Template, error) {
	action := method.Get(KeyAction)
	if hasAnyPrefix(action, "am", "have", "wait", "grab") {
		return nil, nil
	}

	doc := tu.DocLines("[!] Test won't be stopped on fail. Error won't be logged") + "\n     " + method.Get(KeyDoc)
	return method.
		With(KeyDoc, doc).
		With(KeyAction, "tryTo"+tu.UpperFirst(action)).
		With(KeyStep, "TryTo"), nil
}

// Retry emits retryX, which repeats the action until it passes.
// Same eligibility as TryTo.
type Retry struct{}

// Name implements Plugin
func (Retry) Name() string { return "Retry" }

// Produce implements StepDecorator
func (Retry) Produce(method *templates.Template) (*templates.Template, error) {
	action := method.Get(KeyAction)
	if hasAnyPrefix(action, "am", "have", "wait", "grab") {
		return nil, nil
	}

	doc := tu.DocLines(
		"[!] Method is generated.",
		"",
		"Retry number and interval set by $I->retry();",
		"",
	) + "\n     " + method.Get(KeyDoc)
	return method.
		With(KeyDoc, doc).
		With(KeyAction, "retry"+tu.UpperFirst(action)).
		With(KeyStep, "Retry"), nil
}
