package generator

import (
	"strings"

	"github.com/toyz/actiongen/internal/models"
)

// Classify picks the step wrapper for an action by exact, case-sensitive
// prefix: see* records an assertion, am* a condition, anything else an action.
func Classify(action string) models.StepKind {
	switch {
	case strings.HasPrefix(action, "see"):
		return models.StepKindAssertion
	case strings.HasPrefix(action, "am"):
		return models.StepKindCondition
	default:
		return models.StepKindAction
	}
}
