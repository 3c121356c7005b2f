package models

// StepKind selects the step wrapper a generated method records its call with
type StepKind int

const (
	StepKindAction StepKind = iota
	StepKindAssertion
	StepKindCondition
)

// String returns the step class name
func (k StepKind) String() string {
	switch k {
	case StepKindAssertion:
		return "Assertion"
	case StepKindCondition:
		return "Condition"
	default:
		return "Action"
	}
}
