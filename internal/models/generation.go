package models

// Settings configures one generation pass
type Settings struct {
	Actor          string         // composite type name, e.g. "Acceptance" yields trait AcceptanceActions
	Namespace      string         // namespace of the actor; "_generated" is appended
	StepNamespace  string         // namespace of the step classes, e.g. \Codeception\Step
	Version        string         // generator version tag mixed into the fingerprint
	ModulesConfig  map[string]any // raw module configuration, used only for fingerprinting
	StepDecorators []string       // configured decorator names in order, duplicates allowed
}

// GenerationResult is the output of a successful generation pass
type GenerationResult struct {
	Source      string   // complete trait source text
	Fingerprint string   // stamp embedded in the header
	MethodCount int      // distinct actions emitted
	Actions     []string // emitted action names in order
}
