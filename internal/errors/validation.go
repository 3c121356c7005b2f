package errors

import (
	stderrors "errors"
	"fmt"
)

// Is and As re-export the standard inspection helpers so callers need a single import
var (
	Is = stderrors.Is
	As = stderrors.As
)

// ConfigurationError reports a broken build configuration: a module or method
// missing from the registry, a decorator that is unknown or lacks its
// production capability, or invalid settings.
type ConfigurationError struct {
	*BaseError
	Subject string // offending module, method or decorator
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(subject, message string) *ConfigurationError {
	return &ConfigurationError{
		BaseError: New(ConfigurationErrorCode, message),
		Subject:   subject,
	}
}

// WithSuggestion adds a helpful suggestion
func (e *ConfigurationError) WithSuggestion(suggestion string) *ConfigurationError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// WithContext adds context data to the error
func (e *ConfigurationError) WithContext(key string, value interface{}) *ConfigurationError {
	e.BaseError.WithContext(key, value)
	return e
}

// WithLocation adds location information to the error
func (e *ConfigurationError) WithLocation(loc SourceLocation) *ConfigurationError {
	e.BaseError.WithLocation(loc)
	return e
}

// WithCause adds an underlying error cause
func (e *ConfigurationError) WithCause(cause error) *ConfigurationError {
	e.BaseError.WithCause(cause)
	return e
}

// TypeRenderError reports a type descriptor that cannot be rendered as valid syntax
type TypeRenderError struct {
	*BaseError
	TypeName  string // the type reference being rendered
	OwnerType string // the type the reference is scoped to
}

// NewTypeRenderError creates a new type render error
func NewTypeRenderError(typeName, ownerType, message string) *TypeRenderError {
	return &TypeRenderError{
		BaseError: New(TypeRenderErrorCode, message).
			WithContext("type", typeName).
			WithContext("owner", ownerType),
		TypeName:  typeName,
		OwnerType: ownerType,
	}
}

// GenerationError represents a failed generation pass. It names the action and
// module being generated when the failure happened and wraps the cause.
type GenerationError struct {
	*BaseError
	Action string // action being generated
	Module string // module owning the action
	Stage  string // stage of generation where error occurred
}

// WrapGenerationError wraps a failure that happened while generating an action
func WrapGenerationError(action, module, stage string, cause error) *GenerationError {
	message := fmt.Sprintf("failed to generate action '%s' of module '%s'", action, module)
	if action == "" {
		message = fmt.Sprintf("failed to generate actions at stage '%s'", stage)
	}
	return &GenerationError{
		BaseError: Wrap(GenerationErrorCode, message, cause).
			WithContext("action", action).
			WithContext("module", module).
			WithContext("stage", stage),
		Action: action,
		Module: module,
		Stage:  stage,
	}
}

// Suggestions returns the wrapper's hints followed by the cause's hints
func (e *GenerationError) Suggestions() []string {
	hints := append([]string{}, e.Hints...)
	var cause ActiongenError
	if e.Cause != nil && As(e.Cause, &cause) {
		hints = append(hints, cause.Suggestions()...)
	}
	return hints
}

// TemplateError reports a placeholder problem while rendering a skeleton
type TemplateError struct {
	*BaseError
	TemplateName string
	Placeholder  string
}

// NewTemplateError creates a template error
func NewTemplateError(templateName, placeholder, message string) *TemplateError {
	return &TemplateError{
		BaseError: New(TemplateErrorCode, fmt.Sprintf("template '%s': %s", templateName, message)).
			WithContext("template", templateName).
			WithContext("placeholder", placeholder),
		TemplateName: templateName,
		Placeholder:  placeholder,
	}
}

// SyntaxError represents a type expression or literal that failed to parse
type SyntaxError struct {
	*BaseError
	Input string // the text that failed to parse
}

// NewSyntaxError creates a new syntax error
func NewSyntaxError(input string, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, fmt.Sprintf("cannot parse %q", input), cause),
		Input:     input,
	}
}

// WithSuggestion adds a helpful suggestion
func (e *SyntaxError) WithSuggestion(suggestion string) *SyntaxError {
	e.BaseError.WithSuggestion(suggestion)
	return e
}

// WithCause adds an underlying error cause
func (e *TemplateError) WithCause(cause error) *TemplateError {
	e.BaseError.WithCause(cause)
	return e
}

// WithContext adds context data to the error
func (e *GenerationError) WithContext(key string, value interface{}) *GenerationError {
	e.BaseError.WithContext(key, value)
	return e
}

// WithSuggestionf adds a formatted suggestion
func (e *TypeRenderError) WithSuggestionf(format string, args ...interface{}) *TypeRenderError {
	e.BaseError.WithSuggestion(fmt.Sprintf(format, args...))
	return e
}
