package errors

import "fmt"

// Common error constructors used across the generator

// ModuleNotFound reports an action pointing at a module missing from the registry
func ModuleNotFound(module, action string) *ConfigurationError {
	return NewConfigurationError(module, fmt.Sprintf("module '%s' is not registered", module)).
		WithContext("module", module).
		WithContext("action", action).
		WithSuggestion("Enable the module in the suite configuration").
		WithSuggestion("Check that the manifest declares the module under 'modules'")
}

// MethodNotFound reports an action the owning module does not implement
func MethodNotFound(module, action string) *ConfigurationError {
	return NewConfigurationError(module+"::"+action, fmt.Sprintf("module '%s' has no method '%s'", module, action)).
		WithContext("module", module).
		WithContext("action", action).
		WithSuggestion("Regenerate the module manifest from the current module sources")
}

// UnknownDecorator reports a configured step decorator missing from the catalog
func UnknownDecorator(name string) *ConfigurationError {
	return NewConfigurationError(name, fmt.Sprintf("step decorator '%s' is not registered", name)).
		WithContext("decorator", name).
		WithSuggestion("Check the spelling in 'step_decorators'")
}

// IncapableDecorator reports a plugin configured as a step decorator that cannot produce steps
func IncapableDecorator(name string) *ConfigurationError {
	return NewConfigurationError(name, fmt.Sprintf("wrong configuration for generated steps: '%s' does not implement the step decorator Produce capability", name)).
		WithContext("decorator", name).
		WithSuggestion(fmt.Sprintf("Remove '%s' from 'step_decorators'", name)).
		WithSuggestion("Implement Produce(*templates.Template) on the plugin")
}

// MissingParent reports a 'parent' reference on a type that has no parent
func MissingParent(owner string) *TypeRenderError {
	err := NewTypeRenderError("parent", owner, fmt.Sprintf("'parent' used in '%s' which has no parent class", owner))
	err.WithSuggestion("Replace 'parent' with the intended class name in the module signature")
	return err
}

// InvalidSetting reports a settings value that cannot be used
func InvalidSetting(key, message string) *ConfigurationError {
	return NewConfigurationError(key, fmt.Sprintf("invalid setting '%s': %s", key, message)).
		WithContext("setting", key)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}
