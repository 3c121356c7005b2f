// Package config loads the suite configuration: which actor to generate,
// which modules it is assembled from and where the result goes.
package config

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	crdb "github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"golang.org/x/mod/semver"

	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/models"
	"github.com/toyz/actiongen/internal/utils"
	"github.com/toyz/actiongen/internal/utils/fileops"
	"github.com/toyz/actiongen/internal/version"
)

// EnvPrefix prefixes environment overrides: ACTIONGEN_ACTOR sets actor,
// ACTIONGEN_STEP_NAMESPACE sets step_namespace. A double underscore descends
// into a nested key.
const EnvPrefix = "ACTIONGEN_"

// DefaultFile is the suite configuration looked up when none is named
const DefaultFile = "actiongen.yml"

// Defaults
const (
	DefaultOutput   = "_generated"
	DefaultManifest = "modules.yml"
)

// Config is a loaded suite configuration
type Config struct {
	Path           string // configuration file, empty when loaded from the environment only
	Actor          string
	Namespace      string
	Output         string // output directory, absolute or relative to the working directory
	Manifest       string // manifest path, resolved like Output
	Version        string
	StepNamespace  string
	Modules        map[string]any // raw modules section, kept for fingerprinting
	Enabled        []string       // enabled module names in order
	StepDecorators []string
}

// Load reads the suite configuration at path, then applies environment
// overrides. Relative output and manifest paths are resolved against the
// directory holding the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	k.Set("output", DefaultOutput)
	k.Set("manifest", DefaultManifest)
	k.Set("version", version.Version)

	baseDir := "."
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, crdb.WithHint(
					crdb.Wrapf(err, "suite configuration %s not found", path),
					"create it or pass --config")
			}
			return nil, crdb.Wrapf(err, "failed to load suite configuration %s", path)
		}
		baseDir = filepath.Dir(path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, crdb.Wrap(err, "failed to read environment overrides")
	}

	cfg := &Config{
		Path:          path,
		Actor:         strings.TrimSpace(k.String("actor")),
		Namespace:     strings.TrimSpace(k.String("namespace")),
		Version:       strings.TrimSpace(k.String("version")),
		StepNamespace: strings.TrimSpace(k.String("step_namespace")),
	}

	pv := fileops.NewPathValidator()
	cfg.Output = pv.ResolveRelative(baseDir, k.String("output"))
	cfg.Manifest = pv.ResolveRelative(baseDir, k.String("manifest"))

	modules, ok := k.Get("modules").(map[string]any)
	if !ok && k.Exists("modules") {
		return nil, errors.InvalidSetting("modules", "must be a map with an 'enabled' list").
			WithLocation(errors.SourceLocation{File: path, Path: "modules"})
	}
	if modules == nil {
		modules = map[string]any{}
	}
	cfg.Modules = modules

	enabled, err := enabledModules(modules["enabled"])
	if err != nil {
		return nil, err.WithLocation(errors.SourceLocation{File: path, Path: "modules.enabled"})
	}
	cfg.Enabled = enabled

	decorators, err := stringList("step_decorators", k.Get("step_decorators"))
	if err != nil {
		return nil, err.WithLocation(errors.SourceLocation{File: path, Path: "step_decorators"})
	}
	cfg.StepDecorators = decorators

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings a generation pass depends on
func (c *Config) Validate() error {
	checks := []struct {
		key   string
		value string
		chain *utils.ValidatorChain[string]
	}{
		{"actor", c.Actor, utils.NewValidatorChain(utils.NotEmpty("actor"), utils.IsIdentifier("actor"))},
		{"namespace", c.Namespace, utils.NewValidatorChain(utils.IsNamespace("namespace"))},
		{"step_namespace", c.StepNamespace, utils.NewValidatorChain(utils.IsNamespace("step_namespace"))},
		{"output", c.Output, utils.NewValidatorChain(utils.NotEmpty("output"))},
		{"manifest", c.Manifest, utils.NewValidatorChain(utils.NotEmpty("manifest"))},
		{"version", c.Version, utils.NewValidatorChain(
			utils.Custom("version", "must be a semantic version such as v1.2.0", semver.IsValid))},
	}

	for _, check := range checks {
		if err := check.chain.Validate(check.value); err != nil {
			return errors.InvalidSetting(check.key, validationMessage(err)).
				WithLocation(errors.SourceLocation{File: c.Path, Path: check.key}).
				WithCause(err)
		}
	}

	decorators := utils.NewValidatorChain(
		utils.ValidateEach("step_decorators", utils.IsIdentifier("step_decorators")))
	if err := decorators.Validate(c.StepDecorators); err != nil {
		return errors.InvalidSetting("step_decorators", validationMessage(err)).
			WithLocation(errors.SourceLocation{File: c.Path, Path: "step_decorators"}).
			WithCause(err).
			WithSuggestion("Step decorators are named like classes, e.g. ConditionalAssertion")
	}

	if len(c.Enabled) == 0 {
		return errors.InvalidSetting("modules", "no modules are enabled").
			WithLocation(errors.SourceLocation{File: c.Path, Path: "modules.enabled"}).
			WithSuggestion("List the actor's modules under modules.enabled")
	}
	return nil
}

// Settings returns the generation settings described by the configuration
func (c *Config) Settings() models.Settings {
	return models.Settings{
		Actor:          c.Actor,
		Namespace:      c.Namespace,
		StepNamespace:  c.StepNamespace,
		Version:        c.Version,
		ModulesConfig:  c.Modules,
		StepDecorators: c.StepDecorators,
	}
}

// OutputFile is the path of the generated actions trait
func (c *Config) OutputFile() string {
	return filepath.Join(c.Output, c.Actor+"Actions.php")
}

// WatchedFiles lists the files whose change requires a rebuild
func (c *Config) WatchedFiles() []string {
	var files []string
	if c.Path != "" {
		files = append(files, c.Path)
	}
	return append(files, c.Manifest)
}

// enabledModules reads modules.enabled: each entry is a module name or a
// single-key map of module name to inline module configuration
func enabledModules(raw any) ([]string, *errors.ConfigurationError) {
	if s, ok := raw.(string); ok {
		return stringList("modules.enabled", s)
	}
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, errors.InvalidSetting("modules.enabled", "must be a list")
	}

	names := make([]string, 0, len(entries))
	for i, entry := range entries {
		switch v := entry.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, errors.InvalidSetting("modules.enabled", fmt.Sprintf("entry %d is empty", i))
			}
			names = append(names, strings.TrimSpace(v))
		case map[string]any:
			if len(v) != 1 {
				return nil, errors.InvalidSetting("modules.enabled",
					fmt.Sprintf("entry %d must map exactly one module name to its configuration", i))
			}
			for name := range v {
				names = append(names, name)
			}
		default:
			return nil, errors.InvalidSetting("modules.enabled", fmt.Sprintf("entry %d must be a module name", i))
		}
	}
	return names, nil
}

// stringList reads a list of strings. A comma separated string is accepted
// so that lists can be overridden from the environment.
func stringList(key string, raw any) ([]string, *errors.ConfigurationError) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.InvalidSetting(key, fmt.Sprintf("entry %d must be a string", i))
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, errors.InvalidSetting(key, "must be a list of names")
}

func validationMessage(err error) string {
	var ve utils.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
