// Package cli runs the build steps behind the actiongen commands: loading the
// suite, generating and writing the trait when it changed, cleaning and watching.
package cli

import (
	"strings"

	"go.uber.org/zap"

	"github.com/toyz/actiongen/internal/config"
	"github.com/toyz/actiongen/internal/generator"
	"github.com/toyz/actiongen/internal/manifest"
	"github.com/toyz/actiongen/internal/models"
	"github.com/toyz/actiongen/internal/modules"
	"github.com/toyz/actiongen/internal/steps"
	"github.com/toyz/actiongen/internal/utils"
	"github.com/toyz/actiongen/internal/utils/fileops"
)

// BuildSummary describes the outcome of one build
type BuildSummary struct {
	OutputFile   string
	Fingerprint  string
	MethodCount  int
	Actions      []string
	Skipped      bool     // existing output already held the generated source
	WatchedFiles []string // inputs of this build
}

// suite is everything loaded for one build
type suite struct {
	config     *config.Config
	registry   *modules.Registry
	actions    modules.ActionMap
	decorators *steps.Registry
	settings   models.Settings
}

// Builder coordinates a build: configuration, manifest, module container,
// decorators, then generation and the atomic write of the trait
type Builder struct {
	opts        Options
	diagnostics *utils.DiagnosticSystem
	logger      *zap.Logger
	fileOps     *fileops.FileOps
	catalog     *steps.Catalog
	generator   generator.CodeGenerator
}

// NewBuilder creates a builder with the built-in decorator catalog
func NewBuilder(opts Options, diagnostics *utils.DiagnosticSystem, logger *zap.Logger) *Builder {
	if diagnostics == nil {
		diagnostics = opts.Diagnostics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		opts:        opts,
		diagnostics: diagnostics,
		logger:      logger,
		fileOps:     fileops.NewFileOps(),
		catalog:     steps.DefaultCatalog(),
		generator:   generator.NewActionsGenerator(logger),
	}
}

// WithCatalog replaces the decorator catalog, e.g. to add third-party decorators
func (b *Builder) WithCatalog(catalog *steps.Catalog) *Builder {
	b.catalog = catalog
	return b
}

// WithGenerator replaces the code generator
func (b *Builder) WithGenerator(g generator.CodeGenerator) *Builder {
	b.generator = g
	return b
}

// load resolves the suite from configuration and manifest. Once the
// configuration is loaded the returned suite carries it, even on failure.
func (b *Builder) load() (*suite, error) {
	b.diagnostics.StartProgress("Loading suite configuration")
	cfg, err := config.Load(b.opts.Config())
	if err != nil {
		b.diagnostics.EndProgress(false)
		return nil, err
	}
	b.diagnostics.EndProgress(true)
	b.diagnostics.Verbose("Actor %s with modules %v", cfg.Actor, cfg.Enabled)
	s := &suite{config: cfg, settings: cfg.Settings()}

	b.diagnostics.StartProgress("Loading module manifest")
	m, err := manifest.Load(cfg.Manifest)
	if err != nil {
		b.diagnostics.EndProgress(false)
		return s, err
	}
	b.diagnostics.EndProgress(true)

	if s.registry, s.actions, err = modules.NewContainer(m, b.logger).Build(cfg.Enabled); err != nil {
		return s, err
	}
	if s.decorators, err = b.catalog.Resolve(cfg.StepDecorators); err != nil {
		return s, err
	}
	b.diagnostics.Debug("%d actions from %d modules, decorators %v", len(s.actions), s.registry.Len(), s.decorators.Names())
	return s, nil
}

// Hash returns the fingerprint the next build would stamp, without generating
func (b *Builder) Hash() (string, error) {
	s, err := b.load()
	if err != nil {
		return "", err
	}
	return generator.Fingerprint(s.registry, s.settings)
}

// Build generates the actions trait and writes it unless the existing output
// already holds exactly the same source. The stamp alone does not decide: the
// fingerprint ignores signature details such as parameter types and defaults,
// so a matching stamp may sit on top of a stale body. A failed build leaves
// the previous output untouched; its summary still names the inputs when the
// configuration could be loaded.
func (b *Builder) Build() (BuildSummary, error) {
	var summary BuildSummary
	s, err := b.load()
	if s != nil {
		summary.OutputFile = s.config.OutputFile()
		summary.WatchedFiles = s.config.WatchedFiles()
	}
	if err != nil {
		return summary, err
	}

	b.diagnostics.StartProgress("Generating %sActions", s.config.Actor)
	result, err := b.generator.Generate(s.settings, s.actions, s.registry, s.decorators)
	if err != nil {
		b.diagnostics.EndProgress(false)
		return summary, err
	}
	b.diagnostics.EndProgress(true)

	summary.Fingerprint = result.Fingerprint
	summary.MethodCount = result.MethodCount
	summary.Actions = result.Actions

	if !b.opts.Force && b.upToDate(summary.OutputFile, result) {
		b.logger.Info("actions up to date",
			zap.String("file", summary.OutputFile),
			zap.String("fingerprint", result.Fingerprint))
		summary.Skipped = true
		return summary, nil
	}

	b.diagnostics.PhaseProgress("Writing " + summary.OutputFile)
	if err := b.fileOps.WriteFileAtomic(summary.OutputFile, []byte(result.Source), 0o644); err != nil {
		return summary, err
	}

	b.logger.Info("actions written",
		zap.String("file", summary.OutputFile),
		zap.Int("methods", result.MethodCount))
	return summary, nil
}

// upToDate reports whether the file at path already holds the generated source
func (b *Builder) upToDate(path string, result *models.GenerationResult) bool {
	existing, err := b.fileOps.ReadFile(path)
	if err != nil {
		return false
	}
	if existing == result.Source {
		return true
	}
	if line, _, _ := strings.Cut(existing, "\n"); line != "" {
		if stamp, ok := generator.ParseStamp(line); ok && stamp == result.Fingerprint {
			b.logger.Debug("stamp matches but the trait body changed",
				zap.String("file", path))
		}
	}
	return false
}
