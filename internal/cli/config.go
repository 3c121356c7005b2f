package cli

import (
	"time"

	"github.com/toyz/actiongen/internal/config"
	"github.com/toyz/actiongen/internal/errors"
	"github.com/toyz/actiongen/internal/utils"
)

// Options holds the command line options shared by every command
type Options struct {
	// ConfigPath is the suite configuration file, config.DefaultFile when empty
	ConfigPath string

	// Force rewrites the trait even when the existing output is up to date
	Force bool

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Quiet limits console output to errors
	Quiet bool

	// LogLevel and JSONLogs configure the structured logger
	LogLevel string
	JSONLogs bool

	// Debounce is the quiet period the watcher waits for before rebuilding
	Debounce time.Duration
}

// DefaultDebounce is used when Options.Debounce is not set
const DefaultDebounce = 300 * time.Millisecond

// LogLevels are the accepted values of Options.LogLevel; empty derives the
// level from the verbosity flags
var LogLevels = []string{"", "debug", "info", "warn", "error"}

// Validate checks the options that are not constrained by flag parsing
func (o Options) Validate() error {
	if err := utils.IsOneOf("log-level", LogLevels...)(o.LogLevel); err != nil {
		return errors.InvalidSetting("log-level", "must be one of debug, info, warn or error").
			WithCause(err).
			WithSuggestion("Pass --log-level debug, info, warn or error, or omit it")
	}
	return nil
}

// Config returns the configuration path to load
func (o Options) Config() string {
	if o.ConfigPath == "" {
		return config.DefaultFile
	}
	return o.ConfigPath
}

// Diagnostics returns the console diagnostics matching the verbosity flags
func (o Options) Diagnostics() *utils.DiagnosticSystem {
	switch {
	case o.Quiet:
		return utils.NewQuietDiagnostics()
	case o.Verbose:
		return utils.NewVerboseDiagnostics()
	default:
		return utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
}

// Level returns the structured log level: LogLevel when set, otherwise
// derived from the verbosity flags
func (o Options) Level() string {
	switch {
	case o.LogLevel != "":
		return o.LogLevel
	case o.Verbose:
		return "debug"
	case o.Quiet:
		return "error"
	default:
		return "warn"
	}
}

// DebouncePeriod returns the configured debounce or DefaultDebounce
func (o Options) DebouncePeriod() time.Duration {
	if o.Debounce <= 0 {
		return DefaultDebounce
	}
	return o.Debounce
}
