package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/toyz/actiongen/internal/cli"
	"github.com/toyz/actiongen/internal/config"
	"github.com/toyz/actiongen/internal/logger"
	"github.com/toyz/actiongen/internal/utils"
	"github.com/toyz/actiongen/internal/version"
)

// app carries what the commands share once flags are parsed
type app struct {
	opts        cli.Options
	logger      *zap.Logger
	diagnostics *utils.DiagnosticSystem
	reporter    *cli.DiagnosticReporter
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the process exit code
func execute(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err != nil {
		if a.reporter != nil {
			a.reporter.ReportError(err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "actiongen",
		Short: "Generate actor action traits from module manifests",
		Long: `actiongen generates the {Actor}Actions trait of a test suite: one method per
module action, each recording its call as a step, plus the methods step
decorators contribute.

The suite configuration names the actor, its enabled modules and the module
manifest. The trait is only rewritten when the generated source differs from
the existing file.

Examples:
  actiongen build                      # Generate when inputs changed
  actiongen build --force              # Regenerate unconditionally
  actiongen hash                       # Print the input fingerprint
  actiongen clean                      # Remove generated traits
  actiongen watch -c tests/actiongen.yml`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.opts.ConfigPath, "config", "c", config.DefaultFile, "Suite configuration file")
	flags.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "Enable verbose output and detailed error reporting")
	flags.BoolVarP(&a.opts.Quiet, "quiet", "q", false, "Only show errors and final results")
	flags.StringVar(&a.opts.LogLevel, "log-level", "", "Structured log level (debug, info, warn, error)")
	flags.BoolVar(&a.opts.JSONLogs, "log-json", false, "Write structured logs as JSON")

	root.AddCommand(a.buildCmd(), a.hashCmd(), a.cleanCmd(), a.watchCmd(), versionCmd())
	return root
}

// setup builds the logger and console output for the parsed flags
func (a *app) setup(cmd *cobra.Command) error {
	a.diagnostics = a.opts.Diagnostics()
	a.reporter = cli.NewDiagnosticReporter(a.opts.Verbose)
	if cmd.OutOrStdout() != os.Stdout || cmd.ErrOrStderr() != os.Stderr {
		a.diagnostics.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
		a.reporter.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	}
	if err := a.opts.Validate(); err != nil {
		return err
	}

	if a.opts.JSONLogs {
		l, err := logger.New(a.opts.Level(), true)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		a.logger = l
	} else {
		a.logger = logger.NewConsole(cmd.ErrOrStderr(), a.opts.Level())
	}
	return nil
}

func (a *app) builder() *cli.Builder {
	return cli.NewBuilder(a.opts, a.diagnostics, a.logger)
}

func (a *app) buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the actions trait",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.diagnostics.Header("building actions")
			a.diagnostics.PhaseHeader("Build")
			a.diagnostics.Indent()
			summary, err := a.builder().Build()
			a.diagnostics.Unindent()
			if err != nil {
				return err
			}
			if !summary.Skipped {
				a.diagnostics.Summary("Build complete", map[string]interface{}{
					"Methods":     summary.MethodCount,
					"Output":      summary.OutputFile,
					"Fingerprint": summary.Fingerprint,
				})
				a.diagnostics.GenerationComplete()
			}
			a.reporter.ReportSuccess(summary)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&a.opts.Force, "force", "f", false, "Rewrite the trait even when it is up to date")
	return cmd
}

func (a *app) hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Print the fingerprint of the current inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fingerprint, err := a.builder().Hash()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), fingerprint)
			return nil
		},
	}
}

func (a *app) cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [directory...]",
		Short: "Remove generated files",
		Long: `Remove every file whose first line carries a [STAMP] marker. Without
arguments the output directory of the suite configuration is cleaned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs := args
			if len(dirs) == 0 {
				cfg, err := config.Load(a.opts.Config())
				if err != nil {
					return err
				}
				dirs = []string{cfg.Output}
			}

			cleaner := cli.NewCleaner(a.diagnostics)
			total := 0
			for _, dir := range dirs {
				a.diagnostics.Section("Cleaning " + dir)
				a.diagnostics.Indent()
				removed, err := cleaner.Clean(dir)
				a.diagnostics.Unindent()
				total += len(removed)
				if err != nil {
					return err
				}
			}
			a.diagnostics.Success("Removed %d generated files", total)
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild whenever the configuration or manifest changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watcher, err := cli.NewWatcher(a.builder(), a.reporter, a.logger)
			if err != nil {
				return err
			}
			a.diagnostics.Info("Watching %s, press Ctrl+C to stop", a.opts.Config())
			return watcher.Run(ctx)
		},
	}
	cmd.Flags().DurationVar(&a.opts.Debounce, "debounce", cli.DefaultDebounce, "Quiet period before rebuilding")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the generator version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "actiongen %s\n", version.Version)
			return nil
		},
	}
}
