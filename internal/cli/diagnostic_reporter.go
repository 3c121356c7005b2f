package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/actiongen/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stdout and stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}
}

// SetOutput redirects the reporter
func (r *DiagnosticReporter) SetOutput(out, errOut io.Writer) {
	r.out = out
	r.errOut = errOut
}

// ReportWarning prints a single-line warning
func (r *DiagnosticReporter) ReportWarning(message string) {
	warn := color.New(color.FgYellow, color.Bold)
	warn.Fprint(r.errOut, "! ")
	fmt.Fprintf(r.errOut, "%s\n", message)
}

// ReportError prints err with everything the error taxonomy knows about it
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.errOut, "\nERROR: Generation Failed\n")
	fmt.Fprintf(r.errOut, "========================\n\n")

	var richErr errors.ActiongenError
	if errors.As(err, &richErr) {
		r.reportActiongenError(err, richErr)
	} else {
		fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Error())
		if r.verbose {
			r.printErrorChain(err)
		}
	}
}

func (r *DiagnosticReporter) reportActiongenError(err error, richErr errors.ActiongenError) {
	r.printErrorHeader(richErr.ErrorCode())

	fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Error())

	if loc := richErr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.errOut, "Location: %s\n\n", loc.String())
	}

	if ctx := richErr.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := richErr.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	r.printAdditionalHelp(richErr.ErrorCode())

	if r.verbose {
		r.printErrorChain(err)
	}
}

// printErrorHeader prints a formatted error header based on error code
func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	var title string
	switch code {
	case errors.ConfigurationErrorCode:
		title = "Configuration Error"
	case errors.TypeRenderErrorCode:
		title = "Type Rendering Error"
	case errors.GenerationErrorCode:
		title = "Generation Error"
	case errors.TemplateErrorCode:
		title = "Template Error"
	case errors.SyntaxErrorCode:
		title = "Syntax Error"
	case errors.FileSystemErrorCode:
		title = "File System Error"
	default:
		title = "Unknown Error"
	}

	fmt.Fprintf(r.errOut, "Type: %s\n", title)
	fmt.Fprintf(r.errOut, "%s\n\n", strings.Repeat("-", len(title)+6))
}

// printContext prints context information, the generation coordinates first
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.errOut, "Context:\n")

	importantKeys := []string{"action", "module", "stage", "setting", "decorator"}
	printed := make(map[string]bool)
	for _, key := range importantKeys {
		if value, exists := context[key]; exists && value != "" {
			fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), value)
		}
		printed[key] = true
	}

	rest := make([]string, 0, len(context))
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), context[key])
	}

	fmt.Fprintf(r.errOut, "\n")
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.errOut, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.errOut, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.errOut, "\n")
}

// printAdditionalHelp prints help for the error families users hit most
func (r *DiagnosticReporter) printAdditionalHelp(code errors.ErrorCode) {
	switch code {
	case errors.ConfigurationErrorCode:
		fmt.Fprintf(r.errOut, "Configuration Help:\n")
		fmt.Fprintf(r.errOut, "  - Every enabled module must be declared in the manifest\n")
		fmt.Fprintf(r.errOut, "  - Environment variables prefixed with ACTIONGEN_ override the file\n\n")
	case errors.TypeRenderErrorCode, errors.SyntaxErrorCode:
		fmt.Fprintf(r.errOut, "Manifest Help:\n")
		fmt.Fprintf(r.errOut, "  - Regenerate the manifest from the current module sources\n")
		fmt.Fprintf(r.errOut, "  - Check type expressions and default values for typos\n\n")
	}

	fmt.Fprintf(r.errOut, "For more help:\n")
	fmt.Fprintf(r.errOut, "  - Run with --verbose for more detailed output\n")
	fmt.Fprintf(r.errOut, "  - Run 'actiongen hash' to inspect the configuration fingerprint\n")
}

// printErrorChain prints every error in the chain in verbose mode
func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.errOut, "\nError Chain:\n")
	level := 1
	for err != nil {
		fmt.Fprintf(r.errOut, "    %d. %s\n", level, err.Error())
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = unwrapper.Unwrap()
		level++
	}
	fmt.Fprintf(r.errOut, "\n")
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(r.errOut, "[DEBUG] "+format+"\n", args...)
	}
}

// ReportSuccess reports a finished build
func (r *DiagnosticReporter) ReportSuccess(summary BuildSummary) {
	if summary.Skipped {
		fmt.Fprintf(r.out, "%s is up to date (%s)\n", summary.OutputFile, shortFingerprint(summary.Fingerprint))
		return
	}
	fmt.Fprintf(r.out, "%s generated with %d methods\n", summary.OutputFile, summary.MethodCount)
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
