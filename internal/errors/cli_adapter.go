package errors

import (
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error. The process
// boundary is the only error channel: anything that failed exits 1, a handled
// or legitimately skipped event exits 0.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if pe, ok := err.(*PreviewError); ok {
		return a.formatPreview(pe)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatPreview formats a PreviewError for display.
func (a *CLIErrorAdapter) formatPreview(err *PreviewError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return err.Message
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	a.logError(err)
	fmt.Fprintf(os.Stderr, "%s\n", a.FormatError(err))
	os.Exit(a.ExitCodeFor(err))
}

// logError logs an error with its classification context.
func (a *CLIErrorAdapter) logError(err error) {
	if pe, ok := err.(*PreviewError); ok {
		attrs := []slog.Attr{
			slog.String("category", string(pe.Category)),
			slog.String("severity", string(pe.Severity)),
		}
		a.logger.LogAttrs(nil, slog.LevelError, pe.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}
