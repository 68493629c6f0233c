package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mbqc/internal/compiler"
	"github.com/roach88/mbqc/internal/lower"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Patterns []string                   `json:"patterns"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
	Warnings []PatternWarning           `json:"warnings,omitempty"`
}

// PatternWarning is an audit warning tagged with its pattern.
type PatternWarning struct {
	Pattern string `json:"pattern"`
	lower.Warning
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <pattern-file>",
		Short: "Validate patterns without lowering",
		Long: `Validate every pattern declared in a source without lowering it.

Performs schema checking, structural validation (duplicate inputs,
self-entanglement, unknown planes, ...) and the preparation audit.
Audit findings are warnings: they never fail validation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	ps, err := LoadPatterns(path)
	if err != nil {
		var loadErr *LoadError
		if !errors.As(err, &loadErr) {
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to load patterns", err)
		}
		if loadErr.Code == ErrCodeNotFound {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Message)
		}
		line := 0
		if loadErr.Pos.IsValid() {
			line = loadErr.Pos.Line()
		}
		return outputValidationErrors(formatter, []compiler.ValidationError{{
			Field:   "load",
			Message: loadErr.Message,
			Code:    loadErr.Code,
			Line:    line,
		}})
	}

	formatter.VerboseLog("Found %d pattern(s) in %s", len(ps), path)

	result := ValidationResult{Valid: true, Patterns: compiler.Names(ps)}
	for _, p := range ps {
		formatter.VerboseLog("Validating pattern: %s", p.Name)
		result.Errors = append(result.Errors, compiler.Validate(p)...)
		for _, w := range lower.Audit(p) {
			result.Warnings = append(result.Warnings, PatternWarning{Pattern: p.Name, Warning: w})
		}
	}

	if len(result.Errors) > 0 {
		return outputValidationErrors(formatter, result.Errors)
	}
	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(CLIResponse{Status: "ok", Data: result})
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(formatter.Writer, "warning: %s: %s\n", w.Pattern, w.Warning)
	}
	fmt.Fprintf(formatter.Writer, "✓ All patterns valid (%d)\n", len(result.Patterns))
	return nil
}

// outputValidationErrors outputs validation errors and returns an exit error.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
