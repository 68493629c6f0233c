package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/mbqc/internal/compiler"
	"github.com/roach88/mbqc/internal/lower"
	"github.com/roach88/mbqc/internal/pattern"
)

// Error code constants shared by all CLI commands. Lowering failures use
// the driver's own codes (DANGLING_OUTPUT, ...).
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNoPatterns   = "E003" // No patterns declared
	ErrCodeLoadFailed   = "E004" // CUE or YAML load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeNoSuchName   = "E006" // --pattern names no declared pattern
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeAmbiguous    = "E008" // Several patterns and no --pattern
	ErrCodeStoreFailed  = "E009" // Conversion store error
	ErrCodeWatchFailed  = "E010" // File watcher error
	ErrCodeBadCommand   = compiler.ErrUnknownCommand
	ErrCodeBadFormat    = compiler.ErrFormatUnsupported
)

// LoadError represents an error that occurred while loading a pattern.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadPattern loads the pattern file (or CUE package directory) at path
// and selects one pattern. With an empty name the source must declare
// exactly one pattern.
func LoadPattern(path, name string) (*pattern.Pattern, error) {
	ps, err := LoadPatterns(path)
	if err != nil {
		return nil, err
	}
	return selectPattern(ps, name)
}

// LoadPatterns loads every pattern declared at path. Errors are *LoadError.
func LoadPatterns(path string) ([]*pattern.Pattern, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("pattern source not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing pattern source: %v", err)}
	}

	ps, err := compiler.Load(path)
	if err != nil {
		return nil, convertCompileError(err, path)
	}
	if len(ps) == 0 {
		return nil, &LoadError{Code: ErrCodeNoPatterns, Message: fmt.Sprintf("no patterns declared in %s", path)}
	}
	return ps, nil
}

func selectPattern(ps []*pattern.Pattern, name string) (*pattern.Pattern, error) {
	if name == "" {
		if len(ps) == 1 {
			return ps[0], nil
		}
		return nil, &LoadError{
			Code:    ErrCodeAmbiguous,
			Message: fmt.Sprintf("%d patterns declared, select one with --pattern: %s", len(ps), strings.Join(compiler.Names(ps), ", ")),
		}
	}
	for _, p := range ps {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, &LoadError{
		Code:    ErrCodeNoSuchName,
		Message: fmt.Sprintf("pattern %q not declared (have: %s)", name, strings.Join(compiler.Names(ps), ", ")),
	}
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "format":
		return ErrCodeBadFormat
	case field == "pattern":
		return ErrCodeNoPatterns
	case field == "cue", field == "yaml", field == "document":
		return ErrCodeLoadFailed
	case field == "commands", strings.HasPrefix(field, "commands["):
		return ErrCodeBadCommand
	default:
		return ErrCodeGeneric
	}
}

// errorCode returns the code to report for err: the LoadError code, the
// lowering code, or ErrCodeGeneric.
func errorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	if code := lower.CodeOf(err); code != "" {
		return string(code)
	}
	return ErrCodeGeneric
}
