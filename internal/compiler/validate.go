package compiler

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/mbqc/internal/pattern"
)

// Validation error codes (E200-E299)
const (
	ErrFormatUnsupported = "E200" // format outside SupportedFormats
	ErrPatternNameEmpty  = "E201" // name is required
	ErrNegativeNode      = "E202" // node ids must be >= 0
	ErrDuplicateInput    = "E203" // node listed twice in inputs
	ErrDuplicateOutput   = "E204" // node listed twice in outputs
	ErrInvalidPlane      = "E205" // plane outside XY, YZ, XZ
	ErrSelfEntangle      = "E206" // E(n, n)
	ErrUnknownCommand    = "E207" // unknown command or Pauli kind
	ErrNonFiniteAngle    = "E208" // NaN or infinite measurement angle
)

// ValidationError represents a pattern validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks p for structural mistakes the lowering driver would
// silently tolerate. Returns all errors found (does not fail-fast).
//
// This is not a flow check: a valid pattern may still be non-deterministic.
func Validate(p *pattern.Pattern) []ValidationError {
	var errs []ValidationError

	// E201: name is required
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "name is required and must be non-empty",
			Code:    ErrPatternNameEmpty,
		})
	}

	errs = append(errs, validateIDList("inputs", p.Inputs, ErrDuplicateInput)...)
	errs = append(errs, validateIDList("outputs", p.Outputs, ErrDuplicateOutput)...)

	for i, cmd := range p.Commands {
		field := fmt.Sprintf("commands[%d]", i)

		for _, id := range pattern.Referenced(cmd) {
			if id < 0 {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("negative node id %d in %s", id, pattern.String(cmd)),
					Code:    ErrNegativeNode,
				})
			}
		}

		switch c := cmd.(type) {
		case pattern.Entangle:
			// E206: self-entanglement is skipped by the driver
			if c.A == c.B {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("node %d entangled with itself", c.A),
					Code:    ErrSelfEntangle,
				})
			}
		case pattern.Measure:
			// E205: plane must be canonical
			if _, err := pattern.ParsePlane(string(c.Plane)); err != nil {
				errs = append(errs, ValidationError{
					Field:   field + ".plane",
					Message: err.Error(),
					Code:    ErrInvalidPlane,
				})
			}
			// E208: angles are carried into every target as literals
			if math.IsNaN(c.Angle) || math.IsInf(c.Angle, 0) {
				errs = append(errs, ValidationError{
					Field:   field + ".angle",
					Message: fmt.Sprintf("angle %v is not finite", c.Angle),
					Code:    ErrNonFiniteAngle,
				})
			}
		case pattern.Correction:
			if c.Pauli != pattern.KindCorrectX && c.Pauli != pattern.KindCorrectZ {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("unknown correction %q", c.Pauli),
					Code:    ErrUnknownCommand,
				})
			}
		case pattern.Prepare, pattern.Clifford:
		default:
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("unsupported command type %T", cmd),
				Code:    ErrUnknownCommand,
			})
		}
	}

	return errs
}

func validateIDList(field string, ids []int, dupCode string) []ValidationError {
	var errs []ValidationError
	seen := make(map[int]bool, len(ids))
	for i, id := range ids {
		f := fmt.Sprintf("%s[%d]", field, i)
		if id < 0 {
			errs = append(errs, ValidationError{
				Field:   f,
				Message: fmt.Sprintf("negative node id %d", id),
				Code:    ErrNegativeNode,
			})
		}
		if seen[id] {
			errs = append(errs, ValidationError{
				Field:   f,
				Message: fmt.Sprintf("node %d listed twice", id),
				Code:    dupCode,
			})
		}
		seen[id] = true
	}
	return errs
}
