package harness

import (
	"github.com/roach88/mbqc/internal/lower"
	"github.com/roach88/mbqc/internal/store"
	"github.com/roach88/mbqc/internal/target"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Artifact is the lowering result; nil when lowering failed.
	Artifact *target.Artifact `json:"artifact,omitempty"`

	// ErrorCode is the lowering error code, if lowering failed.
	ErrorCode string `json:"error_code,omitempty"`

	// Warnings are the audit warnings raised during lowering.
	Warnings []lower.Warning `json:"warnings"`

	// Conversion is the row recorded in the scenario's store.
	Conversion *store.Conversion `json:"conversion,omitempty"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Warnings: []lower.Warning{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// WarningCodes returns the code of each warning in order.
func (r *Result) WarningCodes() []string {
	codes := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		codes[i] = w.Code
	}
	return codes
}
