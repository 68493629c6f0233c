package harness

import (
	"fmt"
	"slices"
	"strings"
)

// ExpectationError is a failed expectation with enough context to debug it.
type ExpectationError struct {
	Field    string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *ExpectationError) Error() string {
	return fmt.Sprintf("expect.%s: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// checkError compares a lowering failure with expect.error.
func checkError(r *Result, exp Expect, err error) {
	if exp.Error == "" {
		r.AddError(fmt.Sprintf("unexpected lowering error: %v", err))
		return
	}
	if r.ErrorCode != exp.Error {
		r.AddError((&ExpectationError{Field: "error", Expected: exp.Error, Actual: fmt.Sprintf("%q (%v)", r.ErrorCode, err)}).Error())
	}
}

// EvaluateExpectations checks a successful lowering against exp and
// returns one message per unmet expectation.
func EvaluateExpectations(r *Result, exp Expect) []string {
	var errs []string
	add := func(e error) {
		if e != nil {
			errs = append(errs, e.Error())
		}
	}

	if exp.Error != "" {
		add(&ExpectationError{Field: "error", Expected: exp.Error, Actual: "success"})
	}
	if r.Artifact == nil {
		return errs
	}

	add(assertOutputs(r, exp.Outputs))
	add(assertCount("qubits", exp.Qubits, r.Artifact.Qubits))
	add(assertCount("bits", exp.Bits, r.Artifact.Bits))
	add(assertWarnings(r, exp.Warnings))
	for _, s := range exp.Contains {
		add(assertContains(r.Artifact.Text, s))
	}
	for _, s := range exp.Absent {
		add(assertAbsent(r.Artifact.Text, s))
	}
	return errs
}

func assertOutputs(r *Result, want []int) error {
	if want == nil || slices.Equal(want, r.Artifact.Results) {
		return nil
	}
	return &ExpectationError{Field: "outputs", Expected: fmt.Sprint(want), Actual: fmt.Sprint(r.Artifact.Results)}
}

func assertCount(field string, want *int, got int) error {
	if want == nil || *want == got {
		return nil
	}
	return &ExpectationError{Field: field, Expected: fmt.Sprint(*want), Actual: fmt.Sprint(got)}
}

func assertWarnings(r *Result, want []string) error {
	if want == nil {
		return nil
	}
	got := r.WarningCodes()
	if slices.Equal(want, got) {
		return nil
	}
	return &ExpectationError{Field: "warnings", Expected: fmt.Sprint(want), Actual: fmt.Sprint(got)}
}

func assertContains(text, s string) error {
	if strings.Contains(text, s) {
		return nil
	}
	return &ExpectationError{Field: "contains", Expected: fmt.Sprintf("%q in artifact", s), Actual: "not found"}
}

func assertAbsent(text, s string) error {
	if !strings.Contains(text, s) {
		return nil
	}
	return &ExpectationError{Field: "absent", Expected: fmt.Sprintf("no %q in artifact", s), Actual: "found"}
}
