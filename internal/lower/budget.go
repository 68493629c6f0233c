package lower

import (
	"errors"
	"fmt"
)

// DefaultMaxCommands is the command budget used when none is configured.
const DefaultMaxCommands = 1_000_000

// Budget counts processed commands and enforces a maximum.
// Each pass has its own Budget.
type Budget struct {
	limit   int
	current int
}

// NewBudget creates a budget allowing up to limit commands.
// A limit <= 0 disables the check.
func NewBudget(limit int) *Budget {
	return &Budget{limit: limit}
}

// Check counts one command and validates against the limit.
// Returns BudgetExceededError once the count passes the limit.
func (b *Budget) Check() error {
	b.current++
	if b.limit > 0 && b.current > b.limit {
		return &BudgetExceededError{Commands: b.current, Limit: b.limit}
	}
	return nil
}

// Allows reports whether a stream of n commands fits the budget.
func (b *Budget) Allows(n int) bool {
	return b.limit <= 0 || n <= b.limit
}

// Current returns the number of commands counted.
func (b *Budget) Current() int {
	return b.current
}

// Limit returns the configured maximum.
func (b *Budget) Limit() int {
	return b.limit
}

// BudgetExceededError is returned when a pass processes more commands
// than its budget allows.
type BudgetExceededError struct {
	Commands int
	Limit    int
}

// Error implements the error interface.
func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("command budget exceeded: %d commands > %d limit", e.Commands, e.Limit)
}

// IsBudgetExceededError returns true if err is a BudgetExceededError.
func IsBudgetExceededError(err error) bool {
	var be *BudgetExceededError
	return errors.As(err, &be)
}
