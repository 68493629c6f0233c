package lower

import (
	"errors"
	"fmt"
)

// Error represents a structural problem detected during lowering.
//
// Lowering errors include:
//   - Dangling output: an output id has no live qubit at the end of the pass
//   - Unknown command: the stream contains a variant the driver cannot lower
//   - Resource exceeded: the pass hit the command budget
//   - Duplicate node: an id appears twice in the inputs or outputs
//
// No partial representation is produced when an Error is returned.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Node is the offending node id, or -1 when not applicable.
	Node int

	// Index is the position of the offending command, or -1.
	Index int

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes lowering errors.
type ErrorCode string

const (
	// ErrCodeDanglingOutput indicates an output id with no live qubit.
	ErrCodeDanglingOutput ErrorCode = "DANGLING_OUTPUT"

	// ErrCodeUnknownCommand indicates an unsupported command variant.
	ErrCodeUnknownCommand ErrorCode = "UNKNOWN_COMMAND_KIND"

	// ErrCodeResourceExceeded indicates the command budget was exhausted.
	ErrCodeResourceExceeded ErrorCode = "RESOURCE_EXCEEDED"

	// ErrCodeDuplicateNode indicates a repeated id in inputs or outputs.
	ErrCodeDuplicateNode ErrorCode = "DUPLICATE_NODE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Index >= 0 && e.Node >= 0:
		return fmt.Sprintf("%s: %s (command=%d, node=%d)", e.Code, e.Message, e.Index, e.Node)
	case e.Index >= 0:
		return fmt.Sprintf("%s: %s (command=%d)", e.Code, e.Message, e.Index)
	case e.Node >= 0:
		return fmt.Sprintf("%s: %s (node=%d)", e.Code, e.Message, e.Node)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the lowering error code of err, or "" if err is not a
// lowering error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsDanglingOutput returns true if err is a dangling output error.
func IsDanglingOutput(err error) bool {
	return CodeOf(err) == ErrCodeDanglingOutput
}

// IsUnknownCommand returns true if err is an unknown command error.
func IsUnknownCommand(err error) bool {
	return CodeOf(err) == ErrCodeUnknownCommand
}

// IsResourceExceeded returns true if err is a resource error.
// Matches both Error with ErrCodeResourceExceeded and BudgetExceededError.
func IsResourceExceeded(err error) bool {
	if CodeOf(err) == ErrCodeResourceExceeded {
		return true
	}
	var be *BudgetExceededError
	return errors.As(err, &be)
}

// NewDanglingOutputError creates an Error for an output with no live qubit.
func NewDanglingOutputError(node int) *Error {
	return &Error{
		Code:    ErrCodeDanglingOutput,
		Message: "output node has no live qubit",
		Node:    node,
		Index:   -1,
	}
}

// NewUnknownCommandError creates an Error for an unsupported command.
func NewUnknownCommandError(index int, kind string) *Error {
	return &Error{
		Code:    ErrCodeUnknownCommand,
		Message: fmt.Sprintf("unsupported command kind %q", kind),
		Node:    -1,
		Index:   index,
		Details: map[string]string{"kind": kind},
	}
}

// NewResourceError wraps a budget failure.
func NewResourceError(index int, cause *BudgetExceededError) *Error {
	return &Error{
		Code:    ErrCodeResourceExceeded,
		Message: fmt.Sprintf("pattern exceeded command budget (%d > %d)", cause.Commands, cause.Limit),
		Node:    -1,
		Index:   index,
		Details: map[string]string{
			"commands":     fmt.Sprintf("%d", cause.Commands),
			"max_commands": fmt.Sprintf("%d", cause.Limit),
		},
		Err: cause,
	}
}

// NewDuplicateNodeError creates an Error for a repeated input or output id.
func NewDuplicateNodeError(list string, node int) *Error {
	return &Error{
		Code:    ErrCodeDuplicateNode,
		Message: fmt.Sprintf("node listed twice in %s", list),
		Node:    node,
		Index:   -1,
		Details: map[string]string{"list": list},
	}
}
