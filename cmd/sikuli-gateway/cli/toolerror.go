// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ErrorCategory classifies command errors. The category decides the
// exit code.
type ErrorCategory string

const (
	// CategoryValidation is bad input: unknown flags, malformed
	// arguments, invalid configuration. Exit code 2.
	CategoryValidation ErrorCategory = "validation"

	// CategoryTransient is a failure that may pass on retry, such as a
	// backend that did not come up in time.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal is everything else.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized command error. It wraps the underlying
// error so errors.Is and errors.As see through it.
type ToolError struct {
	Category ErrorCategory
	Err      error

	// Hint is an optional next step shown after the message.
	Hint string
}

func (e *ToolError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

// WithHint sets the hint and returns the receiver for chaining.
func (e *ToolError) WithHint(hint string) *ToolError {
	e.Hint = hint
	return e
}

func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode is 2 for validation errors and 1 otherwise.
func (e *ToolError) ExitCode() int {
	if e.Category == CategoryValidation {
		return 2
	}
	return 1
}

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}
