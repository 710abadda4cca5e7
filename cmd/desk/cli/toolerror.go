// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/bureau-foundation/helpdesk/lib/deskapi"
)

// ErrorCategory classifies command errors so scripts can tell bad input
// from a missing ticket from an unreachable service without parsing
// message text. main maps each category to an exit code.
type ErrorCategory string

const (
	// CategoryValidation: missing arguments, bad flag values, a
	// password confirmation that does not match.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: the ticket does not exist or belongs to
	// someone else.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden: no session, an expired session, or
	// credentials the service rejected.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryTransient: the service was unreachable or timed out.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: everything else.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by commands. It wraps the
// underlying error, so errors.Is and errors.As see through it.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode maps the category to the process exit status.
func (e *ToolError) ExitCode() int {
	switch e.Category {
	case CategoryValidation:
		return 2
	case CategoryNotFound:
		return 3
	case CategoryForbidden:
		return 4
	case CategoryTransient:
		return 5
	}
	return 1
}

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// FromAPI categorizes an error returned by the ticket service client.
// The message is the service's own text, prefixed by action. nil stays
// nil and an existing *ToolError is returned unchanged.
func FromAPI(action string, err error) error {
	if err == nil {
		return nil
	}
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError
	}

	category := CategoryInternal
	var netError net.Error
	switch {
	case errors.Is(err, deskapi.ErrUnauthorized), errors.Is(err, deskapi.ErrForbidden):
		category = CategoryForbidden
	case errors.Is(err, deskapi.ErrNotFound):
		category = CategoryNotFound
	case errors.Is(err, deskapi.ErrMissingTicket):
		category = CategoryValidation
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netError):
		category = CategoryTransient
	}
	return &ToolError{Category: category, Err: fmt.Errorf("%s: %s", action, deskapi.Message(err))}
}
