// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched by [Error.Is].
var (
	ErrUnauthorized = errors.New("deskapi: unauthorized")
	ErrForbidden    = errors.New("deskapi: forbidden")
	ErrNotFound     = errors.New("deskapi: not found")
)

// ErrMissingTicket is returned by note operations called without a
// ticket id. No request is sent.
var ErrMissingTicket = errors.New("deskapi: ticket id is required")

// Error is a non-2xx response from the ticket service. The service
// reports failures as {"message": "..."}.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// Is maps status codes to the package sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Message extracts the text shown to the user for err: the service's
// message for an *Error, the error string otherwise. The UI shows this
// verbatim in notifications and inline error lines.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiError *Error
	if errors.As(err, &apiError) {
		return apiError.Message
	}
	return err.Error()
}

func errorFromStatus(statusCode int, message string) *Error {
	if message == "" {
		message = fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
	}
	return &Error{StatusCode: statusCode, Message: message}
}
