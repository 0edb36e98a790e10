package core

import (
	"fmt"
	"strings"
)

// The error types below distinguish which stage of a request failed, so
// callers can tell "safe to resubmit" (nothing was written) from "retry
// notification only" (the invoice already exists).

// ValidationError reports malformed or out-of-range input. It is always
// raised before any write happens.
type ValidationError struct {
	Message string
	// Fields names the offending inputs, e.g. "items[2].quantity".
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Fields, ", "))
}

// NewValidationError builds a ValidationError with optional field refs.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// AuthorizationError means the caller is authenticated but its role
// does not permit the action.
type AuthorizationError struct {
	Action string
}

func (e *AuthorizationError) Error() string {
	return "you do not have permission to " + e.Action
}

// PersistenceError wraps a failed store write. Fatal to the request.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// RenderError wraps a document-generation fault. If the invoice was
// already persisted its id is carried so the caller can reconcile.
type RenderError struct {
	InvoiceID int
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("document rendering failed: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// DeliveryError means the outbound email dispatch failed after the
// invoice was persisted. InvoiceID is always set so the caller can
// distinguish "invoice exists, email failed" from "never created".
type DeliveryError struct {
	InvoiceID int
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email delivery failed: %v", e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
