// Package errors defines the closed set of domain failures the checkout
// flow can produce. Each carries a stable machine-readable code so the
// HTTP layer can map failures to distinct responses without inspecting
// message text. Anything that is not a DomainError is treated as an
// infrastructure error and collapses to a generic outcome at the boundary.
package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Stable domain error codes.
const (
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeProductNotFound     = "PRODUCT_NOT_FOUND"
	CodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	CodeCustomerNotFound    = "CUSTOMER_NOT_FOUND"
	CodeInvalidCard         = "INVALID_CARD"
	CodePaymentFailed       = "PAYMENT_FAILED"
)

// Codes lists every domain error code. Kept in one place so tests can
// assert the codes stay pairwise distinct.
var Codes = []string{
	CodeInsufficientStock,
	CodeProductNotFound,
	CodeTransactionNotFound,
	CodeCustomerNotFound,
	CodeInvalidCard,
	CodePaymentFailed,
}

// ErrInvalidTransition rejects state-machine transitions out of a
// terminal transaction status. It is not part of the coded taxonomy:
// correct callers never trigger it.
var ErrInvalidTransition = errors.New("invalid state transition")

// DomainError is a named, coded failure safe to surface to API clients.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewInsufficientStock reports that a product cannot cover the requested
// quantity. The message carries the product id and both quantities.
func NewInsufficientStock(productID uuid.UUID, requested, available int) *DomainError {
	return &DomainError{
		Code: CodeInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
			productID, requested, available),
	}
}

// NewProductNotFound reports an unknown product id.
func NewProductNotFound(id uuid.UUID) *DomainError {
	return &DomainError{Code: CodeProductNotFound, Message: fmt.Sprintf("product %s not found", id)}
}

// NewTransactionNotFound reports an unknown transaction id.
func NewTransactionNotFound(id uuid.UUID) *DomainError {
	return &DomainError{Code: CodeTransactionNotFound, Message: fmt.Sprintf("transaction %s not found", id)}
}

// NewCustomerNotFound reports an unknown customer, by id or email.
func NewCustomerNotFound(ref string) *DomainError {
	return &DomainError{Code: CodeCustomerNotFound, Message: fmt.Sprintf("customer %s not found", ref)}
}

// NewInvalidCard reports a card the gateway refused to tokenize.
func NewInvalidCard(reason string) *DomainError {
	if reason == "" {
		reason = "card was rejected"
	}
	return &DomainError{Code: CodeInvalidCard, Message: reason}
}

// NewPaymentFailed reports a gateway-side payment failure.
func NewPaymentFailed(reason string, err error) *DomainError {
	if reason == "" {
		reason = "payment failed"
	}
	return &DomainError{Code: CodePaymentFailed, Message: reason, Err: err}
}

// ValidationError reports invalid request input. It carries the field
// that failed so API clients can point at it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsDomain reports whether err (or anything it wraps) is a DomainError.
func IsDomain(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// CodeOf returns the domain code of err, or "" for infrastructure errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// HasCode reports whether err carries the given domain code.
func HasCode(err error, code string) bool {
	return CodeOf(err) == code
}
