package shared

import "errors"

// ErrorKind classifies a domain error into one of the failure categories
// the application layer exposes to callers.
type ErrorKind string

const (
	KindNotFound        ErrorKind = "NOT_FOUND"        // entity missing or soft-deleted
	KindInvalidArgument ErrorKind = "INVALID_ARGUMENT" // malformed or out-of-range input
	KindRuleViolation   ErrorKind = "RULE_VIOLATION"   // business invariant failure
	KindConflict        ErrorKind = "CONFLICT"         // concurrent modification detected
)

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new rule-violation domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Kind: KindRuleViolation, Code: code, Message: message}
}

// NewNotFoundError creates a not-found domain error
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// NewInvalidArgumentError creates an invalid-argument domain error
func NewInvalidArgumentError(code, message string) *DomainError {
	return &DomainError{Kind: KindInvalidArgument, Code: code, Message: message}
}

// NewConflictError creates a concurrency-conflict domain error
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// Common domain errors
var (
	ErrNotFound            = NewNotFoundError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewInvalidArgumentError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewConflictError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// kindOf extracts the ErrorKind from an error chain, or "" if the error
// is not a DomainError.
func kindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// IsInvalidArgument reports whether err is an invalid-argument domain error
func IsInvalidArgument(err error) bool {
	return kindOf(err) == KindInvalidArgument
}

// IsRuleViolation reports whether err is a rule-violation domain error
func IsRuleViolation(err error) bool {
	return kindOf(err) == KindRuleViolation
}

// IsConflict reports whether err is a concurrency-conflict domain error
func IsConflict(err error) bool {
	return kindOf(err) == KindConflict
}
