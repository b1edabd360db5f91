package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across bounded contexts
const (
	CodeNotFound            = "NOT_FOUND"
	CodeAlreadyExists       = "ALREADY_EXISTS"
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidState        = "INVALID_STATE"
	CodeClosedPeriod        = "CLOSED_PERIOD"
	CodeIndexOutOfRange     = "INDEX_OUT_OF_RANGE"
	CodeDuplicateAssoc      = "DUPLICATE_ASSOCIATION"
	CodeDuplicateSubmission = "DUPLICATE_SUBMISSION"
	CodeUnauthorized        = "UNAUTHORIZED"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrClosedPeriod        = NewDomainError(CodeClosedPeriod, "Financial record is closed")
	ErrIndexOutOfRange     = NewDomainError(CodeIndexOutOfRange, "Transaction index out of range")
	ErrDuplicateAssoc      = NewDomainError(CodeDuplicateAssoc, "Investor is already associated with this property")
	ErrDuplicateSubmission = NewDomainError(CodeDuplicateSubmission, "Request is already being processed")
	ErrUnauthorized        = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
)

// NewValidationError creates a validation error with a specific code.
// An empty code falls back to VALIDATION_ERROR.
func NewValidationError(code, message string) *DomainError {
	if code == "" {
		code = CodeValidation
	}
	return NewDomainError(code, message)
}
