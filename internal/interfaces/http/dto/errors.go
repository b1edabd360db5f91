package dto

import (
	"net/http"
	"strings"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
)

// HTTP-layer error codes. Domain codes are passed through unchanged.
const (
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeValidation          = shared.CodeValidation
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeUnauthorized        = shared.CodeUnauthorized
	ErrCodeTokenExpired        = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid        = "TOKEN_INVALID"
	ErrCodeNotFound            = shared.CodeNotFound
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeRequestTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeDuplicateSubmission = shared.CodeDuplicateSubmission
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Input
	ErrCodeValidation:  http.StatusBadRequest,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Lookups; the client should reload its copy of the record
	ErrCodeNotFound:           http.StatusNotFound,
	shared.CodeIndexOutOfRange: http.StatusNotFound,
	"TRANSACTION_NOT_FOUND":    http.StatusNotFound,
	"PROPERTY_NOT_ASSOCIATED":  http.StatusNotFound,

	// Conflicts
	shared.CodeAlreadyExists:   http.StatusConflict,
	shared.CodeDuplicateAssoc:  http.StatusConflict,
	ErrCodeDuplicateSubmission: http.StatusConflict,

	// State rules
	shared.CodeClosedPeriod: http.StatusUnprocessableEntity,
	shared.CodeInvalidState: http.StatusUnprocessableEntity,

	// Collaborators
	"STORAGE_FAILED":      http.StatusBadGateway,
	"RENDER_FAILED":       http.StatusInternalServerError,
	"EXPORT_UNAVAILABLE":  http.StatusServiceUnavailable,
	"STORAGE_UNAVAILABLE": http.StatusServiceUnavailable,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Any INVALID_* code is a 400; unknown codes are a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// RequiresResync reports whether the client's copy of the data is stale
func RequiresResync(code string) bool {
	switch code {
	case shared.CodeIndexOutOfRange, "TRANSACTION_NOT_FOUND":
		return true
	}
	return false
}
