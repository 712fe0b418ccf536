package dto

import "net/http"

// General error codes used by the HTTP layer itself
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here fall back to 500.
var ErrorCodeHTTPStatus = map[string]int{
	// Input and state validation -> 400 Bad Request
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeValidation:         http.StatusBadRequest,
	"INVALID_INPUT":           http.StatusBadRequest,
	"INVALID_EMPLOYEE_NUMBER": http.StatusBadRequest,
	"INVALID_NATIONAL_ID":     http.StatusBadRequest,
	"INVALID_PASSWORD":        http.StatusBadRequest,
	"INVALID_TIME":            http.StatusBadRequest,

	// Authentication -> 401 Unauthorized
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	"INVALID_TOKEN":       http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,

	// Authorization -> 403 Forbidden
	ErrCodeForbidden: http.StatusForbidden,

	// Missing resources -> 404 Not Found
	ErrCodeNotFound:    http.StatusNotFound,
	"PERSON_NOT_FOUND": http.StatusNotFound,

	// Conflicts -> 409 Conflict
	"ALREADY_EXISTS":     http.StatusConflict,
	"ALREADY_REGISTERED": http.StatusConflict,
	"ALREADY_CHECKED_IN": http.StatusConflict,

	// Business rule rejections -> 422 Unprocessable Entity
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"TOKEN_CONSUMED":      http.StatusUnprocessableEntity,
	"ALREADY_CHECKED_OUT": http.StatusUnprocessableEntity,
	"NO_OPEN_CHECK_IN":    http.StatusUnprocessableEntity,
	"INVALID_COORDINATES": http.StatusUnprocessableEntity,
	"INVALID_CODE":        http.StatusUnprocessableEntity,
	"PHONE_UNAVAILABLE":   http.StatusUnprocessableEntity,

	// Upstream dependencies -> 503 Service Unavailable
	"UNAVAILABLE":     http.StatusServiceUnavailable,
	"DELIVERY_FAILED": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
