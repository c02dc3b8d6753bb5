package dto

import (
	"errors"
	"net/http"
	"strings"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
)

// Error codes raised by the HTTP layer itself. Domain and application errors
// keep the code of their shared.DomainError.
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeInvalidID       = "INVALID_ID"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
	ErrCodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"

	// Token errors raised by the JWT middleware
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"

	// Webhook signature errors
	ErrCodeMissingSignature = "MISSING_SIGNATURE"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodeInvalidPayload   = "INVALID_PAYLOAD"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	"EXTERNAL_SERVICE": http.StatusBadGateway,

	// Input
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,
	ErrCodeInvalidID:         http.StatusBadRequest,
	ErrCodeInvalidPayload:    http.StatusBadRequest,
	"INVALID_INPUT":          http.StatusBadRequest,
	"VALIDATION_ERRORS":      http.StatusBadRequest,
	"EMPTY_ORDER":            http.StatusBadRequest,
	"EMPTY_FILE":             http.StatusBadRequest,
	"PRODUCT_NOT_FOUND":      http.StatusBadRequest,
	"INSUFFICIENT_STOCK":     http.StatusBadRequest,
	"UNSUPPORTED_MEDIA_TYPE": http.StatusUnsupportedMediaType,

	// Auth
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeTokenInvalid:     http.StatusUnauthorized,
	ErrCodeTokenRevoked:     http.StatusUnauthorized,
	ErrCodeMissingSignature: http.StatusUnauthorized,
	"INVALID_CREDENTIALS":   http.StatusUnauthorized,
	"TOKEN_MAX_REFRESH":     http.StatusUnauthorized,
	ErrCodeForbidden:        http.StatusForbidden,
	ErrCodeInvalidSignature: http.StatusForbidden,
	"ACCOUNT_SUSPENDED":     http.StatusForbidden,
	"SIGNUP_DISABLED":       http.StatusForbidden,

	// Resources
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeRouteNotFound:      http.StatusNotFound,
	"ALREADY_EXISTS":          http.StatusConflict,
	"EMAIL_TAKEN":             http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"INVALID_STATE":           http.StatusUnprocessableEntity,

	// Size and rate limits
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	"FILE_TOO_LARGE":       http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	// Upstream
	"EXCHANGE_RATE_UNAVAILABLE": http.StatusBadGateway,
	"ERR_PAYMENT_GATEWAY":       http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted INVALID_* codes are input errors; anything else is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// sentinelStatus is consulted for domain errors whose own code is unlisted
var sentinelStatus = []struct {
	err    error
	status int
}{
	{shared.ErrNotFound, http.StatusNotFound},
	{shared.ErrAlreadyExists, http.StatusConflict},
	{shared.ErrConcurrentUpdate, http.StatusConflict},
	{shared.ErrUnauthorized, http.StatusUnauthorized},
	{shared.ErrForbidden, http.StatusForbidden},
	{shared.ErrInsufficientStock, http.StatusBadRequest},
	{shared.ErrInvalidInput, http.StatusBadRequest},
	{shared.ErrInvalidState, http.StatusUnprocessableEntity},
	{shared.ErrExternalService, http.StatusBadGateway},
}

// ResolveError derives the public code, message and HTTP status for err.
// Errors that are not domain errors are reported as internal errors with a
// generic message.
func ResolveError(err error) (code, message string, status int) {
	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) {
		return ErrCodeInternal, "An unexpected error occurred", http.StatusInternalServerError
	}

	code, message = domainErr.Code, domainErr.Message
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return code, message, status
	}
	for _, s := range sentinelStatus {
		if errors.Is(err, s.err) {
			return code, message, s.status
		}
	}
	return code, message, GetHTTPStatus(code)
}
