package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists    = "ERR_ALREADY_EXISTS"
	ErrCodeConflict         = "ERR_CONFLICT"
	ErrCodeMethodNotAllowed = "ERR_METHOD_NOT_ALLOWED"
)

// Business rule error codes
const (
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeBusinessRule        = "ERR_BUSINESS_RULE"
	ErrCodeInsufficientBalance = "ERR_INSUFFICIENT_BALANCE"
	ErrCodeRewardInactive      = "ERR_REWARD_INACTIVE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeMethodNotAllowed: http.StatusMethodNotAllowed,

	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientBalance: http.StatusUnprocessableEntity,
	ErrCodeRewardInactive:      http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// transport codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
	"INTERNAL_ERROR":         ErrCodeInternal,
	"INSUFFICIENT_BALANCE":   ErrCodeInsufficientBalance,
	"MISSING_TENANT_CONTEXT": ErrCodeInternal,

	"INVALID_CREDENTIALS": ErrCodeUnauthorized,
	"INVALID_TOKEN":       ErrCodeTokenInvalid,
	"ACCOUNT_DEACTIVATED": ErrCodeForbidden,
	"TENANT_INACTIVE":     ErrCodeForbidden,

	"INVALID_AMOUNT":           ErrCodeInvalidInput,
	"INVALID_RULES":            ErrCodeInvalidInput,
	"INVALID_EXTERNAL_ID":      ErrCodeInvalidInput,
	"INVALID_EMAIL":            ErrCodeInvalidInput,
	"INVALID_PASSWORD":         ErrCodeInvalidInput,
	"INVALID_TENANT_NAME":      ErrCodeInvalidInput,
	"INVALID_CAMPAIGN_NAME":    ErrCodeInvalidInput,
	"INVALID_POINTS_VALUE":     ErrCodeInvalidInput,
	"INVALID_REWARD_TYPE":      ErrCodeInvalidInput,
	"INVALID_REWARD_NAME":      ErrCodeInvalidInput,
	"INVALID_POINT_COST":       ErrCodeInvalidInput,
	"INVALID_KEY_LABEL":        ErrCodeInvalidInput,
	"INVALID_TRANSACTION_KIND": ErrCodeInvalidInput,
	"INVALID_CUSTOMER":         ErrCodeInvalidInput,

	"REWARD_INACTIVE": ErrCodeRewardInactive,
}

// NormalizeErrorCode converts a domain error code to the standardized
// transport format. Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
