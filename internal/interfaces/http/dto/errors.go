package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeTimeout is used when an operation ran out of time
	ErrCodeTimeout = "ERR_TIMEOUT"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeDuplicateRequest is used when an idempotency key is still in flight
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
	// ErrCodePDFNotFound is used when a job has no stored PDF
	ErrCodePDFNotFound = "ERR_PDF_NOT_FOUND"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInvalidPayload is used when a document payload fails validation
	ErrCodeInvalidPayload = "ERR_INVALID_PAYLOAD"
	// ErrCodeInvalidPaperSize is used for unknown or disallowed page profiles
	ErrCodeInvalidPaperSize = "ERR_INVALID_PAPER_SIZE"
	// ErrCodeInvalidProfile is used when page geometry leaves no printable area
	ErrCodeInvalidProfile = "ERR_INVALID_PROFILE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeInvalidDocType is used for unknown document types
	ErrCodeInvalidDocType = "ERR_INVALID_DOC_TYPE"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Rendering error codes
const (
	// ErrCodeRenderFailed is used when composition fails
	ErrCodeRenderFailed = "ERR_RENDER_FAILED"
	// ErrCodeStorageFailed is used when a PDF cannot be stored or read
	ErrCodeStorageFailed = "ERR_STORAGE_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,
	ErrCodeTimeout:  http.StatusGatewayTimeout,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeDuplicateRequest: http.StatusConflict,
	ErrCodePDFNotFound:      http.StatusNotFound,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeInvalidPayload:   http.StatusUnprocessableEntity,
	ErrCodeInvalidPaperSize: http.StatusUnprocessableEntity,
	ErrCodeInvalidProfile:   http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeInvalidDocType:  http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Rendering errors
	ErrCodeRenderFailed:  http.StatusInternalServerError,
	ErrCodeStorageFailed: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain and engine error codes to the
// standardized API codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"DUPLICATE_REQUEST":       ErrCodeDuplicateRequest,
	"VALIDATION_ERROR":        ErrCodeValidation,
	"BAD_REQUEST":             ErrCodeBadRequest,
	"INTERNAL_ERROR":          ErrCodeInternal,
	"INVALID_TENANT":          ErrCodeInvalidInput,
	"INVALID_DOCUMENT_NUMBER": ErrCodeInvalidInput,
	"INVALID_BRAND":           ErrCodeInvalidInput,
	"INVALID_DOC_TYPE":        ErrCodeInvalidDocType,
	"INVALID_PAYLOAD":         ErrCodeInvalidPayload,
	"INVALID_PAPER_SIZE":      ErrCodeInvalidPaperSize,
	"INVALID_PROFILE":         ErrCodeInvalidProfile,
	"RENDER_FAILED":           ErrCodeRenderFailed,
	"STORAGE_FAILED":          ErrCodeStorageFailed,
	"PDF_NOT_FOUND":           ErrCodePDFNotFound,
}

// NormalizeErrorCode converts a legacy error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
