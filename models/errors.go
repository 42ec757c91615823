package models

import "fmt"

// Error codes used in API responses and internal error handling.
//
// Query-level codes fail the whole request; target-level codes are absorbed
// into the failing pharmacy's Quote and never escape the per-target boundary.
const (
	// Query-level.
	ErrCodeInvalidQuery       = "INVALID_QUERY"
	ErrCodeBrowserUnavailable = "BROWSER_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"

	// Target-level.
	ErrCodeNavigation    = "NAVIGATION_FAILED"
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeExtraction    = "EXTRACTION_FAILED"
	ErrCodeParse         = "PARSE_FAILURE"
	ErrCodeTargetTimeout = "TARGET_TIMEOUT"

	// Transport-level (middleware).
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SearchError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type SearchError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *SearchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// NewSearchError creates a new SearchError.
func NewSearchError(code, message string, err error) *SearchError {
	return &SearchError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *SearchError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}

// CodeOf extracts the error code from err, or ErrCodeInternal when err is
// not a SearchError.
func CodeOf(err error) string {
	if se, ok := err.(*SearchError); ok {
		return se.Code
	}
	return ErrCodeInternal
}
