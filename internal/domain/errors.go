package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches another DomainError with the same code and message, so wrapped
// sentinels still satisfy errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeDiscovery  = "DISCOVERY_ERROR"
	ErrCodeService    = "SERVICE_ERROR"
)

// Configuration errors
var (
	ErrMissingSearchURL   = NewDomainError(ErrCodeValidation, "UPSTASH_SEARCH_REST_URL is required")
	ErrMissingSearchToken = NewDomainError(ErrCodeValidation, "UPSTASH_SEARCH_REST_TOKEN is required")
	ErrMissingReadToken   = NewDomainError(ErrCodeValidation, "UPSTASH_SEARCH_READONLY_REST_TOKEN or UPSTASH_SEARCH_REST_TOKEN is required")
	ErrMissingNamespace   = NewDomainError(ErrCodeValidation, "UPSTASH_SEARCH_INDEX_NAMESPACE must not be empty")
	ErrMissingDocsPath    = NewDomainError(ErrCodeValidation, "DOCS_PATH must not be empty")
)

// Discovery errors
var (
	ErrDocsRootNotDir = NewDomainError(ErrCodeDiscovery, "docs path is not a directory")
	ErrReadDocument   = NewDomainError(ErrCodeDiscovery, "failed to read document")
)

// Service errors
var (
	ErrResetFailed = NewDomainError(ErrCodeService, "failed to reset index")
)
