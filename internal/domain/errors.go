package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
	// UpstreamStatus carries the HTTP status returned by an external
	// service when Code is ErrCodeUpstream. Zero means unknown.
	UpstreamStatus int
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

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
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

// NewUpstreamError creates a DomainError for a failed external service call,
// preserving the upstream HTTP status when known.
func NewUpstreamError(message string, status int, err error) *DomainError {
	return &DomainError{
		Code:           ErrCodeUpstream,
		Message:        message,
		Err:            err,
		UpstreamStatus: status,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUnsupportedMedia = "UNSUPPORTED_MEDIA"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeParse            = "PARSE_ERROR"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrMissingSearchInput = NewDomainError(ErrCodeValidation, "you must provide either an image or a search string")
	ErrMissingWebsite     = NewDomainError(ErrCodeValidation, "website is required")
)

// Media errors
var (
	ErrUnsupportedImageType = NewDomainError(ErrCodeUnsupportedMedia, "invalid file type, only PNG and JPEG images are supported")
)

// Pipeline defects
var (
	// ErrNoQueryInputs marks the unreachable state where the query composer
	// is invoked with neither a product descriptor nor intent text.
	ErrNoQueryInputs = NewDomainError(ErrCodeInternalError, "query composer invoked with no inputs")
)
