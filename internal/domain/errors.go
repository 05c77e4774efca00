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

// Is matches by code and message so wrapped copies compare equal to the sentinels.
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

// WithCause returns a copy of the error carrying an underlying cause.
func (e *DomainError) WithCause(err error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeUnavailable      = "UNAVAILABLE"
)

// Ingestion errors
var (
	ErrUnsupportedType   = NewDomainError(ErrCodeValidation, "only PDF or TXT files are allowed")
	ErrEmptyContent      = NewDomainError(ErrCodeValidation, "extracted file content is empty")
	ErrInvalidEncoding   = NewDomainError(ErrCodeValidation, "file content is not valid UTF-8")
	ErrDuplicateDocument = NewDomainError(ErrCodeAlreadyExists, "document id already exists")
	ErrStorageFailed     = NewDomainError(ErrCodeInternalError, "document storage operation failed")
)

// Query errors
var (
	ErrInvalidQuestion  = NewDomainError(ErrCodeValidation, "question cannot be empty")
	ErrNoContext        = NewDomainError(ErrCodeInvalidOperation, "no documents available to answer from")
	ErrEmbeddingFailed  = NewDomainError(ErrCodeUnavailable, "embedding generation failed")
	ErrGenerationFailed = NewDomainError(ErrCodeUnavailable, "answer generation failed")
)

// Not found errors
var (
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
)
