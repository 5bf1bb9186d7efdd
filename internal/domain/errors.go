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

// Common domain error codes
const (
	ErrCodeValidation     = "VALIDATION_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeNotInitialized = "NOT_INITIALIZED"
	ErrCodeUpstream       = "UPSTREAM_ERROR"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyMessage    = NewDomainError(ErrCodeValidation, "message is required")
	ErrInvalidRole     = NewDomainError(ErrCodeValidation, "invalid message role")
	ErrEmptyCatalog    = NewDomainError(ErrCodeValidation, "catalog contains no products")
	ErrWrongDimensions = NewDomainError(ErrCodeValidation, "embedding has wrong dimensions")
	ErrMissingAPIKey   = NewDomainError(ErrCodeValidation, "OpenAI API key is not configured")
)

// Availability errors
var (
	// ErrNotInitialized means the embedding store holds no records yet.
	// It is retryable by the user after initialization completes.
	ErrNotInitialized  = NewDomainError(ErrCodeNotInitialized, "assistant not initialized: product embeddings are not loaded")
	ErrSessionNotFound = NewDomainError(ErrCodeNotFound, "conversation session not found")
)

// Upstream errors
var (
	ErrEmbeddingFailed  = NewDomainError(ErrCodeUpstream, "embedding generation failed")
	ErrCompletionFailed = NewDomainError(ErrCodeUpstream, "failed to generate response")
	ErrVectorStore      = NewDomainError(ErrCodeUpstream, "vector store operation failed")
)
