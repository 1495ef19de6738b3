package clients

import "fmt"

// CustomError represents different types of AI client errors
type CustomError struct {
	Type    ErrorType
	Message string
}

type ErrorType int

const (
	ErrorTypeGeneral ErrorType = iota
	ErrorTypeTokenLimit
	ErrorTypeInvalidAPIKey
	ErrorTypeRateLimit
	ErrorTypeModelNotFound
	ErrorTypeQuotaExceeded
)

func (e *CustomError) Error() string {
	return e.Message
}

// IsTokenLimitError checks if the error is related to token limits
func IsTokenLimitError(err error) bool {
	if customErr, ok := err.(*CustomError); ok {
		return customErr.Type == ErrorTypeTokenLimit
	}
	return false
}

// IsRateLimitError checks if the error is a rate limit error
func IsRateLimitError(err error) bool {
	if customErr, ok := err.(*CustomError); ok {
		return customErr.Type == ErrorTypeRateLimit
	}
	return false
}

// NewTokenLimitError creates a new token limit error
func NewTokenLimitError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeTokenLimit,
		Message: fmt.Sprintf("token limit exceeded: %s", message),
	}
}

// NewInvalidAPIKeyError creates a new invalid API key error
func NewInvalidAPIKeyError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeInvalidAPIKey,
		Message: fmt.Sprintf("invalid API key: %s", message),
	}
}

// NewRateLimitError creates a new rate limit error
func NewRateLimitError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeRateLimit,
		Message: fmt.Sprintf("rate limit reached: %s", message),
	}
}

// NewModelNotFoundError creates a new model not found error
func NewModelNotFoundError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeModelNotFound,
		Message: fmt.Sprintf("model not found: %s", message),
	}
}

// NewQuotaExceededError creates a new quota exceeded error
func NewQuotaExceededError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeQuotaExceeded,
		Message: fmt.Sprintf("API quota exceeded: %s", message),
	}
}

// NewGeneralError creates a new general error
func NewGeneralError(message string) *CustomError {
	return &CustomError{
		Type:    ErrorTypeGeneral,
		Message: message,
	}
}
