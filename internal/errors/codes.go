// Package errors defines the structured error taxonomy shared by the
// question pipeline, the store and the HTTP API. Each error carries a
// stable code so callers can branch on failure class without string
// matching, plus a user-facing message for the API layer.
package errors

import (
	"fmt"
)

// ErrorCode classifies a pipeline failure.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeServiceUnavailable indicates a dependency is not available.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeLLMUnavailable indicates the LLM service is not available.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeParse indicates a response could not be parsed.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
	// ErrCodeValidation indicates generated query conditions failed
	// validation.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeDB indicates a database failure.
	ErrCodeDB ErrorCode = "DB_ERROR"
	// ErrCodeNoData indicates the query matched no wage records.
	ErrCodeNoData ErrorCode = "NO_DATA"
	// ErrCodeKnowledgeUnavailable indicates the knowledge base is not
	// reachable.
	ErrCodeKnowledgeUnavailable ErrorCode = "KNOWLEDGE_UNAVAILABLE"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// PipelineError is a structured error with a stable code.
type PipelineError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *PipelineError) GetCode() ErrorCode {
	return e.Code
}

// FriendlyMessage returns the user-facing text for the error's code. The
// raw message may leak SQL or provider internals; this never does.
func (e *PipelineError) FriendlyMessage() string {
	switch e.Code {
	case ErrCodeNoData:
		return "I couldn't find any wage data matching your question. Try naming a specific state or year."
	case ErrCodeParse, ErrCodeValidation:
		return "I had trouble understanding the details of your question. Could you rephrase it?"
	case ErrCodeDB:
		return "The wage database is having trouble right now. Please try again in a moment."
	case ErrCodeLLMUnavailable, ErrCodeServiceUnavailable, ErrCodeKnowledgeUnavailable:
		return "Part of the service is temporarily unavailable. Please try again shortly."
	case ErrCodeRateLimitExceeded:
		return "You're sending questions too quickly. Please wait a moment and try again."
	case ErrCodeTimeout, ErrCodeContextCanceled:
		return "That took too long to answer. Please try again."
	default:
		return "Something went wrong while answering your question."
	}
}

// Convenience constructors for common error types.

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeInvalidArgument, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// ServiceUnavailable creates a service unavailable error.
func ServiceUnavailable(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeServiceUnavailable, Message: msg}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeLLMUnavailable, Message: msg, Cause: cause}
}

// Parse creates a parse error.
func Parse(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeParse, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeValidation, Message: msg}
}

// DB creates a database error.
func DB(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeDB, Message: msg, Cause: cause}
}

// NoData creates a no-data error.
func NoData(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeNoData, Message: msg}
}

// KnowledgeUnavailable creates a knowledge-base unavailable error.
func KnowledgeUnavailable(msg string, cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeKnowledgeUnavailable, Message: msg, Cause: cause}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *PipelineError {
	return &PipelineError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string) *PipelineError {
	return &PipelineError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with a code and message.
func Wrap(cause error, code ErrorCode, msg string) *PipelineError {
	return &PipelineError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if pErr, ok := err.(*PipelineError); ok {
		return pErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a PipelineError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if pErr, ok := err.(*PipelineError); ok {
		return pErr.Code
	}
	return defaultCode
}
