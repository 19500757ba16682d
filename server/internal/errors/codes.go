package errors

import (
	"context"
	stderrors "errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/studybuddy/plugin/ai/tutor"
)

// ErrorCode represents a specific error type for AI operations.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates authentication failure.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeLLMUnavailable indicates no LLM is configured.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeGenerationFailed indicates the LLM failed or replied with nothing usable.
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal is used for anything else.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// AIError represents a structured error for AI operations.
type AIError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AIError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *AIError) WithContext(key string, value any) *AIError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *AIError {
	return &AIError{Code: ErrCodeUnauthorized, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *AIError {
	return &AIError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *AIError {
	return &AIError{Code: ErrCodeInvalidArgument, Message: msg}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string) *AIError {
	return &AIError{Code: ErrCodeLLMUnavailable, Message: msg}
}

// GenerationFailed creates a generation failed error.
func GenerationFailed(msg string, cause error) *AIError {
	return &AIError{Code: ErrCodeGenerationFailed, Message: msg, Cause: cause}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *AIError {
	return &AIError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string) *AIError {
	return &AIError{Code: ErrCodeTimeout, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *AIError {
	return &AIError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	var aiErr *AIError
	if stderrors.As(err, &aiErr) {
		return aiErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an AIError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var aiErr *AIError
	if stderrors.As(err, &aiErr) {
		return aiErr.Code
	}
	return defaultCode
}

// FromTutorError classifies an error returned by the tutor.
// Context errors are checked first because a canceled LLM call is also a generation failure.
func FromTutorError(err error) *AIError {
	if err == nil {
		return nil
	}
	var aiErr *AIError
	if stderrors.As(err, &aiErr) {
		return aiErr
	}
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return &AIError{Code: ErrCodeTimeout, Message: "generation timed out", Cause: err}
	case stderrors.Is(err, context.Canceled):
		return ContextCanceled(err)
	case stderrors.Is(err, tutor.ErrInvalidArgument):
		return InvalidArgument(err.Error())
	case stderrors.Is(err, tutor.ErrUnavailable):
		return LLMUnavailable(err.Error())
	case stderrors.Is(err, tutor.ErrGenerationFailed):
		return GenerationFailed("failed to generate content", err)
	default:
		return Wrap(err, ErrCodeInternal, "internal error")
	}
}

var codeToGRPC = map[ErrorCode]codes.Code{
	ErrCodeUnauthorized:      codes.Unauthenticated,
	ErrCodeRateLimitExceeded: codes.ResourceExhausted,
	ErrCodeInvalidArgument:   codes.InvalidArgument,
	ErrCodeLLMUnavailable:    codes.Unavailable,
	ErrCodeGenerationFailed:  codes.Unavailable,
	ErrCodeContextCanceled:   codes.Canceled,
	ErrCodeTimeout:           codes.DeadlineExceeded,
	ErrCodeInternal:          codes.Internal,
}

// GRPCCode returns the status code that corresponds to e.Code.
func (e *AIError) GRPCCode() codes.Code {
	if c, ok := codeToGRPC[e.Code]; ok {
		return c
	}
	return codes.Unknown
}

// ToStatus converts the error to a grpc status error. The cause is not exposed.
func (e *AIError) ToStatus() error {
	return status.Error(e.GRPCCode(), e.Message)
}

// FromStatus converts a grpc status error back into an AIError.
// Errors that carry no status become ErrCodeInternal.
func FromStatus(err error) *AIError {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return Wrap(err, ErrCodeInternal, err.Error())
	}
	code := ErrCodeInternal
	switch st.Code() {
	case codes.Unauthenticated:
		code = ErrCodeUnauthorized
	case codes.ResourceExhausted:
		code = ErrCodeRateLimitExceeded
	case codes.InvalidArgument:
		code = ErrCodeInvalidArgument
	case codes.Unavailable:
		code = ErrCodeLLMUnavailable
	case codes.Canceled:
		code = ErrCodeContextCanceled
	case codes.DeadlineExceeded:
		code = ErrCodeTimeout
	}
	return &AIError{Code: code, Message: st.Message()}
}
