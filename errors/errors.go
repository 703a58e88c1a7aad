package errors

import (
	"fmt"
)

// AppError is the unified error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the request can be resubmitted.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Constructors ---

// IO creates an error for a failed read of a dictionary, table or definition file.
func IO(message string) *AppError {
	return &AppError{Code: ErrCodeIO, Message: message}
}

// InvalidInput creates an error for a stage that received a value it does not support.
// expected names the accepted shape(s), e.g. "text_sequence".
func InvalidInput(stage, expected string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("invalid input for stage %s: expected %s", stage, expected),
		Details: map[string]any{"stage": stage, "expected": expected},
	}
}

// EmptyPipeline creates the error returned when a pipeline with no stages is run.
func EmptyPipeline() *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: "pipeline has no stages"}
}

// InvalidConfig creates an error for a bad configuration value or stage parameter.
func InvalidConfig(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("invalid configuration: %s", reason),
		Details: details,
	}
}

// Validation creates an error for failed struct validation.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// Serialization creates an error for a value that cannot be converted to the exchange format.
func Serialization(message string) *AppError {
	return &AppError{Code: ErrCodeSerialization, Message: message}
}

// Unknown creates a catch-all error. message must describe what happened.
func Unknown(message string) *AppError {
	return &AppError{Code: ErrCodeUnknown, Message: message}
}

// UnknownStageKind creates an error for a stage kind missing from the registry.
func UnknownStageKind(kind string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownStageKind,
		Message: fmt.Sprintf("stage kind %q is not registered", kind),
		Details: map[string]any{"kind": kind},
	}
}

// Frozen creates the error returned when a stage is added after the build phase.
func Frozen() *AppError {
	return &AppError{
		Code:    ErrCodePipelineFrozen,
		Message: "stages cannot be added once the pipeline is in use",
	}
}

// Canceled creates an error for a request that was skipped because its batch ended.
func Canceled(cause error) *AppError {
	return &AppError{
		Code:      ErrCodeCanceled,
		Message:   "request was not processed before the batch ended",
		Retryable: true,
		Cause:     cause,
	}
}

// Wrap converts any error into an AppError. AppErrors (also wrapped ones)
// are returned as-is, anything else becomes UNKNOWN_ERROR with the error as cause.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Unknown(err.Error()).WithCause(err)
}
