package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Construction errors
const (
	// ErrCodeIO indicates a dictionary, table or definition file could not be read.
	ErrCodeIO ErrorCode = "IO_ERROR"
	// ErrCodeUnknownStageKind indicates a stage kind has no registered constructor.
	ErrCodeUnknownStageKind ErrorCode = "UNKNOWN_STAGE_KIND"
	// ErrCodePipelineFrozen indicates a stage was added after the build phase.
	ErrCodePipelineFrozen ErrorCode = "PIPELINE_FROZEN"
)

// Processing errors
const (
	// ErrCodeInvalidInput indicates a stage received a value shape it does not support,
	// or that a configuration value is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeSerialization indicates a terminal value could not be converted to the exchange format.
	ErrCodeSerialization ErrorCode = "SERIALIZATION_ERROR"
	// ErrCodeCanceled indicates a request was not processed because its batch ended early.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeUnknown is the catch-all for unclassified failures.
	ErrCodeUnknown ErrorCode = "UNKNOWN_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeCanceled: true,
}

// IsRetryableCode returns true if resubmitting the same request may succeed.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
