package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Graph and scheduling errors
const (
	// ErrCodeGraphCycle indicates the dependency graph is not acyclic.
	ErrCodeGraphCycle ErrorCode = "GRAPH_CYCLE"
	// ErrCodeGraphConsistency indicates an internal graph invariant was violated.
	ErrCodeGraphConsistency ErrorCode = "GRAPH_CONSISTENCY"
	// ErrCodeDuplicateProducer indicates two tasks declare the same output file.
	ErrCodeDuplicateProducer ErrorCode = "DUPLICATE_PRODUCER"
)

// File boundary errors
const (
	// ErrCodeMalformedIdentifier indicates a file identifier matches no supported scheme.
	ErrCodeMalformedIdentifier ErrorCode = "MALFORMED_IDENTIFIER"
	// ErrCodeMissingInput indicates a required file is absent.
	ErrCodeMissingInput ErrorCode = "MISSING_INPUT"
	// ErrCodePostcondition indicates a task finished without producing a declared output.
	ErrCodePostcondition ErrorCode = "POSTCONDITION_FAILED"
	// ErrCodeProbeUnavailable indicates a file lookup failed for a transient reason.
	ErrCodeProbeUnavailable ErrorCode = "PROBE_UNAVAILABLE"
)

// Task errors
const (
	// ErrCodeActionFailed indicates a task's action returned an error.
	ErrCodeActionFailed ErrorCode = "ACTION_FAILED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeProbeUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
