package errors

import (
	"fmt"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
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

// --- Graph errors ---

// GraphCycle reports that scheduling stopped with vertices left over that
// all still wait on one another.
func GraphCycle(remaining []string) *AppError {
	return &AppError{
		Code:    ErrCodeGraphCycle,
		Message: "dependency graph contains a cycle among: " + strings.Join(remaining, ", "),
		Details: map[string]any{"vertices": remaining},
	}
}

// GraphConsistency reports a violated engine invariant.
func GraphConsistency(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeGraphConsistency,
		Message: reason,
	}
}

// DuplicateProducer reports a file that more than one task claims to provide.
func DuplicateProducer(file string, producers ...string) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateProducer,
		Message: fmt.Sprintf("file %s is provided by more than one task: %s", file, strings.Join(producers, ", ")),
		Details: map[string]any{"file": file, "producers": producers},
	}
}

// --- File boundary errors ---

// MalformedIdentifier reports an identifier that matches no supported scheme.
func MalformedIdentifier(id, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedIdentifier,
		Message: fmt.Sprintf("identifier %q is malformed: %s", id, reason),
		Details: map[string]any{"identifier": id},
	}
}

// MissingInput reports one or more required files that do not exist.
// The message lists every file on its own line.
func MissingInput(files ...string) *AppError {
	lines := make([]string, 0, len(files))
	for _, f := range files {
		lines = append(lines, "not found: "+f)
	}
	return &AppError{
		Code:    ErrCodeMissingInput,
		Message: strings.Join(lines, "\n"),
		Details: map[string]any{"files": files},
	}
}

// Postcondition reports an output a task declared but did not produce.
func Postcondition(task, file string) *AppError {
	return &AppError{
		Code:    ErrCodePostcondition,
		Message: fmt.Sprintf("task %s finished but did not produce %s", task, file),
		Details: map[string]any{"task": task, "file": file},
	}
}

// ProbeUnavailable reports a lookup that failed for a reason other than the
// file being absent.
func ProbeUnavailable(id string, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeProbeUnavailable,
		Message:   fmt.Sprintf("could not look up %s", id),
		Retryable: true,
		Details:   map[string]any{"identifier": id},
		Cause:     cause,
	}
}

// --- Task errors ---

// ActionFailed wraps the error returned by a task's action.
func ActionFailed(task string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeActionFailed,
		Message: fmt.Sprintf("task %s failed", task),
		Details: map[string]any{"task": task},
		Cause:   cause,
	}
}

// --- Validation errors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	msg := fmt.Sprintf("%s not found", resource)
	if id != "" {
		details["id"] = id
		msg = fmt.Sprintf("%s not found: %s", resource, id)
	}
	return &AppError{Code: ErrCodeNotFound, Message: msg, Details: details}
}
