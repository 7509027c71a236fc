// Package errors provides the structured error type shared by every fileflow
// package. Each failure carries a machine-readable code, a human message,
// optional details and an underlying cause, and reports whether retrying the
// operation could succeed.
package errors
