// Package util provides small generic helpers shared by the fileflow
// packages: slice and map utilities and secret masking for log output.
package util
