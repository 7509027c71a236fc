// Package probe answers the one question the scheduler asks about a file:
// does it exist, and when was it last modified.
//
// Identifiers are routed by scheme:
//
//	data/in.csv            local path, relative to the configured base path
//	/abs/in.csv            local path
//	file:///abs/in.csv     local path
//	s3://bucket/key        object in an S3-compatible store
//
// Any other scheme, or an s3 URL without both a bucket and a key, is a
// MALFORMED_IDENTIFIER error. Remote lookups that fail for other reasons are
// retried and then reported as absent.
package probe
