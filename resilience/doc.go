// Package resilience retries transient failures with exponential backoff.
//
// The probe uses it around remote object-store lookups, where a throttled
// or briefly unreachable endpoint should not be mistaken for a missing file
// on the first attempt:
//
//	info, err := resilience.Retry(ctx, cfg, func() (*storage.FileInfo, error) {
//	    return backend.Stat(ctx, key)
//	})
package resilience
