// Package validation checks configuration sections and task declarations
// before they reach the engine. Failures are errors.AppError values with
// code INVALID_INPUT and a "fields" detail.
//
// Struct tags cover per-field rules:
//
//	err := validation.Validate(def)
//
// Config sections chain programmatic rules:
//
//	err := validation.New().
//		OneOf("storage.provider", c.Provider, ProviderLocal, ProviderS3).
//		Check(c.Bucket != "" || c.Provider != ProviderS3, "storage.bucket", "is required for s3").
//		Validate()
package validation
