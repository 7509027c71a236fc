// Package storage answers metadata queries against the places task files
// live: the local filesystem and S3-compatible object stores.
//
// Backends register themselves with RegisterFactory from an init function and
// are built with New:
//
//	import _ "github.com/kbukum/fileflow/storage/s3"
//
//	st, err := storage.New(ctx, storage.Config{Provider: storage.ProviderS3, Bucket: "data"}, log)
//	info, err := st.Stat(ctx, "raw/2024/in.csv")
//
// A missing object is reported as an errors.AppError with code NOT_FOUND;
// every other failure is a lookup problem, not an answer.
package storage
