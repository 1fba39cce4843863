// Package storage provides the object store channels are written to, with
// pluggable backends.
//
// # Backends
//
//   - storage/local: files under an output folder
//   - storage/s3: Amazon S3 and S3-compatible storage
//   - storage/memory: in-process objects for tests and dry runs
//
// # Configuration
//
// Backend selection and settings are provided via Config:
//
//	storage:
//	  provider: "s3"
//	  bucket: "captures"
//	  prefix: "nightly"
//	  region: "us-east-1"
package storage
