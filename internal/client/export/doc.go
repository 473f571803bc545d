// Package export decides where downloaded file contents end up: a local
// directory or an S3-compatible bucket.
package export
