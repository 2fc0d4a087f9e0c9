// Package storage provides the object storage client used to archive
// generated invoice and report documents.
//
// It wraps the MinIO SDK behind a small Client interface so that features
// can upload rendered PDFs (and fetch them back) without depending on the
// SDK directly, and so tests can substitute a mock (see storage/mocks).
//
// The archive is optional: when no endpoint is configured the application
// runs without it and report PDFs are only streamed to the caller.
package storage
