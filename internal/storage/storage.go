// Package storage defines the backend interface the pipeline uploads
// through. Backends live in sub-packages; the pipeline never depends on a
// concrete one.
package storage

import (
	"context"

	"dogmirror/internal/models"
)

// Client is a remote storage backend.
type Client interface {
	// Name identifies the backend in logs and summaries.
	Name() string

	// CheckAccess probes the storage root with the configured credential.
	// A nil error means the credential is valid. No retry.
	CheckAccess(ctx context.Context) error

	// EnsureFolder creates a remote folder. It is idempotent: an already
	// existing folder is success.
	EnsureFolder(ctx context.Context, path string) error

	// UploadFromURL transfers the content behind sourceURL to destPath and
	// returns the backend's upload metadata.
	UploadFromURL(ctx context.Context, sourceURL, destPath string) (*models.UploadInfo, error)
}
