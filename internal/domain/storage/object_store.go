package storage

import (
	"context"

	"orgdrive/internal/domain/models"
)

// ObjectStore is the flat key-addressed blob store holding file content.
// It has no transactional join with the metadata store, so every write here
// must be idempotent: repeating it with the same key has the same effect.
type ObjectStore interface {
	// PutMarker creates or overwrites the zero-length marker object of a
	// folder, stored at namespace.MarkerKey(folderKey)
	PutMarker(ctx context.Context, folderKey string) error

	// PresignWrite returns a time-limited URL the caller uploads content to
	PresignWrite(ctx context.Context, key, contentType string) (*models.PresignedURL, error)

	// PresignRead returns a time-limited download URL
	PresignRead(ctx context.Context, key string) (*models.PresignedURL, error)
}
