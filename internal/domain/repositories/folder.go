package repositories

import (
	"context"

	"orgdrive/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a folder and fills in ID and timestamps.
	// A key or (parent, name) collision returns a *domain.ConflictError.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID, trashed or not
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	// FindChildByName returns the non-trashed child of parentID named name,
	// or nil if there is none
	FindChildByName(ctx context.Context, parentID, name string) (*models.Folder, error)

	// ListChildren lists non-trashed immediate child folders
	ListChildren(ctx context.Context, parentID string) ([]models.Folder, error)
}
