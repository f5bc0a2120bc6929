package repositories

import (
	"context"

	"orgdrive/internal/domain/models"
)

// FileRepository defines data access operations for files
type FileRepository interface {
	// Create inserts a file. A (folder, name) collision among non-trashed
	// files returns a *domain.ConflictError.
	Create(ctx context.Context, file *models.File) error

	// GetInOrganization retrieves a file by ID scoped to an organization
	GetInOrganization(ctx context.Context, id, organizationID string) (*models.File, error)

	// FindInFolderByName returns the non-trashed file named name in folderID, or nil
	FindInFolderByName(ctx context.Context, folderID, name string) (*models.File, error)

	// ListInFolder lists non-trashed files in a folder, each annotated with
	// userID's favorite row
	ListInFolder(ctx context.Context, folderID, userID string) ([]models.FileWithFavorite, error)

	// ListFavorites lists the files userID has favorited within an organization
	ListFavorites(ctx context.Context, userID, organizationID string) ([]models.FileWithFavorite, error)
}

// FavoriteRepository defines data access operations for favorite rows
type FavoriteRepository interface {
	// Get returns the (userID, fileID) row, or nil if the file is not favorited
	Get(ctx context.Context, userID, fileID string) (*models.FavoriteFile, error)

	// Create inserts a favorite row. A duplicate returns a *domain.ConflictError.
	Create(ctx context.Context, favorite *models.FavoriteFile) error

	// SetPinned updates the pinned flag of an existing row
	SetPinned(ctx context.Context, userID, fileID string, pinned bool) (*models.FavoriteFile, error)

	// Delete removes the row and returns it
	Delete(ctx context.Context, userID, fileID string) (*models.FavoriteFile, error)
}
