package services

import (
	"context"

	"orgdrive/internal/domain/models"
)

// FolderService creates folders and lists folder contents
type FolderService interface {
	// CreateFolder writes the folder marker to the object store, then inserts
	// the folder row and its audit entry in one metadata transaction
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolderContents lists non-trashed child folders and files
	GetFolderContents(ctx context.Context, req *GetFolderContentsRequest) (*models.FolderContents, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	UserID         string `json:"-"`
	ParentFolderID string `json:"parent_folder_id"`
	Name           string `json:"folder_name"`
	OrganizationID string `json:"organization_id,omitempty"` // optional here; the HTTP API always requires it
}

// GetFolderContentsRequest represents a folder listing request
type GetFolderContentsRequest struct {
	UserID         string
	FolderID       string
	OrganizationID string // optional
}
