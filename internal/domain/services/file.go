package services

import (
	"context"

	"orgdrive/internal/domain/models"
)

// FileService registers files into the namespace and hands out transfer URLs
type FileService interface {
	// CreateFile inserts the file row and bumps the uploader's storage counter
	// atomically, returning a presigned upload URL. The object itself does not
	// exist until the caller completes the upload.
	CreateFile(ctx context.Context, req *CreateFileRequest) (*models.FileUpload, error)

	// DownloadFile returns a presigned read URL and records an ACCESS audit entry
	DownloadFile(ctx context.Context, req *FileActionRequest) (*models.PresignedURL, error)

	// ListFavoriteFiles lists the caller's favorites within an organization
	ListFavoriteFiles(ctx context.Context, userID, organizationID string) ([]models.FileWithFavorite, error)
}

// FavoriteService manages the favorite/pin sub-state of a file per user
type FavoriteService interface {
	// FavoriteFile toggles the favorite row: creates it if absent, deletes it if present
	FavoriteFile(ctx context.Context, req *FileActionRequest) (*models.FavoriteResult, error)

	// PinFile sets pinned=true, creating the favorite row if needed. Pinning
	// an already pinned file is a no-op.
	PinFile(ctx context.Context, req *FileActionRequest) (*models.FavoriteFile, error)
}

// CreateFileRequest represents a file registration request
type CreateFileRequest struct {
	UploaderID     string `json:"-"`
	FolderID       string `json:"folder_id"`
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Size           int64  `json:"size"`
	ContentType    string `json:"content_type"`
}

// FileActionRequest identifies a file acted on by a user within an organization
type FileActionRequest struct {
	UserID         string `json:"-"`
	FileID         string `json:"file_id"`
	OrganizationID string `json:"organization_id"`
}
