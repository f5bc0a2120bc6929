package models

import (
	"time"
)

type File struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Key            string    `json:"key" db:"key"`
	Size           int64     `json:"size" db:"size"` // exact byte count
	ContentType    string    `json:"content_type" db:"content_type"`
	FolderID       string    `json:"folder_id" db:"folder_id"`
	OrganizationID string    `json:"organization_id" db:"organization_id"`
	UploadedByID   string    `json:"uploaded_by_id" db:"uploaded_by_id"`
	Trashed        bool      `json:"trashed" db:"trashed"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// FavoriteFile marks a file as favorited by a user. A missing row means
// "not favorited"; Pinned implies favorited.
type FavoriteFile struct {
	UserID    string    `json:"user_id" db:"user_id"`
	FileID    string    `json:"file_id" db:"file_id"`
	Pinned    bool      `json:"pinned" db:"pinned"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FileWithFavorite is a file annotated with the calling user's favorite row
type FileWithFavorite struct {
	File
	Favorite *FavoriteFile `json:"favorite"`
}

// FileUpload is the result of registering a file: the row plus the URL the
// caller must PUT the content to.
type FileUpload struct {
	File      *File         `json:"file"`
	UploadURL *PresignedURL `json:"upload_url"`
}

// PresignedURL is a time-limited signed object-store URL
type PresignedURL struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FavoriteResult is the outcome of a favorite toggle. Favorite is nil when
// the toggle removed the row.
type FavoriteResult struct {
	Favorited bool          `json:"favorited"`
	Favorite  *FavoriteFile `json:"favorite"`
}
