package models

import (
	"time"
)

// Folder is a node of the namespace tree. Key is assigned once at creation and
// never rewritten, which is what makes prefix containment equal to descendance.
type Folder struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Key            string    `json:"key" db:"key"`
	ParentFolderID *string   `json:"parent_folder_id" db:"parent_folder_id"` // NULL = organization root
	CreatedByID    string    `json:"created_by_id" db:"created_by_id"`
	Trashed        bool      `json:"trashed" db:"trashed"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the folder has no parent
func (f *Folder) IsRoot() bool {
	return f.ParentFolderID == nil
}

// FolderContents is a folder listing: non-trashed child folders and files
type FolderContents struct {
	Folders []Folder           `json:"folders"`
	Files   []FileWithFavorite `json:"files"`
}
