package memory

import (
	"context"
	"fmt"

	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
)

type folderRepository struct {
	store *Store
}

func (r *folderRepository) Create(ctx context.Context, folder *models.Folder) error {
	return r.store.write(ctx, "folders.create", func(d *dataset) error {
		if folder.ParentFolderID != nil {
			if _, ok := d.folders[*folder.ParentFolderID]; !ok {
				return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
			}
		}
		for _, existing := range d.folders {
			if !existing.Trashed && !folder.Trashed && existing.Key == folder.Key {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("folder '%s' already exists", folder.Name),
					ResourceType: "folder",
					ResourceID:   existing.ID,
					Field:        "key",
				}
			}
			if !existing.Trashed && !folder.Trashed && sameParent(existing.ParentFolderID, folder.ParentFolderID) && existing.Name == folder.Name {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("folder '%s' already exists", folder.Name),
					ResourceType: "folder",
					ResourceID:   existing.ID,
					Field:        "name",
				}
			}
		}

		now := r.store.now()
		if folder.ID == "" {
			folder.ID = newID()
		}
		folder.CreatedAt = now
		folder.UpdatedAt = now
		d.folders[folder.ID] = *folder
		return nil
	})
}

func (r *folderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	var folder models.Folder
	err := r.store.read(ctx, "folders.get", func(d *dataset) error {
		f, ok := d.folders[id]
		if !ok {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		folder = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *folderRepository) FindChildByName(ctx context.Context, parentID, name string) (*models.Folder, error) {
	var found *models.Folder
	err := r.store.read(ctx, "folders.find_child", func(d *dataset) error {
		for _, f := range d.folders {
			if !f.Trashed && f.ParentFolderID != nil && *f.ParentFolderID == parentID && f.Name == name {
				f := f
				found = &f
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *folderRepository) ListChildren(ctx context.Context, parentID string) ([]models.Folder, error) {
	folders := make([]models.Folder, 0)
	err := r.store.read(ctx, "folders.list_children", func(d *dataset) error {
		for _, f := range d.folders {
			if !f.Trashed && f.ParentFolderID != nil && *f.ParentFolderID == parentID {
				folders = append(folders, f)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortFoldersByName(folders)
	return folders, nil
}

// SetTrashed flips a folder's trashed flag. Trashing is outside the service
// surface; the store exposes it so tests can build trashed ancestors.
func (s *Store) SetTrashed(ctx context.Context, folderID string, trashed bool) error {
	return s.write(ctx, "folders.set_trashed", func(d *dataset) error {
		f, ok := d.folders[folderID]
		if !ok {
			return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
		}
		f.Trashed = trashed
		f.UpdatedAt = s.now()
		d.folders[folderID] = f
		return nil
	})
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
