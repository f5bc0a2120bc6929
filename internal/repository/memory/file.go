package memory

import (
	"context"
	"fmt"
	"sort"

	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
)

type fileRepository struct {
	store *Store
}

func (r *fileRepository) Create(ctx context.Context, file *models.File) error {
	return r.store.write(ctx, "files.create", func(d *dataset) error {
		if _, ok := d.folders[file.FolderID]; !ok {
			return fmt.Errorf("file parent: %w", domain.ErrNotFound)
		}
		if _, ok := d.organizations[file.OrganizationID]; !ok {
			return fmt.Errorf("file parent: %w", domain.ErrNotFound)
		}
		for _, existing := range d.files {
			if !existing.Trashed && existing.FolderID == file.FolderID && existing.Name == file.Name {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("file '%s' already exists in this folder", file.Name),
					ResourceType: "file",
					ResourceID:   existing.ID,
					Field:        "name",
				}
			}
		}

		now := r.store.now()
		if file.ID == "" {
			file.ID = newID()
		}
		file.CreatedAt = now
		file.UpdatedAt = now
		d.files[file.ID] = *file
		return nil
	})
}

func (r *fileRepository) GetInOrganization(ctx context.Context, id, organizationID string) (*models.File, error) {
	var file models.File
	err := r.store.read(ctx, "files.get", func(d *dataset) error {
		f, ok := d.files[id]
		if !ok || f.OrganizationID != organizationID {
			return fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		file = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) FindInFolderByName(ctx context.Context, folderID, name string) (*models.File, error) {
	var found *models.File
	err := r.store.read(ctx, "files.find", func(d *dataset) error {
		for _, f := range d.files {
			if !f.Trashed && f.FolderID == folderID && f.Name == name {
				f := f
				found = &f
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *fileRepository) ListInFolder(ctx context.Context, folderID, userID string) ([]models.FileWithFavorite, error) {
	files := make([]models.FileWithFavorite, 0)
	err := r.store.read(ctx, "files.list", func(d *dataset) error {
		for _, f := range d.files {
			if f.Trashed || f.FolderID != folderID {
				continue
			}
			item := models.FileWithFavorite{File: f}
			if fav, ok := d.favorites[favoriteKey{userID: userID, fileID: f.ID}]; ok {
				fav := fav
				item.Favorite = &fav
			}
			files = append(files, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

func (r *fileRepository) ListFavorites(ctx context.Context, userID, organizationID string) ([]models.FileWithFavorite, error) {
	files := make([]models.FileWithFavorite, 0)
	err := r.store.read(ctx, "files.list_favorites", func(d *dataset) error {
		for key, fav := range d.favorites {
			if key.userID != userID {
				continue
			}
			f, ok := d.files[key.fileID]
			if !ok || f.Trashed || f.OrganizationID != organizationID {
				continue
			}
			fav := fav
			files = append(files, models.FileWithFavorite{File: f, Favorite: &fav})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Favorite.Pinned != files[j].Favorite.Pinned {
			return files[i].Favorite.Pinned
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// SetFileTrashed flips a file's trashed flag, for tests
func (s *Store) SetFileTrashed(ctx context.Context, fileID string, trashed bool) error {
	return s.write(ctx, "files.set_trashed", func(d *dataset) error {
		f, ok := d.files[fileID]
		if !ok {
			return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
		}
		f.Trashed = trashed
		f.UpdatedAt = s.now()
		d.files[fileID] = f
		return nil
	})
}

type favoriteRepository struct {
	store *Store
}

func (r *favoriteRepository) Get(ctx context.Context, userID, fileID string) (*models.FavoriteFile, error) {
	var found *models.FavoriteFile
	err := r.store.read(ctx, "favorites.get", func(d *dataset) error {
		if fav, ok := d.favorites[favoriteKey{userID: userID, fileID: fileID}]; ok {
			found = &fav
		}
		return nil
	})
	return found, err
}

func (r *favoriteRepository) Create(ctx context.Context, favorite *models.FavoriteFile) error {
	return r.store.write(ctx, "favorites.create", func(d *dataset) error {
		key := favoriteKey{userID: favorite.UserID, fileID: favorite.FileID}
		if _, ok := d.favorites[key]; ok {
			return &domain.ConflictError{
				Message:      "file is already a favorite",
				ResourceType: "favorite",
				ResourceID:   favorite.FileID,
			}
		}
		if _, ok := d.files[favorite.FileID]; !ok {
			return fmt.Errorf("file %s: %w", favorite.FileID, domain.ErrNotFound)
		}
		now := r.store.now()
		favorite.CreatedAt = now
		favorite.UpdatedAt = now
		d.favorites[key] = *favorite
		return nil
	})
}

func (r *favoriteRepository) SetPinned(ctx context.Context, userID, fileID string, pinned bool) (*models.FavoriteFile, error) {
	var updated models.FavoriteFile
	err := r.store.write(ctx, "favorites.set_pinned", func(d *dataset) error {
		key := favoriteKey{userID: userID, fileID: fileID}
		fav, ok := d.favorites[key]
		if !ok {
			return fmt.Errorf("favorite for file %s: %w", fileID, domain.ErrNotFound)
		}
		fav.Pinned = pinned
		fav.UpdatedAt = r.store.now()
		d.favorites[key] = fav
		updated = fav
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *favoriteRepository) Delete(ctx context.Context, userID, fileID string) (*models.FavoriteFile, error) {
	var removed models.FavoriteFile
	err := r.store.write(ctx, "favorites.delete", func(d *dataset) error {
		key := favoriteKey{userID: userID, fileID: fileID}
		fav, ok := d.favorites[key]
		if !ok {
			return fmt.Errorf("favorite for file %s: %w", fileID, domain.ErrNotFound)
		}
		delete(d.favorites, key)
		removed = fav
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}
