package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
)

const fileColumns = `f.id, f.name, f.key, f.size, f.content_type, f.folder_id, f.organization_id,
	f.uploaded_by_id, f.trashed, f.created_at, f.updated_at`

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool: config.Pool,
	}
}

// Create creates a new file row
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := `
		INSERT INTO files (name, key, size, content_type, folder_id, organization_id, uploaded_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, trashed, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		file.Name,
		file.Key,
		file.Size,
		file.ContentType,
		file.FolderID,
		file.OrganizationID,
		file.UploadedByID,
	).Scan(&file.ID, &file.Trashed, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) && PgConstraintName(err) == constraintFileSiblingName {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("file '%s' already exists in this folder", file.Name),
				ResourceType: "file",
				Field:        "name",
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("file parent: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetInOrganization retrieves a file by ID, scoped to an organization
func (r *PostgresFileRepository) GetInOrganization(ctx context.Context, id, organizationID string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files f WHERE f.id = $1 AND f.organization_id = $2`

	executor := GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, id, organizationID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return file, nil
}

// FindInFolderByName returns the live file with the given name, or nil
func (r *PostgresFileRepository) FindInFolderByName(ctx context.Context, folderID, name string) (*models.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files f WHERE f.folder_id = $1 AND f.name = $2 AND NOT f.trashed`

	executor := GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, folderID, name))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find file: %w", err)
	}

	return file, nil
}

// ListInFolder lists live files in a folder with the user's favorite rows
func (r *PostgresFileRepository) ListInFolder(ctx context.Context, folderID, userID string) ([]models.FileWithFavorite, error) {
	query := `
		SELECT ` + fileColumns + `,
			ff.user_id, ff.pinned, ff.created_at, ff.updated_at
		FROM files f
		LEFT JOIN favorite_files ff ON ff.file_id = f.id AND ff.user_id = $2
		WHERE f.folder_id = $1 AND NOT f.trashed
		ORDER BY f.name ASC
	`
	return r.listWithFavorites(ctx, "list files", query, folderID, userID)
}

// ListFavorites lists the user's favorited live files in an organization,
// pinned first
func (r *PostgresFileRepository) ListFavorites(ctx context.Context, userID, organizationID string) ([]models.FileWithFavorite, error) {
	query := `
		SELECT ` + fileColumns + `,
			ff.user_id, ff.pinned, ff.created_at, ff.updated_at
		FROM files f
		JOIN favorite_files ff ON ff.file_id = f.id AND ff.user_id = $2
		WHERE f.organization_id = $1 AND NOT f.trashed
		ORDER BY ff.pinned DESC, f.name ASC
	`
	return r.listWithFavorites(ctx, "list favorite files", query, organizationID, userID)
}

func (r *PostgresFileRepository) listWithFavorites(ctx context.Context, op, query string, args ...any) ([]models.FileWithFavorite, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	files := make([]models.FileWithFavorite, 0)
	for rows.Next() {
		var item models.FileWithFavorite
		var (
			favUserID    *string
			favPinned    *bool
			favCreatedAt *time.Time
			favUpdatedAt *time.Time
		)
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Key,
			&item.Size,
			&item.ContentType,
			&item.FolderID,
			&item.OrganizationID,
			&item.UploadedByID,
			&item.Trashed,
			&item.CreatedAt,
			&item.UpdatedAt,
			&favUserID,
			&favPinned,
			&favCreatedAt,
			&favUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		if favUserID != nil {
			item.Favorite = &models.FavoriteFile{
				UserID:    *favUserID,
				FileID:    item.ID,
				Pinned:    *favPinned,
				CreatedAt: *favCreatedAt,
				UpdatedAt: *favUpdatedAt,
			}
		}
		files = append(files, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}

func scanFile(row rowScanner) (*models.File, error) {
	var file models.File
	err := row.Scan(
		&file.ID,
		&file.Name,
		&file.Key,
		&file.Size,
		&file.ContentType,
		&file.FolderID,
		&file.OrganizationID,
		&file.UploadedByID,
		&file.Trashed,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}
