package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
)

// PostgresFavoriteRepository implements the FavoriteRepository interface
type PostgresFavoriteRepository struct {
	pool *pgxpool.Pool
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(config *RepositoryConfig) repositories.FavoriteRepository {
	return &PostgresFavoriteRepository{
		pool: config.Pool,
	}
}

// Get returns the favorite row, or nil if the file is not favorited
func (r *PostgresFavoriteRepository) Get(ctx context.Context, userID, fileID string) (*models.FavoriteFile, error) {
	query := `
		SELECT user_id, file_id, pinned, created_at, updated_at
		FROM favorite_files
		WHERE user_id = $1 AND file_id = $2
	`

	executor := GetExecutor(ctx, r.pool)
	favorite, err := scanFavorite(executor.QueryRow(ctx, query, userID, fileID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get favorite: %w", err)
	}

	return favorite, nil
}

// Create inserts a favorite row
func (r *PostgresFavoriteRepository) Create(ctx context.Context, favorite *models.FavoriteFile) error {
	query := `
		INSERT INTO favorite_files (user_id, file_id, pinned)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		favorite.UserID,
		favorite.FileID,
		favorite.Pinned,
	).Scan(&favorite.CreatedAt, &favorite.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) && PgConstraintName(err) == constraintFavoritePrimaryKey {
			return &domain.ConflictError{
				Message:      "file is already a favorite",
				ResourceType: "favorite",
				ResourceID:   favorite.FileID,
			}
		}
		return fmt.Errorf("create favorite: %w", err)
	}

	return nil
}

// SetPinned updates the pinned flag of an existing row
func (r *PostgresFavoriteRepository) SetPinned(ctx context.Context, userID, fileID string, pinned bool) (*models.FavoriteFile, error) {
	query := `
		UPDATE favorite_files
		SET pinned = $3, updated_at = NOW()
		WHERE user_id = $1 AND file_id = $2
		RETURNING user_id, file_id, pinned, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	favorite, err := scanFavorite(executor.QueryRow(ctx, query, userID, fileID, pinned))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("favorite for file %s: %w", fileID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update favorite: %w", err)
	}

	return favorite, nil
}

// Delete removes the favorite row and returns it
func (r *PostgresFavoriteRepository) Delete(ctx context.Context, userID, fileID string) (*models.FavoriteFile, error) {
	query := `
		DELETE FROM favorite_files
		WHERE user_id = $1 AND file_id = $2
		RETURNING user_id, file_id, pinned, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	favorite, err := scanFavorite(executor.QueryRow(ctx, query, userID, fileID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("favorite for file %s: %w", fileID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("delete favorite: %w", err)
	}

	return favorite, nil
}

func scanFavorite(row rowScanner) (*models.FavoriteFile, error) {
	var favorite models.FavoriteFile
	err := row.Scan(
		&favorite.UserID,
		&favorite.FileID,
		&favorite.Pinned,
		&favorite.CreatedAt,
		&favorite.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}
