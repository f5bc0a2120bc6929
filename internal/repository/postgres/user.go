package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{
		pool: config.Pool,
	}
}

// IncrementStorageUsed adds delta to the user's storage counter in a single
// statement, creating the row on first use
func (r *PostgresUserRepository) IncrementStorageUsed(ctx context.Context, userID string, delta int64) error {
	query := `
		INSERT INTO users (id, storage_used)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET storage_used = users.storage_used + EXCLUDED.storage_used
	`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, delta); err != nil {
		return fmt.Errorf("increment storage used: %w", err)
	}

	return nil
}

// GetByID retrieves a user
func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, storage_used, created_at FROM users WHERE id = $1`

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(&user.ID, &user.StorageUsed, &user.CreatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}
