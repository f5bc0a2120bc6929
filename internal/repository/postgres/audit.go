package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
)

// PostgresAuditLogRepository implements the AuditLogRepository interface
type PostgresAuditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(config *RepositoryConfig) repositories.AuditLogRepository {
	return &PostgresAuditLogRepository{
		pool: config.Pool,
	}
}

// Append inserts an audit entry
func (r *PostgresAuditLogRepository) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_logs (user_id, entity_type, entity_id, action, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		entry.UserID,
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}

	return nil
}

// ListByEntity lists an entity's audit trail, oldest first
func (r *PostgresAuditLogRepository) ListByEntity(ctx context.Context, entityType models.AuditEntity, entityID string) ([]models.AuditLogEntry, error) {
	query := `
		SELECT id, user_id, entity_type, entity_id, action, details, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	entries := make([]models.AuditLogEntry, 0)
	for rows.Next() {
		var entry models.AuditLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Action,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit logs: %w", err)
	}

	return entries, nil
}
