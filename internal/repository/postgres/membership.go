package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
)

// PostgresMembershipRepository implements the MembershipRepository interface
type PostgresMembershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(config *RepositoryConfig) repositories.MembershipRepository {
	return &PostgresMembershipRepository{
		pool: config.Pool,
	}
}

// Create adds a user to an organization
func (r *PostgresMembershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	query := `
		INSERT INTO organization_users (user_id, organization_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		membership.UserID,
		membership.OrganizationID,
		membership.Role,
	).Scan(&membership.ID, &membership.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) && PgConstraintName(err) == constraintMembershipUserOrg {
			return &domain.ConflictError{
				Message:      "user is already a member of this organization",
				ResourceType: "membership",
				ResourceID:   membership.OrganizationID,
			}
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("organization %s: %w", membership.OrganizationID, domain.ErrNotFound)
		}
		return fmt.Errorf("create membership: %w", err)
	}

	return nil
}

// Get returns the membership of a user in an organization
func (r *PostgresMembershipRepository) Get(ctx context.Context, userID, organizationID string) (*models.Membership, error) {
	query := `
		SELECT id, user_id, organization_id, role, created_at
		FROM organization_users
		WHERE user_id = $1 AND organization_id = $2
	`

	executor := GetExecutor(ctx, r.pool)
	membership, err := scanMembership(executor.QueryRow(ctx, query, userID, organizationID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("membership: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}

	return membership, nil
}

// ListByOrganization lists members in join order
func (r *PostgresMembershipRepository) ListByOrganization(ctx context.Context, organizationID string) ([]models.Membership, error) {
	query := `
		SELECT id, user_id, organization_id, role, created_at
		FROM organization_users
		WHERE organization_id = $1
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	memberships := make([]models.Membership, 0)
	for rows.Next() {
		membership, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, *membership)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}

	return memberships, nil
}

func scanMembership(row rowScanner) (*models.Membership, error) {
	var membership models.Membership
	err := row.Scan(
		&membership.ID,
		&membership.UserID,
		&membership.OrganizationID,
		&membership.Role,
		&membership.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &membership, nil
}
