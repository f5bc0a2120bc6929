package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
)

const organizationColumns = `o.id, o.name, o.owner_id, o.root_folder_id, o.invitation_code, o.created_at, o.updated_at`

// PostgresOrganizationRepository implements the OrganizationRepository interface
type PostgresOrganizationRepository struct {
	pool *pgxpool.Pool
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(config *RepositoryConfig) repositories.OrganizationRepository {
	return &PostgresOrganizationRepository{
		pool: config.Pool,
	}
}

// Create creates a new organization
func (r *PostgresOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (name, owner_id, root_folder_id, invitation_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		org.Name,
		org.OwnerID,
		org.RootFolderID,
		org.InvitationCode,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return organizationConflict(err, org.Name)
		}
		return fmt.Errorf("create organization: %w", err)
	}

	return nil
}

// GetByID retrieves an organization by ID
func (r *PostgresOrganizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations o WHERE o.id = $1`

	executor := GetExecutor(ctx, r.pool)
	org, err := scanOrganization(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("organization %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}

	return org, nil
}

// GetByInvitationCode retrieves an organization by invitation code
func (r *PostgresOrganizationRepository) GetByInvitationCode(ctx context.Context, code string) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations o WHERE o.invitation_code = $1`

	executor := GetExecutor(ctx, r.pool)
	org, err := scanOrganization(executor.QueryRow(ctx, query, code))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("invitation code: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get organization by code: %w", err)
	}

	return org, nil
}

// UpdateInvitationCode replaces an organization's invitation code
func (r *PostgresOrganizationRepository) UpdateInvitationCode(ctx context.Context, id, code string) (*models.Organization, error) {
	query := `
		UPDATE organizations o
		SET invitation_code = $2, updated_at = NOW()
		WHERE o.id = $1
		RETURNING ` + organizationColumns

	executor := GetExecutor(ctx, r.pool)
	org, err := scanOrganization(executor.QueryRow(ctx, query, id, code))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("organization %s: %w", id, domain.ErrNotFound)
		}
		if IsPgDuplicateError(err) {
			return nil, organizationConflict(err, id)
		}
		return nil, fmt.Errorf("update invitation code: %w", err)
	}

	return org, nil
}

// ListForUser lists the organizations a user belongs to, newest first
func (r *PostgresOrganizationRepository) ListForUser(ctx context.Context, userID string) ([]models.Organization, error) {
	query := `
		SELECT ` + organizationColumns + `
		FROM organizations o
		JOIN organization_users ou ON ou.organization_id = o.id
		WHERE ou.user_id = $1
		ORDER BY o.created_at DESC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]models.Organization, 0)
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, *org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}

	return orgs, nil
}

func organizationConflict(err error, name string) error {
	if PgConstraintName(err) == constraintInvitationCode {
		return &domain.ConflictError{
			Message:      "invitation code already in use",
			ResourceType: "organization",
			Field:        "invitation_code",
		}
	}
	return &domain.ConflictError{
		Message:      fmt.Sprintf("organization '%s' conflicts with an existing row", name),
		ResourceType: "organization",
		Field:        PgConstraintName(err),
	}
}

func scanOrganization(row rowScanner) (*models.Organization, error) {
	var org models.Organization
	err := row.Scan(
		&org.ID,
		&org.Name,
		&org.OwnerID,
		&org.RootFolderID,
		&org.InvitationCode,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &org, nil
}
