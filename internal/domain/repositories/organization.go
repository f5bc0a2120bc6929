package repositories

import (
	"context"

	"orgdrive/internal/domain/models"
)

// OrganizationRepository defines data access operations for organizations
type OrganizationRepository interface {
	// Create inserts an organization. An invitation code collision returns a
	// *domain.ConflictError with Field "invitation_code".
	Create(ctx context.Context, org *models.Organization) error

	// GetByID retrieves an organization by ID
	GetByID(ctx context.Context, id string) (*models.Organization, error)

	// GetByInvitationCode retrieves an organization by its invitation code
	GetByInvitationCode(ctx context.Context, code string) (*models.Organization, error)

	// UpdateInvitationCode replaces the invitation code
	UpdateInvitationCode(ctx context.Context, id, code string) (*models.Organization, error)

	// ListForUser lists the organizations userID is a member of
	ListForUser(ctx context.Context, userID string) ([]models.Organization, error)
}

// MembershipRepository defines data access operations for organization members
type MembershipRepository interface {
	// Create inserts a membership. A duplicate (user, organization) pair
	// returns a *domain.ConflictError.
	Create(ctx context.Context, membership *models.Membership) error

	// Get returns the unique (userID, organizationID) membership
	Get(ctx context.Context, userID, organizationID string) (*models.Membership, error)

	// ListByOrganization lists all members of an organization
	ListByOrganization(ctx context.Context, organizationID string) ([]models.Membership, error)
}

// UserRepository touches the storage accounting of externally owned users
type UserRepository interface {
	// IncrementStorageUsed adds delta bytes to the user's storage counter,
	// creating the row if the identity provider's user has none yet
	IncrementStorageUsed(ctx context.Context, userID string, delta int64) error

	// GetByID retrieves a user
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuditLogRepository appends audit entries
type AuditLogRepository interface {
	// Append inserts an entry and fills in ID and CreatedAt
	Append(ctx context.Context, entry *models.AuditLogEntry) error

	// ListByEntity lists entries for an entity, oldest first
	ListByEntity(ctx context.Context, entityType models.AuditEntity, entityID string) ([]models.AuditLogEntry, error)
}
