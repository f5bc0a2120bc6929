package services

import (
	"context"

	"orgdrive/internal/domain/models"
)

// OrganizationService manages organizations and their membership
type OrganizationService interface {
	// CreateOrganization creates the organization, its root folder and the
	// owner's membership together
	CreateOrganization(ctx context.Context, req *CreateOrganizationRequest) (*models.OrganizationDetails, error)

	// JoinOrganization adds the user as a MEMBER of the organization owning code
	JoinOrganization(ctx context.Context, req *JoinOrganizationRequest) (*models.Organization, error)

	// ListOrganizations lists the organizations the user belongs to
	ListOrganizations(ctx context.Context, userID string) ([]models.Organization, error)

	// GetOrganization returns an organization with its root folder and members
	GetOrganization(ctx context.Context, userID, organizationID string) (*models.OrganizationDetails, error)

	// RegenerateInvitationCode replaces the invitation code (owner only)
	RegenerateInvitationCode(ctx context.Context, userID, organizationID string) (*models.Organization, error)
}

// InvitationCodeAllocator assigns collision-free invitation codes
type InvitationCodeAllocator interface {
	// Allocate assigns a fresh code to an existing organization on behalf of actorID
	Allocate(ctx context.Context, actorID, organizationID string) (string, error)
}

// MembershipGate authorizes a user against an organization
type MembershipGate interface {
	// CheckMembership returns the membership or a PermissionDenied error
	CheckMembership(ctx context.Context, userID, organizationID string) (*models.Membership, error)
}

// AuditLogger appends audit entries inside the caller's transaction
type AuditLogger interface {
	Record(ctx context.Context, entry *models.AuditLogEntry) error
}

// CreateOrganizationRequest represents an organization creation request
type CreateOrganizationRequest struct {
	UserID string `json:"-"`
	Name   string `json:"name"`
}

// JoinOrganizationRequest represents a request to join via invitation code
type JoinOrganizationRequest struct {
	UserID         string `json:"-"`
	OrganizationID string `json:"-"` // optional: the code must belong to this organization
	Code           string `json:"code"`
}
