package memory

import (
	"context"
	"fmt"

	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
)

type organizationRepository struct {
	store *Store
}

func invitationCodeConflict() error {
	return &domain.ConflictError{
		Message:      "invitation code already in use",
		ResourceType: "organization",
		Field:        "invitation_code",
	}
}

func (r *organizationRepository) Create(ctx context.Context, org *models.Organization) error {
	return r.store.write(ctx, "organizations.create", func(d *dataset) error {
		if _, ok := d.folders[org.RootFolderID]; !ok {
			return fmt.Errorf("root folder %s: %w", org.RootFolderID, domain.ErrNotFound)
		}
		for _, existing := range d.organizations {
			if existing.InvitationCode == org.InvitationCode {
				return invitationCodeConflict()
			}
			if existing.RootFolderID == org.RootFolderID {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("organization '%s' conflicts with an existing row", org.Name),
					ResourceType: "organization",
					ResourceID:   existing.ID,
					Field:        "root_folder_id",
				}
			}
		}

		now := r.store.now()
		if org.ID == "" {
			org.ID = newID()
		}
		org.CreatedAt = now
		org.UpdatedAt = now
		d.organizations[org.ID] = *org
		d.orgOrder = append(d.orgOrder, org.ID)
		return nil
	})
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	var org models.Organization
	err := r.store.read(ctx, "organizations.get", func(d *dataset) error {
		o, ok := d.organizations[id]
		if !ok {
			return fmt.Errorf("organization %s: %w", id, domain.ErrNotFound)
		}
		org = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) GetByInvitationCode(ctx context.Context, code string) (*models.Organization, error) {
	var found *models.Organization
	err := r.store.read(ctx, "organizations.get_by_code", func(d *dataset) error {
		for _, o := range d.organizations {
			if o.InvitationCode == code {
				o := o
				found = &o
				return nil
			}
		}
		return fmt.Errorf("invitation code: %w", domain.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *organizationRepository) UpdateInvitationCode(ctx context.Context, id, code string) (*models.Organization, error) {
	var updated models.Organization
	err := r.store.write(ctx, "organizations.update_code", func(d *dataset) error {
		org, ok := d.organizations[id]
		if !ok {
			return fmt.Errorf("organization %s: %w", id, domain.ErrNotFound)
		}
		for otherID, other := range d.organizations {
			if otherID != id && other.InvitationCode == code {
				return invitationCodeConflict()
			}
		}
		org.InvitationCode = code
		org.UpdatedAt = r.store.now()
		d.organizations[id] = org
		updated = org
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListForUser returns newest organizations first
func (r *organizationRepository) ListForUser(ctx context.Context, userID string) ([]models.Organization, error) {
	orgs := make([]models.Organization, 0)
	err := r.store.read(ctx, "organizations.list_for_user", func(d *dataset) error {
		member := make(map[string]bool)
		for _, m := range d.memberships {
			if m.UserID == userID {
				member[m.OrganizationID] = true
			}
		}
		for i := len(d.orgOrder) - 1; i >= 0; i-- {
			id := d.orgOrder[i]
			if member[id] {
				orgs = append(orgs, d.organizations[id])
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

// SeedInvitationCode inserts a placeholder organization holding code so
// tests can force allocator collisions
func (s *Store) SeedInvitationCode(ctx context.Context, code string) error {
	return s.write(ctx, "organizations.seed_code", func(d *dataset) error {
		id := newID()
		now := s.now()
		d.organizations[id] = models.Organization{
			ID:             id,
			Name:           "reserved-" + code,
			InvitationCode: code,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		d.orgOrder = append(d.orgOrder, id)
		return nil
	})
}

type membershipRepository struct {
	store *Store
}

func (r *membershipRepository) Create(ctx context.Context, membership *models.Membership) error {
	return r.store.write(ctx, "memberships.create", func(d *dataset) error {
		if _, ok := d.organizations[membership.OrganizationID]; !ok {
			return fmt.Errorf("organization %s: %w", membership.OrganizationID, domain.ErrNotFound)
		}
		for _, existing := range d.memberships {
			if existing.UserID == membership.UserID && existing.OrganizationID == membership.OrganizationID {
				return &domain.ConflictError{
					Message:      "user is already a member of this organization",
					ResourceType: "membership",
					ResourceID:   membership.OrganizationID,
				}
			}
		}

		if membership.ID == "" {
			membership.ID = newID()
		}
		membership.CreatedAt = r.store.now()
		d.memberships[membership.ID] = *membership
		d.memberOrder = append(d.memberOrder, membership.ID)
		return nil
	})
}

func (r *membershipRepository) Get(ctx context.Context, userID, organizationID string) (*models.Membership, error) {
	var found *models.Membership
	err := r.store.read(ctx, "memberships.get", func(d *dataset) error {
		for _, m := range d.memberships {
			if m.UserID == userID && m.OrganizationID == organizationID {
				m := m
				found = &m
				return nil
			}
		}
		return fmt.Errorf("membership: %w", domain.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *membershipRepository) ListByOrganization(ctx context.Context, organizationID string) ([]models.Membership, error) {
	members := make([]models.Membership, 0)
	err := r.store.read(ctx, "memberships.list", func(d *dataset) error {
		for _, id := range d.memberOrder {
			if m := d.memberships[id]; m.OrganizationID == organizationID {
				members = append(members, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return members, nil
}
