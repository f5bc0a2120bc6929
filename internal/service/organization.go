package service

import (
	"context"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"orgdrive/internal/config"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/domain/services"
	"orgdrive/internal/domain/storage"
	"orgdrive/internal/namespace"
)

type organizationService struct {
	organizations repositories.OrganizationRepository
	memberships   repositories.MembershipRepository
	folders       repositories.FolderRepository
	txManager     repositories.TransactionManager
	objects       storage.ObjectStore
	gate          services.MembershipGate
	audit         services.AuditLogger
	allocator     services.InvitationCodeAllocator
	codes         *codeSource
	logger        *slog.Logger
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	organizations repositories.OrganizationRepository,
	memberships repositories.MembershipRepository,
	folders repositories.FolderRepository,
	txManager repositories.TransactionManager,
	objects storage.ObjectStore,
	gate services.MembershipGate,
	audit services.AuditLogger,
	allocator services.InvitationCodeAllocator,
	logger *slog.Logger,
) services.OrganizationService {
	return &organizationService{
		organizations: organizations,
		memberships:   memberships,
		folders:       folders,
		txManager:     txManager,
		objects:       objects,
		gate:          gate,
		audit:         audit,
		allocator:     allocator,
		codes:         newCodeSource(logger),
		logger:        logger,
	}
}

// CreateOrganization writes the root marker, then creates the root folder,
// the organization, the owner's membership and the audit entry in one
// transaction. The whole transaction is the persist step of the code
// allocator, so a code collision replays it with a fresh code.
func (s *organizationService) CreateOrganization(ctx context.Context, req *services.CreateOrganizationRequest) (*models.OrganizationDetails, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxOrganizationNameLength),
			nameRule(config.MaxOrganizationNameLength),
		),
	); err != nil {
		return nil, domain.Classify("create organization", validationError(err))
	}
	if err := checkUserID(req.UserID); err != nil {
		return nil, err
	}

	rootKey := namespace.RootKey(req.Name)

	if err := s.objects.PutMarker(ctx, rootKey); err != nil {
		return nil, domain.Classify("put root folder marker", err)
	}

	var details *models.OrganizationDetails
	_, err := s.codes.allocator(func(ctx context.Context, code string) error {
		return s.txManager.ExecTx(ctx, func(ctx context.Context) error {
			root := &models.Folder{
				Name:        rootKey,
				Key:         rootKey,
				CreatedByID: req.UserID,
			}
			if err := s.folders.Create(ctx, root); err != nil {
				return err
			}

			org := &models.Organization{
				Name:           req.Name,
				OwnerID:        req.UserID,
				RootFolderID:   root.ID,
				InvitationCode: code,
			}
			if err := s.organizations.Create(ctx, org); err != nil {
				return err
			}

			owner := &models.Membership{
				UserID:         req.UserID,
				OrganizationID: org.ID,
				Role:           models.RoleOwner,
			}
			if err := s.memberships.Create(ctx, owner); err != nil {
				return err
			}

			if err := s.audit.Record(ctx, &models.AuditLogEntry{
				UserID:     req.UserID,
				EntityType: models.AuditEntityOrganization,
				EntityID:   org.ID,
				Action:     models.AuditActionCreate,
				Details:    "organization created with root folder " + rootKey,
			}); err != nil {
				return err
			}

			details = &models.OrganizationDetails{
				Organization: *org,
				RootFolder:   root,
				Members:      []models.Membership{*owner},
			}
			return nil
		})
	}).Allocate(ctx)
	if err != nil {
		s.logger.Warn("root folder marker may be orphaned",
			"key", rootKey,
			"error", err,
		)
		return nil, domain.Classify("create organization", err)
	}

	s.logger.Info("organization created",
		"id", details.ID,
		"name", details.Name,
		"root_key", rootKey,
		"owner_id", req.UserID,
	)

	return details, nil
}

// JoinOrganization adds the caller as a MEMBER of the organization owning the code
func (s *organizationService) JoinOrganization(ctx context.Context, req *services.JoinOrganizationRequest) (*models.Organization, error) {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Code,
			validation.Required,
			validation.Length(config.InvitationCodeLength, config.InvitationCodeLength),
		),
	); err != nil {
		return nil, domain.Classify("join organization", validationError(err))
	}
	if err := checkUserID(req.UserID); err != nil {
		return nil, err
	}

	org, err := s.organizations.GetByInvitationCode(ctx, req.Code)
	if err != nil {
		return nil, domain.Classify("join organization", err)
	}
	if req.OrganizationID != "" && req.OrganizationID != org.ID {
		return nil, domain.NotFoundf("invitation code does not belong to organization %s", req.OrganizationID)
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		membership := &models.Membership{
			UserID:         req.UserID,
			OrganizationID: org.ID,
			Role:           models.RoleMember,
		}
		if err := s.memberships.Create(ctx, membership); err != nil {
			return err
		}
		return s.audit.Record(ctx, &models.AuditLogEntry{
			UserID:     req.UserID,
			EntityType: models.AuditEntityMembership,
			EntityID:   membership.ID,
			Action:     models.AuditActionCreate,
			Details:    "joined organization " + org.ID,
		})
	})
	if err != nil {
		return nil, domain.Classify("join organization", err)
	}

	s.logger.Info("organization joined",
		"organization_id", org.ID,
		"user_id", req.UserID,
	)

	return org, nil
}

// ListOrganizations lists the organizations the user belongs to
func (s *organizationService) ListOrganizations(ctx context.Context, userID string) ([]models.Organization, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}

	orgs, err := s.organizations.ListForUser(ctx, userID)
	if err != nil {
		return nil, domain.Classify("list organizations", err)
	}
	return orgs, nil
}

// GetOrganization returns the organization with its root folder and members
func (s *organizationService) GetOrganization(ctx context.Context, userID, organizationID string) (*models.OrganizationDetails, error) {
	if _, err := s.gate.CheckMembership(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	org, err := s.organizations.GetByID(ctx, organizationID)
	if err != nil {
		return nil, domain.Classify("get organization", err)
	}

	root, err := s.folders.GetByID(ctx, org.RootFolderID)
	if err != nil {
		return nil, domain.Classify("get root folder", err)
	}

	members, err := s.memberships.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, domain.Classify("list members", err)
	}

	return &models.OrganizationDetails{
		Organization: *org,
		RootFolder:   root,
		Members:      members,
	}, nil
}

// RegenerateInvitationCode replaces the invitation code. Only the owner may.
func (s *organizationService) RegenerateInvitationCode(ctx context.Context, userID, organizationID string) (*models.Organization, error) {
	membership, err := s.gate.CheckMembership(ctx, userID, organizationID)
	if err != nil {
		return nil, err
	}
	if membership.Role != models.RoleOwner {
		return nil, domain.Forbiddenf("only the owner can regenerate the invitation code")
	}

	if _, err := s.allocator.Allocate(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	org, err := s.organizations.GetByID(ctx, organizationID)
	if err != nil {
		return nil, domain.Classify("get organization", err)
	}
	return org, nil
}
