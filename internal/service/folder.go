package service

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/sync/errgroup"
	"orgdrive/internal/config"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/domain/services"
	"orgdrive/internal/domain/storage"
	"orgdrive/internal/namespace"
)

type folderService struct {
	folders       repositories.FolderRepository
	files         repositories.FileRepository
	organizations repositories.OrganizationRepository
	txManager     repositories.TransactionManager
	objects       storage.ObjectStore
	gate          services.MembershipGate
	audit         services.AuditLogger
	logger        *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folders repositories.FolderRepository,
	files repositories.FileRepository,
	organizations repositories.OrganizationRepository,
	txManager repositories.TransactionManager,
	objects storage.ObjectStore,
	gate services.MembershipGate,
	audit services.AuditLogger,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folders:       folders,
		files:         files,
		organizations: organizations,
		txManager:     txManager,
		objects:       objects,
		gate:          gate,
		audit:         audit,
		logger:        logger,
	}
}

// CreateFolder creates a folder under an existing, live parent
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, domain.Classify("create folder", validationError(err))
	}

	parent, err := s.loadScopedFolder(ctx, req.UserID, req.ParentFolderID, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	existing, err := s.folders.FindChildByName(ctx, parent.ID, req.Name)
	if err != nil {
		return nil, domain.Classify("check sibling folders", err)
	}
	if existing != nil {
		return nil, &domain.ConflictError{
			Message:      "folder '" + req.Name + "' already exists in this folder",
			ResourceType: "folder",
			ResourceID:   existing.ID,
			Field:        "name",
		}
	}

	key := namespace.DeriveChildKey(parent.Key, req.Name)

	// The marker goes first; nothing has been written if it fails
	if err := s.objects.PutMarker(ctx, key); err != nil {
		return nil, domain.Classify("put folder marker", err)
	}

	folder := &models.Folder{
		Name:           req.Name,
		Key:            key,
		ParentFolderID: &parent.ID,
		CreatedByID:    req.UserID,
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.folders.Create(ctx, folder); err != nil {
			return err
		}
		return s.audit.Record(ctx, &models.AuditLogEntry{
			UserID:     req.UserID,
			EntityType: models.AuditEntityFolder,
			EntityID:   folder.ID,
			Action:     models.AuditActionCreate,
			Details:    "folder created at " + key,
		})
	})
	if err != nil {
		s.logger.Warn("folder marker orphaned",
			"key", key,
			"parent_id", parent.ID,
			"error", err,
		)
		return nil, domain.Classify("create folder", err)
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"key", folder.Key,
		"parent_id", parent.ID,
		"organization_id", req.OrganizationID,
	)

	return folder, nil
}

// GetFolderContents lists live child folders and files, each file annotated
// with the caller's favorite row
func (s *folderService) GetFolderContents(ctx context.Context, req *services.GetFolderContentsRequest) (*models.FolderContents, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.FolderID, idRules...),
		validation.Field(&req.OrganizationID, validation.When(req.OrganizationID != "", idRules...)),
	); err != nil {
		return nil, domain.Classify("get folder contents", validationError(err))
	}

	folder, err := s.loadScopedFolder(ctx, req.UserID, req.FolderID, req.OrganizationID)
	if err != nil {
		return nil, err
	}

	contents := &models.FolderContents{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		folders, err := s.folders.ListChildren(gctx, folder.ID)
		if err != nil {
			return err
		}
		contents.Folders = folders
		return nil
	})
	g.Go(func() error {
		files, err := s.files.ListInFolder(gctx, folder.ID, req.UserID)
		if err != nil {
			return err
		}
		contents.Files = files
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, domain.Classify("get folder contents", err)
	}

	return contents, nil
}

// loadScopedFolder loads a live folder and, when organizationID is set,
// checks membership and that the folder sits under the organization's root
func (s *folderService) loadScopedFolder(ctx context.Context, userID, folderID, organizationID string) (*models.Folder, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}

	folder, err := s.folders.GetByID(ctx, folderID)
	if err != nil {
		return nil, domain.Classify("get folder", err)
	}
	if folder.Trashed {
		return nil, domain.InvalidStatef("folder %s is in the trash", folder.ID)
	}

	if organizationID == "" {
		return folder, nil
	}

	if _, err := s.gate.CheckMembership(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	root, err := organizationRoot(ctx, s.organizations, s.folders, organizationID)
	if err != nil {
		return nil, err
	}
	if !namespace.IsDescendantOf(folder.Key, root.Key) {
		return nil, domain.InvalidStatef("folder %s does not belong to organization %s", folder.ID, organizationID)
	}

	return folder, nil
}

func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ParentFolderID, idRules...),
		validation.Field(&req.OrganizationID, validation.When(req.OrganizationID != "", idRules...)),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			nameRule(config.MaxFolderNameLength),
		),
	)
}

// organizationRoot loads the root folder of an organization
func organizationRoot(
	ctx context.Context,
	organizations repositories.OrganizationRepository,
	folders repositories.FolderRepository,
	organizationID string,
) (*models.Folder, error) {
	org, err := organizations.GetByID(ctx, organizationID)
	if err != nil {
		return nil, domain.Classify("get organization", err)
	}
	root, err := folders.GetByID(ctx, org.RootFolderID)
	if err != nil {
		return nil, domain.Classify("get root folder", err)
	}
	return root, nil
}
