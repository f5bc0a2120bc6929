package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"orgdrive/internal/config"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/domain/services"
	"orgdrive/internal/domain/storage"
	"orgdrive/internal/namespace"
)

// defaultContentType is stored when the uploader does not name one
const defaultContentType = "application/octet-stream"

type fileService struct {
	files         repositories.FileRepository
	folders       repositories.FolderRepository
	organizations repositories.OrganizationRepository
	users         repositories.UserRepository
	txManager     repositories.TransactionManager
	objects       storage.ObjectStore
	gate          services.MembershipGate
	audit         services.AuditLogger
	logger        *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	files repositories.FileRepository,
	folders repositories.FolderRepository,
	organizations repositories.OrganizationRepository,
	users repositories.UserRepository,
	txManager repositories.TransactionManager,
	objects storage.ObjectStore,
	gate services.MembershipGate,
	audit services.AuditLogger,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		files:         files,
		folders:       folders,
		organizations: organizations,
		users:         users,
		txManager:     txManager,
		objects:       objects,
		gate:          gate,
		audit:         audit,
		logger:        logger,
	}
}

// CreateFile registers a file and returns the URL its content must be
// uploaded to. The row and the storage counter commit together.
func (s *fileService) CreateFile(ctx context.Context, req *services.CreateFileRequest) (*models.FileUpload, error) {
	if req.ContentType == "" {
		req.ContentType = defaultContentType
	}
	if err := validation.ValidateStruct(req,
		validation.Field(&req.FolderID, idRules...),
		validation.Field(&req.OrganizationID, idRules...),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFileNameLength),
			nameRule(config.MaxFileNameLength),
		),
		validation.Field(&req.Size, validation.Min(int64(0))),
		validation.Field(&req.ContentType, validation.Length(1, config.MaxContentTypeLength)),
	); err != nil {
		return nil, domain.Classify("create file", validationError(err))
	}

	if _, err := s.gate.CheckMembership(ctx, req.UploaderID, req.OrganizationID); err != nil {
		return nil, err
	}

	folder, err := s.folders.GetByID(ctx, req.FolderID)
	if err != nil {
		return nil, domain.Classify("get folder", err)
	}
	if folder.Trashed {
		return nil, domain.InvalidStatef("folder %s is in the trash", folder.ID)
	}

	root, err := organizationRoot(ctx, s.organizations, s.folders, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if !namespace.IsDescendantOf(folder.Key, root.Key) {
		return nil, domain.InvalidStatef("folder %s does not belong to organization %s", folder.ID, req.OrganizationID)
	}

	key := namespace.DeriveChildKey(folder.Key, req.Name)

	existing, err := s.files.FindInFolderByName(ctx, folder.ID, req.Name)
	if err != nil {
		return nil, domain.Classify("check sibling files", err)
	}
	if existing != nil {
		return nil, &domain.ConflictError{
			Message:      "file '" + req.Name + "' already exists in this folder",
			ResourceType: "file",
			ResourceID:   existing.ID,
			Field:        "name",
		}
	}

	uploadURL, err := s.objects.PresignWrite(ctx, key, req.ContentType)
	if err != nil {
		return nil, domain.Classify("presign upload", err)
	}

	file := &models.File{
		Name:           req.Name,
		Key:            key,
		Size:           req.Size,
		ContentType:    req.ContentType,
		FolderID:       folder.ID,
		OrganizationID: req.OrganizationID,
		UploadedByID:   req.UploaderID,
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.files.Create(ctx, file); err != nil {
			return err
		}
		if err := s.users.IncrementStorageUsed(ctx, req.UploaderID, req.Size); err != nil {
			return err
		}
		return s.audit.Record(ctx, &models.AuditLogEntry{
			UserID:     req.UploaderID,
			EntityType: models.AuditEntityFile,
			EntityID:   file.ID,
			Action:     models.AuditActionCreate,
			Details:    fmt.Sprintf("file registered at %s (%d bytes)", key, req.Size),
		})
	})
	if err != nil {
		return nil, domain.Classify("create file", err)
	}

	s.logger.Info("file registered",
		"id", file.ID,
		"key", file.Key,
		"size", file.Size,
		"organization_id", file.OrganizationID,
		"uploader_id", file.UploadedByID,
	)

	return &models.FileUpload{File: file, UploadURL: uploadURL}, nil
}

// DownloadFile issues a read URL and records the access
func (s *fileService) DownloadFile(ctx context.Context, req *services.FileActionRequest) (*models.PresignedURL, error) {
	if err := validateFileAction(req); err != nil {
		return nil, domain.Classify("download file", err)
	}

	if _, err := s.gate.CheckMembership(ctx, req.UserID, req.OrganizationID); err != nil {
		return nil, err
	}

	file, err := s.files.GetInOrganization(ctx, req.FileID, req.OrganizationID)
	if err != nil {
		return nil, domain.Classify("get file", err)
	}
	if file.Trashed {
		return nil, domain.InvalidStatef("file %s is in the trash", file.ID)
	}

	downloadURL, err := s.objects.PresignRead(ctx, file.Key)
	if err != nil {
		return nil, domain.Classify("presign download", err)
	}

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		return s.audit.Record(ctx, &models.AuditLogEntry{
			UserID:     req.UserID,
			EntityType: models.AuditEntityFile,
			EntityID:   file.ID,
			Action:     models.AuditActionAccess,
			Details:    "download url issued",
		})
	})
	if err != nil {
		return nil, domain.Classify("download file", err)
	}

	s.logger.Debug("download url issued", "file_id", file.ID, "user_id", req.UserID)
	return downloadURL, nil
}

// ListFavoriteFiles lists the caller's favorites, pinned first
func (s *fileService) ListFavoriteFiles(ctx context.Context, userID, organizationID string) ([]models.FileWithFavorite, error) {
	if _, err := s.gate.CheckMembership(ctx, userID, organizationID); err != nil {
		return nil, err
	}

	files, err := s.files.ListFavorites(ctx, userID, organizationID)
	if err != nil {
		return nil, domain.Classify("list favorite files", err)
	}
	return files, nil
}

func validateFileAction(req *services.FileActionRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.FileID, idRules...),
		validation.Field(&req.OrganizationID, idRules...),
	)
	if err != nil {
		return validationError(err)
	}
	return nil
}
