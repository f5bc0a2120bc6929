package service

import (
	"context"
	"errors"
	"log/slog"

	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/domain/services"
)

type favoriteService struct {
	favorites repositories.FavoriteRepository
	files     repositories.FileRepository
	txManager repositories.TransactionManager
	gate      services.MembershipGate
	audit     services.AuditLogger
	logger    *slog.Logger
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(
	favorites repositories.FavoriteRepository,
	files repositories.FileRepository,
	txManager repositories.TransactionManager,
	gate services.MembershipGate,
	audit services.AuditLogger,
	logger *slog.Logger,
) services.FavoriteService {
	return &favoriteService{
		favorites: favorites,
		files:     files,
		txManager: txManager,
		gate:      gate,
		audit:     audit,
		logger:    logger,
	}
}

// FavoriteFile toggles the caller's favorite row. The decision and its audit
// entry commit together, so applying it twice restores the original state.
func (s *favoriteService) FavoriteFile(ctx context.Context, req *services.FileActionRequest) (*models.FavoriteResult, error) {
	file, err := s.authorize(ctx, "favorite file", req)
	if err != nil {
		return nil, err
	}

	result := &models.FavoriteResult{}
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		existing, err := s.favorites.Get(ctx, req.UserID, file.ID)
		if err != nil {
			return err
		}

		if existing != nil {
			if _, err := s.favorites.Delete(ctx, req.UserID, file.ID); err != nil {
				return lostFavoriteRace(err, file.ID)
			}
			return s.record(ctx, req.UserID, file.ID, models.AuditActionDelete, "removed from favorites")
		}

		favorite := &models.FavoriteFile{UserID: req.UserID, FileID: file.ID}
		if err := s.favorites.Create(ctx, favorite); err != nil {
			return err
		}
		result.Favorited = true
		result.Favorite = favorite
		return s.record(ctx, req.UserID, file.ID, models.AuditActionCreate, "added to favorites")
	})
	if err != nil {
		return nil, domain.Classify("favorite file", err)
	}

	s.logger.Info("favorite toggled",
		"file_id", file.ID,
		"user_id", req.UserID,
		"favorited", result.Favorited,
	)

	return result, nil
}

// PinFile pins the file for the caller, favoriting it if needed. An already
// pinned file is returned as is, with no transaction and no audit entry.
func (s *favoriteService) PinFile(ctx context.Context, req *services.FileActionRequest) (*models.FavoriteFile, error) {
	file, err := s.authorize(ctx, "pin file", req)
	if err != nil {
		return nil, err
	}

	existing, err := s.favorites.Get(ctx, req.UserID, file.ID)
	if err != nil {
		return nil, domain.Classify("pin file", err)
	}
	if existing != nil && existing.Pinned {
		return existing, nil
	}

	var pinned *models.FavoriteFile
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		current, err := s.favorites.Get(ctx, req.UserID, file.ID)
		if err != nil {
			return err
		}

		switch {
		case current != nil && current.Pinned:
			// Pinned concurrently since the check above
			pinned = current
			return nil
		case current != nil:
			pinned, err = s.favorites.SetPinned(ctx, req.UserID, file.ID, true)
			if err != nil {
				return lostFavoriteRace(err, file.ID)
			}
			return s.record(ctx, req.UserID, file.ID, models.AuditActionUpdate, "pinned")
		default:
			pinned = &models.FavoriteFile{UserID: req.UserID, FileID: file.ID, Pinned: true}
			if err := s.favorites.Create(ctx, pinned); err != nil {
				return err
			}
			return s.record(ctx, req.UserID, file.ID, models.AuditActionCreate, "added to favorites and pinned")
		}
	})
	if err != nil {
		return nil, domain.Classify("pin file", err)
	}

	s.logger.Info("file pinned", "file_id", file.ID, "user_id", req.UserID)
	return pinned, nil
}

// authorize validates the request, checks membership and loads the file
func (s *favoriteService) authorize(ctx context.Context, op string, req *services.FileActionRequest) (*models.File, error) {
	if err := validateFileAction(req); err != nil {
		return nil, domain.Classify(op, err)
	}

	if _, err := s.gate.CheckMembership(ctx, req.UserID, req.OrganizationID); err != nil {
		return nil, err
	}

	file, err := s.files.GetInOrganization(ctx, req.FileID, req.OrganizationID)
	if err != nil {
		return nil, domain.Classify("get file", err)
	}
	return file, nil
}

// lostFavoriteRace reports a row that vanished between read and write as a
// conflict, matching what the losing side of a concurrent Create sees.
func lostFavoriteRace(err error, fileID string) error {
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return &domain.ConflictError{
		Message:      "favorite changed concurrently",
		ResourceType: "favorite",
		ResourceID:   fileID,
	}
}

func (s *favoriteService) record(ctx context.Context, userID, fileID string, action models.AuditAction, details string) error {
	return s.audit.Record(ctx, &models.AuditLogEntry{
		UserID:     userID,
		EntityType: models.AuditEntityFile,
		EntityID:   fileID,
		Action:     action,
		Details:    details,
	})
}
