package service

import (
	"context"
	"log/slog"

	"orgdrive/internal/config"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/domain/services"
)

// codeSource bundles the invitation code generator and its retry bound.
// Organization creation and regeneration share it.
type codeSource struct {
	generate    func() (string, error)
	maxAttempts int
	logger      *slog.Logger
}

func newCodeSource(logger *slog.Logger) *codeSource {
	return &codeSource{
		generate:    GenerateCode,
		maxAttempts: config.MaxInvitationCodeAttempts,
		logger:      logger,
	}
}

func (c *codeSource) allocator(persist func(ctx context.Context, code string) error) UniqueAllocator[string] {
	return UniqueAllocator[string]{
		Generate:    c.generate,
		Persist:     persist,
		IsCollision: isInvitationCodeCollision,
		MaxAttempts: c.maxAttempts,
		Logger:      c.logger,
		Name:        "invitation code",
	}
}

type invitationCodeAllocator struct {
	organizations repositories.OrganizationRepository
	audit         services.AuditLogger
	txManager     repositories.TransactionManager
	codes         *codeSource
	logger        *slog.Logger
}

// NewInvitationCodeAllocator creates the allocator used to regenerate codes
func NewInvitationCodeAllocator(
	organizations repositories.OrganizationRepository,
	audit services.AuditLogger,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.InvitationCodeAllocator {
	return &invitationCodeAllocator{
		organizations: organizations,
		audit:         audit,
		txManager:     txManager,
		codes:         newCodeSource(logger),
		logger:        logger,
	}
}

// Allocate replaces the organization's code. Every attempt is its own
// transaction because a unique violation aborts the one it happens in.
func (a *invitationCodeAllocator) Allocate(ctx context.Context, actorID, organizationID string) (string, error) {
	code, err := a.codes.allocator(func(ctx context.Context, code string) error {
		return a.txManager.ExecTx(ctx, func(ctx context.Context) error {
			if _, err := a.organizations.UpdateInvitationCode(ctx, organizationID, code); err != nil {
				return err
			}
			return a.audit.Record(ctx, &models.AuditLogEntry{
				UserID:     actorID,
				EntityType: models.AuditEntityOrganization,
				EntityID:   organizationID,
				Action:     models.AuditActionUpdate,
				Details:    "invitation code regenerated",
			})
		})
	}).Allocate(ctx)
	if err != nil {
		return "", domain.Classify("allocate invitation code", err)
	}

	a.logger.Info("invitation code regenerated", "organization_id", organizationID, "user_id", actorID)
	return code, nil
}
