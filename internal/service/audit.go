package service

import (
	"context"
	"log/slog"

	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/domain/services"
)

type auditLogger struct {
	auditLogs repositories.AuditLogRepository
	logger    *slog.Logger
}

// NewAuditLogger creates the audit trail writer
func NewAuditLogger(auditLogs repositories.AuditLogRepository, logger *slog.Logger) services.AuditLogger {
	return &auditLogger{
		auditLogs: auditLogs,
		logger:    logger,
	}
}

// Record appends entry inside the caller's transaction. It refuses to run
// outside one so an audit row never commits apart from its mutation.
func (a *auditLogger) Record(ctx context.Context, entry *models.AuditLogEntry) error {
	if !repositories.InTransaction(ctx) {
		return domain.Internalf("audit entry for %s %s recorded outside a transaction", entry.EntityType, entry.EntityID)
	}

	if err := a.auditLogs.Append(ctx, entry); err != nil {
		return domain.Classify("record audit entry", err)
	}

	a.logger.Debug("audit entry recorded",
		"entity_type", entry.EntityType,
		"entity_id", entry.EntityID,
		"action", entry.Action,
		"user_id", entry.UserID,
	)
	return nil
}
