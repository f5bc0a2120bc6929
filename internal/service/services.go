package service

import (
	"log/slog"

	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/domain/services"
	"orgdrive/internal/domain/storage"
)

// Services bundles every service wired to one metadata store and one object store
type Services struct {
	Gate          services.MembershipGate
	Audit         services.AuditLogger
	Invitations   services.InvitationCodeAllocator
	Organizations services.OrganizationService
	Folders       services.FolderService
	Files         services.FileService
	Favorites     services.FavoriteService
}

// New wires the services to repos and objects
func New(repos *repositories.Registry, objects storage.ObjectStore, logger *slog.Logger) *Services {
	gate := NewMembershipGate(repos.Memberships, logger)
	audit := NewAuditLogger(repos.AuditLogs, logger)
	invitations := NewInvitationCodeAllocator(repos.Organizations, audit, repos.Tx, logger)

	return &Services{
		Gate:        gate,
		Audit:       audit,
		Invitations: invitations,
		Organizations: NewOrganizationService(
			repos.Organizations, repos.Memberships, repos.Folders, repos.Tx,
			objects, gate, audit, invitations, logger,
		),
		Folders: NewFolderService(
			repos.Folders, repos.Files, repos.Organizations, repos.Tx,
			objects, gate, audit, logger,
		),
		Files: NewFileService(
			repos.Files, repos.Folders, repos.Organizations, repos.Users, repos.Tx,
			objects, gate, audit, logger,
		),
		Favorites: NewFavoriteService(
			repos.Favorites, repos.Files, repos.Tx, gate, audit, logger,
		),
	}
}
