package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/domain/services"
	objectmemory "orgdrive/internal/objectstore/memory"
	"orgdrive/internal/repository/memory"
)

const (
	u1       = "11111111-1111-4111-8111-111111111111"
	u2       = "22222222-2222-4222-8222-222222222222"
	u3       = "33333333-3333-4333-8333-333333333333"
	outsider = "99999999-9999-4999-8999-999999999999"
)

// harness wires every service to the in-memory stores
type harness struct {
	store     *memory.Store
	repos     *repositories.Registry
	objects   *objectmemory.Store
	faulty    *objectmemory.Faulty
	gate      services.MembershipGate
	audit     services.AuditLogger
	allocator services.InvitationCodeAllocator
	orgs      *organizationService
	folders   services.FolderService
	files     services.FileService
	favorites services.FavoriteService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStore(logger)
	repos := store.Registry()
	objects := objectmemory.NewStore(time.Hour, 30*time.Minute)
	faulty := objectmemory.NewFaulty(objects)

	svc := New(repos, faulty, logger)

	return &harness{
		store:     store,
		repos:     repos,
		objects:   objects,
		faulty:    faulty,
		gate:      svc.Gate,
		audit:     svc.Audit,
		allocator: svc.Invitations,
		orgs:      svc.Organizations.(*organizationService),
		folders:   svc.Folders,
		files:     svc.Files,
		favorites: svc.Favorites,
	}
}

func (h *harness) createOrganization(t *testing.T, ownerID, name string) *models.OrganizationDetails {
	t.Helper()
	org, err := h.orgs.CreateOrganization(context.Background(), &services.CreateOrganizationRequest{
		UserID: ownerID,
		Name:   name,
	})
	require.NoError(t, err)
	return org
}

func (h *harness) createFolder(t *testing.T, userID, parentID, name, orgID string) *models.Folder {
	t.Helper()
	folder, err := h.folders.CreateFolder(context.Background(), &services.CreateFolderRequest{
		UserID:         userID,
		ParentFolderID: parentID,
		Name:           name,
		OrganizationID: orgID,
	})
	require.NoError(t, err)
	return folder
}

func (h *harness) createFile(t *testing.T, userID, folderID, orgID, name string, size int64) *models.File {
	t.Helper()
	upload, err := h.files.CreateFile(context.Background(), &services.CreateFileRequest{
		UploaderID:     userID,
		FolderID:       folderID,
		OrganizationID: orgID,
		Name:           name,
		Size:           size,
		ContentType:    "application/pdf",
	})
	require.NoError(t, err)
	return upload.File
}

func (h *harness) join(t *testing.T, userID string, org *models.OrganizationDetails) {
	t.Helper()
	_, err := h.orgs.JoinOrganization(context.Background(), &services.JoinOrganizationRequest{
		UserID: userID,
		Code:   org.InvitationCode,
	})
	require.NoError(t, err)
}

// auditActions returns the actions recorded for an entity, oldest first
func (h *harness) auditActions(t *testing.T, entityType models.AuditEntity, entityID string) []models.AuditAction {
	t.Helper()
	entries, err := h.repos.AuditLogs.ListByEntity(context.Background(), entityType, entityID)
	require.NoError(t, err)
	actions := make([]models.AuditAction, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	return actions
}

// sequence returns a generator yielding codes in order, then repeating the last
func sequence(codes ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return code, nil
	}
}
