package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/domain/services"
)

func TestCreateFile_InvoicesScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	org := h.createOrganization(t, u1, "Acme")
	invoices := h.createFolder(t, u1, org.RootFolderID, "Invoices", org.ID)

	upload, err := h.files.CreateFile(ctx, &services.CreateFileRequest{
		UploaderID:     u1,
		FolderID:       invoices.ID,
		OrganizationID: org.ID,
		Name:           "q1.pdf",
		Size:           1024,
		ContentType:    "application/pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "root-Acme/Invoices/q1.pdf", upload.File.Key)
	assert.Equal(t, int64(1024), upload.File.Size)
	assert.Equal(t, invoices.ID, upload.File.FolderID)
	require.NotNil(t, upload.UploadURL)
	assert.Equal(t, http.MethodPut, upload.UploadURL.Method)
	assert.Contains(t, upload.UploadURL.URL, "root-Acme/Invoices/q1.pdf")

	user, err := h.repos.Users.GetByID(ctx, u1)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), user.StorageUsed)

	h.createFile(t, u1, invoices.ID, org.ID, "q2.pdf", 976)
	user, err = h.repos.Users.GetByID(ctx, u1)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), user.StorageUsed)

	assert.Equal(t, []models.AuditAction{models.AuditActionCreate},
		h.auditActions(t, models.AuditEntityFile, upload.File.ID))
}

func TestCreateFile_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(t *testing.T, h *harness, org *models.OrganizationDetails, req *services.CreateFileRequest)
		wantErr error
	}{
		{
			name: "not a member",
			mutate: func(t *testing.T, h *harness, org *models.OrganizationDetails, req *services.CreateFileRequest) {
				req.UploaderID = u2
			},
			wantErr: domain.ErrForbidden,
		},
		{
			name: "negative size",
			mutate: func(t *testing.T, h *harness, org *models.OrganizationDetails, req *services.CreateFileRequest) {
				req.Size = -1
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "trashed folder",
			mutate: func(t *testing.T, h *harness, org *models.OrganizationDetails, req *services.CreateFileRequest) {
				folder := h.createFolder(t, u1, org.RootFolderID, "Old", org.ID)
				require.NoError(t, h.store.SetTrashed(context.Background(), folder.ID, true))
				req.FolderID = folder.ID
			},
			wantErr: domain.ErrInvalidState,
		},
		{
			name: "folder outside the organization",
			mutate: func(t *testing.T, h *harness, org *models.OrganizationDetails, req *services.CreateFileRequest) {
				other := h.createOrganization(t, u1, "Globex")
				req.FolderID = other.RootFolderID
			},
			wantErr: domain.ErrInvalidState,
		},
		{
			name: "sibling with the same name",
			mutate: func(t *testing.T, h *harness, org *models.OrganizationDetails, req *services.CreateFileRequest) {
				h.createFile(t, u1, org.RootFolderID, org.ID, req.Name, 1)
			},
			wantErr: domain.ErrConflict,
		},
		{
			name: "presign failure",
			mutate: func(t *testing.T, h *harness, org *models.OrganizationDetails, req *services.CreateFileRequest) {
				h.faulty.Fail("PresignWrite", errors.New("signer unavailable"))
			},
			wantErr: domain.ErrUpstream,
		},
		{
			name: "audit failure rolls back the storage counter",
			mutate: func(t *testing.T, h *harness, org *models.OrganizationDetails, req *services.CreateFileRequest) {
				h.store.SetFault(func(op string) error {
					if op == "audit.append" {
						return errors.New("disk full")
					}
					return nil
				})
			},
			wantErr: domain.ErrUpstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			org := h.createOrganization(t, u1, "Acme")
			req := &services.CreateFileRequest{
				UploaderID:     u1,
				FolderID:       org.RootFolderID,
				OrganizationID: org.ID,
				Name:           "q1.pdf",
				Size:           1024,
			}
			tt.mutate(t, h, org, req)
			before := h.store.Counts()

			_, err := h.files.CreateFile(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			h.store.SetFault(nil)
			assert.Equal(t, before, h.store.Counts())
		})
	}
}

func TestCreateFile_DefaultsContentType(t *testing.T) {
	h := newHarness(t)
	org := h.createOrganization(t, u1, "Acme")

	upload, err := h.files.CreateFile(context.Background(), &services.CreateFileRequest{
		UploaderID:     u1,
		FolderID:       org.RootFolderID,
		OrganizationID: org.ID,
		Name:           "blob",
	})
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", upload.File.ContentType)
	assert.Equal(t, int64(0), upload.File.Size)
}

func TestDownloadFile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	org := h.createOrganization(t, u1, "Acme")
	h.join(t, u2, org)
	file := h.createFile(t, u1, org.RootFolderID, org.ID, "q1.pdf", 1024)

	url, err := h.files.DownloadFile(ctx, &services.FileActionRequest{UserID: u2, FileID: file.ID, OrganizationID: org.ID})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, url.Method)
	assert.Contains(t, url.URL, "root-Acme/q1.pdf")
	assert.Equal(t,
		[]models.AuditAction{models.AuditActionCreate, models.AuditActionAccess},
		h.auditActions(t, models.AuditEntityFile, file.ID))

	t.Run("not a member", func(t *testing.T) {
		_, err := h.files.DownloadFile(ctx, &services.FileActionRequest{UserID: outsider, FileID: file.ID, OrganizationID: org.ID})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("file in another organization", func(t *testing.T) {
		other := h.createOrganization(t, u2, "Globex")
		_, err := h.files.DownloadFile(ctx, &services.FileActionRequest{UserID: u2, FileID: file.ID, OrganizationID: other.ID})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("trashed file", func(t *testing.T) {
		require.NoError(t, h.store.SetFileTrashed(ctx, file.ID, true))
		_, err := h.files.DownloadFile(ctx, &services.FileActionRequest{UserID: u1, FileID: file.ID, OrganizationID: org.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestListFavoriteFiles(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	org := h.createOrganization(t, u1, "Acme")
	a := h.createFile(t, u1, org.RootFolderID, org.ID, "a.pdf", 1)
	b := h.createFile(t, u1, org.RootFolderID, org.ID, "b.pdf", 1)
	h.createFile(t, u1, org.RootFolderID, org.ID, "c.pdf", 1)

	_, err := h.favorites.FavoriteFile(ctx, &services.FileActionRequest{UserID: u1, FileID: a.ID, OrganizationID: org.ID})
	require.NoError(t, err)
	_, err = h.favorites.PinFile(ctx, &services.FileActionRequest{UserID: u1, FileID: b.ID, OrganizationID: org.ID})
	require.NoError(t, err)

	favorites, err := h.files.ListFavoriteFiles(ctx, u1, org.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 2)
	assert.Equal(t, "b.pdf", favorites[0].Name)
	assert.True(t, favorites[0].Favorite.Pinned)
	assert.Equal(t, "a.pdf", favorites[1].Name)

	_, err = h.files.ListFavoriteFiles(ctx, u2, org.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
