package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/middleware"
	objectmemory "orgdrive/internal/objectstore/memory"
	"orgdrive/internal/repository/memory"
	"orgdrive/internal/service"
)

const (
	owner    = "0f0e6a4c-1d2b-4c3a-9e8f-7a6b5c4d3e21"
	member   = "6c5b4a39-2817-4f06-8e5d-4c3b2a190f82"
	outsider = "d4c3b2a1-9f8e-4d7c-8b6a-5f4e3d2c1b03"
)

type testServer struct {
	handler http.Handler
	objects *objectmemory.Faulty
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewStore(logger)
	objects := objectmemory.NewFaulty(objectmemory.NewStore(time.Hour, 30*time.Minute))
	svc := service.New(store.Registry(), objects, logger)

	handlers := &Handlers{
		Health:        NewHealthHandler(nil, logger),
		Organizations: NewOrganizationHandler(svc.Organizations, logger),
		Folders:       NewFolderHandler(svc.Folders, logger),
		Files:         NewFileHandler(svc.Files, svc.Favorites, logger),
	}
	mux := http.NewServeMux()
	handlers.Register(mux)

	return &testServer{
		handler: middleware.DevAuth(logger)(mux),
		objects: objects,
	}
}

// do sends body as JSON (when non-nil) on behalf of userID and decodes the response into out
func (s *testServer) do(t *testing.T, method, path, userID string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(middleware.DevUserHeader, userID)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func (s *testServer) createOrganization(t *testing.T, name string) *models.OrganizationDetails {
	t.Helper()
	var org models.OrganizationDetails
	status := s.do(t, http.MethodPost, "/organisation/create-organisation", owner, map[string]string{"name": name}, &org)
	require.Equal(t, http.StatusCreated, status)
	return &org
}

type problem struct {
	Status       int    `json:"status"`
	Detail       string `json:"detail"`
	ResourceType string `json:"resource_type"`
	Field        string `json:"field"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("dial tcp: refused") }

func TestHealth_DatabaseDown(t *testing.T) {
	h := NewHealthHandler(failingPinger{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOrganizationRoutes(t *testing.T) {
	s := newTestServer(t)
	org := s.createOrganization(t, "Acme")

	assert.Equal(t, "root-Acme", org.RootFolder.Key)
	assert.Len(t, org.InvitationCode, 6)

	t.Run("join with code", func(t *testing.T) {
		var joined models.Organization
		status := s.do(t, http.MethodPatch, "/organisation/join/"+org.ID, member,
			map[string]string{"code": org.InvitationCode}, &joined)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, org.ID, joined.ID)
	})

	t.Run("join twice conflicts", func(t *testing.T) {
		var p problem
		status := s.do(t, http.MethodPatch, "/organisation/join/"+org.ID, member,
			map[string]string{"code": org.InvitationCode}, &p)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "membership", p.ResourceType)
	})

	t.Run("list", func(t *testing.T) {
		var orgs []models.Organization
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/organisation/list-organization", member, nil, &orgs))
		require.Len(t, orgs, 1)
		assert.Equal(t, "Acme", orgs[0].Name)
	})

	t.Run("details", func(t *testing.T) {
		var details models.OrganizationDetails
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/organisation/get-organization/"+org.ID, member, nil, &details))
		assert.Len(t, details.Members, 2)
	})

	t.Run("outsider forbidden", func(t *testing.T) {
		var p problem
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/organisation/get-organization/"+org.ID, outsider, nil, &p))
	})

	t.Run("regenerate is owner only", func(t *testing.T) {
		var p problem
		assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/organisation/regenerate-code/"+org.ID, member, nil, &p))

		var updated models.Organization
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/organisation/regenerate-code/"+org.ID, owner, nil, &updated))
		assert.Len(t, updated.InvitationCode, 6)
	})

	t.Run("invalid name", func(t *testing.T) {
		var p problem
		status := s.do(t, http.MethodPost, "/organisation/create-organisation", owner, map[string]string{"name": "a/b"}, &p)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestFolderAndFileRoutes(t *testing.T) {
	s := newTestServer(t)
	org := s.createOrganization(t, "Acme")

	var folder models.Folder
	status := s.do(t, http.MethodPost, "/folder/create", owner, map[string]string{
		"parent_folder_id": org.RootFolderID,
		"folder_name":      "Invoices",
		"organization_id":  org.ID,
	}, &folder)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "root-Acme/Invoices", folder.Key)

	t.Run("duplicate folder conflicts", func(t *testing.T) {
		var p problem
		status := s.do(t, http.MethodPost, "/folder/create", owner, map[string]string{
			"parent_folder_id": org.RootFolderID,
			"folder_name":      "Invoices",
			"organization_id":  org.ID,
		}, &p)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "folder", p.ResourceType)
		assert.Equal(t, "name", p.Field)
	})

	var upload models.FileUpload
	status = s.do(t, http.MethodPost, "/file/create-file", owner, map[string]any{
		"folder_id":       folder.ID,
		"organization_id": org.ID,
		"name":            "q1.pdf",
		"size":            2048,
		"content_type":    "application/pdf",
	}, &upload)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "root-Acme/Invoices/q1.pdf", upload.File.Key)
	assert.Equal(t, http.MethodPut, upload.UploadURL.Method)

	t.Run("contents", func(t *testing.T) {
		var contents models.FolderContents
		status := s.do(t, http.MethodGet,
			"/folder/get-folder-contents?folder="+folder.ID+"&organization="+org.ID, owner, nil, &contents)
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, contents.Files, 1)
		assert.Equal(t, "q1.pdf", contents.Files[0].Name)
	})

	t.Run("contents requires folder", func(t *testing.T) {
		var p problem
		assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/folder/get-folder-contents", owner, nil, &p))
	})

	action := map[string]string{"file_id": upload.File.ID, "organization_id": org.ID}

	t.Run("download", func(t *testing.T) {
		var url models.PresignedURL
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/file/download", owner, action, &url))
		assert.Equal(t, http.MethodGet, url.Method)
		assert.Contains(t, url.URL, "root-Acme/Invoices/q1.pdf")
	})

	t.Run("favorite toggle and pin", func(t *testing.T) {
		var result models.FavoriteResult
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/file/favorite/update", owner, action, &result))
		assert.True(t, result.Favorited)

		var pinned models.FavoriteFile
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/file/pin", owner, action, &pinned))
		assert.True(t, pinned.Pinned)

		var favorites []models.FileWithFavorite
		assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/file/favorites/"+org.ID, owner, nil, &favorites))
		require.Len(t, favorites, 1)
		require.NotNil(t, favorites[0].Favorite)
		assert.True(t, favorites[0].Favorite.Pinned)

		assert.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/file/favorite/update", owner, action, &result))
		assert.False(t, result.Favorited)
	})

	t.Run("object store outage maps to 502", func(t *testing.T) {
		s.objects.Fail("PresignRead", errors.New("connection refused"))
		defer s.objects.Fail("PresignRead", nil)

		var p problem
		assert.Equal(t, http.StatusBadGateway, s.do(t, http.MethodPost, "/file/download", owner, action, &p))
		assert.NotContains(t, p.Detail, "connection refused")
	})
}

func TestMalformedBodies(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/folder/create", bytes.NewBufferString(`{"folder_name":`))
	req.Header.Set(middleware.DevUserHeader, owner)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/folder/create", bytes.NewBufferString(`{"surprise":true}`))
	req.Header.Set(middleware.DevUserHeader, owner)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnauthenticated(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/organisation/list-organization", "", nil, nil))
}

func TestFolderRoutes_RequireOrganizationMembership(t *testing.T) {
	s := newTestServer(t)
	acme := s.createOrganization(t, "Acme")

	var globex models.OrganizationDetails
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/organisation/create-organisation", outsider,
		map[string]string{"name": "Globex"}, &globex))

	listPath := func(orgID string) string {
		path := "/folder/get-folder-contents?folder=" + acme.RootFolderID
		if orgID != "" {
			path += "&organization=" + orgID
		}
		return path
	}
	createBody := func(orgID string) map[string]string {
		body := map[string]string{"parent_folder_id": acme.RootFolderID, "folder_name": "Planted"}
		if orgID != "" {
			body["organization_id"] = orgID
		}
		return body
	}

	tests := []struct {
		name       string
		orgID      string
		wantStatus int
	}{
		{name: "organization omitted", orgID: "", wantStatus: http.StatusBadRequest},
		{name: "organization malformed", orgID: "acme", wantStatus: http.StatusBadRequest},
		{name: "not a member", orgID: acme.ID, wantStatus: http.StatusForbidden},
		{name: "folder outside own organization", orgID: globex.ID, wantStatus: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p problem
			assert.Equal(t, tt.wantStatus, s.do(t, http.MethodGet, listPath(tt.orgID), outsider, nil, &p), "list")
			assert.Equal(t, tt.wantStatus, s.do(t, http.MethodPost, "/folder/create", outsider, createBody(tt.orgID), &p), "create")
		})
	}

	var contents models.FolderContents
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, listPath(acme.ID), owner, nil, &contents))
	assert.Empty(t, contents.Folders)
}
