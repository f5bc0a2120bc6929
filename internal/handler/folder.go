package handler

import (
	"log/slog"
	"net/http"

	"orgdrive/internal/domain/services"
	"orgdrive/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// CreateFolder creates a folder under an existing parent
// POST /folder/create
// Returns 201 if created, 409 if a live sibling already has the name
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req services.CreateFolderRequest
	if !parseBody(w, r, &req) {
		return
	}
	if !requireOrganizationID(w, "organization_id", req.OrganizationID) {
		return
	}
	req.UserID = httputil.GetUserID(r)

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// GetFolderContents lists the live children of a folder
// GET /folder/get-folder-contents?folder={id}&organization={id}
func (h *FolderHandler) GetFolderContents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	folderID := query.Get("folder")
	if folderID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "folder query parameter is required")
		return
	}
	organizationID := query.Get("organization")
	if !requireOrganizationID(w, "organization", organizationID) {
		return
	}

	contents, err := h.folderService.GetFolderContents(r.Context(), &services.GetFolderContentsRequest{
		UserID:         httputil.GetUserID(r),
		FolderID:       folderID,
		OrganizationID: organizationID,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}
