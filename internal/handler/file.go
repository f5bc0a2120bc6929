package handler

import (
	"log/slog"
	"net/http"

	"orgdrive/internal/domain/services"
	"orgdrive/internal/httputil"
)

// FileHandler handles file registration, transfer URLs and favorites
type FileHandler struct {
	fileService     services.FileService
	favoriteService services.FavoriteService
	logger          *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, favoriteService services.FavoriteService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService:     fileService,
		favoriteService: favoriteService,
		logger:          logger,
	}
}

// CreateFile registers a file and returns a presigned upload URL
// POST /file/create-file
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req services.CreateFileRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UploaderID = httputil.GetUserID(r)

	upload, err := h.fileService.CreateFile(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, upload)
}

// ToggleFavorite favorites or unfavorites a file
// PUT /file/favorite/update
func (h *FileHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseAction(w, r)
	if !ok {
		return
	}

	result, err := h.favoriteService.FavoriteFile(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// PinFile pins a file, favoriting it first if needed
// PUT /file/pin
func (h *FileHandler) PinFile(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseAction(w, r)
	if !ok {
		return
	}

	favorite, err := h.favoriteService.PinFile(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, favorite)
}

// DownloadFile returns a presigned read URL
// POST /file/download
func (h *FileHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	req, ok := h.parseAction(w, r)
	if !ok {
		return
	}

	url, err := h.fileService.DownloadFile(r.Context(), req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, url)
}

// ListFavorites lists the caller's favorite files in an organization
// GET /file/favorites/{id}
func (h *FileHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	files, err := h.fileService.ListFavoriteFiles(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, files)
}

func (h *FileHandler) parseAction(w http.ResponseWriter, r *http.Request) (*services.FileActionRequest, bool) {
	var req services.FileActionRequest
	if !parseBody(w, r, &req) {
		return nil, false
	}
	req.UserID = httputil.GetUserID(r)
	return &req, true
}
