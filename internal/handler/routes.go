package handler

import "net/http"

// Handlers groups every HTTP handler served by the API
type Handlers struct {
	Health        *HealthHandler
	Organizations *OrganizationHandler
	Folders       *FolderHandler
	Files         *FileHandler
}

// Register mounts the API routes on mux
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /organisation/create-organisation", h.Organizations.CreateOrganization)
	mux.HandleFunc("PATCH /organisation/join/{id}", h.Organizations.JoinOrganization)
	mux.HandleFunc("GET /organisation/list-organization", h.Organizations.ListOrganizations)
	mux.HandleFunc("GET /organisation/get-organization/{id}", h.Organizations.GetOrganization)
	mux.HandleFunc("POST /organisation/regenerate-code/{id}", h.Organizations.RegenerateCode)

	mux.HandleFunc("POST /folder/create", h.Folders.CreateFolder)
	mux.HandleFunc("GET /folder/get-folder-contents", h.Folders.GetFolderContents)

	mux.HandleFunc("POST /file/create-file", h.Files.CreateFile)
	mux.HandleFunc("PUT /file/favorite/update", h.Files.ToggleFavorite)
	mux.HandleFunc("PUT /file/pin", h.Files.PinFile)
	mux.HandleFunc("POST /file/download", h.Files.DownloadFile)
	mux.HandleFunc("GET /file/favorites/{id}", h.Files.ListFavorites)
}
