package handler

import (
	"log/slog"
	"net/http"

	"orgdrive/internal/domain/services"
	"orgdrive/internal/httputil"
)

// OrganizationHandler handles organization HTTP requests
type OrganizationHandler struct {
	organizationService services.OrganizationService
	logger              *slog.Logger
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(organizationService services.OrganizationService, logger *slog.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		organizationService: organizationService,
		logger:              logger,
	}
}

// CreateOrganization creates an organization owned by the caller
// POST /organisation/create-organisation
func (h *OrganizationHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var req services.CreateOrganizationRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UserID = httputil.GetUserID(r)

	org, err := h.organizationService.CreateOrganization(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, org)
}

// JoinOrganization joins the organization whose invitation code is in the body
// PATCH /organisation/join/{id}
func (h *OrganizationHandler) JoinOrganization(w http.ResponseWriter, r *http.Request) {
	var req services.JoinOrganizationRequest
	if !parseBody(w, r, &req) {
		return
	}
	req.UserID = httputil.GetUserID(r)
	req.OrganizationID = r.PathValue("id")

	org, err := h.organizationService.JoinOrganization(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, org)
}

// ListOrganizations lists the caller's organizations
// GET /organisation/list-organization
func (h *OrganizationHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.organizationService.ListOrganizations(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, orgs)
}

// GetOrganization returns an organization with its root folder and members
// GET /organisation/get-organization/{id}
func (h *OrganizationHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, err := h.organizationService.GetOrganization(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, org)
}

// RegenerateCode replaces the organization's invitation code
// POST /organisation/regenerate-code/{id}
func (h *OrganizationHandler) RegenerateCode(w http.ResponseWriter, r *http.Request) {
	org, err := h.organizationService.RegenerateInvitationCode(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, org)
}
