package handler

import (
	"errors"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"orgdrive/internal/domain"
	"orgdrive/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses. Upstream and
// internal failures are logged and reported without their cause.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		extras := map[string]interface{}{}
		if conflictErr.ResourceType != "" {
			extras["resource_type"] = conflictErr.ResourceType
		}
		if conflictErr.ResourceID != "" {
			extras["resource_id"] = conflictErr.ResourceID
		}
		if conflictErr.Field != "" {
			extras["field"] = conflictErr.Field
		}
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), extras)
		return
	}

	status := http.StatusInternalServerError
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode()
	}

	switch domain.KindOf(err) {
	case domain.ErrUpstream:
		logger.Error("upstream failure", "error", err)
		httputil.RespondError(w, status, "storage temporarily unavailable")
	case domain.ErrAllocationExhausted:
		logger.Error("allocation exhausted", "error", err)
		httputil.RespondError(w, status, err.Error())
	case domain.ErrInternal:
		logger.Error("internal error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	default:
		httputil.RespondError(w, status, err.Error())
	}
}

// parseBody decodes the JSON body, writing the error response itself on failure
func parseBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return false
		}
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// requireOrganizationID rejects requests that do not name the organization
// they act in. Every route scoped to an organization must pass the membership
// gate, and the gate needs the organization.
func requireOrganizationID(w http.ResponseWriter, field, organizationID string) bool {
	if err := validation.Validate(organizationID, validation.Required, is.UUID); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, field+": "+err.Error())
		return false
	}
	return true
}
