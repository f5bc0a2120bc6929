package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"orgdrive/internal/auth"
	"orgdrive/internal/httputil"
)

// DevUserHeader carries the caller's id when no identity provider is configured
const DevUserHeader = "X-User-ID"

// publicPaths skip authentication
var publicPaths = map[string]bool{
	"/health": true,
}

// Auth validates the bearer token and stores the subject as the request's user ID
func Auth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("authentication failed", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			userID := claims.GetUserID()
			if uuid.Validate(userID) != nil {
				logger.Warn("token subject is not a UUID", "subject", userID)
				httputil.RespondError(w, http.StatusUnauthorized, "token subject is not a valid user id")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}

// DevAuth trusts the X-User-ID header, which must hold a UUID. Only for local
// development.
func DevAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	logger.Warn("authentication disabled, trusting " + DevUserHeader + " header")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			userID := strings.TrimSpace(r.Header.Get(DevUserHeader))
			if userID == "" {
				httputil.RespondError(w, http.StatusUnauthorized, DevUserHeader+" header required")
				return
			}
			if uuid.Validate(userID) != nil {
				httputil.RespondError(w, http.StatusUnauthorized, DevUserHeader+" must be a UUID")
				return
			}
			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
