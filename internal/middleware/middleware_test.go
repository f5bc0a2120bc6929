package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"orgdrive/internal/domain"
	"orgdrive/internal/domain/models"
	"orgdrive/internal/httputil"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	userA = "5b7c1a52-8a8e-4f36-9a3e-1f0f2f7d2c11"
	userB = "9d2f4c1e-3b6a-4e8f-8c7d-2a1b0c9e8f71"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*models.Claims, error) {
	claims := &models.Claims{Role: "authenticated"}
	switch token {
	case "good":
		claims.Subject = userA
	case "legacy-subject":
		claims.Subject = "user-1"
	default:
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

func (stubVerifier) Close() error { return nil }

// echoUser writes the authenticated user ID as the body
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, httputil.GetUserID(r))
})

func TestAuth(t *testing.T) {
	handler := Auth(stubVerifier{}, discard)(echoUser)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "valid token", path: "/folder/create", header: "Bearer good", wantStatus: http.StatusOK, wantBody: userA},
		{name: "lowercase scheme", path: "/folder/create", header: "bearer good", wantStatus: http.StatusOK, wantBody: userA},
		{name: "non-UUID subject", path: "/folder/create", header: "Bearer legacy-subject", wantStatus: http.StatusUnauthorized},
		{name: "bad token", path: "/folder/create", header: "Bearer bad", wantStatus: http.StatusUnauthorized},
		{name: "missing header", path: "/folder/create", wantStatus: http.StatusUnauthorized},
		{name: "basic auth", path: "/folder/create", header: "Basic Zm9vOmJhcg==", wantStatus: http.StatusUnauthorized},
		{name: "health is public", path: "/health", wantStatus: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestDevAuth(t *testing.T) {
	handler := DevAuth(discard)(echoUser)

	req := httptest.NewRequest(http.MethodGet, "/organisation/list-organization", nil)
	req.Header.Set(DevUserHeader, userB)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userB, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/organisation/list-organization", nil)
	req.Header.Set(DevUserHeader, "user-2")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/organisation/list-organization", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecovery(t *testing.T) {
	handler := Recovery(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	handler := RequestLogger(discard)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}
