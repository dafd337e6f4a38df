package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims appClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authTestRouter() (*mux.Router, *appClaims) {
	var seen appClaims
	r := mux.NewRouter()
	sub := r.PathPrefix("/apps/{app_slug}").Subrouter()
	sub.Use(AuthMiddleware)
	sub.HandleFunc("/ping", func(w http.ResponseWriter, req *http.Request) {
		seen.UserID = UserID(req)
		seen.OrganizationID = OrgID(req)
		w.WriteHeader(http.StatusOK)
	})
	return r, &seen
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	router, seen := authTestRouter()

	token := signToken(t, appClaims{
		UserID:         "u-1",
		OrganizationID: "org-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	req := httptest.NewRequest("GET", "/apps/mero-board/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", seen.UserID)
	assert.Equal(t, "org-1", seen.OrganizationID)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	router, _ := authTestRouter()

	req := httptest.NewRequest("GET", "/apps/mero-board/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareBadSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "a different secret")
	router, _ := authTestRouter()

	token := signToken(t, appClaims{UserID: "u-1", OrganizationID: "org-1"})

	req := httptest.NewRequest("GET", "/apps/mero-board/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	router, _ := authTestRouter()

	token := signToken(t, appClaims{
		UserID:         "u-1",
		OrganizationID: "org-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	req := httptest.NewRequest("GET", "/apps/mero-board/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareMissingIdentityClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	router, _ := authTestRouter()

	token := signToken(t, appClaims{UserID: "u-1"})

	req := httptest.NewRequest("GET", "/apps/mero-board/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareAppRestriction(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	router, _ := authTestRouter()

	token := signToken(t, appClaims{
		UserID:         "u-1",
		OrganizationID: "org-1",
		Apps:           []string{"other-app"},
	})

	req := httptest.NewRequest("GET", "/apps/mero-board/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthMiddlewareAppAllowed(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	router, _ := authTestRouter()

	token := signToken(t, appClaims{
		UserID:         "u-1",
		OrganizationID: "org-1",
		Apps:           []string{"mero-board", "other-app"},
	})

	req := httptest.NewRequest("GET", "/apps/mero-board/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
