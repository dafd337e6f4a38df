package handlers

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"

	"meroboard/utilities"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxOrgID  contextKey = "organization_id"
)

// appClaims are the token claims the gateway issues. apps lists the app
// slugs the user may reach.
type appClaims struct {
	UserID         string   `json:"user_id"`
	OrganizationID string   `json:"organization_id"`
	Apps           []string `json:"apps"`
	jwt.RegisteredClaims
}

// UserID returns the authenticated user id from the request context.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(ctxUserID).(string)
	return id
}

// OrgID returns the authenticated organization id from the request context.
func OrgID(r *http.Request) string {
	id, _ := r.Context().Value(ctxOrgID).(string)
	return id
}

// AuthMiddleware validates the bearer token, checks access to the app slug
// in the route, and stashes identity in the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AuthMiddleware"

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &appClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			utilities.Log.WithField("op", op).Debugf("token rejected: %v", err)
			WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token"})
			return
		}
		if claims.UserID == "" || claims.OrganizationID == "" {
			WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid token claims"})
			return
		}

		if slug := mux.Vars(r)["app_slug"]; slug != "" && !claims.hasApp(slug) {
			WriteJSON(w, http.StatusForbidden, errorBody{Error: "no access to this app"})
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID)
		ctx = context.WithValue(ctx, ctxOrgID, claims.OrganizationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c *appClaims) hasApp(slug string) bool {
	// An empty apps claim grants access everywhere; the gateway only
	// populates it for restricted users.
	if len(c.Apps) == 0 {
		return true
	}
	for _, a := range c.Apps {
		if a == slug {
			return true
		}
	}
	return false
}

// statusRecorder captures the response code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request with method, path, status
// and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		utilities.Log.WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("status", rec.status).
			WithField("duration", time.Since(start).String()).
			Info("request handled")
	})
}
