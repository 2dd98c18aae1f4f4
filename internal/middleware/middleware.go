// Package middleware provides HTTP middleware for the finance tracker API.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"finance_tracker/internal/auth"
	"finance_tracker/internal/models"
	"finance_tracker/internal/repository"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// UserContextKey is the context key for the user a route operates on.
const UserContextKey ContextKey = "user"

// TokenHeader is an alternative to the Authorization header for clients
// that cannot set bearer tokens.
const TokenHeader = "X-API-Token"

// RequireToken rejects requests whose bearer token does not match the
// verifier's hash. A disabled verifier lets everything through.
func RequireToken(v *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := v.Verify(bearerToken(r)); err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="finance"`)
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get(TokenHeader))
}

// UserLoader resolves the {userID} route parameter into a user.
type UserLoader struct {
	users *repository.UserRepository
}

// NewUserLoader creates a new UserLoader.
func NewUserLoader(users *repository.UserRepository) *UserLoader {
	return &UserLoader{users: users}
}

// LoadUser is middleware that loads the user named by {userID} into the
// request context. Unknown users get a 404.
func (m *UserLoader) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}

		user, err := m.users.GetByID(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "loading user")
			return
		}
		if user == nil {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUser retrieves the route's user from the request context.
// Returns nil if no user was loaded.
func GetUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// ReadOnlyInDemo rejects deletions while the server runs in demo mode.
func ReadOnlyInDemo(demo bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if demo && r.Method == http.MethodDelete {
				writeError(w, http.StatusForbidden, "deletions are disabled in demo mode")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			entry := log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  chimw.GetReqID(r.Context()),
			})
			if ww.Status() >= http.StatusInternalServerError {
				entry.Warn("request failed")
				return
			}
			entry.Debug("request")
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
