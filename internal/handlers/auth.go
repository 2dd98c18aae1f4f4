package handlers

import (
	"net/http"
	"strings"

	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/models"
)

// AuthHandler resolves user names to users.
type AuthHandler struct {
	deps *Dependencies
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{deps: deps}
}

type loginRequest struct {
	Name string `json:"name"`
}

// Login returns the user with the given name, creating it on first use.
// The API token, not the name, is what authenticates the caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.deps.writeError(w, r, err)
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 100 {
		h.deps.writeError(w, r, apperrors.ValidationField("name", "name is required and at most 100 characters"))
		return
	}

	user, err := h.deps.Services.Repos.Users.GetOrCreateByName(name)
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ListUsers returns every user.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.deps.Services.Repos.Users.GetAll()
	if err != nil {
		h.deps.writeError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}
