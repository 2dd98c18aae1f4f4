package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"finance_tracker/internal/calendar"
	apperrors "finance_tracker/internal/errors"
	"finance_tracker/internal/middleware"
	"finance_tracker/internal/models"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code. Server errors are logged and their
// message is not exposed.
func (d *Dependencies) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	resp := errorResponse{Error: err.Error()}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Error = appErr.Message
		resp.Details = appErr.Details
	}

	if status >= http.StatusInternalServerError {
		fields := logrus.Fields{"method": r.Method, "path": r.URL.Path}
		if user := middleware.GetUser(r); user != nil {
			fields["user_id"] = user.ID
		}
		d.Log.WithFields(fields).WithError(err).Error("request failed")
		resp = errorResponse{Error: "internal error"}
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body into v. Unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation("request body is empty")
		}
		return apperrors.Wrap(apperrors.ErrValidation, "invalid request body", err)
	}
	return nil
}

// idParam parses a positive integer route parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ValidationField(name, fmt.Sprintf("%s must be a positive integer", name))
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD field. An empty string yields the zero time so
// that required-field validation reports it.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := calendar.Parse(s)
	if err != nil {
		return time.Time{}, apperrors.ValidationField(field, field+" must be a date in YYYY-MM-DD form")
	}
	return t, nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ValidationField(name, name+" must be an integer")
	}
	return n, nil
}

// currentUser returns the user loaded from the {userID} route parameter.
func currentUser(r *http.Request) *models.User {
	return middleware.GetUser(r)
}
