package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"finance_tracker/internal/auth"
	"finance_tracker/internal/database"
	"finance_tracker/internal/repository"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireToken(t *testing.T) {
	hash, err := auth.HashToken("s3cret")
	if err != nil {
		t.Fatalf("HashToken() error = %v", err)
	}
	handler := RequireToken(auth.NewVerifier(hash))(okHandler())

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"bearer", "Authorization", "Bearer s3cret", http.StatusOK},
		{"bearer lowercase scheme", "Authorization", "bearer s3cret", http.StatusOK},
		{"token header", TokenHeader, "s3cret", http.StatusOK},
		{"wrong token", "Authorization", "Bearer nope", http.StatusUnauthorized},
		{"basic scheme", "Authorization", "Basic s3cret", http.StatusUnauthorized},
		{"missing", "", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/users/1/portfolio", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("WWW-Authenticate header is missing")
			}
		})
	}
}

func TestRequireToken_Disabled_PassesThrough(t *testing.T) {
	handler := RequireToken(auth.NewVerifier(""))(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestUserLoader_LoadUser(t *testing.T) {
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	users := repository.NewUserRepository(db)
	id, err := users.Create("alice")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var loaded string
	r := chi.NewRouter()
	r.With(NewUserLoader(users).LoadUser).Get("/users/{userID}", func(w http.ResponseWriter, r *http.Request) {
		loaded = GetUser(r).Name
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		path string
		want int
	}{
		{"/users/" + strconv.FormatInt(id, 10), http.StatusOK},
		{"/users/999", http.StatusNotFound},
		{"/users/abc", http.StatusBadRequest},
		{"/users/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s status = %d, want %d", tt.path, rec.Code, tt.want)
		}
	}
	if loaded != "alice" {
		t.Errorf("loaded user = %q, want %q", loaded, "alice")
	}
}

func TestGetUser_NoUser_ReturnsNil(t *testing.T) {
	if GetUser(httptest.NewRequest("GET", "/", nil)) != nil {
		t.Error("GetUser() should return nil without a loaded user")
	}
}

func TestReadOnlyInDemo(t *testing.T) {
	tests := []struct {
		demo   bool
		method string
		want   int
	}{
		{true, http.MethodDelete, http.StatusForbidden},
		{true, http.MethodGet, http.StatusOK},
		{true, http.MethodPost, http.StatusOK},
		{false, http.MethodDelete, http.StatusOK},
	}
	for _, tt := range tests {
		handler := ReadOnlyInDemo(tt.demo)(okHandler())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(tt.method, "/", nil))
		if rec.Code != tt.want {
			t.Errorf("demo=%v %s status = %d, want %d", tt.demo, tt.method, rec.Code, tt.want)
		}
	}
}

func TestRequestLogger_WarnsOnServerErrors(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.InfoLevel)
	log.SetFormatter(&logrus.JSONFormatter{})

	failing := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/fail", nil))

	out := buf.String()
	if !strings.Contains(out, `"status":502`) || !strings.Contains(out, `"path":"/api/fail"`) {
		t.Errorf("log output = %q, want status and path fields", out)
	}

	buf.Reset()
	RequestLogger(log)(okHandler()).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if buf.Len() != 0 {
		t.Errorf("successful request logged at info: %q", buf.String())
	}
}
