// Package server is the HTTP JSON boundary. It resolves the caller's
// identity, feeds requests into the services and maps the error taxonomy
// onto statuses: 400 validation, 401 identity, 404 not found, 500
// infrastructure.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"todoweb/internal/auth"
	"todoweb/internal/config"
	"todoweb/internal/identity"
	"todoweb/internal/repository"
	"todoweb/internal/service"
	"todoweb/internal/validate"
)

// Server routes the /api endpoints.
type Server struct {
	todos      *service.TodoService
	categories *service.CategoryService
	accounts   *auth.Service
	resolver   identity.Resolver
	authMode   string
	mux        *http.ServeMux
}

// Options carries the wiring for New. Accounts may be nil in name mode.
type Options struct {
	Todos      *service.TodoService
	Categories *service.CategoryService
	Accounts   *auth.Service
	Resolver   identity.Resolver
	AuthMode   string
}

func New(opts Options) *Server {
	s := &Server{
		todos:      opts.Todos,
		categories: opts.Categories,
		accounts:   opts.Accounts,
		resolver:   opts.Resolver,
		authMode:   opts.AuthMode,
		mux:        http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/todos", s.withIdentity(s.handleTodos))
	s.mux.HandleFunc("/api/categories", s.withIdentity(s.handleCategories))

	// Registration endpoints only exist under the strict policy; in name
	// mode they fall through to the mux's default 404.
	if s.authMode == config.AuthModePassword {
		s.mux.HandleFunc("/api/register", s.handleRegister)
		s.mux.HandleFunc("/api/login", s.handleLogin)
		s.mux.HandleFunc("/api/checkToken", s.handleCheckToken)
	}

	return s
}

// Handler returns the root handler for http.Server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// envelope is the uniform response shape. Fields is only populated for
// validation failures so a UI can highlight every offending field.
type envelope struct {
	Success bool                  `json:"success"`
	Data    interface{}           `json:"data,omitempty"`
	Error   string                `json:"error,omitempty"`
	Fields  []validate.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

// writeFailure maps a service error onto the envelope and status.
func writeFailure(w http.ResponseWriter, err error) {
	var fieldErrs validate.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Error:   fieldErrs.Error(),
			Fields:  fieldErrs,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, identity.ErrUnknownIdentity):
		writeError(w, http.StatusUnauthorized, "unknown identity, registration required")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
