package server

import (
	"net/http"

	"todoweb/internal/model"
	"todoweb/internal/service"
	"todoweb/internal/validate"
)

func (s *Server) handleTodos(w http.ResponseWriter, r *http.Request, user *model.User) {
	switch r.Method {
	case http.MethodGet:
		s.listTodos(w, r, user)
	case http.MethodPost:
		s.createTodo(w, r, user)
	case http.MethodPatch:
		s.patchTodo(w, r, user)
	case http.MethodDelete:
		s.deleteTodo(w, r, user)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request, user *model.User) {
	filter, err := service.ParseFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	todos, err := s.todos.List(r.Context(), user, filter)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, todos)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request, user *model.User) {
	var in validate.CreateInput
	if !decodeBody(w, r, &in) {
		return
	}
	todo, err := s.todos.Create(r.Context(), user, in)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusCreated, todo)
}

// patchTodo serves both mutations: a body carrying only an id toggles the
// completed flag, a body with more fields is a partial update.
func (s *Server) patchTodo(w http.ResponseWriter, r *http.Request, user *model.User) {
	var in validate.UpdateInput
	if !decodeBody(w, r, &in) {
		return
	}

	var (
		todo *model.Todo
		err  error
	)
	if isToggleOnly(in) {
		todo, err = s.todos.Toggle(r.Context(), user, validate.ToggleInput{ID: in.ID})
	} else {
		todo, err = s.todos.Update(r.Context(), user, in)
	}
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, todo)
}

func isToggleOnly(in validate.UpdateInput) bool {
	return in.Title == nil && in.Description == nil && in.Completed == nil &&
		in.DueDate == nil && in.Category == nil
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request, user *model.User) {
	in := validate.DeleteInput{ID: r.URL.Query().Get("id")}
	if err := s.todos.Delete(r.Context(), user, in); err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request, user *model.User) {
	switch r.Method {
	case http.MethodGet:
		labels, err := s.categories.List(r.Context(), user)
		if err != nil {
			writeFailure(w, err)
			return
		}
		if labels == nil {
			labels = []string{}
		}
		writeData(w, http.StatusOK, labels)
	case http.MethodDelete:
		// Removing an absent label is a no-op, not an error.
		if err := s.categories.Remove(r.Context(), user, r.URL.Query().Get("name")); err != nil {
			writeFailure(w, err)
			return
		}
		writeData(w, http.StatusOK, nil)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var in registerRequest
	if !decodeBody(w, r, &in) {
		return
	}
	user, err := s.accounts.Register(r.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var in loginRequest
	if !decodeBody(w, r, &in) {
		return
	}
	token, user, err := s.accounts.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) handleCheckToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	user, err := s.accounts.Authenticate(r.Context(), token)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, user)
}
