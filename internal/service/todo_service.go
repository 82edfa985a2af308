package service

import (
	"context"
	"fmt"
	"strings"

	"todoweb/internal/dateutil"
	"todoweb/internal/model"
	"todoweb/internal/repository"
	"todoweb/internal/validate"
)

// Filter narrows a listing by completion state. It never changes ordering.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter maps the wire value onto a Filter; empty means all.
func ParseFilter(raw string) (Filter, error) {
	switch Filter(raw) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return FilterAll, validate.FieldErrors{{Field: "filter", Message: "filter must be all, active or completed"}}
	}
}

// TodoService orchestrates one todo operation end to end: validate the raw
// input, normalize the due date, run the repository operation, and register
// any category label as a side effect of category-bearing writes. Validation
// always completes before any storage call.
type TodoService struct {
	todos      repository.TodoRepository
	categories repository.CategoryRegistry
}

func NewTodoService(todos repository.TodoRepository, categories repository.CategoryRegistry) *TodoService {
	return &TodoService{todos: todos, categories: categories}
}

// List returns the user's todos newest-first, optionally narrowed by filter.
func (s *TodoService) List(ctx context.Context, user *model.User, filter Filter) ([]model.Todo, error) {
	todos, err := s.todos.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if filter == FilterAll || filter == "" {
		return todos, nil
	}

	filtered := todos[:0]
	for _, todo := range todos {
		if (filter == FilterCompleted) == todo.Completed {
			filtered = append(filtered, todo)
		}
	}
	return filtered, nil
}

// Get is a point lookup.
func (s *TodoService) Get(ctx context.Context, user *model.User, id string) (*model.Todo, error) {
	return s.todos.GetByID(ctx, user.ID, id)
}

// Create validates the input and appends a new todo. A non-empty category is
// registered for the user before the write, matching the order of the
// original flow; the returned todo does not depend on that side effect.
func (s *TodoService) Create(ctx context.Context, user *model.User, in validate.CreateInput) (*model.Todo, error) {
	if err := validate.ValidateCreate(in); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(in.Category)
	if category != "" {
		if err := s.categories.Add(ctx, user.ID, category); err != nil {
			return nil, fmt.Errorf("register category: %w", err)
		}
	}

	return s.todos.Create(ctx, user.ID, repository.TodoDraft{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     dateutil.ParseDueDate(in.DueDate),
		Category:    category,
	})
}

// Update applies the fields present in the input. An update touching no
// fields is legal and only refreshes the updated timestamp.
func (s *TodoService) Update(ctx context.Context, user *model.User, in validate.UpdateInput) (*model.Todo, error) {
	if err := validate.ValidateUpdate(in); err != nil {
		return nil, err
	}

	var patch repository.TodoPatch
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		patch.Title = &title
	}
	patch.Description = in.Description
	patch.Completed = in.Completed
	if in.DueDate != nil {
		// An empty due date on the wire means "absent", not "clear".
		if due := dateutil.ParseDueDate(*in.DueDate); due != nil {
			patch.DueDate = due
		}
	}
	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		patch.Category = &category
		if category != "" {
			if err := s.categories.Add(ctx, user.ID, category); err != nil {
				return nil, fmt.Errorf("register category: %w", err)
			}
		}
	}

	return s.todos.Update(ctx, user.ID, in.ID, patch)
}

// Toggle flips the completed flag.
func (s *TodoService) Toggle(ctx context.Context, user *model.User, in validate.ToggleInput) (*model.Todo, error) {
	if err := validate.ValidateToggle(in); err != nil {
		return nil, err
	}
	return s.todos.Toggle(ctx, user.ID, in.ID)
}

// Delete removes the todo. Deleting an id that does not exist reports
// repository.ErrNotFound so the caller can answer with a not-found outcome.
func (s *TodoService) Delete(ctx context.Context, user *model.User, in validate.DeleteInput) error {
	if err := validate.ValidateDelete(in); err != nil {
		return err
	}
	removed, err := s.todos.Remove(ctx, user.ID, in.ID)
	if err != nil {
		return err
	}
	if !removed {
		return repository.ErrNotFound
	}
	return nil
}
