// Package repository defines the persistence contract for todos, category
// registries and users, plus the interchangeable backends implementing it:
// process memory, a JSON file and SQLite. Callers depend only on the
// interfaces; every backend honors the same semantics (newest-first listing,
// sentinel not-found, repository-owned ids and timestamps).
package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"todoweb/internal/model"
)

// ErrNotFound reports that the referenced todo or user does not exist within
// the caller's scope. It is an expected outcome, not an infrastructure
// failure; callers check it with errors.Is.
var ErrNotFound = errors.New("not found")

// TodoDraft carries the normalized fields for a new todo. The repository
// generates the id, sets completed=false and writes both timestamps.
type TodoDraft struct {
	Title       string
	Description string
	DueDate     *time.Time
	Category    string
}

// TodoPatch applies only its non-nil fields. UpdatedAt is refreshed even when
// every field is nil.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
	Category    *string
}

// TodoRepository owns the todo collection of one identity scope per userID.
// Returned items are defensive copies; mutating them does not affect stored
// state.
type TodoRepository interface {
	// List returns the user's todos sorted newest-first by creation time.
	List(ctx context.Context, userID string) ([]model.Todo, error)
	// GetByID is a point lookup with no side effects.
	GetByID(ctx context.Context, userID, id string) (*model.Todo, error)
	// Create appends a new todo and returns it.
	Create(ctx context.Context, userID string, draft TodoDraft) (*model.Todo, error)
	// Update applies the patch and refreshes UpdatedAt.
	Update(ctx context.Context, userID, id string, patch TodoPatch) (*model.Todo, error)
	// Toggle flips the completed flag and refreshes UpdatedAt.
	Toggle(ctx context.Context, userID, id string) (*model.Todo, error)
	// Remove deletes the todo if present and reports whether it did.
	// Removing an absent id returns (false, nil).
	Remove(ctx context.Context, userID, id string) (bool, error)
}

// CategoryRegistry is the per-user set of distinct category labels. Matching
// is exact on the trimmed label; no case folding.
type CategoryRegistry interface {
	ListAll(ctx context.Context, userID string) ([]string, error)
	// Add trims the label and appends it unless empty or already present.
	Add(ctx context.Context, userID, label string) error
	// Remove drops an exact match; removing an absent label is a no-op.
	Remove(ctx context.Context, userID, label string) error
	Contains(ctx context.Context, userID, label string) (bool, error)
}

// UserRepository stores identities. Create assigns the id and timestamps when
// the caller left them zero.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
}

// sortNewestFirst orders todos by descending creation time. The sort is
// stable so ties keep their relative order within a single read.
func sortNewestFirst(todos []model.Todo) {
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].CreatedAt.After(todos[j].CreatedAt)
	})
}

// applyPatch copies the patch's non-nil fields onto the todo.
func applyPatch(todo *model.Todo, patch TodoPatch) {
	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Description != nil {
		todo.Description = *patch.Description
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	if patch.DueDate != nil {
		due := *patch.DueDate
		todo.DueDate = &due
	}
	if patch.Category != nil {
		todo.Category = *patch.Category
	}
}
