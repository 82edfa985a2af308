package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"todoweb/internal/model"
)

// testBackend bundles one backend's views with a controllable clock so the
// same contract suite runs against every implementation.
type testBackend struct {
	todos      TodoRepository
	categories CategoryRegistry
	users      UserRepository
	advance    func(d time.Duration)
}

// fakeClock is a settable clock shared by a backend's views.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func runTodoContract(t *testing.T, b testBackend) {
	ctx := context.Background()
	const userID = "user-1"

	t.Run("CreateDefaults", func(t *testing.T) {
		todo, err := b.todos.Create(ctx, userID, TodoDraft{Title: "Buy milk"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if todo.ID == "" {
			t.Error("expected non-empty id")
		}
		if todo.Completed {
			t.Error("new todo must not be completed")
		}
		if !todo.CreatedAt.Equal(todo.UpdatedAt) {
			t.Errorf("createdAt %v != updatedAt %v at creation", todo.CreatedAt, todo.UpdatedAt)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		const scope = "order-user"
		first, err := b.todos.Create(ctx, scope, TodoDraft{Title: "First"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		b.advance(time.Second)
		second, err := b.todos.Create(ctx, scope, TodoDraft{Title: "Second"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		todos, err := b.todos.List(ctx, scope)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(todos) != 2 {
			t.Fatalf("expected 2 todos, got %d", len(todos))
		}
		if todos[0].ID != second.ID || todos[1].ID != first.ID {
			t.Errorf("expected [Second, First], got [%s, %s]", todos[0].Title, todos[1].Title)
		}
	})

	t.Run("UpdateRefreshesTimestamp", func(t *testing.T) {
		const scope = "update-user"
		created, err := b.todos.Create(ctx, scope, TodoDraft{Title: "Original", Description: "keep me"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		b.advance(time.Minute)
		title := "Renamed"
		updated, err := b.todos.Update(ctx, scope, created.ID, TodoPatch{Title: &title})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Title != "Renamed" {
			t.Errorf("title = %q, want Renamed", updated.Title)
		}
		if updated.Description != "keep me" {
			t.Errorf("untouched field changed: %q", updated.Description)
		}
		if !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Errorf("createdAt changed: %v -> %v", created.CreatedAt, updated.CreatedAt)
		}
		if !updated.UpdatedAt.After(created.UpdatedAt) {
			t.Errorf("updatedAt did not advance: %v -> %v", created.UpdatedAt, updated.UpdatedAt)
		}
		// The repository clock, not the wall clock, owns the timestamp.
		if got := updated.UpdatedAt.Sub(created.UpdatedAt); got != time.Minute {
			t.Errorf("updatedAt advanced by %v, want %v", got, time.Minute)
		}
	})

	t.Run("EmptyUpdateRefreshesTimestamp", func(t *testing.T) {
		const scope = "noop-user"
		created, err := b.todos.Create(ctx, scope, TodoDraft{Title: "Untouched"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		b.advance(time.Minute)
		updated, err := b.todos.Update(ctx, scope, created.ID, TodoPatch{})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Title != created.Title || updated.Completed != created.Completed {
			t.Error("empty update must not change fields")
		}
		if !updated.UpdatedAt.After(created.UpdatedAt) {
			t.Error("empty update must still refresh updatedAt")
		}
	})

	t.Run("ToggleInvolution", func(t *testing.T) {
		const scope = "toggle-user"
		created, err := b.todos.Create(ctx, scope, TodoDraft{Title: "Flip me", Category: "Chores"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		b.advance(time.Second)
		once, err := b.todos.Toggle(ctx, scope, created.ID)
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if !once.Completed {
			t.Error("first toggle should complete the todo")
		}

		b.advance(time.Second)
		twice, err := b.todos.Toggle(ctx, scope, created.ID)
		if err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if twice.Completed != created.Completed {
			t.Error("double toggle must restore the original completed value")
		}
		if twice.Title != created.Title || twice.Category != created.Category {
			t.Error("toggle must not change other fields")
		}
		if !twice.CreatedAt.Equal(created.CreatedAt) {
			t.Error("toggle must not change createdAt")
		}
		if got := twice.UpdatedAt.Sub(created.UpdatedAt); got != 2*time.Second {
			t.Errorf("updatedAt advanced by %v across toggles, want %v", got, 2*time.Second)
		}
	})

	t.Run("RemoveReportsOutcome", func(t *testing.T) {
		const scope = "remove-user"
		created, err := b.todos.Create(ctx, scope, TodoDraft{Title: "Doomed"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		removed, err := b.todos.Remove(ctx, scope, created.ID)
		if err != nil || !removed {
			t.Fatalf("remove = (%v, %v), want (true, nil)", removed, err)
		}
		removed, err = b.todos.Remove(ctx, scope, created.ID)
		if err != nil || removed {
			t.Fatalf("second remove = (%v, %v), want (false, nil)", removed, err)
		}

		todos, err := b.todos.List(ctx, scope)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(todos) != 0 {
			t.Errorf("expected empty scope after removal, got %d todos", len(todos))
		}
	})

	t.Run("AbsentIDs", func(t *testing.T) {
		const scope = "absent-user"
		if _, err := b.todos.GetByID(ctx, scope, "no-such-id"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID absent = %v, want ErrNotFound", err)
		}
		if _, err := b.todos.Toggle(ctx, scope, "no-such-id"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Toggle absent = %v, want ErrNotFound", err)
		}
		if _, err := b.todos.Update(ctx, scope, "no-such-id", TodoPatch{}); !errors.Is(err, ErrNotFound) {
			t.Errorf("Update absent = %v, want ErrNotFound", err)
		}
	})

	t.Run("ScopeIsolation", func(t *testing.T) {
		owner, err := b.todos.Create(ctx, "alice", TodoDraft{Title: "Private"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if _, err := b.todos.GetByID(ctx, "bob", owner.ID); !errors.Is(err, ErrNotFound) {
			t.Error("other scope must not see the item")
		}
		if _, err := b.todos.Toggle(ctx, "bob", owner.ID); !errors.Is(err, ErrNotFound) {
			t.Error("other scope must not mutate the item")
		}
		removed, err := b.todos.Remove(ctx, "bob", owner.ID)
		if err != nil || removed {
			t.Error("other scope must not remove the item")
		}
		if _, err := b.todos.GetByID(ctx, "alice", owner.ID); err != nil {
			t.Errorf("item should survive cross-scope attempts: %v", err)
		}
	})

	t.Run("DefensiveCopies", func(t *testing.T) {
		const scope = "copy-user"
		created, err := b.todos.Create(ctx, scope, TodoDraft{Title: "Immutable"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}

		todos, err := b.todos.List(ctx, scope)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		todos[0].Title = "Mutated through the listing"

		reread, err := b.todos.GetByID(ctx, scope, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if reread.Title != "Immutable" {
			t.Errorf("caller mutation leaked into the store: %q", reread.Title)
		}
	})
}

func runCategoryContract(t *testing.T, b testBackend) {
	ctx := context.Background()
	const userID = "cat-user"

	t.Run("AddIsIdempotent", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			if err := b.categories.Add(ctx, userID, "Shopping"); err != nil {
				t.Fatalf("add: %v", err)
			}
		}
		labels, err := b.categories.ListAll(ctx, userID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		count := 0
		for _, label := range labels {
			if label == "Shopping" {
				count++
			}
		}
		if count != 1 {
			t.Errorf("expected exactly one occurrence of Shopping, got %d in %v", count, labels)
		}
	})

	t.Run("EmptyLabelIsNoOp", func(t *testing.T) {
		before, _ := b.categories.ListAll(ctx, userID)
		if err := b.categories.Add(ctx, userID, ""); err != nil {
			t.Fatalf("add empty: %v", err)
		}
		if err := b.categories.Add(ctx, userID, "   "); err != nil {
			t.Fatalf("add whitespace: %v", err)
		}
		after, _ := b.categories.ListAll(ctx, userID)
		if len(after) != len(before) {
			t.Errorf("registry changed on empty add: %v -> %v", before, after)
		}
	})

	t.Run("TrimsOnAdd", func(t *testing.T) {
		if err := b.categories.Add(ctx, userID, "  Work  "); err != nil {
			t.Fatalf("add: %v", err)
		}
		ok, err := b.categories.Contains(ctx, userID, "Work")
		if err != nil || !ok {
			t.Errorf("Contains(Work) = (%v, %v), want (true, nil)", ok, err)
		}
	})

	t.Run("CaseSensitive", func(t *testing.T) {
		if err := b.categories.Add(ctx, userID, "work"); err != nil {
			t.Fatalf("add: %v", err)
		}
		labels, _ := b.categories.ListAll(ctx, userID)
		var hasUpper, hasLower bool
		for _, label := range labels {
			if label == "Work" {
				hasUpper = true
			}
			if label == "work" {
				hasLower = true
			}
		}
		if !hasUpper || !hasLower {
			t.Errorf("labels differing only by case must be distinct, got %v", labels)
		}
	})

	t.Run("RemoveIsIdempotent", func(t *testing.T) {
		if err := b.categories.Add(ctx, userID, "Transient"); err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := b.categories.Remove(ctx, userID, "Transient"); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if err := b.categories.Remove(ctx, userID, "Transient"); err != nil {
			t.Errorf("removing an absent label must be a no-op, got %v", err)
		}
		ok, _ := b.categories.Contains(ctx, userID, "Transient")
		if ok {
			t.Error("label still present after removal")
		}
	})

	t.Run("ScopedPerUser", func(t *testing.T) {
		if err := b.categories.Add(ctx, "cat-owner", "Mine"); err != nil {
			t.Fatalf("add: %v", err)
		}
		ok, err := b.categories.Contains(ctx, "cat-other", "Mine")
		if err != nil {
			t.Fatalf("contains: %v", err)
		}
		if ok {
			t.Error("category leaked across identity scopes")
		}
	})
}

func runUserContract(t *testing.T, b testBackend) {
	ctx := context.Background()

	t.Run("CreateAssignsIDAndTimestamps", func(t *testing.T) {
		user := &model.User{Name: "dana", Email: "dana@example.com"}
		if err := b.users.Create(ctx, user); err != nil {
			t.Fatalf("create: %v", err)
		}
		if user.ID == "" {
			t.Error("expected assigned id")
		}
		if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
			t.Error("expected assigned timestamps")
		}
	})

	t.Run("Lookups", func(t *testing.T) {
		user := &model.User{Name: "erin", Email: "erin@example.com"}
		if err := b.users.Create(ctx, user); err != nil {
			t.Fatalf("create: %v", err)
		}

		byID, err := b.users.FindByID(ctx, user.ID)
		if err != nil || byID.Name != "erin" {
			t.Errorf("FindByID = (%v, %v)", byID, err)
		}
		byName, err := b.users.FindByName(ctx, "erin")
		if err != nil || byName.ID != user.ID {
			t.Errorf("FindByName = (%v, %v)", byName, err)
		}
		byEmail, err := b.users.FindByEmail(ctx, "erin@example.com")
		if err != nil || byEmail.ID != user.ID {
			t.Errorf("FindByEmail = (%v, %v)", byEmail, err)
		}
		if _, err := b.users.FindByName(ctx, "Erin"); !errors.Is(err, ErrNotFound) {
			t.Errorf("lookup is exact-match, got %v", err)
		}
		if _, err := b.users.FindByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("FindByID absent = %v, want ErrNotFound", err)
		}
	})
}
