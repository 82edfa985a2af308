package service

import (
	"context"
	"testing"
	"time"

	"todoweb/internal/model"
	"todoweb/internal/repository"
)

func TestOverdueSweep(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	user := &model.User{Name: "dana"}
	if err := store.Users().Create(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	idle := &model.User{Name: "idle"}
	if err := store.Users().Create(ctx, idle); err != nil {
		t.Fatalf("create user: %v", err)
	}

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	past := now.AddDate(0, 0, -3)
	older := now.AddDate(0, 0, -10)
	future := now.AddDate(0, 0, 3)

	todos := store.Todos()
	if _, err := todos.Create(ctx, user.ID, repository.TodoDraft{Title: "Late", DueDate: &past}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := todos.Create(ctx, user.ID, repository.TodoDraft{Title: "Very late", DueDate: &older}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := todos.Create(ctx, user.ID, repository.TodoDraft{Title: "Upcoming", DueDate: &future}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := todos.Create(ctx, user.ID, repository.TodoDraft{Title: "No date"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	done, err := todos.Create(ctx, user.ID, repository.TodoDraft{Title: "Finished late", DueDate: &past})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := todos.Toggle(ctx, user.ID, done.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	svc := NewOverdueService(todos, store.Users())
	svc.now = func() time.Time { return now }

	summaries, err := svc.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	summary := summaries[0]
	if summary.User.ID != user.ID {
		t.Errorf("summary for user %s, want %s", summary.User.ID, user.ID)
	}
	if summary.Count != 2 {
		t.Errorf("count = %d, want 2 (completed and future items excluded)", summary.Count)
	}
	if !summary.Oldest.Equal(older) {
		t.Errorf("oldest = %v, want %v", summary.Oldest, older)
	}
}

func TestOverdueSweepEmpty(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewOverdueService(store.Todos(), store.Users())

	summaries, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected no summaries, got %+v", summaries)
	}
}
