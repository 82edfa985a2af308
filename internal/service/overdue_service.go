package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"todoweb/internal/dateutil"
	"todoweb/internal/model"
	"todoweb/internal/repository"
)

// OverdueSummary is one user's overdue standing at sweep time.
type OverdueSummary struct {
	User    model.User
	Count   int
	Oldest  time.Time
	Samples []string
}

const overdueSampleLimit = 3

// OverdueService periodically scans every user's open todos for past due
// dates and writes a summary to the log. Delivering reminders to users is out
// of scope; the sweep exists for operator visibility.
type OverdueService struct {
	todos repository.TodoRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewOverdueService(todos repository.TodoRepository, users repository.UserRepository) *OverdueService {
	return &OverdueService{todos: todos, users: users, now: time.Now}
}

// Sweep collects a summary per user with at least one overdue item.
func (s *OverdueService) Sweep(ctx context.Context) ([]OverdueSummary, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	now := s.now()
	var summaries []OverdueSummary
	for _, user := range users {
		todos, err := s.todos.List(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("list todos for %s: %w", user.ID, err)
		}

		summary := OverdueSummary{User: user}
		for _, todo := range todos {
			if todo.Completed || todo.DueDate == nil || !todo.DueDate.Before(now) {
				continue
			}
			summary.Count++
			if summary.Oldest.IsZero() || todo.DueDate.Before(summary.Oldest) {
				summary.Oldest = *todo.DueDate
			}
			if len(summary.Samples) < overdueSampleLimit {
				summary.Samples = append(summary.Samples, strings.TrimSpace(todo.Title))
			}
		}
		if summary.Count > 0 {
			summaries = append(summaries, summary)
		}
	}
	return summaries, nil
}

// LogSweep runs a sweep and logs the result; it is the job the scheduler
// fires.
func (s *OverdueService) LogSweep(ctx context.Context) {
	summaries, err := s.Sweep(ctx)
	if err != nil {
		log.Printf("overdue sweep: %v", err)
		return
	}
	if len(summaries) == 0 {
		log.Println("overdue sweep: nothing overdue")
		return
	}
	for _, summary := range summaries {
		log.Printf("overdue sweep: user %s (%s): %d overdue, oldest due %s: %s",
			summary.User.Name, summary.User.ID, summary.Count,
			dateutil.FormatDueDate(summary.Oldest), strings.Join(summary.Samples, ", "))
	}
}
