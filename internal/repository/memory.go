package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"todoweb/internal/model"
)

// MemoryStore keeps all state in process memory. It is constructed once at
// startup, starts empty and is not persisted across restarts. All state is
// owned by the instance; there is no package-level collection.
type MemoryStore struct {
	mu         sync.Mutex
	todos      map[string][]model.Todo
	categories map[string][]string
	users      map[string]model.User
	now        func() time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		todos:      make(map[string][]model.Todo),
		categories: make(map[string][]string),
		users:      make(map[string]model.User),
		now:        time.Now,
	}
}

// SetTimeFunc overrides the clock, for deterministic timestamps in tests.
func (s *MemoryStore) SetTimeFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = fn
}

// Todos returns the store's todo repository view.
func (s *MemoryStore) Todos() TodoRepository { return &memoryTodos{s} }

// Categories returns the store's category registry view.
func (s *MemoryStore) Categories() CategoryRegistry { return &memoryCategories{s} }

// Users returns the store's user repository view.
func (s *MemoryStore) Users() UserRepository { return &memoryUsers{s} }

type memoryTodos struct {
	store *MemoryStore
}

func (r *memoryTodos) List(ctx context.Context, userID string) ([]model.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.todos[userID]
	out := make([]model.Todo, len(items))
	copy(out, items)
	sortNewestFirst(out)
	return out, nil
}

func (r *memoryTodos) GetByID(ctx context.Context, userID, id string) (*model.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range r.store.todos[userID] {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryTodos) Create(ctx context.Context, userID string, draft TodoDraft) (*model.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	todo := model.Todo{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       draft.Title,
		Description: draft.Description,
		DueDate:     draft.DueDate,
		Category:    draft.Category,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.store.todos[userID] = append(r.store.todos[userID], todo)

	created := todo
	return &created, nil
}

func (r *memoryTodos) Update(ctx context.Context, userID, id string, patch TodoPatch) (*model.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.todos[userID]
	for i := range items {
		if items[i].ID != id {
			continue
		}
		applyPatch(&items[i], patch)
		items[i].UpdatedAt = r.store.now()
		updated := items[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

func (r *memoryTodos) Toggle(ctx context.Context, userID, id string) (*model.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.todos[userID]
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Completed = !items[i].Completed
		items[i].UpdatedAt = r.store.now()
		toggled := items[i]
		return &toggled, nil
	}
	return nil, ErrNotFound
}

func (r *memoryTodos) Remove(ctx context.Context, userID, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.todos[userID]
	for i := range items {
		if items[i].ID == id {
			r.store.todos[userID] = append(items[:i:i], items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type memoryCategories struct {
	store *MemoryStore
}

func (r *memoryCategories) ListAll(ctx context.Context, userID string) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	labels := r.store.categories[userID]
	out := make([]string, len(labels))
	copy(out, labels)
	return out, nil
}

func (r *memoryCategories) Add(ctx context.Context, userID, label string) error {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.categories[userID] {
		if existing == trimmed {
			return nil
		}
	}
	r.store.categories[userID] = append(r.store.categories[userID], trimmed)
	return nil
}

func (r *memoryCategories) Remove(ctx context.Context, userID, label string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	labels := r.store.categories[userID]
	for i, existing := range labels {
		if existing == label {
			r.store.categories[userID] = append(labels[:i:i], labels[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memoryCategories) Contains(ctx context.Context, userID, label string) (bool, error) {
	trimmed := strings.TrimSpace(label)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.categories[userID] {
		if existing == trimmed {
			return true, nil
		}
	}
	return false, nil
}

type memoryUsers struct {
	store *MemoryStore
}

func (r *memoryUsers) Create(ctx context.Context, user *model.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := r.store.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.store.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user, ok := r.store.users[id]; ok {
		found := user
		return &found, nil
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) FindByName(ctx context.Context, name string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Name == name {
			found := user
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) ListAll(ctx context.Context) ([]model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]model.User, 0, len(r.store.users))
	for _, user := range r.store.users {
		out = append(out, user)
	}
	return out, nil
}
