package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"todoweb/internal/model"
)

const (
	fileLockTimeout    = 3 * time.Second
	fileLockRetryDelay = 100 * time.Millisecond
)

// fileData is the single JSON document a FileStore keeps on disk.
type fileData struct {
	Version    string                  `json:"version"`
	UpdatedAt  time.Time               `json:"updated_at"`
	Todos      map[string][]model.Todo `json:"todos"`
	Categories map[string][]string     `json:"categories"`
	Users      map[string]model.User   `json:"users"`
}

// FileStore persists all state in one JSON file. Reads are served from
// memory; every mutation rewrites the file under a cross-process file lock so
// two processes sharing the same path cannot interleave saves.
type FileStore struct {
	filePath string
	fileLock *flock.Flock
	mu       sync.Mutex
	data     fileData
	now      func() time.Time
}

// NewFileStore opens (or creates) the JSON store at path. A sibling
// path+".lock" file carries the cross-process lock, so the data file itself
// can be replaced atomically on save.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		filePath: path,
		fileLock: flock.New(path + ".lock"),
		now:      time.Now,
		data: fileData{
			Version:    "1",
			Todos:      make(map[string][]model.Todo),
			Categories: make(map[string][]string),
			Users:      make(map[string]model.User),
		},
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("load store %q: %w", path, err)
	}
	return s, nil
}

// SetTimeFunc overrides the clock, for deterministic timestamps in tests.
func (s *FileStore) SetTimeFunc(fn func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = fn
}

// Todos returns the store's todo repository view.
func (s *FileStore) Todos() TodoRepository { return &fileTodos{s} }

// Categories returns the store's category registry view.
func (s *FileStore) Categories() CategoryRegistry { return &fileCategories{s} }

// Users returns the store's user repository view.
func (s *FileStore) Users() UserRepository { return &fileUsers{s} }

// withFileLock runs fn while holding the cross-process lock, retrying for up
// to fileLockTimeout.
func (s *FileStore) withFileLock(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), fileLockTimeout)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(ctx, fileLockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire file lock: timed out")
	}
	defer func() { _ = s.fileLock.Unlock() }()

	return fn()
}

func (s *FileStore) load() error {
	return s.withFileLock(s.loadLocked)
}

func (s *FileStore) loadLocked() error {
	raw, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse store file: %w", err)
	}
	if data.Todos == nil {
		data.Todos = make(map[string][]model.Todo)
	}
	if data.Categories == nil {
		data.Categories = make(map[string][]string)
	}
	if data.Users == nil {
		data.Users = make(map[string]model.User)
	}
	s.data = data
	return nil
}

// save writes the document atomically: marshal to a temp file in the same
// directory, then rename over the data file. Caller holds s.mu.
func (s *FileStore) save() error {
	return s.withFileLock(s.saveLocked)
}

func (s *FileStore) saveLocked() error {
	s.data.UpdatedAt = s.now()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

type fileTodos struct {
	store *FileStore
}

func (r *fileTodos) List(ctx context.Context, userID string) ([]model.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.data.Todos[userID]
	out := make([]model.Todo, len(items))
	copy(out, items)
	sortNewestFirst(out)
	return out, nil
}

func (r *fileTodos) GetByID(ctx context.Context, userID, id string) (*model.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range r.store.data.Todos[userID] {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fileTodos) Create(ctx context.Context, userID string, draft TodoDraft) (*model.Todo, error) {
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
	r.store.data.Todos[userID] = append(r.store.data.Todos[userID], todo)
	if err := r.store.save(); err != nil {
		return nil, err
	}

	created := todo
	return &created, nil
}

func (r *fileTodos) Update(ctx context.Context, userID, id string, patch TodoPatch) (*model.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.data.Todos[userID]
	for i := range items {
		if items[i].ID != id {
			continue
		}
		applyPatch(&items[i], patch)
		items[i].UpdatedAt = r.store.now()
		if err := r.store.save(); err != nil {
			return nil, err
		}
		updated := items[i]
		return &updated, nil
	}
	return nil, ErrNotFound
}

func (r *fileTodos) Toggle(ctx context.Context, userID, id string) (*model.Todo, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.data.Todos[userID]
	for i := range items {
		if items[i].ID != id {
			continue
		}
		items[i].Completed = !items[i].Completed
		items[i].UpdatedAt = r.store.now()
		if err := r.store.save(); err != nil {
			return nil, err
		}
		toggled := items[i]
		return &toggled, nil
	}
	return nil, ErrNotFound
}

func (r *fileTodos) Remove(ctx context.Context, userID, id string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	items := r.store.data.Todos[userID]
	for i := range items {
		if items[i].ID == id {
			r.store.data.Todos[userID] = append(items[:i:i], items[i+1:]...)
			if err := r.store.save(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

type fileCategories struct {
	store *FileStore
}

func (r *fileCategories) ListAll(ctx context.Context, userID string) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	labels := r.store.data.Categories[userID]
	out := make([]string, len(labels))
	copy(out, labels)
	return out, nil
}

func (r *fileCategories) Add(ctx context.Context, userID, label string) error {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.data.Categories[userID] {
		if existing == trimmed {
			return nil
		}
	}
	r.store.data.Categories[userID] = append(r.store.data.Categories[userID], trimmed)
	return r.store.save()
}

func (r *fileCategories) Remove(ctx context.Context, userID, label string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	labels := r.store.data.Categories[userID]
	for i, existing := range labels {
		if existing == label {
			r.store.data.Categories[userID] = append(labels[:i:i], labels[i+1:]...)
			return r.store.save()
		}
	}
	return nil
}

func (r *fileCategories) Contains(ctx context.Context, userID, label string) (bool, error) {
	trimmed := strings.TrimSpace(label)

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.data.Categories[userID] {
		if existing == trimmed {
			return true, nil
		}
	}
	return false, nil
}

type fileUsers struct {
	store *FileStore
}

func (r *fileUsers) Create(ctx context.Context, user *model.User) error {
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
	r.store.data.Users[user.ID] = *user
	return r.store.save()
}

func (r *fileUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user, ok := r.store.data.Users[id]; ok {
		found := user
		return &found, nil
	}
	return nil, ErrNotFound
}

func (r *fileUsers) FindByName(ctx context.Context, name string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.data.Users {
		if user.Name == name {
			found := user
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fileUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.data.Users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fileUsers) ListAll(ctx context.Context) ([]model.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]model.User, 0, len(r.store.data.Users))
	for _, user := range r.store.data.Users {
		out = append(out, user)
	}
	return out, nil
}
