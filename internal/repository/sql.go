package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todoweb/internal/model"
)

// SQLTodoRepository implements TodoRepository on a relational store.
type SQLTodoRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLTodoRepository(db *gorm.DB) *SQLTodoRepository {
	return &SQLTodoRepository{db: db, now: time.Now}
}

func (r *SQLTodoRepository) List(ctx context.Context, userID string) ([]model.Todo, error) {
	var todos []model.Todo
	// Secondary id ordering keeps ties stable within a single read.
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (r *SQLTodoRepository) GetByID(ctx context.Context, userID, id string) (*model.Todo, error) {
	var todo model.Todo
	err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&todo).Error
	switch {
	case err == nil:
		return &todo, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("find todo: %w", err)
	}
}

func (r *SQLTodoRepository) Create(ctx context.Context, userID string, draft TodoDraft) (*model.Todo, error) {
	now := r.now()
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
	if err := r.db.WithContext(ctx).Create(&todo).Error; err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return &todo, nil
}

func (r *SQLTodoRepository) Update(ctx context.Context, userID, id string, patch TodoPatch) (*model.Todo, error) {
	todo, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	applyPatch(todo, patch)
	todo.UpdatedAt = r.now()
	if err := r.db.WithContext(ctx).Save(todo).Error; err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

func (r *SQLTodoRepository) Toggle(ctx context.Context, userID, id string) (*model.Todo, error) {
	todo, err := r.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	todo.Completed = !todo.Completed
	todo.UpdatedAt = r.now()
	if err := r.db.WithContext(ctx).Save(todo).Error; err != nil {
		return nil, fmt.Errorf("toggle todo: %w", err)
	}
	return todo, nil
}

func (r *SQLTodoRepository) Remove(ctx context.Context, userID, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).Delete(&model.Todo{})
	if res.Error != nil {
		return false, fmt.Errorf("delete todo: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// SQLCategoryRegistry implements CategoryRegistry on a relational store, one
// row per (user, label).
type SQLCategoryRegistry struct {
	db *gorm.DB
}

func NewSQLCategoryRegistry(db *gorm.DB) *SQLCategoryRegistry {
	return &SQLCategoryRegistry{db: db}
}

func (r *SQLCategoryRegistry) ListAll(ctx context.Context, userID string) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return names, nil
}

func (r *SQLCategoryRegistry) Add(ctx context.Context, userID, label string) error {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return nil
	}

	var category model.Category
	db := r.db.WithContext(ctx)
	err := db.Where("user_id = ? AND name = ?", userID, trimmed).First(&category).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		category = model.Category{UserID: userID, Name: trimmed}
		if err := db.Create(&category).Error; err != nil {
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find category: %w", err)
	}
}

func (r *SQLCategoryRegistry) Remove(ctx context.Context, userID, label string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, label).
		Delete(&model.Category{}).Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *SQLCategoryRegistry) Contains(ctx context.Context, userID, label string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("user_id = ? AND name = ?", userID, strings.TrimSpace(label)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count categories: %w", err)
	}
	return count > 0, nil
}

// SQLUserRepository implements UserRepository on a relational store.
type SQLUserRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLUserRepository(db *gorm.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db, now: time.Now}
}

func (r *SQLUserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := r.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *SQLUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *SQLUserRepository) FindByName(ctx context.Context, name string) (*model.User, error) {
	return r.findOne(ctx, "name = ?", name)
}

func (r *SQLUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *SQLUserRepository) findOne(ctx context.Context, query string, arg string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}
}

func (r *SQLUserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
