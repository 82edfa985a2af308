package service

import (
	"context"

	"todoweb/internal/model"
	"todoweb/internal/repository"
)

// CategoryService provides helpers around the per-user category registry.
type CategoryService struct {
	registry repository.CategoryRegistry
}

func NewCategoryService(registry repository.CategoryRegistry) *CategoryService {
	return &CategoryService{registry: registry}
}

func (s *CategoryService) List(ctx context.Context, user *model.User) ([]string, error) {
	return s.registry.ListAll(ctx, user.ID)
}

// Remove drops a label; removing an absent label is a no-op.
func (s *CategoryService) Remove(ctx context.Context, user *model.User, label string) error {
	return s.registry.Remove(ctx, user.ID, label)
}
