package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

type categoryService struct {
	categoryRepo   domain.CategoryRepository
	gate           domain.AuthorizationGate
	contextTimeout time.Duration
}

// NewCategoryService creates a CategoryService.
func NewCategoryService(categoryRepo domain.CategoryRepository, gate domain.AuthorizationGate, timeout time.Duration) domain.CategoryService {
	return &categoryService{
		categoryRepo:   categoryRepo,
		gate:           gate,
		contextTimeout: timeout,
	}
}

func (s *categoryService) CreateCategory(ctx context.Context, category *domain.Category, actingUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpCategoryManage, actingUserID, ""); err != nil {
		return err
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, category *domain.Category, actingUserID string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpCategoryManage, actingUserID, ""); err != nil {
		return nil, err
	}
	existing, err := s.categoryRepo.GetByID(ctx, category.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = time.Now()
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id, actingUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpCategoryManage, actingUserID, ""); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) {
			return err
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
