package domain

import (
	"context"
	"time"
)

// Category groups events by theme.
// swagger:model Category
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryRepository defines the interface for category storage.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
}

// CategoryService defines category operations. Mutations are gated to
// admin/organizer roles.
type CategoryService interface {
	CreateCategory(ctx context.Context, category *Category, actingUserID string) error
	GetCategoryByID(ctx context.Context, id string) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	UpdateCategory(ctx context.Context, category *Category, actingUserID string) (*Category, error)
	DeleteCategory(ctx context.Context, id, actingUserID string) error
}
