package repository

import (
	"context"
	"errors"

	"almacen/internal/app/inventory/entity"

	"github.com/google/uuid"
)

var (
	// Стандартные ошибки репозиториев для обработки в service layer
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrCategoryHasProducts   = errors.New("cannot delete category with existing products")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductAlreadyExists  = errors.New("product with this name already exists")
	ErrInsufficientStock     = errors.New("insufficient stock")
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	SearchByName(ctx context.Context, name string) (*entity.Category, error)
	GetAll(ctx context.Context, activeOnly bool) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	DeactivateCascade(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	SearchByName(ctx context.Context, name string) (*entity.Product, error)
	GetAll(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error)
	GetByCategory(ctx context.Context, categoryID uuid.UUID, activeOnly bool) ([]entity.Product, error)
	GetWithCategory(ctx context.Context, id uuid.UUID) (*entity.ProductWithCategory, error)
	Update(ctx context.Context, product *entity.Product) error
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
