package service

import (
	"context"

	"almacen/internal/app/inventory/entity"

	"github.com/google/uuid"
)

type InventoryServiceInterface interface {
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	GetAllCategories(ctx context.Context, activeOnly bool) ([]entity.Category, error)
	FindCategory(ctx context.Context, id *uuid.UUID, name string) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error)
	DeactivateCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	ActivateCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetCategoryProducts(ctx context.Context, id uuid.UUID, activeOnly bool) ([]entity.Product, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	GetAllProducts(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error)
	FindProduct(ctx context.Context, id *uuid.UUID, name string) (*entity.ProductWithCategory, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	PurchaseProduct(ctx context.Context, id uuid.UUID, quantity int) (*entity.PurchaseResponse, error)
}
