package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"almacen/internal/app/inventory/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Create(product)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrProductAlreadyExists
		}
		if isForeignKeyViolation(result.Error) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create product: %w", result.Error)
	}

	return nil
}

// GetByID получает товар по ID
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by id: %w", result.Error)
	}

	return &product, nil
}

// GetByName получает товар по точному имени
func (r *productRepository) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "name = ?", name)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by name: %w", result.Error)
	}

	return &product, nil
}

// SearchByName ищет товар по подстроке имени без учета регистра
// При нескольких совпадениях возвращается первое в порядке хранения
func (r *productRepository) SearchByName(ctx context.Context, name string) (*entity.Product, error) {
	var product entity.Product
	pattern := "%" + strings.TrimSpace(name) + "%"
	result := r.db.WithContext(ctx).Where("name ILIKE ?", pattern).First(&product)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to search product by name: %w", result.Error)
	}

	return &product, nil
}

// GetAll получает товары по композиции необязательных фильтров
// Отсутствующий фильтр не накладывает ограничения на поле
func (r *productRepository) GetAll(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error) {
	query := r.db.WithContext(ctx).Model(&entity.Product{})

	if filter.ActiveOnly {
		query = query.Where("available = ?", true)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MinStock != nil {
		query = query.Where("stock >= ?", *filter.MinStock)
	}

	var products []entity.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByCategory получает все товары категории
func (r *productRepository) GetByCategory(ctx context.Context, categoryID uuid.UUID, activeOnly bool) ([]entity.Product, error) {
	query := r.db.WithContext(ctx).Where("category_id = ?", categoryID)
	if activeOnly {
		query = query.Where("available = ?", true)
	}

	var products []entity.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by category: %w", err)
	}

	return products, nil
}

// GetWithCategory получает товар вместе с его категорией
func (r *productRepository) GetWithCategory(ctx context.Context, id uuid.UUID) (*entity.ProductWithCategory, error) {
	var product entity.Product
	result := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product with category: %w", result.Error)
	}

	pwc := &entity.ProductWithCategory{Product: product}
	if product.Category != nil {
		pwc.Category = *product.Category
	}

	return pwc, nil
}

// Update сохраняет изменяемые поля товара
// Карта колонок нужна чтобы записать нулевые значения (stock = 0, available = false)
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"price":       product.Price,
			"stock":       product.Stock,
			"available":   product.Available,
			"category_id": product.CategoryID,
		})

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrProductAlreadyExists
		}
		if isForeignKeyViolation(result.Error) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update product: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// DecrementStock атомарно списывает quantity единиц товара и возвращает остаток
// Строка блокируется через SELECT ... FOR UPDATE: конкурентные покупки
// сериализуются, последнюю единицу может купить только один покупатель
func (r *productRepository) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	var remaining int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product entity.Product
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to lock product row: %w", result.Error)
		}

		// Снятый с продажи товар покупать нельзя
		if !product.Available {
			return ErrProductNotFound
		}

		if product.Stock < quantity {
			return ErrInsufficientStock
		}

		if err := tx.Model(&entity.Product{}).
			Where("id = ?", id).
			Update("stock", gorm.Expr("stock - ?", quantity)).Error; err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		remaining = product.Stock - quantity
		return nil
	})
	if err != nil {
		return 0, err
	}

	return remaining, nil
}

// Delete физически удаляет товар
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id)

	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}
