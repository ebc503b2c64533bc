package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"almacen/internal/app/inventory/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create создает новую категорию в PostgreSQL
// Уникальность имени дополнительно защищена UNIQUE constraint
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).Create(category)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", result.Error)
	}

	return nil
}

// GetByID получает категорию по ID
func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	result := r.db.WithContext(ctx).First(&category, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by id: %w", result.Error)
	}

	return &category, nil
}

// GetByName получает категорию по точному имени
// Используется для проверки уникальности перед созданием
func (r *categoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	result := r.db.WithContext(ctx).First(&category, "name = ?", name)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by name: %w", result.Error)
	}

	return &category, nil
}

// SearchByName ищет категорию по подстроке имени без учета регистра
// При нескольких совпадениях возвращается первое в порядке хранения
func (r *categoryRepository) SearchByName(ctx context.Context, name string) (*entity.Category, error) {
	var category entity.Category
	pattern := "%" + strings.TrimSpace(name) + "%"
	result := r.db.WithContext(ctx).Where("name ILIKE ?", pattern).First(&category)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to search category by name: %w", result.Error)
	}

	return &category, nil
}

// GetAll получает категории, опционально только активные
func (r *categoryRepository) GetAll(ctx context.Context, activeOnly bool) ([]entity.Category, error) {
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var categories []entity.Category
	result := query.Find(&categories)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get categories: %w", result.Error)
	}

	return categories, nil
}

// Update сохраняет изменяемые поля категории
// Карта колонок нужна чтобы записать и false-значение active
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).Model(&entity.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]interface{}{
			"name":        category.Name,
			"description": category.Description,
			"active":      category.Active,
		})

	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to update category: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// DeactivateCascade деактивирует категорию и снимает с продажи все её товары
// Оба изменения выполняются в одной транзакции: либо все, либо ничего
func (r *categoryRepository) DeactivateCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Category{}).
			Where("id = ?", id).
			Update("active", false)
		if result.Error != nil {
			return fmt.Errorf("failed to deactivate category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrCategoryNotFound
		}

		if err := tx.Model(&entity.Product{}).
			Where("category_id = ?", id).
			Update("available", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate category products: %w", err)
		}

		return nil
	})
}

// Delete физически удаляет категорию
// Категория с товарами не удаляется: сперва явная проверка,
// затем страховка через foreign key constraint на случай гонки
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var productCount int64
	if err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("category_id = ?", id).
		Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to check products in category: %w", err)
	}

	if productCount > 0 {
		return ErrCategoryHasProducts
	}

	result := r.db.WithContext(ctx).Delete(&entity.Category{}, "id = ?", id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return ErrCategoryHasProducts
		}
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}

// isUniqueViolation проверяет ошибку PostgreSQL 23505 (unique_violation)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation проверяет ошибку PostgreSQL 23503 (foreign_key_violation)
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
