package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"almacen/internal/app/inventory/config"
	"almacen/internal/app/inventory/entity"
	"almacen/internal/app/inventory/repository"
	"almacen/internal/app/inventory/util"
	"almacen/pkg/logger"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для маппинга на HTTP статусы в handlers
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryExists        = errors.New("category with this name already exists")
	ErrCategoryInactive      = errors.New("category is inactive")
	ErrCategoryAlreadyActive = errors.New("category is already active")
	ErrCategoryHasProducts   = errors.New("category has products and cannot be deleted")
	ErrProductNotFound       = errors.New("product not found")
	ErrProductExists         = errors.New("product with this name already exists")
	ErrInvalidPrice          = errors.New("price must be greater than zero")
	ErrInvalidStock          = errors.New("stock must not be negative")
	ErrInvalidQuantity       = errors.New("quantity must be at least one")
	ErrInsufficientStock     = errors.New("insufficient stock")
)

// Время жизни кеша списка активных категорий
const categoriesCacheTTL = time.Hour

// InventoryService реализует бизнес-правила управления категориями и товарами
// Координирует репозитории, Redis кеш и Kafka producer
type InventoryService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	cache        util.CategoryCache
	producer     util.MessagePublisher
	deleteMode   config.DeleteMode
}

// NewInventoryService создает сервис инвентаря с внедрением зависимостей
func NewInventoryService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	cache util.CategoryCache,
	producer util.MessagePublisher,
	deleteMode config.DeleteMode,
) *InventoryService {
	return &InventoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		cache:        cache,
		producer:     producer,
		deleteMode:   deleteMode,
	}
}

// === CATEGORIES ===

// CreateCategory создает новую категорию
// Имя должно быть глобально уникальным (точное сравнение)
func (s *InventoryService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	existing, err := s.categoryRepo.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	category := &entity.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
		CreatedAt:   time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		// Гонка двух одновременных созданий разрешается UNIQUE constraint
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	return category, nil
}

// GetAllCategories получает категории, по умолчанию только активные
// Список активных категорий кешируется в Redis
func (s *InventoryService) GetAllCategories(ctx context.Context, activeOnly bool) ([]entity.Category, error) {
	if activeOnly {
		cached, err := s.cache.GetActiveCategories(ctx)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	categories, err := s.categoryRepo.GetAll(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	if activeOnly {
		if err := s.cache.SetActiveCategories(ctx, categories, categoriesCacheTTL); err != nil {
			// Данные уже получены из БД, проблемы кеша не критичны
			logger.Warn().Err(err).Msg("Failed to cache categories")
		}
	}

	return categories, nil
}

// FindCategory ищет категорию по ID либо по подстроке имени
// Поиск по имени регистронезависимый, возвращается первое совпадение
func (s *InventoryService) FindCategory(ctx context.Context, id *uuid.UUID, name string) (*entity.Category, error) {
	var (
		category *entity.Category
		err      error
	)

	if id != nil {
		category, err = s.categoryRepo.GetByID(ctx, *id)
	} else {
		category, err = s.categoryRepo.SearchByName(ctx, name)
	}

	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return category, nil
}

// UpdateCategory применяет частичное обновление категории
// Непереданные поля сохраняют прежние значения
func (s *InventoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.Name != nil && *req.Name != category.Name {
		existing, err := s.categoryRepo.GetByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, fmt.Errorf("failed to check category name: %w", err)
		}
		if existing != nil {
			return nil, ErrCategoryExists
		}
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryAlreadyExists) {
			return nil, ErrCategoryExists
		}
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	return category, nil
}

// DeactivateCategory деактивирует категорию и каскадно снимает
// с продажи все её товары в одной транзакции
func (s *InventoryService) DeactivateCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	if err := s.categoryRepo.DeactivateCascade(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to deactivate category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	s.publishEvent(ctx, entity.InventoryEvent{
		EventType:  entity.EventCategoryDeactivated,
		CategoryID: id,
		Timestamp:  time.Now(),
	})

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload category: %w", err)
	}

	return category, nil
}

// ActivateCategory включает категорию обратно
// Товары категории НЕ реактивируются автоматически
func (s *InventoryService) ActivateCategory(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if category.Active {
		return nil, ErrCategoryAlreadyActive
	}

	category.Active = true
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to activate category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	return category, nil
}

// GetCategoryProducts получает товары категории
// Фильтр доступности применяется только по явному запросу
func (s *InventoryService) GetCategoryProducts(ctx context.Context, id uuid.UUID, activeOnly bool) ([]entity.Product, error) {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	products, err := s.productRepo.GetByCategory(ctx, id, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get category products: %w", err)
	}

	return products, nil
}

// DeleteCategory удаляет категорию согласно настроенному режиму
// soft - каскадная деактивация, hard - физическое удаление строки
// (hard отклоняется пока на категорию ссылаются товары)
func (s *InventoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if s.deleteMode == config.DeleteModeSoft {
		_, err := s.DeactivateCategory(ctx, id)
		return err
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		if errors.Is(err, repository.ErrCategoryHasProducts) {
			return ErrCategoryHasProducts
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidateCategoriesCache(ctx)

	return nil
}

// === PRODUCTS ===

// CreateProduct создает новый товар
// Категория должна существовать и быть активной, имя товара уникально,
// price > 0 и stock >= 0
func (s *InventoryService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	if req.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if req.Stock < 0 {
		return nil, ErrInvalidStock
	}

	category, err := s.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}
	if !category.Active {
		return nil, ErrCategoryInactive
	}

	existing, err := s.productRepo.GetByName(ctx, req.Name)
	if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if existing != nil {
		return nil, ErrProductExists
	}

	product := &entity.Product{
		ID:         uuid.New(),
		Name:       req.Name,
		Price:      req.Price,
		Stock:      req.Stock,
		Available:  true,
		CategoryID: req.CategoryID,
		CreatedAt:  time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductAlreadyExists) {
			return nil, ErrProductExists
		}
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// GetAllProducts получает товары по композиции необязательных фильтров
func (s *InventoryService) GetAllProducts(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, error) {
	products, err := s.productRepo.GetAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// FindProduct ищет товар по ID либо по подстроке имени
// Возвращает товар вместе с категорией
func (s *InventoryService) FindProduct(ctx context.Context, id *uuid.UUID, name string) (*entity.ProductWithCategory, error) {
	productID := uuid.Nil
	if id != nil {
		productID = *id
	} else {
		product, err := s.productRepo.SearchByName(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to search product: %w", err)
		}
		productID = product.ID
	}

	product, err := s.productRepo.GetWithCategory(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// UpdateProduct применяет частичное обновление товара
// Инварианты price/stock перепроверяются для переданных полей,
// смена категории требует существующую активную категорию
func (s *InventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	oldPrice := product.Price

	if req.Name != nil && *req.Name != product.Name {
		existing, err := s.productRepo.GetByName(ctx, *req.Name)
		if err != nil && !errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("failed to check product name: %w", err)
		}
		if existing != nil {
			return nil, ErrProductExists
		}
		product.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, ErrInvalidPrice
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, ErrInvalidStock
		}
		product.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *req.CategoryID)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to verify category: %w", err)
		}
		if !category.Active {
			return nil, ErrCategoryInactive
		}
		product.CategoryID = *req.CategoryID
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductAlreadyExists) {
			return nil, ErrProductExists
		}
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	// При смене цены уведомляем подписчиков топика
	if product.Price != oldPrice {
		s.publishEvent(ctx, entity.InventoryEvent{
			EventType:  entity.EventProductUpdated,
			ProductID:  product.ID,
			CategoryID: product.CategoryID,
			Name:       product.Name,
			Price:      product.Price,
			Stock:      product.Stock,
			Timestamp:  time.Now(),
		})
	}

	return product, nil
}

// DeactivateProduct снимает товар с продажи
// Остаток stock при этом сохраняется
func (s *InventoryService) DeactivateProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product.Available = false
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to deactivate product: %w", err)
	}

	s.publishEvent(ctx, entity.InventoryEvent{
		EventType:  entity.EventProductDeactivated,
		ProductID:  product.ID,
		CategoryID: product.CategoryID,
		Name:       product.Name,
		Timestamp:  time.Now(),
	})

	return product, nil
}

// DeleteProduct удаляет товар согласно настроенному режиму
func (s *InventoryService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if s.deleteMode == config.DeleteModeSoft {
		_, err := s.DeactivateProduct(ctx, id)
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

// PurchaseProduct списывает quantity единиц товара
// Списание атомарное: проверка остатка и декремент выполняются
// под блокировкой строки в одной транзакции
func (s *InventoryService) PurchaseProduct(ctx context.Context, id uuid.UUID, quantity int) (*entity.PurchaseResponse, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	remaining, err := s.productRepo.DecrementStock(ctx, id, quantity)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrInsufficientStock
		}
		return nil, fmt.Errorf("failed to purchase product: %w", err)
	}

	s.publishEvent(ctx, entity.InventoryEvent{
		EventType: entity.EventProductPurchased,
		ProductID: id,
		Quantity:  quantity,
		Stock:     remaining,
		Timestamp: time.Now(),
	})

	return &entity.PurchaseResponse{
		ProductID:      id,
		Quantity:       quantity,
		RemainingStock: remaining,
	}, nil
}

// === HELPERS ===

// invalidateCategoriesCache сбрасывает кеш списка категорий
// Ошибки кеша логируются и не прерывают операцию
func (s *InventoryService) invalidateCategoriesCache(ctx context.Context) {
	if err := s.cache.InvalidateCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate categories cache")
	}
}

// publishEvent отправляет событие инвентаря в Kafka
// Отправка best-effort: мутация уже зафиксирована, ошибки только логируются
// Ключ сообщения - ID сущности для партиционирования
func (s *InventoryService) publishEvent(ctx context.Context, event entity.InventoryEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", event.EventType).Msg("Failed to marshal inventory event")
		return
	}

	key := event.ProductID.String()
	if event.ProductID == uuid.Nil {
		key = event.CategoryID.String()
	}

	if err := s.producer.PublishMessage(ctx, key, data); err != nil {
		logger.Warn().Err(err).Str("event_type", event.EventType).Msg("Failed to publish inventory event")
	}
}
