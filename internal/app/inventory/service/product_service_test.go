package service

import (
	"context"
	"testing"

	"almacen/internal/app/inventory/config"
	"almacen/internal/app/inventory/entity"
	"almacen/internal/app/inventory/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==================== CreateProduct ====================

func TestInventoryService_CreateProduct_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	category := newTestCategory()
	m.categoryRepo.On("GetByID", ctx, category.ID).Return(category, nil)
	m.productRepo.On("GetByName", ctx, "Orange Juice").Return(nil, repository.ErrProductNotFound)
	m.productRepo.On("Create", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	req := &entity.CreateProductRequest{
		Name:       "Orange Juice",
		Price:      3.5,
		Stock:      20,
		CategoryID: category.ID,
	}

	// Act
	product, err := svc.CreateProduct(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Orange Juice", product.Name)
	assert.Equal(t, 3.5, product.Price)
	assert.Equal(t, 20, product.Stock)
	assert.True(t, product.Available)
	assert.Equal(t, category.ID, product.CategoryID)

	m.productRepo.AssertExpectations(t)
}

func TestInventoryService_CreateProduct_InvalidPrice(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	for _, price := range []float64{0, -1.5} {
		req := &entity.CreateProductRequest{Name: "Bad", Price: price, Stock: 5, CategoryID: uuid.New()}

		product, err := svc.CreateProduct(ctx, req)

		assert.Nil(t, product)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	}

	// Валидация отклоняет запрос до обращения к хранилищу
	m.categoryRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	m.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInventoryService_CreateProduct_NegativeStock(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	req := &entity.CreateProductRequest{Name: "Bad", Price: 1, Stock: -1, CategoryID: uuid.New()}

	product, err := svc.CreateProduct(ctx, req)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrInvalidStock)
	m.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInventoryService_CreateProduct_ZeroStockAllowed(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	category := newTestCategory()
	m.categoryRepo.On("GetByID", ctx, category.ID).Return(category, nil)
	m.productRepo.On("GetByName", ctx, "Sold Out").Return(nil, repository.ErrProductNotFound)
	m.productRepo.On("Create", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	req := &entity.CreateProductRequest{Name: "Sold Out", Price: 9.99, Stock: 0, CategoryID: category.ID}

	product, err := svc.CreateProduct(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
}

func TestInventoryService_CreateProduct_CategoryNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	categoryID := uuid.New()
	m.categoryRepo.On("GetByID", ctx, categoryID).Return(nil, repository.ErrCategoryNotFound)

	req := &entity.CreateProductRequest{Name: "Orphan", Price: 1, Stock: 1, CategoryID: categoryID}

	product, err := svc.CreateProduct(ctx, req)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	m.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInventoryService_CreateProduct_CategoryInactive(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	category := newTestCategory()
	category.Active = false
	m.categoryRepo.On("GetByID", ctx, category.ID).Return(category, nil)

	req := &entity.CreateProductRequest{Name: "Blocked", Price: 1, Stock: 1, CategoryID: category.ID}

	product, err := svc.CreateProduct(ctx, req)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrCategoryInactive)
	m.productRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInventoryService_CreateProduct_DuplicateName(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	category := newTestCategory()
	m.categoryRepo.On("GetByID", ctx, category.ID).Return(category, nil)
	m.productRepo.On("GetByName", ctx, "Orange Juice").Return(newTestProduct(category.ID), nil)

	req := &entity.CreateProductRequest{Name: "Orange Juice", Price: 3.5, Stock: 20, CategoryID: category.ID}

	product, err := svc.CreateProduct(ctx, req)

	assert.Nil(t, product)
	assert.ErrorIs(t, err, ErrProductExists)
}

// ==================== GetAllProducts ====================

func TestInventoryService_GetAllProducts_PassesFilter(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	categoryID := uuid.New()
	minPrice := 2.0
	filter := entity.ProductFilter{CategoryID: &categoryID, MinPrice: &minPrice, ActiveOnly: true}

	products := []entity.Product{*newTestProduct(categoryID)}
	m.productRepo.On("GetAll", ctx, filter).Return(products, nil)

	result, err := svc.GetAllProducts(ctx, filter)

	require.NoError(t, err)
	assert.Equal(t, products, result)
}

// ==================== FindProduct ====================

func TestInventoryService_FindProduct_ByID(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	category := newTestCategory()
	product := newTestProduct(category.ID)
	withCategory := &entity.ProductWithCategory{Product: *product, Category: *category}

	m.productRepo.On("GetWithCategory", ctx, product.ID).Return(withCategory, nil)

	found, err := svc.FindProduct(ctx, &product.ID, "")

	require.NoError(t, err)
	assert.Equal(t, product.ID, found.Product.ID)
	assert.Equal(t, category.Name, found.Category.Name)
	m.productRepo.AssertNotCalled(t, "SearchByName", mock.Anything, mock.Anything)
}

func TestInventoryService_FindProduct_ByNameSubstring(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	category := newTestCategory()
	product := newTestProduct(category.ID)
	withCategory := &entity.ProductWithCategory{Product: *product, Category: *category}

	m.productRepo.On("SearchByName", ctx, "juice").Return(product, nil)
	m.productRepo.On("GetWithCategory", ctx, product.ID).Return(withCategory, nil)

	found, err := svc.FindProduct(ctx, nil, "juice")

	require.NoError(t, err)
	assert.Equal(t, product.ID, found.Product.ID)
}

func TestInventoryService_FindProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	m.productRepo.On("SearchByName", ctx, "missing").Return(nil, repository.ErrProductNotFound)

	found, err := svc.FindProduct(ctx, nil, "missing")

	assert.Nil(t, found)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ==================== UpdateProduct ====================

func TestInventoryService_UpdateProduct_PriceOnlyPreservesFields(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	product := newTestProduct(uuid.New())
	m.productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	m.productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)
	// Смена цены публикует событие обновления
	m.producer.On("PublishMessage", ctx, product.ID.String(), mock.Anything).Return(nil)

	newPrice := 4.25
	updated, err := svc.UpdateProduct(ctx, product.ID, &entity.UpdateProductRequest{Price: &newPrice})

	require.NoError(t, err)
	assert.Equal(t, 4.25, updated.Price)
	assert.Equal(t, "Orange Juice", updated.Name)
	assert.Equal(t, 20, updated.Stock)
	m.producer.AssertExpectations(t)
}

func TestInventoryService_UpdateProduct_SamePriceNoEvent(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	product := newTestProduct(uuid.New())
	m.productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	m.productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)

	newStock := 15
	updated, err := svc.UpdateProduct(ctx, product.ID, &entity.UpdateProductRequest{Stock: &newStock})

	require.NoError(t, err)
	assert.Equal(t, 15, updated.Stock)
	m.producer.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestInventoryService_UpdateProduct_InvalidPrice(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	product := newTestProduct(uuid.New())
	m.productRepo.On("GetByID", ctx, product.ID).Return(product, nil)

	badPrice := -0.5
	updated, err := svc.UpdateProduct(ctx, product.ID, &entity.UpdateProductRequest{Price: &badPrice})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	m.productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInventoryService_UpdateProduct_InactiveTargetCategory(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	product := newTestProduct(uuid.New())
	inactive := newTestCategory()
	inactive.Active = false

	m.productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	m.categoryRepo.On("GetByID", ctx, inactive.ID).Return(inactive, nil)

	updated, err := svc.UpdateProduct(ctx, product.ID, &entity.UpdateProductRequest{CategoryID: &inactive.ID})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrCategoryInactive)
}

func TestInventoryService_UpdateProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	id := uuid.New()
	m.productRepo.On("GetByID", ctx, id).Return(nil, repository.ErrProductNotFound)

	updated, err := svc.UpdateProduct(ctx, id, &entity.UpdateProductRequest{})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ==================== DeactivateProduct ====================

func TestInventoryService_DeactivateProduct_PreservesStock(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	product := newTestProduct(uuid.New())
	m.productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	m.productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)
	m.producer.On("PublishMessage", ctx, product.ID.String(), mock.Anything).Return(nil)

	deactivated, err := svc.DeactivateProduct(ctx, product.ID)

	require.NoError(t, err)
	assert.False(t, deactivated.Available)
	assert.Equal(t, 20, deactivated.Stock)
}

func TestInventoryService_DeactivateProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	id := uuid.New()
	m.productRepo.On("GetByID", ctx, id).Return(nil, repository.ErrProductNotFound)

	deactivated, err := svc.DeactivateProduct(ctx, id)

	assert.Nil(t, deactivated)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ==================== DeleteProduct ====================

func TestInventoryService_DeleteProduct_SoftMode(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	product := newTestProduct(uuid.New())
	m.productRepo.On("GetByID", ctx, product.ID).Return(product, nil)
	m.productRepo.On("Update", ctx, mock.AnythingOfType("*entity.Product")).Return(nil)
	m.producer.On("PublishMessage", ctx, product.ID.String(), mock.Anything).Return(nil)

	err := svc.DeleteProduct(ctx, product.ID)

	require.NoError(t, err)
	m.productRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestInventoryService_DeleteProduct_HardMode(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeHard)

	id := uuid.New()
	m.productRepo.On("Delete", ctx, id).Return(nil)

	err := svc.DeleteProduct(ctx, id)

	require.NoError(t, err)
	m.productRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// ==================== PurchaseProduct ====================

func TestInventoryService_PurchaseProduct_Success(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	id := uuid.New()
	m.productRepo.On("DecrementStock", ctx, id, 3).Return(17, nil)
	m.producer.On("PublishMessage", ctx, id.String(), mock.Anything).Return(nil)

	result, err := svc.PurchaseProduct(ctx, id, 3)

	require.NoError(t, err)
	assert.Equal(t, id, result.ProductID)
	assert.Equal(t, 3, result.Quantity)
	assert.Equal(t, 17, result.RemainingStock)
	m.producer.AssertExpectations(t)
}

func TestInventoryService_PurchaseProduct_ExactStock(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	id := uuid.New()
	m.productRepo.On("DecrementStock", ctx, id, 20).Return(0, nil)
	m.producer.On("PublishMessage", ctx, id.String(), mock.Anything).Return(nil)

	result, err := svc.PurchaseProduct(ctx, id, 20)

	require.NoError(t, err)
	assert.Equal(t, 0, result.RemainingStock)
}

func TestInventoryService_PurchaseProduct_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	id := uuid.New()
	m.productRepo.On("DecrementStock", ctx, id, 50).Return(0, repository.ErrInsufficientStock)

	result, err := svc.PurchaseProduct(ctx, id, 50)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	m.producer.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestInventoryService_PurchaseProduct_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	for _, quantity := range []int{0, -2} {
		result, err := svc.PurchaseProduct(ctx, uuid.New(), quantity)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}

	m.productRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestInventoryService_PurchaseProduct_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := setupService(config.DeleteModeSoft)

	id := uuid.New()
	m.productRepo.On("DecrementStock", ctx, id, 1).Return(0, repository.ErrProductNotFound)

	result, err := svc.PurchaseProduct(ctx, id, 1)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
