package handler

import (
	"errors"
	"net/http"
	"strconv"

	"almacen/internal/app/inventory/entity"
	"almacen/internal/app/inventory/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateProduct обрабатывает POST /productos
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req entity.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		case errors.Is(err, service.ErrCategoryInactive):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category is inactive"})
		case errors.Is(err, service.ErrProductExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Product with this name already exists"})
		case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrInvalidStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		}
		return
	}

	c.JSON(http.StatusCreated, product)
}

// GetAllProducts обрабатывает GET /productos
// Фильтры categoria_id, precio_min, stock_min необязательны и складываются,
// disponibles=true по умолчанию
func (h *InventoryHandler) GetAllProducts(c *gin.Context) {
	var filter entity.ProductFilter
	filter.ActiveOnly = true

	if raw := c.Query("disponibles"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid disponibles parameter"})
			return
		}
		filter.ActiveOnly = parsed
	}
	if raw := c.Query("categoria_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid categoria_id parameter"})
			return
		}
		filter.CategoryID = &parsed
	}
	if raw := c.Query("precio_min"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid precio_min parameter"})
			return
		}
		filter.MinPrice = &parsed
	}
	if raw := c.Query("stock_min"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock_min parameter"})
			return
		}
		filter.MinStock = &parsed
	}

	products, err := h.inventoryService.GetAllProducts(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get products"})
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// FindProduct обрабатывает GET /productos/buscar?id=|nombre=
// Требуется хотя бы один из параметров, id имеет приоритет
func (h *InventoryHandler) FindProduct(c *gin.Context) {
	idParam := c.Query("id")
	name := c.Query("nombre")

	if idParam == "" && name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either id or nombre query parameter is required"})
		return
	}

	var id *uuid.UUID
	if idParam != "" {
		parsed, err := uuid.Parse(idParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		id = &parsed
	}

	product, err := h.inventoryService.FindProduct(c.Request.Context(), id, name)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// UpdateProduct обрабатывает PUT /productos/:id
// Обновляются только переданные поля
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req entity.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		case errors.Is(err, service.ErrCategoryInactive):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category is inactive"})
		case errors.Is(err, service.ErrProductExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Product with this name already exists"})
		case errors.Is(err, service.ErrInvalidPrice), errors.Is(err, service.ErrInvalidStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeactivateProduct обрабатывает PATCH /productos/:id/desactivar
func (h *InventoryHandler) DeactivateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := h.inventoryService.DeactivateProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate product"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Product deactivated successfully",
		Data:    product,
	})
}

// DeleteProduct обрабатывает DELETE /productos/:id
// Семантика удаления (soft/hard) задается конфигурацией деплоймента
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.inventoryService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Product deleted successfully",
	})
}

// PurchaseProduct обрабатывает POST /productos/:id/comprar?cantidad=
// По умолчанию списывается одна единица
func (h *InventoryHandler) PurchaseProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	quantity := 1
	if raw := c.Query("cantidad"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cantidad parameter"})
			return
		}
		quantity = parsed
	}

	result, err := h.inventoryService.PurchaseProduct(c.Request.Context(), id, quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock"})
		case errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be at least one"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purchase product"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
