package handler

import (
	"errors"
	"net/http"
	"strconv"

	"almacen/internal/app/inventory/entity"
	"almacen/internal/app/inventory/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// InventoryHandler обрабатывает HTTP запросы инвентаря
type InventoryHandler struct {
	inventoryService service.InventoryServiceInterface
	validator        *validator.Validate
}

// NewInventoryHandler создает новый обработчик инвентаря
func NewInventoryHandler(inventoryService service.InventoryServiceInterface) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		validator:        validator.New(),
	}
}

// CreateCategory обрабатывает POST /categorias
func (h *InventoryHandler) CreateCategory(c *gin.Context) {
	var req entity.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	category, err := h.inventoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCategoryExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// GetAllCategories обрабатывает GET /categorias?activas=bool
// По умолчанию возвращаются только активные категории
func (h *InventoryHandler) GetAllCategories(c *gin.Context) {
	activeOnly := true
	if raw := c.Query("activas"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid activas parameter"})
			return
		}
		activeOnly = parsed
	}

	categories, err := h.inventoryService.GetAllCategories(c.Request.Context(), activeOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get categories"})
		return
	}

	c.JSON(http.StatusOK, entity.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

// FindCategory обрабатывает GET /categorias/buscar?id=|nombre=
// Требуется хотя бы один из параметров, id имеет приоритет
func (h *InventoryHandler) FindCategory(c *gin.Context) {
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
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		id = &parsed
	}

	category, err := h.inventoryService.FindCategory(c.Request.Context(), id, name)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// UpdateCategory обрабатывает PUT /categorias/:id
// Обновляются только переданные поля
func (h *InventoryHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var req entity.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	category, err := h.inventoryService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		case errors.Is(err, service.ErrCategoryExists):
			c.JSON(http.StatusConflict, gin.H{"error": "Category with this name already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		}
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeactivateCategory обрабатывает PATCH /categorias/:id/desactivar
// Товары категории каскадно становятся недоступными
func (h *InventoryHandler) DeactivateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	category, err := h.inventoryService.DeactivateCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate category"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Category deactivated successfully",
		Data:    category,
	})
}

// ActivateCategory обрабатывает PATCH /categorias/:id/activar
// Товары категории при этом не реактивируются
func (h *InventoryHandler) ActivateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	category, err := h.inventoryService.ActivateCategory(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		case errors.Is(err, service.ErrCategoryAlreadyActive):
			c.JSON(http.StatusConflict, gin.H{"error": "Category is already active"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate category"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Category activated successfully",
		Data:    category,
	})
}

// GetCategoryProducts обрабатывает GET /categorias/:id/productos
// Фильтр доступности применяется только по явному запросу (?disponibles=true)
func (h *InventoryHandler) GetCategoryProducts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	activeOnly := false
	if raw := c.Query("disponibles"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid disponibles parameter"})
			return
		}
		activeOnly = parsed
	}

	products, err := h.inventoryService.GetCategoryProducts(c.Request.Context(), id, activeOnly)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category products"})
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// DeleteCategory обрабатывает DELETE /categorias/:id
// Семантика удаления (soft/hard) задается конфигурацией деплоймента
func (h *InventoryHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	if err := h.inventoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		case errors.Is(err, service.ErrCategoryHasProducts):
			c.JSON(http.StatusConflict, gin.H{"error": "Category has products and cannot be deleted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Category deleted successfully",
	})
}
