package entity

import "github.com/google/uuid"

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// UpdateCategoryRequest - частичное обновление: nil-поля не трогаются
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Active      *bool   `json:"active"`
}

type CreateProductRequest struct {
	Name       string    `json:"name" validate:"required,min=2,max=200"`
	Price      float64   `json:"price" validate:"required,gt=0"`
	Stock      int       `json:"stock" validate:"gte=0"`
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
}

// UpdateProductRequest - частичное обновление: nil-поля не трогаются
// Инварианты price > 0 и stock >= 0 перепроверяются для переданных полей
type UpdateProductRequest struct {
	Name       *string    `json:"name" validate:"omitempty,min=2,max=200"`
	Price      *float64   `json:"price" validate:"omitempty,gt=0"`
	Stock      *int       `json:"stock" validate:"omitempty,gte=0"`
	CategoryID *uuid.UUID `json:"category_id"`
}

// ProductFilter описывает композицию необязательных фильтров списка товаров
// nil-поле означает отсутствие ограничения
type ProductFilter struct {
	CategoryID *uuid.UUID
	MinPrice   *float64
	MinStock   *int
	ActiveOnly bool
}

type PurchaseResponse struct {
	ProductID      uuid.UUID `json:"product_id"`
	Quantity       int       `json:"quantity"`
	RemainingStock int       `json:"remaining_stock"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}

type CategoryListResponse struct {
	Categories []Category `json:"categories"`
	Total      int        `json:"total"`
}
