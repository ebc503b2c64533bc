package entity

import (
	"time"

	"github.com/google/uuid"
)

// Category представляет категорию товаров
// Деактивация категории каскадно снимает с продажи все её товары
type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	Products    []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

// TableName указывает имя таблицы для GORM
func (Category) TableName() string {
	return "categories"
}

// Product представляет товар на складе
// Флаг Available не зависит от остатка: товар может быть снят с продажи
// при ненулевом stock (например после деактивации категории)
type Product struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(200);not null;uniqueIndex"`
	Price      float64   `json:"price" gorm:"type:decimal(10,2);not null;check:price > 0"`
	Stock      int       `json:"stock" gorm:"not null;check:stock >= 0"`
	Available  bool      `json:"available" gorm:"not null;default:true"`
	CategoryID uuid.UUID `json:"category_id" gorm:"type:uuid;not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// TableName указывает имя таблицы для GORM
func (Product) TableName() string {
	return "products"
}

// ProductWithCategory содержит товар вместе с его категорией
type ProductWithCategory struct {
	Product
	Category Category `json:"category"`
}

// Типы событий инвентаря для Kafka
const (
	EventProductUpdated      = "PRODUCT_UPDATED"
	EventProductPurchased    = "PRODUCT_PURCHASED"
	EventProductDeactivated  = "PRODUCT_DEACTIVATED"
	EventCategoryDeactivated = "CATEGORY_DEACTIVATED"
)

// InventoryEvent представляет событие изменения инвентаря для Kafka
type InventoryEvent struct {
	EventType  string    `json:"event_type"`
	ProductID  uuid.UUID `json:"product_id,omitempty"`
	CategoryID uuid.UUID `json:"category_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Price      float64   `json:"price,omitempty"`
	Stock      int       `json:"stock,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
