package util

import (
	"context"
	"time"

	"almacen/internal/app/inventory/entity"
)

// CategoryCache интерфейс для кеша списка активных категорий
// Используется для dependency injection и упрощения тестирования
type CategoryCache interface {
	SetActiveCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error
	GetActiveCategories(ctx context.Context) ([]entity.Category, error)
	InvalidateCategories(ctx context.Context) error
	Close() error
}

// MessagePublisher интерфейс для отправки событий инвентаря в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
