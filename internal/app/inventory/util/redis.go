package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"almacen/internal/app/inventory/entity"
	"almacen/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName              = "inventory-service"
	activeCategoriesKey      = "categories:active"
	categoriesCacheKeyPrefix = "categories"
)

// RedisClient кеширует список активных категорий
// Кеш инвалидируется при любой мутации категорий
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient создает клиент Redis и проверяет соединение через ping
func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// SetActiveCategories сохраняет список активных категорий с TTL
func (r *RedisClient) SetActiveCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	defer timer.ObserveDuration()

	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}

	if err := r.client.Set(ctx, activeCategoriesKey, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set categories in cache: %w", err)
	}

	return nil
}

// GetActiveCategories читает список активных категорий из кеша
// Возвращает nil без ошибки при отсутствии ключа (cache miss)
func (r *RedisClient) GetActiveCategories(ctx context.Context) ([]entity.Category, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	defer timer.ObserveDuration()

	data, err := r.client.Get(ctx, activeCategoriesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, categoriesCacheKeyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get categories from cache: %w", err)
	}

	var categories []entity.Category
	if err := json.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal categories: %w", err)
	}

	metrics.RecordCacheHit(serviceName, categoriesCacheKeyPrefix)
	return categories, nil
}

// InvalidateCategories сбрасывает кеш категорий
func (r *RedisClient) InvalidateCategories(ctx context.Context) error {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	defer timer.ObserveDuration()

	if err := r.client.Del(ctx, activeCategoriesKey).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to invalidate categories cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
