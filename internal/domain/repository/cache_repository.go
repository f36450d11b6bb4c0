package repository

import (
	"context"
	"time"
)

// CacheRepository определяет методы кеширования
type CacheRepository interface {
	// Get возвращает значение по ключу, nil при cache miss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// GetTile возвращает закешированный тайл, nil при cache miss
	GetTile(ctx context.Context, z, x, y uint32) ([]byte, error)

	// SetTile кеширует сериализованный тайл
	SetTile(ctx context.Context, z, x, y uint32, data []byte, ttl time.Duration) error
}
