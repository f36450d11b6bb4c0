package repository

import (
	"context"

	"github.com/poi-tile-service/internal/domain"
)

// FeatureRepository определяет методы хранилища неавторитетных фич
type FeatureRepository interface {
	// EnsureSchema создает таблицу и расширения, если их еще нет
	EnsureSchema(ctx context.Context) error

	// ReplaceAll атомарно заменяет все содержимое коллекции: truncate и
	// insert в одной транзакции. Повторный вызов с тем же набором фич
	// оставляет хранилище в том же состоянии.
	ReplaceAll(ctx context.Context, features []*domain.Feature) error

	// GetWithinBounds возвращает фичи внутри бокса с полуоткрытыми
	// границами: lat ∈ (min, max], lon ∈ [min, max)
	GetWithinBounds(ctx context.Context, bounds domain.BoundingBox) ([]*domain.Feature, error)

	// Count возвращает число фич в коллекции
	Count(ctx context.Context) (int64, error)
}
