package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/domain/repository"
	"github.com/poi-tile-service/internal/pkg/errors"
	"github.com/poi-tile-service/internal/tile"
)

// TileUseCase отдаёт коллекцию фич для запрошенного тайла. Без настроенного
// хранилища работает в синтетическом режиме через generator.
type TileUseCase struct {
	featureRepo   repository.FeatureRepository
	cacheRepo     repository.CacheRepository
	generator     *SyntheticGenerator
	logger        *zap.Logger
	supportedZoom uint32
	tileCacheTTL  time.Duration
}

func NewTileUseCase(
	featureRepo repository.FeatureRepository,
	cacheRepo repository.CacheRepository,
	generator *SyntheticGenerator,
	logger *zap.Logger,
	supportedZoom uint32,
	tileCacheTTL time.Duration,
) *TileUseCase {
	return &TileUseCase{
		featureRepo:   featureRepo,
		cacheRepo:     cacheRepo,
		generator:     generator,
		logger:        logger,
		supportedZoom: supportedZoom,
		tileCacheTTL:  tileCacheTTL,
	}
}

// GetTileJSON возвращает сериализованную коллекцию фич тайла (z, x, y).
// Неподдерживаемый zoom - TILE_NOT_FOUND, координаты вне 2^z -
// INVALID_TILE_COORDINATES. Пустой тайл - валидная пустая коллекция.
func (uc *TileUseCase) GetTileJSON(ctx context.Context, z, x, y uint32) ([]byte, error) {
	if z != uc.supportedZoom {
		return nil, errors.ErrTileNotFound
	}
	if !tile.Valid(z, x, y) {
		return nil, errors.ErrInvalidTileCoordinates
	}

	// Синтетические тайлы не кешируются: каждый запрос - свежий набор
	if uc.generator != nil {
		collection := uc.generator.Collection(tile.TileToBounds(z, x, y))
		return json.Marshal(collection)
	}

	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.GetTile(ctx, z, x, y)
		if err == nil && len(cached) > 0 {
			uc.logger.Debug("tile cache hit",
				zap.Uint32("z", z), zap.Uint32("x", x), zap.Uint32("y", y))
			return cached, nil
		}
	}

	bounds := tile.TileToBounds(z, x, y)
	features, err := uc.featureRepo.GetWithinBounds(ctx, bounds)
	if err != nil {
		uc.logger.Error("failed to load tile features",
			zap.Uint32("z", z), zap.Uint32("x", x), zap.Uint32("y", y),
			zap.Error(err))
		return nil, err
	}

	tileFeatures := make([]domain.TileFeature, 0, len(features))
	for _, f := range features {
		tileFeatures = append(tileFeatures, f.ToTileFeature())
	}

	data, err := json.Marshal(domain.NewFeatureCollection(tileFeatures))
	if err != nil {
		return nil, err
	}

	if uc.cacheRepo != nil {
		if err := uc.cacheRepo.SetTile(ctx, z, x, y, data, uc.tileCacheTTL); err != nil {
			uc.logger.Warn("failed to cache tile",
				zap.Uint32("z", z), zap.Uint32("x", x), zap.Uint32("y", y),
				zap.Error(err))
		}
	}

	return data, nil
}
