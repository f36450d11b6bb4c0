package usecase_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/pkg/errors"
	"github.com/poi-tile-service/internal/tile"
	"github.com/poi-tile-service/internal/usecase"
)

func TestTileUseCase_ZoomAndCoordinateValidation(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	mockRepo := &MockFeatureRepository{}
	uc := usecase.NewTileUseCase(mockRepo, nil, nil, logger, 16, time.Minute)

	t.Run("unsupported zoom returns not found", func(t *testing.T) {
		_, err := uc.GetTileJSON(ctx, 15, 0, 0)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeTileNotFound))
	})

	t.Run("tile coordinates beyond 2^z are rejected", func(t *testing.T) {
		_, err := uc.GetTileJSON(ctx, 16, 65536, 0)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidTile))
	})

	mockRepo.AssertNotCalled(t, "GetWithinBounds", mock.Anything, mock.Anything)
}

func TestTileUseCase_EmptyTile(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	mockRepo := &MockFeatureRepository{}
	mockRepo.On("GetWithinBounds", ctx, mock.Anything).Return([]*domain.Feature{}, nil)

	uc := usecase.NewTileUseCase(mockRepo, nil, nil, logger, 16, time.Minute)
	data, err := uc.GetTileJSON(ctx, 16, 15109, 27038)
	require.NoError(t, err)

	var collection domain.FeatureCollection
	require.NoError(t, json.Unmarshal(data, &collection))
	assert.Equal(t, "FeatureCollection", collection.Type)
	assert.NotNil(t, collection.Features)
	assert.Len(t, collection.Features, 0)

	// the JSON wire form must be an empty array, not null
	assert.Contains(t, string(data), `"features":[]`)
}

func TestTileUseCase_StoreBackedTile(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	name := "NaviLens available: Main St"
	stored := []*domain.Feature{{
		OSMID:        domain.SyntheticOSMIDOffset + 1,
		FeatureType:  "highway",
		FeatureValue: "bus_stop",
		Latitude:     30.0,
		Longitude:    -97.0,
		Name:         &name,
		Properties:   map[string]string{"navilens": "true"},
	}}

	mockRepo := &MockFeatureRepository{}
	mockRepo.On("GetWithinBounds", ctx, mock.Anything).Return(stored, nil)

	uc := usecase.NewTileUseCase(mockRepo, nil, nil, logger, 16, time.Minute)
	x, y := tile.LatLonToTile(30.0, -97.0, 16)
	data, err := uc.GetTileJSON(ctx, 16, x, y)
	require.NoError(t, err)

	var collection domain.FeatureCollection
	require.NoError(t, json.Unmarshal(data, &collection))
	require.Len(t, collection.Features, 1)

	f := collection.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "highway", f.FeatureType)
	assert.Equal(t, "bus_stop", f.FeatureValue)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, [2]float64{-97.0, 30.0}, f.Geometry.Coordinates, "coordinates are [lon, lat]")
	assert.Equal(t, []int64{domain.SyntheticOSMIDOffset + 1}, f.OSMIDs)
	assert.Equal(t, name, f.Properties["name"])
	assert.Equal(t, "true", f.Properties["navilens"])
}

func TestTileUseCase_CacheHitSkipsStore(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	cached := []byte(`{"type":"FeatureCollection","features":[]}`)
	mockCache := &MockCacheRepository{}
	mockCache.On("GetTile", ctx, uint32(16), uint32(100), uint32(200)).Return(cached, nil)

	mockRepo := &MockFeatureRepository{}

	uc := usecase.NewTileUseCase(mockRepo, mockCache, nil, logger, 16, time.Minute)
	data, err := uc.GetTileJSON(ctx, 16, 100, 200)
	require.NoError(t, err)
	assert.Equal(t, cached, data)

	mockRepo.AssertNotCalled(t, "GetWithinBounds", mock.Anything, mock.Anything)
}

func TestTileUseCase_SyntheticMode(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	generator := usecase.NewSyntheticGenerator(250)
	uc := usecase.NewTileUseCase(nil, nil, generator, logger, 16, time.Minute)

	data, err := uc.GetTileJSON(ctx, 16, 15109, 27038)
	require.NoError(t, err)

	var collection domain.FeatureCollection
	require.NoError(t, json.Unmarshal(data, &collection))
	require.Len(t, collection.Features, 250)

	bounds := tile.TileToBounds(16, 15109, 27038)
	for _, f := range collection.Features {
		p := domain.Point{Lat: f.Geometry.Coordinates[1], Lon: f.Geometry.Coordinates[0]}
		assert.True(t, bounds.Contains(p), "synthetic feature %+v escaped its tile", p)
		require.Len(t, f.OSMIDs, 1)
		assert.Greater(t, f.OSMIDs[0], int64(0))
		assert.Less(t, f.OSMIDs[0], domain.SyntheticOSMIDOffset)
	}
}
