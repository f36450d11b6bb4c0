package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/usecase"
)

func TestReconcileUseCase(t *testing.T) {
	logger := zap.NewNop()
	uc := usecase.NewReconcileUseCase(logger, 5.0)

	t.Run("empty reference set means nothing matches", func(t *testing.T) {
		candidates := []domain.Point{
			{Lat: 30.0, Lon: -97.0},
			{Lat: 30.1, Lon: -97.1},
		}

		results, summary, err := uc.Reconcile(candidates, nil)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 0, summary.Matched)
		assert.Equal(t, 2, summary.Unmatched)
		for _, r := range results {
			assert.False(t, r.InBaseMap)
		}
	})

	t.Run("duplicates within tolerance are matched", func(t *testing.T) {
		reference := []domain.Point{{Lat: 30.0, Lon: -97.0}}
		candidates := []domain.Point{
			{Lat: 30.0, Lon: -97.0},       // exact duplicate
			{Lat: 30.0, Lon: -97.1},       // ~9.6 km away
		}

		results, summary, err := uc.Reconcile(candidates, reference)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.True(t, results[0].InBaseMap)
		assert.False(t, results[1].InBaseMap)
		assert.Equal(t, 1, summary.Matched)
		assert.Equal(t, 1, summary.Unmatched)
	})
}
