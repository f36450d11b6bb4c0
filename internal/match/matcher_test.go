package match_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/match"
	"github.com/poi-tile-service/internal/pkg/errors"
)

// degrees of latitude per meter on the great circle used by haversine
var degPerMeter = 1.0 / (math.Pi / 180.0 * 6371000.0)

func TestMatcher_ToleranceThreshold(t *testing.T) {
	reference := []domain.Point{{Lat: 29.4241, Lon: -98.4936}}
	m, err := match.NewMatcher(reference, 5.0)
	require.NoError(t, err)

	t.Run("candidate 4 meters away is a duplicate", func(t *testing.T) {
		candidate := domain.Point{
			Lat: reference[0].Lat + 4.0*degPerMeter,
			Lon: reference[0].Lon,
		}
		result := m.Match(candidate)
		assert.True(t, result.InBaseMap)
		assert.InDelta(t, 4.0, result.NearestDistanceM, 0.01)
	})

	t.Run("candidate 6 meters away is not", func(t *testing.T) {
		candidate := domain.Point{
			Lat: reference[0].Lat + 6.0*degPerMeter,
			Lon: reference[0].Lon,
		}
		result := m.Match(candidate)
		assert.False(t, result.InBaseMap)
		assert.InDelta(t, 6.0, result.NearestDistanceM, 0.01)
	})
}

func TestMatcher_PicksNearestReferencePoint(t *testing.T) {
	reference := []domain.Point{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0.001},
		{Lat: 0.5, Lon: 0.5},
	}
	m, err := match.NewMatcher(reference, 5.0)
	require.NoError(t, err)

	// 2 meters east of the second reference point
	candidate := domain.Point{Lat: 0, Lon: 0.001 + 2.0*degPerMeter}
	result := m.Match(candidate)
	assert.True(t, result.InBaseMap)
	assert.InDelta(t, 2.0, result.NearestDistanceM, 0.01)
}

func TestMatcher_EmptyReferenceSet(t *testing.T) {
	_, err := match.NewMatcher(nil, 5.0)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeEmptyReferenceSet))
}

func TestMatcher_ToleranceValidation(t *testing.T) {
	reference := []domain.Point{{Lat: 0, Lon: 0}}

	t.Run("zero tolerance falls back to default", func(t *testing.T) {
		m, err := match.NewMatcher(reference, 0)
		require.NoError(t, err)
		assert.Equal(t, match.DefaultToleranceMeters, m.ToleranceMeters())
	})

	t.Run("tolerance beyond approximation range is rejected", func(t *testing.T) {
		_, err := match.NewMatcher(reference, 50000)
		require.Error(t, err)
	})

	t.Run("reference point outside coordinate domain is rejected", func(t *testing.T) {
		_, err := match.NewMatcher([]domain.Point{{Lat: 95, Lon: 0}}, 5.0)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeRange))
	})
}

func TestMatcher_MatchAllSummary(t *testing.T) {
	reference := []domain.Point{{Lat: 0, Lon: 0}}
	m, err := match.NewMatcher(reference, 5.0)
	require.NoError(t, err)

	candidates := []domain.Point{
		{Lat: 1.0 * degPerMeter, Lon: 0},  // ~1 m, duplicate
		{Lat: 100.0 * degPerMeter, Lon: 0}, // ~100 m, new
		{Lat: 0, Lon: 0},                   // exact duplicate
	}

	results, summary := m.MatchAll(candidates)
	require.Len(t, results, 3)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 1, summary.Unmatched)
}
