// Package match решает, какие кандидатные точки уже присутствуют в
// авторитетном базовом наборе: для каждого кандидата ищется ближайшая
// авторитетная точка и сравнивается с допуском в метрах.
package match

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/quadtree"

	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/pkg/errors"
	"github.com/poi-tile-service/internal/pkg/utils"
)

const (
	// DefaultToleranceMeters - точка считается дубликатом, если авторитетная
	// точка найдена ближе этого расстояния
	DefaultToleranceMeters = 5.0

	// MaxToleranceMeters - предел применимости перевода метров в градусы
	// через metersPerDegree. Для больших допусков линейное приближение
	// расходится, такой конфиг отклоняется при создании матчера.
	MaxToleranceMeters = 10000.0

	// metersPerDegree - метров в одном градусе дуги (~1° ≈ 111.32 km).
	// Локально почти константа на масштабе метров, чего и достаточно.
	metersPerDegree = 111320.0
)

// Matcher - неизменяемый после создания индекс авторитетных точек.
// Запросы к построенному индексу безопасны из нескольких горутин.
type Matcher struct {
	tree       *quadtree.Quadtree
	toleranceM float64
	size       int
}

// NewMatcher строит индекс по авторитетному набору. Пустой набор - ошибка
// EMPTY_REFERENCE_SET: вызывающая сторона сама решает, что при нуле
// авторитетных точек ничего не совпадает.
func NewMatcher(reference []domain.Point, toleranceMeters float64) (*Matcher, error) {
	if len(reference) == 0 {
		return nil, errors.ErrEmptyReferenceSet
	}
	if toleranceMeters <= 0 {
		toleranceMeters = DefaultToleranceMeters
	}
	if toleranceMeters > MaxToleranceMeters {
		return nil, errors.New(errors.CodeInvalidInput,
			"tolerance exceeds the valid range of the degree approximation", 400)
	}

	tree := quadtree.New(orb.Bound{
		Min: orb.Point{-180, -90},
		Max: orb.Point{180, 90},
	})
	for _, p := range reference {
		if !utils.ValidateCoordinates(p.Lat, p.Lon) {
			return nil, errors.RangeError(
				"reference point (%v, %v) outside valid domain", p.Lat, p.Lon)
		}
		if err := tree.Add(orb.Point{p.Lon, p.Lat}); err != nil {
			return nil, errors.RangeError("index reference point (%v, %v): %v", p.Lat, p.Lon, err)
		}
	}

	return &Matcher{
		tree:       tree,
		toleranceM: toleranceMeters,
		size:       len(reference),
	}, nil
}

// ToleranceMeters возвращает действующий допуск
func (m *Matcher) ToleranceMeters() float64 {
	return m.toleranceM
}

// Size возвращает число проиндексированных авторитетных точек
func (m *Matcher) Size() int {
	return m.size
}

// Match находит ближайшую авторитетную точку для кандидата. Расстояние
// считается по дуге большого круга; при нескольких равноудалённых точках
// может вернуться любая - на решение это не влияет.
func (m *Matcher) Match(candidate domain.Point) domain.MatchResult {
	nearest := m.tree.Find(orb.Point{candidate.Lon, candidate.Lat}).Point()
	distanceM := utils.HaversineDistance(candidate.Lat, candidate.Lon, nearest[1], nearest[0])

	return domain.MatchResult{
		Candidate:        candidate,
		NearestDistanceM: distanceM,
		InBaseMap:        distanceM < m.toleranceM,
	}
}

// MatchAll обрабатывает весь набор кандидатов и возвращает результаты
// вместе со сводкой
func (m *Matcher) MatchAll(candidates []domain.Point) ([]domain.MatchResult, domain.MatchSummary) {
	results := make([]domain.MatchResult, 0, len(candidates))
	summary := domain.MatchSummary{Total: len(candidates)}

	for _, c := range candidates {
		result := m.Match(c)
		if result.InBaseMap {
			summary.Matched++
		} else {
			summary.Unmatched++
		}
		results = append(results, result)
	}

	return results, summary
}
