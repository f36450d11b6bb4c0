package usecase

import (
	"go.uber.org/zap"

	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/match"
)

// ReconcileUseCase сверяет кандидатные фичи с авторитетным набором точек
// базовой карты и отмечает дубликаты
type ReconcileUseCase struct {
	logger     *zap.Logger
	toleranceM float64
}

func NewReconcileUseCase(logger *zap.Logger, toleranceMeters float64) *ReconcileUseCase {
	return &ReconcileUseCase{
		logger:     logger,
		toleranceM: toleranceMeters,
	}
}

// Reconcile возвращает результат сопоставления для каждого кандидата.
// Пустой авторитетный набор - частный случай: совпадений нет, ошибки нет.
func (uc *ReconcileUseCase) Reconcile(
	candidates []domain.Point,
	reference []domain.Point,
) ([]domain.MatchResult, domain.MatchSummary, error) {
	if len(reference) == 0 {
		uc.logger.Warn("empty reference set, marking every candidate as unmatched",
			zap.Int("candidates", len(candidates)))
		results := make([]domain.MatchResult, 0, len(candidates))
		for _, c := range candidates {
			results = append(results, domain.MatchResult{Candidate: c})
		}
		summary := domain.MatchSummary{
			Total:     len(candidates),
			Unmatched: len(candidates),
		}
		return results, summary, nil
	}

	matcher, err := match.NewMatcher(reference, uc.toleranceM)
	if err != nil {
		return nil, domain.MatchSummary{}, err
	}

	results, summary := matcher.MatchAll(candidates)

	uc.logger.Info("reconciliation complete",
		zap.Int("total", summary.Total),
		zap.Int("matched", summary.Matched),
		zap.Int("unmatched", summary.Unmatched),
		zap.Float64("tolerance_m", matcher.ToleranceMeters()))

	return results, summary, nil
}
