package domain

// MatchResult - результат сопоставления одной кандидатной точки с
// авторитетным набором. Счётный артефакт одного прогона, не персистится.
type MatchResult struct {
	Candidate Point `json:"candidate"`

	// NearestDistanceM - расстояние до ближайшей авторитетной точки в метрах.
	NearestDistanceM float64 `json:"nearest_distance_m"`

	// InBaseMap истинно, когда ближайшая авторитетная точка находится в
	// пределах допуска, т.е. кандидат дублирует уже существующую фичу.
	InBaseMap bool `json:"in_base_map"`
}

// MatchSummary - сводка по прогону сопоставления
type MatchSummary struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}
