package domain

type Point struct {
	Lat float64 `json:"lat" db:"lat"`
	Lon float64 `json:"lon" db:"lon"`
}

// BoundingBox - географический охват одного тайла.
// Границы полуоткрыты: северный и западный края принадлежат боксу, южный и
// восточный - соседним тайлам, поэтому каждая точка попадает ровно в один тайл.
type BoundingBox struct {
	MinLat float64 `json:"min_lat" db:"min_lat"`
	MinLon float64 `json:"min_lon" db:"min_lon"`
	MaxLat float64 `json:"max_lat" db:"max_lat"`
	MaxLon float64 `json:"max_lon" db:"max_lon"`
}

// Contains проверяет принадлежность точки боксу с учётом полуоткрытых границ:
// lat ∈ (MinLat, MaxLat], lon ∈ [MinLon, MaxLon)
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat > b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon < b.MaxLon
}

// TileAddress - адрес slippy-тайла. На уровне zoom по каждой оси 2^zoom тайлов,
// (0,0) - северо-западный угол мира.
type TileAddress struct {
	Zoom uint32 `json:"zoom"`
	X    uint32 `json:"x"`
	Y    uint32 `json:"y"`
}
