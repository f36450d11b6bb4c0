package usecase

import (
	"math/rand"
	"strconv"

	"github.com/poi-tile-service/internal/domain"
)

// maxFakeOSMID - верхняя граница случайных OSM ID синтетических фич
const maxFakeOSMID = int64(1) << 40

// SyntheticGenerator наполняет тайлы случайными остановками. Половина
// помечается как NaviLens-enabled. Используется для нагрузочного и UI
// тестирования, когда настоящих данных в хранилище ещё нет.
type SyntheticGenerator struct {
	density int
}

func NewSyntheticGenerator(density int) *SyntheticGenerator {
	if density <= 0 {
		density = 1000
	}
	return &SyntheticGenerator{density: density}
}

// Collection генерирует фиксированное число случайных фич, равномерно
// распределённых внутри бокса. Каждая фича гарантированно проходит
// проверку принадлежности боксу.
func (g *SyntheticGenerator) Collection(bounds domain.BoundingBox) *domain.FeatureCollection {
	features := make([]domain.TileFeature, 0, g.density)

	for i := 0; i < g.density; i++ {
		p := randomPointInside(bounds)

		properties := map[string]string{
			"bus":              "yes",
			"highway":          "bus_stop",
			"public_transport": "platform",
			"name":             "Normal",
		}
		if rand.Intn(2) == 0 {
			properties["name"] = "Navilens-enabled"
			properties["qr_code:navilens"] = "yes"
		}
		properties["stop_code"] = strconv.Itoa(10000 + rand.Intn(90000))

		features = append(features, domain.TileFeature{
			Type:         "Feature",
			FeatureType:  "highway",
			FeatureValue: "bus_stop",
			Geometry: domain.PointGeometry{
				Type:        "Point",
				Coordinates: [2]float64{p.Lon, p.Lat},
			},
			OSMIDs:     []int64{rand.Int63n(maxFakeOSMID-1) + 1},
			Properties: properties,
		})
	}

	return domain.NewFeatureCollection(features)
}

// randomPointInside выбирает точку внутри полуоткрытого бокса. rand.Float64()
// ∈ [0, 1): широта сэмплируется вниз от северного края, долгота - на восток от
// западного, так что lat ∈ (MinLat, MaxLat] и lon ∈ [MinLon, MaxLon).
func randomPointInside(b domain.BoundingBox) domain.Point {
	return domain.Point{
		Lat: b.MaxLat - rand.Float64()*(b.MaxLat-b.MinLat),
		Lon: b.MinLon + rand.Float64()*(b.MaxLon-b.MinLon),
	}
}
