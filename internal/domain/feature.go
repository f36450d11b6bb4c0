package domain

// SyntheticOSMIDOffset - начало диапазона синтетических OSM ID.
// Clients expect an OSM ID on every served point, but ingested extra data is
// not OSM data. IDs are allocated from a range far above any real node ID so
// the two namespaces can never collide. Validated against
// Ingest.MaxAuthoritativeID at startup.
const SyntheticOSMIDOffset = int64(100_000_000_000_000_000) // 10^17

// Reserved top-level field names of the canonical record. Input columns with
// these names are consumed during canonicalization and must never leak into
// Properties.
const (
	FieldFeatureType  = "feature_type"
	FieldFeatureValue = "feature_value"
	FieldLatitude     = "latitude"
	FieldLongitude    = "longitude"
	FieldName         = "name"
)

// Feature представляет каноническую точку интереса
type Feature struct {
	// OSMID is zero until the ingestion pipeline assigns a synthetic ID.
	OSMID        int64             `json:"osm_id,omitempty" db:"osm_id"`
	FeatureType  string            `json:"feature_type" db:"feature_type" validate:"required"`
	FeatureValue string            `json:"feature_value" db:"feature_value" validate:"required"`
	Latitude     float64           `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64           `json:"longitude" validate:"gte=-180,lte=180"`
	Name         *string           `json:"name,omitempty"`
	Properties   map[string]string `json:"properties,omitempty"`
}

// Point местоположение фичи
func (f *Feature) Point() Point {
	return Point{Lat: f.Latitude, Lon: f.Longitude}
}

// TileFeature - фича в том виде, в котором её отдаёт тайловый сервис
type TileFeature struct {
	Type         string            `json:"type"`
	FeatureType  string            `json:"feature_type"`
	FeatureValue string            `json:"feature_value"`
	Geometry     PointGeometry     `json:"geometry"`
	OSMIDs       []int64           `json:"osm_ids"`
	Properties   map[string]string `json:"properties"`
}

// PointGeometry - GeoJSON Point, coordinates хранятся как [lon, lat]
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FeatureCollection - коллекция фич одного тайла
type FeatureCollection struct {
	Type     string        `json:"type"`
	Features []TileFeature `json:"features"`
}

// NewFeatureCollection создает коллекцию с непустым (возможно нулевой длины)
// массивом features, чтобы пустой тайл сериализовался как [], а не null
func NewFeatureCollection(features []TileFeature) *FeatureCollection {
	if features == nil {
		features = make([]TileFeature, 0)
	}
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// ToTileFeature переводит каноническую фичу в формат выдачи тайлового сервиса.
// Name, если задано, возвращается в properties вместе с остальными атрибутами.
func (f *Feature) ToTileFeature() TileFeature {
	props := make(map[string]string, len(f.Properties)+1)
	for k, v := range f.Properties {
		props[k] = v
	}
	if f.Name != nil {
		props[FieldName] = *f.Name
	}

	return TileFeature{
		Type:         "Feature",
		FeatureType:  f.FeatureType,
		FeatureValue: f.FeatureValue,
		Geometry: PointGeometry{
			Type:        "Point",
			Coordinates: [2]float64{f.Longitude, f.Latitude},
		},
		OSMIDs:     []int64{f.OSMID},
		Properties: props,
	}
}
