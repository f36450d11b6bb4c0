package canonical

// SourceFormat идентифицирует формат внешнего источника данных
type SourceFormat string

const (
	// FormatNaviLensCSV - GTFS-подобный экспорт остановок с поддержкой NaviLens
	FormatNaviLensCSV SourceFormat = "navilens_csv"

	// FormatGPX - waypoints из GPX 1.1, например маршруты из Authoring Tool
	FormatGPX SourceFormat = "gpx"
)

// Property - фиксированный тег формата. Срез, а не map, чтобы порядок
// колонок в канонических CSV был стабильным.
type Property struct {
	Key   string
	Value string
}

// Format - декларативный дескриптор одного формата источника: где искать
// координаты и имя, какую таксономию и фиксированные теги проставлять.
// Одна таблица дескрипторов вместо почти одинаковой логики конверсии на
// каждый формат.
type Format struct {
	LatField string
	LonField string

	// Имя берётся из DescField, при его отсутствии или пустоте - из NameField.
	// Если оба пусты, имя отсутствует (не пустая строка).
	DescField string
	NameField string

	// NamePrefix добавляется перед найденным именем, но только когда имя есть
	NamePrefix string

	FeatureType  string
	FeatureValue string

	FixedProperties []Property
}

var formats = map[SourceFormat]Format{
	FormatNaviLensCSV: {
		LatField:     "stop_lat",
		LonField:     "stop_lon",
		DescField:    "stop_desc",
		NameField:    "stop_name",
		NamePrefix:   "NaviLens available: ",
		FeatureType:  "highway",
		FeatureValue: "bus_stop",
		FixedProperties: []Property{
			{"navilens", "true"},
			// properties observed on bus stops in OSM
			{"bus", "yes"},
			{"highway", "bus_stop"},
			{"public_transport", "platform"},
		},
	},
	FormatGPX: {
		LatField:     "lat",
		LonField:     "lon",
		NameField:    "name",
		FeatureType:  "highway",
		FeatureValue: "bus_stop",
		FixedProperties: []Property{
			// properties observed on bus stops in OSM
			{"bus", "yes"},
			{"highway", "bus_stop"},
			{"public_transport", "platform"},
			// additional tags for OSM compatibility
			{"qr_code:navilens", "yes"},
			{"blind", "yes"},
			{"blind:description", "Has NaviLens code"},
		},
	},
}

// LookupFormat возвращает дескриптор формата
func LookupFormat(f SourceFormat) (Format, bool) {
	format, ok := formats[f]
	return format, ok
}

// TaxonomyOverride переопределяет feature_type/feature_value дескриптора,
// например из флагов CLI-конвертера
type TaxonomyOverride struct {
	FeatureType  string
	FeatureValue string
}
