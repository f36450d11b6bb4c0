package canonical

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/pkg/errors"
)

// ReadRecords читает CSV с заголовком и возвращает записи как map
// имя-колонки → значение
func ReadRecords(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.SchemaError("csv input is empty, header row expected")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var records []map[string]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		record := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(row) {
				record[name] = row[i]
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// ReadCanonicalCSV читает канонический CSV (выход конвертера) в фичи.
// feature_type, feature_value, latitude, longitude и name поднимаются на
// верхний уровень, остальные колонки уходят в properties.
func ReadCanonicalCSV(r io.Reader) ([]*domain.Feature, []error, error) {
	records, err := ReadRecords(r)
	if err != nil {
		return nil, nil, err
	}

	features := make([]*domain.Feature, 0, len(records))
	var recordErrs []error

	for i, record := range records {
		feature, err := canonicalRecordToFeature(record)
		if err != nil {
			recordErrs = append(recordErrs, fmt.Errorf("row %d: %w", i+1, err))
			continue
		}
		features = append(features, feature)
	}

	return features, recordErrs, nil
}

func canonicalRecordToFeature(record map[string]string) (*domain.Feature, error) {
	featType, ok := record[domain.FieldFeatureType]
	if !ok || featType == "" {
		return nil, errors.SchemaError("required field %q is missing", domain.FieldFeatureType)
	}
	featValue, ok := record[domain.FieldFeatureValue]
	if !ok || featValue == "" {
		return nil, errors.SchemaError("required field %q is missing", domain.FieldFeatureValue)
	}

	lat, err := parseFiniteFloat(record, domain.FieldLatitude)
	if err != nil {
		return nil, err
	}
	lon, err := parseFiniteFloat(record, domain.FieldLongitude)
	if err != nil {
		return nil, err
	}

	feature := &domain.Feature{
		FeatureType:  featType,
		FeatureValue: featValue,
		Latitude:     lat,
		Longitude:    lon,
		Properties:   make(map[string]string),
	}

	if name := record[domain.FieldName]; name != "" {
		feature.Name = &name
	}

	for key, value := range record {
		if reservedFields[key] || value == "" {
			continue
		}
		feature.Properties[key] = value
	}

	if !validLatLon(lat, lon) {
		return nil, errors.RangeError("coordinates (%v, %v) outside valid domain", lat, lon)
	}

	return feature, nil
}

func parseFiniteFloat(record map[string]string, field string) (float64, error) {
	raw, ok := record[field]
	if !ok || raw == "" {
		return 0, errors.SchemaError("required field %q is missing", field)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.SchemaError("field %q is not a finite number: %q", field, raw)
	}
	return value, nil
}

func validLatLon(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// WriteCanonicalCSV пишет фичи в канонический CSV. Заголовок - зарезервированные
// поля, затем объединение всех ключей properties по всем фичам, чтобы записи
// из разных источников ложились в один файл.
func WriteCanonicalCSV(w io.Writer, features []*domain.Feature) error {
	header := []string{
		domain.FieldFeatureType,
		domain.FieldFeatureValue,
		domain.FieldLatitude,
		domain.FieldLongitude,
		domain.FieldName,
	}

	extraSet := make(map[string]bool)
	for _, f := range features {
		for key := range f.Properties {
			extraSet[key] = true
		}
	}
	extras := make([]string, 0, len(extraSet))
	for key := range extraSet {
		extras = append(extras, key)
	}
	sort.Strings(extras)
	header = append(header, extras...)

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, f := range features {
		row := make([]string, 0, len(header))
		name := ""
		if f.Name != nil {
			name = *f.Name
		}
		row = append(row,
			f.FeatureType,
			f.FeatureValue,
			strconv.FormatFloat(f.Latitude, 'f', -1, 64),
			strconv.FormatFloat(f.Longitude, 'f', -1, 64),
			name,
		)
		for _, key := range extras {
			row = append(row, f.Properties[key])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
