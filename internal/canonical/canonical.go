// Package canonical переводит записи внешних источников (CSV-варианты, GPX)
// в каноническую форму Feature, потребляемую ингестом и тайловым сервисом.
package canonical

import (
	"math"
	"strconv"

	playground "github.com/go-playground/validator/v10"

	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/pkg/errors"
	"github.com/poi-tile-service/internal/pkg/validator"
)

// reservedFields - имена, зарезервированные под поля верхнего уровня.
// Входная колонка с таким именем никогда молча не перезаписывает поле.
var reservedFields = map[string]bool{
	domain.FieldFeatureType:  true,
	domain.FieldFeatureValue: true,
	domain.FieldLatitude:     true,
	domain.FieldLongitude:    true,
	domain.FieldName:         true,
}

// Canonicalize превращает одну запись источника (map полей) в каноническую
// фичу по дескриптору формата. Чистая функция без побочных эффектов.
func Canonicalize(fields map[string]string, source SourceFormat, override *TaxonomyOverride) (*domain.Feature, error) {
	format, ok := LookupFormat(source)
	if !ok {
		return nil, errors.SchemaError("unknown source format %q", source)
	}

	// Работаем с копией, запись вызывающей стороны не трогаем
	remaining := make(map[string]string, len(fields))
	for k, v := range fields {
		remaining[k] = v
	}
	fields = remaining

	lat, err := popCoordinate(fields, format.LatField)
	if err != nil {
		return nil, err
	}
	lon, err := popCoordinate(fields, format.LonField)
	if err != nil {
		return nil, err
	}

	feature := &domain.Feature{
		FeatureType:  format.FeatureType,
		FeatureValue: format.FeatureValue,
		Latitude:     lat,
		Longitude:    lon,
		Name:         resolveName(fields, format),
		Properties:   make(map[string]string, len(format.FixedProperties)+len(fields)),
	}
	if override != nil {
		if override.FeatureType != "" {
			feature.FeatureType = override.FeatureType
		}
		if override.FeatureValue != "" {
			feature.FeatureValue = override.FeatureValue
		}
	}

	for _, p := range format.FixedProperties {
		feature.Properties[p.Key] = p.Value
	}

	// Всё, что не израсходовано выше, копируется в properties. Коллизия с
	// зарезервированным полем - ошибка записи, а не last-write-wins.
	for key, value := range fields {
		if reservedFields[key] {
			return nil, errors.SchemaError(
				"input field %q collides with a reserved canonical field", key)
		}
		feature.Properties[key] = value
	}

	if err := validator.Validate(feature); err != nil {
		return nil, mapValidationError(err)
	}

	return feature, nil
}

// popCoordinate извлекает и удаляет координатное поле из записи
func popCoordinate(fields map[string]string, field string) (float64, error) {
	raw, ok := fields[field]
	if !ok {
		return 0, errors.SchemaError("required field %q is missing", field)
	}
	delete(fields, field)

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.SchemaError("field %q is not a finite number: %q", field, raw)
	}

	return value, nil
}

// resolveName выбирает имя фичи: описание, затем имя, иначе имени нет.
// Префикс добавляется только при непустой основе - конкатенация с
// отсутствующим именем запрещена.
func resolveName(fields map[string]string, format Format) *string {
	base := ""
	if format.DescField != "" {
		base = fields[format.DescField]
		delete(fields, format.DescField)
	}
	if base == "" && format.NameField != "" {
		base = fields[format.NameField]
		delete(fields, format.NameField)
	}
	if base == "" {
		return nil
	}

	name := format.NamePrefix + base
	return &name
}

func mapValidationError(err error) error {
	if fieldErrs, ok := err.(playground.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			switch fe.Field() {
			case "Latitude", "Longitude":
				return errors.RangeError("coordinate %s=%v outside valid domain", fe.Field(), fe.Value())
			default:
				return errors.SchemaError("canonical field %s failed validation %q", fe.Field(), fe.Tag())
			}
		}
	}
	return errors.SchemaError("canonical record validation failed: %v", err)
}
