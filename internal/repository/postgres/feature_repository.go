package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq/hstore"
	"go.uber.org/zap"

	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/domain/repository"
	"github.com/poi-tile-service/internal/pkg/errors"
)

type featureRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewFeatureRepository(db *DB) repository.FeatureRepository {
	return &featureRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// EnsureSchema создает таблицу non_osm_data и необходимые расширения.
// Таблица должна существовать даже без загруженных данных - тайловые
// запросы ссылаются на неё безусловно.
func (r *featureRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,
		`CREATE EXTENSION IF NOT EXISTS hstore`,
		`CREATE TABLE IF NOT EXISTS non_osm_data (
			id BIGSERIAL PRIMARY KEY,
			osm_id BIGINT,
			feature_type TEXT,
			feature_value TEXT,
			properties HSTORE,
			geom GEOMETRY(Point, 4326)
		)`,
		`CREATE INDEX IF NOT EXISTS non_osm_data_geom_idx
			ON non_osm_data USING GIST (geom)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			r.logger.Error("Failed to ensure schema", zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	return nil
}

// ReplaceAll заменяет всё содержимое таблицы одним набором фич. Truncate и
// insert выполняются в одной транзакции: либо хранилище получает новый набор
// целиком, либо остаётся прежним.
func (r *featureRepository) ReplaceAll(ctx context.Context, features []*domain.Feature) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin ingestion transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE non_osm_data`); err != nil {
		r.logger.Error("Failed to truncate non_osm_data", zap.Error(err))
		return errors.ErrDatabaseError
	}

	const insert = `
		INSERT INTO non_osm_data
		(osm_id, feature_type, feature_value, properties, geom)
		VALUES
		($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326))
	`

	for _, f := range features {
		props := featureProperties(f)
		if _, err := tx.ExecContext(ctx, insert,
			f.OSMID, f.FeatureType, f.FeatureValue, props, f.Longitude, f.Latitude,
		); err != nil {
			r.logger.Error("Failed to insert feature",
				zap.Int64("osm_id", f.OSMID),
				zap.Error(err))
			return errors.ErrDatabaseError
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit ingestion transaction", zap.Error(err))
		return errors.ErrDatabaseError
	}

	return nil
}

// GetWithinBounds возвращает фичи внутри бокса. Границы полуоткрыты в
// соответствии с тайловой сеткой: lat ∈ (min, max], lon ∈ [min, max)
func (r *featureRepository) GetWithinBounds(ctx context.Context, bounds domain.BoundingBox) ([]*domain.Feature, error) {
	const query = `
		SELECT osm_id, feature_type, feature_value, properties,
			ST_Y(geom) AS lat, ST_X(geom) AS lon
		FROM non_osm_data
		WHERE ST_Y(geom) > $1 AND ST_Y(geom) <= $2
		  AND ST_X(geom) >= $3 AND ST_X(geom) < $4
	`

	rows, err := r.db.QueryContext(ctx, query,
		bounds.MinLat, bounds.MaxLat, bounds.MinLon, bounds.MaxLon)
	if err != nil {
		r.logger.Error("Failed to query features within bounds", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	var features []*domain.Feature
	for rows.Next() {
		var f domain.Feature
		var props hstore.Hstore

		if err := rows.Scan(
			&f.OSMID, &f.FeatureType, &f.FeatureValue, &props,
			&f.Latitude, &f.Longitude,
		); err != nil {
			r.logger.Error("Failed to scan feature", zap.Error(err))
			continue
		}

		f.Properties = make(map[string]string, len(props.Map))
		for key, value := range props.Map {
			if !value.Valid {
				continue
			}
			if key == domain.FieldName {
				name := value.String
				f.Name = &name
				continue
			}
			f.Properties[key] = value.String
		}

		features = append(features, &f)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Failed to iterate features", zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return features, nil
}

func (r *featureRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM non_osm_data`).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		r.logger.Error("Failed to count features", zap.Error(err))
		return 0, errors.ErrDatabaseError
	}
	return count, nil
}

// featureProperties собирает HSTORE-представление properties; name, как и в
// каноническом CSV, хранится внутри properties
func featureProperties(f *domain.Feature) hstore.Hstore {
	props := hstore.Hstore{Map: make(map[string]sql.NullString, len(f.Properties)+1)}
	for key, value := range f.Properties {
		props.Map[key] = sql.NullString{String: value, Valid: true}
	}
	if f.Name != nil {
		props.Map[domain.FieldName] = sql.NullString{String: *f.Name, Valid: true}
	}
	return props
}
