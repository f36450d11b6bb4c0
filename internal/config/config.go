package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/poi-tile-service/internal/domain"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Tile      TileConfig
	Ingest    IngestConfig
	Reconcile ReconcileConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	TilesCacheTTL time.Duration
}

type TileConfig struct {
	// SupportedZoom - единственный zoom, который отдаёт сервис; остальные
	// уровни отвечают 404
	SupportedZoom uint32

	// Synthetic включает режим без хранилища: каждый тайл заполняется
	// случайными фичами для нагрузочного и UI тестирования
	Synthetic bool

	// SyntheticDensity - число случайных фич на тайл в синтетическом режиме
	SyntheticDensity int
}

type IngestConfig struct {
	// CSVDir - каталог канонических CSV для загрузки
	CSVDir string

	// FailFast: true - первая невалидная запись прерывает весь прогон,
	// false - запись пропускается и попадает в отчёт
	FailFast bool

	// SyntheticIDOffset - начало диапазона синтетических OSM ID
	SyntheticIDOffset int64

	// MaxAuthoritativeID - известная верхняя граница реальных OSM ID,
	// offset обязан быть строго больше неё
	MaxAuthoritativeID int64
}

type ReconcileConfig struct {
	ToleranceMeters float64
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// .env опционален: все значения могут прийти из окружения
	_ = viper.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			TilesCacheTTL: time.Duration(viper.GetInt("TILES_CACHE_TTL")) * time.Second,
		},
		Tile: TileConfig{
			SupportedZoom:    viper.GetUint32("TILE_ZOOM"),
			Synthetic:        viper.GetBool("TILE_SYNTHETIC"),
			SyntheticDensity: viper.GetInt("TILE_SYNTHETIC_DENSITY"),
		},
		Ingest: IngestConfig{
			CSVDir:             viper.GetString("INGEST_CSV_DIR"),
			FailFast:           viper.GetBool("INGEST_FAIL_FAST"),
			SyntheticIDOffset:  viper.GetInt64("INGEST_SYNTHETIC_ID_OFFSET"),
			MaxAuthoritativeID: viper.GetInt64("INGEST_MAX_AUTHORITATIVE_ID"),
		},
		Reconcile: ReconcileConfig{
			ToleranceMeters: viper.GetFloat64("RECONCILE_TOLERANCE_METERS"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Cache.TilesCacheTTL == 0 {
		cfg.Cache.TilesCacheTTL = 10 * time.Minute
	}
	if cfg.Tile.SupportedZoom == 0 {
		cfg.Tile.SupportedZoom = 16
	}
	if cfg.Tile.SyntheticDensity == 0 {
		cfg.Tile.SyntheticDensity = 1000
	}
	if cfg.Ingest.CSVDir == "" {
		cfg.Ingest.CSVDir = "/non_osm_data"
	}
	if cfg.Ingest.SyntheticIDOffset == 0 {
		cfg.Ingest.SyntheticIDOffset = domain.SyntheticOSMIDOffset
	}
	if cfg.Ingest.MaxAuthoritativeID == 0 {
		// OSM node IDs are in the low billions; 2^40 leaves decades of margin
		cfg.Ingest.MaxAuthoritativeID = 1 << 40
	}
	if cfg.Reconcile.ToleranceMeters == 0 {
		cfg.Reconcile.ToleranceMeters = 5
	}
}

// Validate проверяет инварианты конфигурации при старте
func (c *Config) Validate() error {
	if c.Ingest.SyntheticIDOffset <= c.Ingest.MaxAuthoritativeID {
		return fmt.Errorf(
			"synthetic ID offset %d must exceed the authoritative ID bound %d",
			c.Ingest.SyntheticIDOffset, c.Ingest.MaxAuthoritativeID,
		)
	}
	if c.Tile.SupportedZoom > 22 {
		return fmt.Errorf("unsupported tile zoom %d", c.Tile.SupportedZoom)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
