package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/poi-tile-service/internal/config"
	httpDelivery "github.com/poi-tile-service/internal/delivery/http"
	"github.com/poi-tile-service/internal/delivery/http/handler"
	"github.com/poi-tile-service/internal/domain/repository"
	"github.com/poi-tile-service/internal/pkg/logger"
	"github.com/poi-tile-service/internal/repository/cache"
	"github.com/poi-tile-service/internal/repository/postgres"
	"github.com/poi-tile-service/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting POI Tile Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.Uint32("tile_zoom", cfg.Tile.SupportedZoom),
		zap.Bool("synthetic", cfg.Tile.Synthetic),
	)

	var (
		featureRepo repository.FeatureRepository
		cacheRepo   repository.CacheRepository
		generator   *usecase.SyntheticGenerator
	)

	if cfg.Tile.Synthetic {
		// Синтетический режим: хранилище не нужно, тайлы генерируются на лету
		generator = usecase.NewSyntheticGenerator(cfg.Tile.SyntheticDensity)
		log.Info("Synthetic tile mode enabled",
			zap.Int("density", cfg.Tile.SyntheticDensity),
		)
	} else {
		// 3. Connect to PostgreSQL (non_osm_data with PostGIS)
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		log.Info("PostgreSQL connected")

		// 4. Connect to Redis (optional tile cache)
		if cfg.Redis.Host != "" {
			redisClient, err := cache.NewRedis(&cfg.Redis, log)
			if err != nil {
				log.Fatal("Failed to connect to Redis", zap.Error(err))
			}
			defer func() {
				if err := redisClient.Close(); err != nil {
					log.Error("Failed to close Redis connection", zap.Error(err))
				}
			}()
			cacheRepo = cache.NewCacheRepository(redisClient)
			log.Info("Redis connected")
		} else {
			log.Info("Redis not configured, tile cache disabled")
		}

		// 5. Health checks
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := db.Health(ctx); err != nil {
			log.Fatal("PostgreSQL health check failed", zap.Error(err))
		}

		log.Info("All connections healthy")

		// 6. Initialize Repositories
		featureRepo = postgres.NewFeatureRepository(db)
		log.Info("Repositories initialized")
	}

	// 7. Initialize Use Cases
	tileUC := usecase.NewTileUseCase(
		featureRepo,
		cacheRepo,
		generator,
		log,
		cfg.Tile.SupportedZoom,
		cfg.Cache.TilesCacheTTL,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	tileHandler := handler.NewTileHandler(tileUC, log)

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, tileHandler)

	log.Info("HTTP server initialized")

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
