package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/poi-tile-service/internal/config"
	"github.com/poi-tile-service/internal/pkg/logger"
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

	log.Info("Starting POI ingestion",
		zap.String("csv_dir", cfg.Ingest.CSVDir),
		zap.Bool("fail_fast", cfg.Ingest.FailFast),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	// 4. Ensure schema (extensions, table, spatial index)
	featureRepo := postgres.NewFeatureRepository(db)
	if err := featureRepo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure schema", zap.Error(err))
	}

	// 5. Run the ingestion
	ingestUC := usecase.NewIngestUseCase(
		featureRepo,
		log,
		cfg.Ingest.SyntheticIDOffset,
		cfg.Ingest.FailFast,
	)

	report, err := ingestUC.IngestDir(ctx, cfg.Ingest.CSVDir)
	if err != nil {
		log.Error("Ingestion failed", zap.Error(err))
		os.Exit(1)
	}

	for _, fr := range report.Files {
		fmt.Printf("%s: loaded %d, failed %d\n", fr.File, fr.Loaded, fr.Failed)
	}
	fmt.Printf("run %s: loaded %d, failed %d\n",
		report.RunID, report.TotalLoaded, report.TotalFailed)
}
