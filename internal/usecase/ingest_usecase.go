package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/poi-tile-service/internal/canonical"
	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/domain/repository"
)

// FileReport - итог загрузки одного файла
type FileReport struct {
	File   string   `json:"file"`
	Loaded int      `json:"loaded"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors,omitempty"`
}

// RunReport - итог одного прогона ингеста
type RunReport struct {
	RunID       string       `json:"run_id"`
	Files       []FileReport `json:"files"`
	TotalLoaded int          `json:"total_loaded"`
	TotalFailed int          `json:"total_failed"`
}

// IngestUseCase загружает канонические фичи в хранилище: присваивает
// синтетические OSM ID из зарезервированного диапазона и целиком заменяет
// содержимое коллекции. Прогоны против одной коллекции должны выполняться
// строго последовательно - сериализацию обеспечивает вызывающая сторона.
type IngestUseCase struct {
	featureRepo repository.FeatureRepository
	logger      *zap.Logger
	idOffset    int64
	failFast    bool
}

func NewIngestUseCase(
	featureRepo repository.FeatureRepository,
	logger *zap.Logger,
	idOffset int64,
	failFast bool,
) *IngestUseCase {
	if idOffset == 0 {
		idOffset = domain.SyntheticOSMIDOffset
	}
	return &IngestUseCase{
		featureRepo: featureRepo,
		logger:      logger,
		idOffset:    idOffset,
		failFast:    failFast,
	}
}

// IngestDir читает все канонические CSV каталога и загружает их одним
// прогоном. Невалидные записи либо прерывают прогон (fail-fast), либо
// пропускаются и попадают в отчёт.
func (uc *IngestUseCase) IngestDir(ctx context.Context, dir string) (*RunReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read csv dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	report := &RunReport{RunID: uuid.NewString()}
	var all []*domain.Feature

	for _, name := range names {
		features, fileReport, err := uc.loadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		report.Files = append(report.Files, *fileReport)
		report.TotalLoaded += fileReport.Loaded
		report.TotalFailed += fileReport.Failed
		all = append(all, features...)

		uc.logger.Info("loaded rows from file",
			zap.String("run_id", report.RunID),
			zap.String("file", name),
			zap.Int("loaded", fileReport.Loaded),
			zap.Int("failed", fileReport.Failed))
	}

	if err := uc.Ingest(ctx, all); err != nil {
		return nil, err
	}

	uc.logger.Info("ingestion run complete",
		zap.String("run_id", report.RunID),
		zap.Int("total_loaded", report.TotalLoaded),
		zap.Int("total_failed", report.TotalFailed))

	return report, nil
}

// Ingest присваивает фичам синтетические ID и атомарно заменяет содержимое
// хранилища. ID строго возрастают, первый равен offset+1, поэтому при одном
// и том же входе повторный прогон даёт идентичное состояние хранилища.
func (uc *IngestUseCase) Ingest(ctx context.Context, features []*domain.Feature) error {
	osmID := uc.idOffset
	for _, f := range features {
		osmID++
		f.OSMID = osmID
	}

	return uc.featureRepo.ReplaceAll(ctx, features)
}

func (uc *IngestUseCase) loadFile(path string) ([]*domain.Feature, *FileReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	features, recordErrs, err := canonical.ReadCanonicalCSV(f)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if uc.failFast && len(recordErrs) > 0 {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), recordErrs[0])
	}

	report := &FileReport{
		File:   filepath.Base(path),
		Loaded: len(features),
		Failed: len(recordErrs),
	}
	for _, recordErr := range recordErrs {
		report.Errors = append(report.Errors, recordErr.Error())
		uc.logger.Warn("skipping invalid record",
			zap.String("file", report.File),
			zap.String("reason", recordErr.Error()))
	}

	return features, report, nil
}
