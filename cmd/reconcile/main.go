package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/pflag"

	"github.com/poi-tile-service/internal/canonical"
	"github.com/poi-tile-service/internal/domain"
	"github.com/poi-tile-service/internal/pkg/logger"
	"github.com/poi-tile-service/internal/usecase"
)

// reconcile сопоставляет кандидатные фичи из канонического CSV с авторитетным
// набором точек из GeoJSON и сообщает, какие кандидаты уже есть в базовой карте.
func main() {
	var (
		csvPath     = pflag.String("csv", "", "candidate features, canonical CSV (required)")
		geojsonPath = pflag.String("geojson", "", "authoritative reference set, GeoJSON FeatureCollection (required)")
		outputPath  = pflag.StringP("output", "o", "", "write per-candidate results as CSV")
		tolerance   = pflag.Float64("tolerance", 5, "match tolerance in meters")
		logLevel    = pflag.String("log-level", "info", "log level")
	)
	pflag.Parse()

	if *csvPath == "" || *geojsonPath == "" {
		fmt.Fprintln(os.Stderr, "reconcile: --csv and --geojson are required")
		pflag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	candidates, err := readCandidates(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		os.Exit(1)
	}

	reference, err := readReference(*geojsonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		os.Exit(1)
	}

	reconcileUC := usecase.NewReconcileUseCase(log, *tolerance)
	results, summary, err := reconcileUC.Reconcile(candidates, reference)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
		os.Exit(1)
	}

	if *outputPath != "" {
		if err := writeResults(*outputPath, results); err != nil {
			fmt.Fprintf(os.Stderr, "reconcile: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("candidates %d: matched %d, unmatched %d (tolerance %.1f m)\n",
		summary.Total, summary.Matched, summary.Unmatched, *tolerance)
}

func readCandidates(path string) ([]domain.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	features, recordErrs, err := canonical.ReadCanonicalCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, recordErr := range recordErrs {
		fmt.Fprintf(os.Stderr, "reconcile: skipping invalid record: %v\n", recordErr)
	}

	points := make([]domain.Point, 0, len(features))
	for _, feature := range features {
		points = append(points, domain.Point{Lat: feature.Latitude, Lon: feature.Longitude})
	}
	return points, nil
}

// readReference собирает точки из GeoJSON: Point-геометрии берутся как есть,
// MultiPoint разворачивается, остальные геометрии пропускаются.
func readReference(path string) ([]domain.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	collection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var points []domain.Point
	for _, feature := range collection.Features {
		switch geom := feature.Geometry.(type) {
		case orb.Point:
			points = append(points, domain.Point{Lat: geom.Lat(), Lon: geom.Lon()})
		case orb.MultiPoint:
			for _, p := range geom {
				points = append(points, domain.Point{Lat: p.Lat(), Lon: p.Lon()})
			}
		}
	}
	return points, nil
}

func writeResults(path string, results []domain.MatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"latitude", "longitude", "nearest_distance_m", "in_base_map"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			strconv.FormatFloat(r.Candidate.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Candidate.Lon, 'f', -1, 64),
			strconv.FormatFloat(r.NearestDistanceM, 'f', 2, 64),
			strconv.FormatBool(r.InBaseMap),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
