package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/poi-tile-service/internal/canonical"
	"github.com/poi-tile-service/internal/domain"
)

// convert превращает сырые экспорты (NaviLens CSV, GPX) в канонические CSV,
// пригодные для ингеста.
func main() {
	var (
		inputPath    = pflag.StringP("input", "i", "", "input file (required)")
		outputPath   = pflag.StringP("output", "o", "", "output canonical CSV (default: stdout)")
		formatName   = pflag.StringP("format", "f", string(canonical.FormatNaviLensCSV), "source format: navilens_csv or gpx")
		featureType  = pflag.String("feature-type", "", "override the taxonomy feature type")
		featureValue = pflag.String("feature-value", "", "override the taxonomy feature value")
		failFast     = pflag.Bool("fail-fast", false, "abort on the first invalid record instead of skipping it")
	)
	pflag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "convert: --input is required")
		pflag.Usage()
		os.Exit(2)
	}

	source := canonical.SourceFormat(*formatName)
	if _, ok := canonical.LookupFormat(source); !ok {
		fmt.Fprintf(os.Stderr, "convert: unknown format %q\n", *formatName)
		os.Exit(2)
	}

	var override *canonical.TaxonomyOverride
	if *featureType != "" || *featureValue != "" {
		override = &canonical.TaxonomyOverride{
			FeatureType:  *featureType,
			FeatureValue: *featureValue,
		}
	}

	in, err := os.Open(*inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: %v\n", err)
		os.Exit(1)
	}
	defer in.Close()

	var records []map[string]string
	switch source {
	case canonical.FormatGPX:
		records, err = canonical.ReadGPXRecords(in)
	default:
		records, err = canonical.ReadRecords(in)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "convert: parse %s: %v\n", *inputPath, err)
		os.Exit(1)
	}

	features := make([]*domain.Feature, 0, len(records))
	failed := 0
	for i, record := range records {
		feature, err := canonical.Canonicalize(record, source, override)
		if err != nil {
			if *failFast {
				fmt.Fprintf(os.Stderr, "convert: record %d: %v\n", i+1, err)
				os.Exit(1)
			}
			failed++
			fmt.Fprintf(os.Stderr, "convert: skipping record %d: %v\n", i+1, err)
			continue
		}
		features = append(features, feature)
	}

	out := os.Stdout
	if *outputPath != "" {
		out, err = os.Create(*outputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "convert: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()
	}

	if err := canonical.WriteCanonicalCSV(out, features); err != nil {
		fmt.Fprintf(os.Stderr, "convert: write: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "%s: converted %d, skipped %d\n", *inputPath, len(features), failed)
}
