package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/creditlens/backend/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		reports       = flag.Int("reports", cfg.NumReports, "number of reports to generate")
		maxAccounts   = flag.Int("max-accounts", cfg.MaxAccounts, "maximum tradelines per report")
		missingChance = flag.Float64("missing-chance", cfg.MissingFieldChance, "probability of omitting or blanking an optional field")
		unknownChance = flag.Float64("unknown-type-chance", cfg.UnknownTypeChance, "probability of an account type code outside the known table")
		seed          = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir     = flag.String("output-dir", "data", "directory to write the XML reports and manifest.json")
		writeStdout   = flag.Bool("stdout", false, "write the first generated report to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumReports:         *reports,
		MaxAccounts:        *maxAccounts,
		MissingFieldChance: clampProbability(*missingChance),
		UnknownTypeChance:  clampProbability(*unknownChance),
		Seed:               *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		data, err := dataset.Reports[0].Profile.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to render report: %v\n", err)
			os.Exit(1)
		}
		_, _ = os.Stdout.Write(data)
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d reports into %s\n", len(dataset.Reports), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
