package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"niatrend/internal/app"
	"niatrend/internal/config"
	"niatrend/internal/infrastructure"
)

func main() {
	inputPath := flag.String("input", "", "path to the wide-format crime rate CSV (required)")
	niaPath := flag.String("nia", "", "path to the NIA neighbourhood list (required)")
	outputDir := flag.String("out", "", "output directory for report artifacts (defaults to data/reports)")
	configFile := flag.String("config", "", "optional YAML config file")
	startYear := flag.Int("start-year", 0, "override analysis window start year")
	endYear := flag.Int("end-year", 0, "override analysis window end year")
	flag.Parse()

	if *inputPath == "" || *niaPath == "" {
		fmt.Fprintln(os.Stderr, "usage: trendreport -input <crime_rates.csv> -nia <nia_list> [-out dir] [-config file]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags win over file and environment
	if *outputDir != "" {
		cfg.Paths.ReportsDir = *outputDir
	}
	if *startYear != 0 {
		cfg.Analysis.StartYear = *startYear
	}
	if *endYear != 0 {
		cfg.Analysis.EndYear = *endYear
	}
	if cfg.Analysis.EndYear < cfg.Analysis.StartYear {
		slog.Error("Invalid analysis window",
			"start_year", cfg.Analysis.StartYear,
			"end_year", cfg.Analysis.EndYear)
		os.Exit(1)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithTraceID(context.Background(), uuid.NewString())
	logger := slog.Default()

	logger.InfoContext(ctx, "Starting NIA crime trend analysis",
		"input", *inputPath,
		"nia", *niaPath,
		"window_start", cfg.Analysis.StartYear,
		"window_end", cfg.Analysis.EndYear)

	a, err := app.New(app.Options{
		InputPath: *inputPath,
		NIAPath:   *niaPath,
		Config:    cfg,
		Logger:    logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Invalid run options", "error", err)
		os.Exit(1)
	}

	result, err := a.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Analysis failed", "error", err)
		os.Exit(1)
	}

	logger.InfoContext(ctx, "Analysis complete",
		"rows", result.Rows,
		"observations", result.Observations,
		"crime_types", result.CrimeTypes,
		"fitted_trends", result.Fitted)

	printRunSummary(result)
}

func printRunSummary(result *app.Result) {
	fmt.Println("\n=== NIA CRIME TREND ANALYSIS ===")
	fmt.Printf("Neighbourhood-years analysed: %d\n", result.Rows)
	fmt.Printf("Observations (long format):   %d\n", result.Observations)
	fmt.Printf("Crime types:                  %d\n", result.CrimeTypes)
	fmt.Printf("Fitted trends:                %d\n", result.Fitted)

	fmt.Println("\nCrime Type           | Direction         | Slope/yr |     R2 |  p-value")
	fmt.Println("---------------------|-------------------|----------|--------|---------")
	for _, fit := range result.Trends {
		if !fit.HasFit {
			fmt.Printf("%-20s | %-17s |        - |      - |        -\n",
				fit.CrimeType, fit.Direction())
			continue
		}
		fmt.Printf("%-20s | %-17s | %8.3f | %6.4f | %8.6f\n",
			fit.CrimeType, fit.Direction(), fit.Slope, fit.R2, fit.PValue)
	}

	fmt.Println("\nArtifacts:")
	fmt.Printf("  Summary CSV:  %s\n", result.SummaryCSV)
	fmt.Printf("  Trends CSV:   %s\n", result.TrendsCSV)
	fmt.Printf("  Text summary: %s\n", result.TextSummary)
	fmt.Printf("  Workbook:     %s\n", result.Workbook)
}
