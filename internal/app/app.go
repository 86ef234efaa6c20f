// Package app wires the full analysis pipeline: load, filter, reshape,
// aggregate, fit, render. The pipeline runs once to completion; the
// only non-fatal outcome is a per-crime-type insufficient-data fit.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"niatrend/internal/analysis"
	"niatrend/internal/config"
	"niatrend/internal/dataset"
	"niatrend/internal/errors"
	"niatrend/internal/report"
)

// Options configures one analysis run.
type Options struct {
	InputPath string
	NIAPath   string
	Config    *config.Config
	Logger    *slog.Logger
}

// Result summarizes a completed run and the artifacts it produced.
type Result struct {
	Rows         int // wide rows after NIA filtering
	Observations int // long-format observations
	CrimeTypes   int
	Fitted       int // crime types with a fitted trend

	Summaries []analysis.TypeSummary
	Series    []analysis.YearlySeries
	Trends    []analysis.TrendFit

	SummaryCSV  string
	TrendsCSV   string
	TextSummary string
	Workbook    string
}

// App runs the NIA crime trend analysis pipeline.
type App struct {
	opts   Options
	logger *slog.Logger
}

// New validates the options and creates a runnable App.
func New(opts Options) (*App, error) {
	if opts.InputPath == "" {
		return nil, errors.NewValidationError("input dataset path is required")
	}
	if opts.NIAPath == "" {
		return nil, errors.NewValidationError("NIA membership file path is required")
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &App{opts: opts, logger: opts.Logger}, nil
}

// Run executes the pipeline once and writes all report artifacts.
func (a *App) Run(ctx context.Context) (*Result, error) {
	cfg := a.opts.Config

	nia, err := dataset.LoadNIASet(a.opts.NIAPath)
	if err != nil {
		return nil, fmt.Errorf("load NIA set: %w", err)
	}
	a.logger.InfoContext(ctx, "loaded NIA designations", slog.Int("neighbourhoods", len(nia)))

	table, err := dataset.LoadWideCSV(ctx, a.opts.InputPath, dataset.LoadOptions{
		NeighbourhoodColumn: cfg.Analysis.NeighbourhoodColumn,
		YearColumn:          cfg.Analysis.YearColumn,
		RateSuffix:          cfg.Analysis.RateSuffix,
		StartYear:           cfg.Analysis.StartYear,
		EndYear:             cfg.Analysis.EndYear,
		Logger:              a.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	filtered := dataset.FilterNIA(table, nia)
	a.logger.InfoContext(ctx, "filtered to NIA neighbourhoods",
		slog.Int("rows_before", len(table.Rows)),
		slog.Int("rows_after", len(filtered.Rows)))
	if len(filtered.Rows) == 0 {
		return nil, errors.NewValidationError("no rows remain after NIA filtering").
			WithContext("input", a.opts.InputPath)
	}

	observations := dataset.Reshape(filtered, cfg.Analysis.RateSuffix)
	summaries := analysis.SummarizeByType(observations)
	series := analysis.YearlyMeans(observations)
	fits := analysis.FitAllTrends(ctx, series, a.logger)

	result := &Result{
		Rows:         len(filtered.Rows),
		Observations: len(observations),
		CrimeTypes:   len(summaries),
		Summaries:    summaries,
		Series:       series,
		Trends:       fits,
	}
	for _, fit := range fits {
		if fit.HasFit {
			result.Fitted++
		}
	}

	if err := a.writeArtifacts(result); err != nil {
		return nil, err
	}

	a.logger.InfoContext(ctx, "analysis complete",
		slog.Int("crime_types", result.CrimeTypes),
		slog.Int("fitted_trends", result.Fitted),
		slog.Int("observations", result.Observations))
	return result, nil
}

func (a *App) writeArtifacts(result *Result) error {
	cfg := a.opts.Config
	stamp := time.Now().Format("20060102")

	result.SummaryCSV = cfg.GetReportPath(fmt.Sprintf("crime_summary_%s.csv", stamp))
	result.TrendsCSV = cfg.GetReportPath(fmt.Sprintf("crime_trends_%s.csv", stamp))
	result.TextSummary = cfg.GetReportPath(fmt.Sprintf("trend_summary_%s.txt", stamp))
	result.Workbook = cfg.GetReportPath(fmt.Sprintf("nia_crime_report_%s.xlsx", stamp))

	csvWriter := report.NewCSVWriter(a.logger)
	if err := csvWriter.WriteSummary(result.SummaryCSV, result.Summaries); err != nil {
		return fmt.Errorf("write summary CSV: %w", err)
	}
	if err := csvWriter.WriteTrends(result.TrendsCSV, result.Trends); err != nil {
		return fmt.Errorf("write trends CSV: %w", err)
	}

	if err := report.WriteTextSummary(result.TextSummary, result.Summaries, result.Trends,
		cfg.Analysis.StartYear, cfg.Analysis.EndYear); err != nil {
		return fmt.Errorf("write text summary: %w", err)
	}

	excel := report.NewExcelReport(a.logger)
	workbook, err := excel.Build(result.Summaries, result.Series, result.Trends)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer workbook.Close()
	if err := excel.Save(workbook, result.Workbook); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	return nil
}
