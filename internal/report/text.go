package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"niatrend/internal/analysis"
)

// WriteTextSummary creates the plain-text narrative summary of the
// analysis: dataset overview, descriptive statistics per crime type,
// and the fitted trend with its slope test.
func WriteTextSummary(path string, summaries []analysis.TypeSummary, fits []analysis.TrendFit, startYear, endYear int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer file.Close()

	fitByType := make(map[string]analysis.TrendFit, len(fits))
	for _, f := range fits {
		fitByType[f.CrimeType] = f
	}

	var observations, missing int
	for _, s := range summaries {
		observations += s.Count
		missing += s.Missing
	}

	fmt.Fprintf(file, "NIA Crime Rate Trends - Summary Report\n")
	fmt.Fprintf(file, "======================================\n\n")
	fmt.Fprintf(file, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(file, "DATASET OVERVIEW\n")
	fmt.Fprintf(file, "----------------\n")
	fmt.Fprintf(file, "Analysis Window: %d to %d\n", startYear, endYear)
	fmt.Fprintf(file, "Crime Types: %d\n", len(summaries))
	fmt.Fprintf(file, "Observations: %d (plus %d missing values excluded from statistics)\n\n", observations, missing)

	fmt.Fprintf(file, "RATES PER 100,000 RESIDENTS BY CRIME TYPE\n")
	fmt.Fprintf(file, "-----------------------------------------\n")
	for _, s := range summaries {
		fmt.Fprintf(file, "%s\n", s.CrimeType)
		fmt.Fprintf(file, "  Mean: %s  Median: %s  Std Dev: %s  (n=%d)\n",
			narrativeFloat(s.Mean, 2), narrativeFloat(s.Median, 2), narrativeFloat(s.StdDev, 2), s.Count)

		fit, ok := fitByType[s.CrimeType]
		switch {
		case !ok || !fit.HasFit:
			fmt.Fprintf(file, "  Trend: insufficient data for a fit\n")
		default:
			fmt.Fprintf(file, "  Trend: %s (%s per year over %d years, R²=%s, p=%s)\n",
				fit.Direction(),
				narrativeFloat(fit.Slope, 3),
				fit.Years,
				narrativeFloat(fit.R2, 3),
				narrativeFloat(fit.PValue, 4))
		}
		fmt.Fprintf(file, "\n")
	}

	return nil
}

// narrativeFloat renders a value for prose output, with "n/a" for
// undefined statistics.
func narrativeFloat(value float64, precision int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", precision, value)
}
