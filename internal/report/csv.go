package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"niatrend/internal/analysis"
)

// CSVWriter writes the tabular report artifacts.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteSummary writes the per-crime-type descriptive statistics table.
func (w *CSVWriter) WriteSummary(path string, summaries []analysis.TypeSummary) error {
	header := []string{"CrimeType", "Observations", "Missing", "Mean", "Median", "StdDev"}

	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.CrimeType,
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Missing),
			formatFloat(s.Mean, 2),
			formatFloat(s.Median, 2),
			formatFloat(s.StdDev, 2),
		})
	}

	return w.write(path, header, records)
}

// WriteTrends writes the per-crime-type trend-fit table. Crime types
// without a fit carry the insufficient-data marker in place of numbers.
func (w *CSVWriter) WriteTrends(path string, fits []analysis.TrendFit) error {
	header := []string{"CrimeType", "Years", "Direction", "Slope", "Intercept", "R2", "SlopeStdErr", "TStat", "PValue"}

	records := make([][]string, 0, len(fits))
	for _, f := range fits {
		if !f.HasFit {
			records = append(records, []string{
				f.CrimeType, strconv.Itoa(f.Years), f.Direction(),
				"", "", "", "", "", "",
			})
			continue
		}
		records = append(records, []string{
			f.CrimeType,
			strconv.Itoa(f.Years),
			f.Direction(),
			formatFloat(f.Slope, 4),
			formatFloat(f.Intercept, 4),
			formatFloat(f.R2, 4),
			formatFloat(f.SlopeStdErr, 4),
			formatFloat(f.TStat, 4),
			formatFloat(f.PValue, 6),
		})
	}

	return w.write(path, header, records)
}

// write writes a CSV file with a UTF-8 BOM so the tables open cleanly
// in Excel.
func (w *CSVWriter) write(path string, header []string, records [][]string) error {
	w.logger.Info("writing CSV report",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// formatFloat formats a value for tabular output with the given
// precision. Undefined values render as empty cells.
func formatFloat(value float64, precision int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ""
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}
