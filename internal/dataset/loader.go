package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"niatrend/internal/errors"
)

// LoadOptions configures how the wide crime-rate CSV is read.
type LoadOptions struct {
	NeighbourhoodColumn string
	YearColumn          string
	RateSuffix          string
	StartYear           int
	EndYear             int
	Logger              *slog.Logger
}

// DefaultLoadOptions returns load options matching the Toronto open-data
// column conventions and the 2014-2023 analysis window.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		NeighbourhoodColumn: "NEIGHBOURHOOD",
		YearColumn:          "YEAR",
		RateSuffix:          "_RATE",
		StartYear:           2014,
		EndYear:             2023,
	}
}

// LoadWideCSV reads the wide crime-rate table from a delimited file.
//
// A missing file or an absent key column is fatal. Rate cells that are
// empty, non-numeric, or negative are demoted to NaN so downstream
// statistics exclude them from denominators without dropping the row.
// Rows whose year falls outside the configured window are skipped.
func LoadWideCSV(ctx context.Context, path string, opts LoadOptions) (*WideTable, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open crime rate dataset", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read dataset header", err).
			WithContext("path", path)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	neighbourhoodIdx := -1
	yearIdx := -1
	var rateColumns []string
	rateIdx := make(map[string]int)

	for i, col := range header {
		name := strings.TrimSpace(col)
		switch {
		case strings.EqualFold(name, opts.NeighbourhoodColumn):
			neighbourhoodIdx = i
		case strings.EqualFold(name, opts.YearColumn):
			yearIdx = i
		case strings.HasSuffix(name, opts.RateSuffix):
			rateColumns = append(rateColumns, name)
			rateIdx[name] = i
		}
	}

	if neighbourhoodIdx < 0 {
		return nil, errors.NewValidationError(
			fmt.Sprintf("required column %q missing from dataset header", opts.NeighbourhoodColumn)).
			WithContext("path", path)
	}
	if yearIdx < 0 {
		return nil, errors.NewValidationError(
			fmt.Sprintf("required column %q missing from dataset header", opts.YearColumn)).
			WithContext("path", path)
	}
	if len(rateColumns) == 0 {
		return nil, errors.NewValidationError(
			fmt.Sprintf("no rate columns with suffix %q found in dataset header", opts.RateSuffix)).
			WithContext("path", path)
	}

	table := &WideTable{RateColumns: rateColumns}
	var skippedYears, invalidRates, negativeRates int
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.WarnContext(ctx, "skipping malformed row",
				slog.Int("line", line),
				slog.String("error", err.Error()))
			continue
		}

		neighbourhood := strings.TrimSpace(record[neighbourhoodIdx])
		if neighbourhood == "" {
			logger.WarnContext(ctx, "skipping row without neighbourhood identifier",
				slog.Int("line", line))
			continue
		}

		year, err := strconv.Atoi(strings.TrimSpace(record[yearIdx]))
		if err != nil {
			logger.WarnContext(ctx, "skipping row with invalid year",
				slog.Int("line", line),
				slog.String("year", record[yearIdx]))
			continue
		}
		if year < opts.StartYear || year > opts.EndYear {
			skippedYears++
			continue
		}

		rates := make(map[string]float64, len(rateColumns))
		for _, col := range rateColumns {
			value, status := parseRate(record[rateIdx[col]])
			switch status {
			case rateInvalid:
				invalidRates++
			case rateNegative:
				negativeRates++
			}
			rates[col] = value
		}

		table.Rows = append(table.Rows, WideRow{
			Neighbourhood: neighbourhood,
			Year:          year,
			Rates:         rates,
		})
	}

	if negativeRates > 0 {
		logger.WarnContext(ctx, "negative rates demoted to missing",
			slog.Int("count", negativeRates))
	}
	logger.InfoContext(ctx, "loaded crime rate dataset",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)),
		slog.Int("rate_columns", len(rateColumns)),
		slog.Int("skipped_out_of_window", skippedYears),
		slog.Int("invalid_rate_cells", invalidRates))

	return table, nil
}

type rateStatus int

const (
	rateOK rateStatus = iota
	rateMissing
	rateInvalid
	rateNegative
)

// parseRate parses one rate cell. Empty cells and the usual missing
// tokens map to NaN; negative rates violate the data invariant and are
// also demoted to NaN.
func parseRate(raw string) (float64, rateStatus) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return math.NaN(), rateMissing
	}
	switch strings.ToLower(s) {
	case "na", "nan", "null":
		return math.NaN(), rateMissing
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return math.NaN(), rateInvalid
	}
	if value < 0 {
		return math.NaN(), rateNegative
	}
	return value, rateOK
}
