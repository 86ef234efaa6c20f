package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"niatrend/internal/errors"
)

// TrendFit is the least-squares trend line for one crime type's
// yearly-average series. When HasFit is false the series had fewer than
// two distinct years and only CrimeType and Years are meaningful.
type TrendFit struct {
	CrimeType   string
	Years       int // distinct years in the fitted series
	HasFit      bool
	Slope       float64 // rate change per year
	Intercept   float64
	R2          float64
	SlopeStdErr float64
	TStat       float64
	PValue      float64
}

// At returns the fitted rate for the given year.
func (f TrendFit) At(year int) float64 {
	return f.Intercept + f.Slope*float64(year)
}

// Direction describes the fitted slope for narrative output.
func (f TrendFit) Direction() string {
	switch {
	case !f.HasFit:
		return "insufficient data"
	case f.Slope < 0:
		return "decreasing"
	case f.Slope > 0:
		return "increasing"
	default:
		return "flat"
	}
}

// FitTrend fits an ordinary-least-squares line (mean rate as a linear
// function of year) to one yearly-average series. A series with fewer
// than two distinct years returns an insufficient-data error; callers
// treat that as a per-group outcome, not a failure of the run.
func FitTrend(series YearlySeries) (TrendFit, error) {
	fit := TrendFit{
		CrimeType: series.CrimeType,
		Years:     len(series.Points),
	}

	if len(series.Points) < 2 {
		return fit, fmt.Errorf("fit trend for %s: %w", series.CrimeType,
			errors.NewInsufficientDataError("fewer than 2 distinct years in series"))
	}

	xs := make([]float64, len(series.Points))
	ys := make([]float64, len(series.Points))
	for i, p := range series.Points {
		xs[i] = float64(p.Year)
		ys[i] = p.MeanRate
	}

	result, ok := fitOLS(xs, ys)
	if !ok {
		return fit, fmt.Errorf("fit trend for %s: %w", series.CrimeType,
			errors.NewInsufficientDataError("degenerate yearly series"))
	}

	fit.HasFit = true
	fit.Slope = result.slope
	fit.Intercept = result.intercept
	fit.R2 = result.r2
	fit.SlopeStdErr = result.slopeStdErr
	fit.TStat = result.tStat
	fit.PValue = result.pValue
	return fit, nil
}

// FitAllTrends fits every yearly-average series. Crime types with
// insufficient data are reported with HasFit=false and logged; they
// never abort the run.
func FitAllTrends(ctx context.Context, series []YearlySeries, logger *slog.Logger) []TrendFit {
	if logger == nil {
		logger = slog.Default()
	}

	fits := make([]TrendFit, 0, len(series))
	for _, s := range series {
		fit, err := FitTrend(s)
		if err != nil {
			logger.WarnContext(ctx, "no trend fitted",
				slog.String("crime_type", s.CrimeType),
				slog.Int("distinct_years", len(s.Points)),
				slog.String("reason", err.Error()))
		}
		fits = append(fits, fit)
	}
	return fits
}
