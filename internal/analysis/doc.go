// Package analysis computes the grouped statistics and per-crime-type
// trend fits over long-format crime-rate observations.
//
// Two groupings are produced:
//
//   - SummarizeByType: per crime type, mean/median/standard deviation
//     over all non-missing observations
//   - YearlyMeans: per (crime type, year), the arithmetic mean rate
//     across neighbourhoods, the input to trend fitting
//
// Missing values are excluded from computation denominators, never
// treated as zero. All grouped results are emitted in sorted key order
// so output is independent of input row order.
//
// FitTrend fits rate = intercept + slope*year by ordinary least squares
// on a yearly-average series and reports, alongside the fitted line,
// the coefficient of determination and a two-sided t-test on the slope.
// A series with fewer than two distinct years yields an
// insufficient-data outcome for that crime type only.
package analysis
