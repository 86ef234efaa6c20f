package analysis

import (
	"math"
	"sort"
)

// validValues filters out NaN and infinite entries.
func validValues(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			valid = append(valid, v)
		}
	}
	return valid
}

// calculateMean computes the arithmetic mean over the non-missing
// values. Returns NaN when no valid value is present.
func calculateMean(values []float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range valid {
		sum += v
	}
	return sum / float64(len(valid))
}

// calculateMedian computes the median over the non-missing values.
// Returns NaN when no valid value is present.
func calculateMedian(values []float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(valid))
	copy(sorted, valid)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// calculateStdDev computes the sample standard deviation over the
// non-missing values. Returns 0 for fewer than two valid values.
func calculateStdDev(values []float64) float64 {
	valid := validValues(values)
	if len(valid) <= 1 {
		return 0
	}

	mean := calculateMean(valid)
	sumSquaredDeviations := 0.0
	for _, v := range valid {
		deviation := v - mean
		sumSquaredDeviations += deviation * deviation
	}
	return math.Sqrt(sumSquaredDeviations / float64(len(valid)-1))
}
