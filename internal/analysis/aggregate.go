package analysis

import (
	"sort"

	"niatrend/internal/dataset"
)

// TypeSummary holds descriptive statistics for one crime type across
// all neighbourhoods and years.
type TypeSummary struct {
	CrimeType string
	Count     int // non-missing observations
	Missing   int
	Mean      float64
	Median    float64
	StdDev    float64
}

// YearlyPoint is the average rate across neighbourhoods for one
// (crime type, year) cell.
type YearlyPoint struct {
	Year     int
	MeanRate float64
	Count    int // neighbourhoods contributing a non-missing rate
}

// YearlySeries is the per-year average rate series for one crime type,
// ordered by year. It is the input to trend fitting.
type YearlySeries struct {
	CrimeType string
	Points    []YearlyPoint
}

// SummarizeByType groups observations by crime type and computes mean,
// median and sample standard deviation over the non-missing rates.
// Results are sorted by crime type, so output does not depend on input
// row order.
func SummarizeByType(observations []dataset.Observation) []TypeSummary {
	rates := make(map[string][]float64)
	missing := make(map[string]int)

	for _, obs := range observations {
		if obs.Missing() {
			missing[obs.CrimeType]++
			// Register the group even if every value is missing
			if _, ok := rates[obs.CrimeType]; !ok {
				rates[obs.CrimeType] = nil
			}
			continue
		}
		rates[obs.CrimeType] = append(rates[obs.CrimeType], obs.Rate)
	}

	summaries := make([]TypeSummary, 0, len(rates))
	for crimeType, values := range rates {
		summaries = append(summaries, TypeSummary{
			CrimeType: crimeType,
			Count:     len(values),
			Missing:   missing[crimeType],
			Mean:      calculateMean(values),
			Median:    calculateMedian(values),
			StdDev:    calculateStdDev(values),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CrimeType < summaries[j].CrimeType
	})
	return summaries
}

// YearlyMeans groups observations by (crime type, year) and computes
// the arithmetic mean rate across neighbourhoods, excluding missing
// values from the denominator. Cells with no non-missing value are
// omitted. Series are sorted by crime type and points by year.
func YearlyMeans(observations []dataset.Observation) []YearlySeries {
	type cellKey struct {
		crimeType string
		year      int
	}

	cells := make(map[cellKey][]float64)
	for _, obs := range observations {
		if obs.Missing() {
			continue
		}
		key := cellKey{obs.CrimeType, obs.Year}
		cells[key] = append(cells[key], obs.Rate)
	}

	byType := make(map[string][]YearlyPoint)
	for key, values := range cells {
		byType[key.crimeType] = append(byType[key.crimeType], YearlyPoint{
			Year:     key.year,
			MeanRate: calculateMean(values),
			Count:    len(values),
		})
	}

	series := make([]YearlySeries, 0, len(byType))
	for crimeType, points := range byType {
		sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
		series = append(series, YearlySeries{CrimeType: crimeType, Points: points})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].CrimeType < series[j].CrimeType
	})
	return series
}
