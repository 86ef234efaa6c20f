package dataset

import "math"

// Observation is one long-format row: a single crime-type rate for one
// neighbourhood in one year. Rate is NaN when the source cell was
// missing or invalid.
type Observation struct {
	Neighbourhood string
	Year          int
	CrimeType     string
	Rate          float64
}

// Missing reports whether the observation carries no usable rate value.
func (o Observation) Missing() bool {
	return math.IsNaN(o.Rate)
}

// WideRow is one source row: all crime-type rates for a
// (neighbourhood, year) pair, keyed by original column name.
type WideRow struct {
	Neighbourhood string
	Year          int
	Rates         map[string]float64
}

// WideTable is the loaded source table plus its rate-column schema.
// RateColumns preserves the original header order.
type WideTable struct {
	RateColumns []string
	Rows        []WideRow
}
