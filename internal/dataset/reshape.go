package dataset

import (
	"math"
	"strings"

	"niatrend/internal/errors"
)

// lowercaseWords are connective words kept lowercase in crime-type
// labels, matching the published category names ("Break and Enter",
// "Theft from Motor Vehicle").
var lowercaseWords = map[string]bool{
	"and":  true,
	"from": true,
	"of":   true,
	"the":  true,
}

// CrimeTypeLabel derives the human-readable crime-type label from a
// rate column name by stripping the suffix and title-casing the
// underscore-separated words.
func CrimeTypeLabel(column, suffix string) string {
	stem := strings.TrimSuffix(column, suffix)
	words := strings.Split(stem, "_")
	for i, w := range words {
		w = strings.ToLower(w)
		if i > 0 && lowercaseWords[w] {
			words[i] = w
			continue
		}
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// columnForCrimeType is the inverse of CrimeTypeLabel.
func columnForCrimeType(label, suffix string) string {
	return strings.ToUpper(strings.ReplaceAll(label, " ", "_")) + suffix
}

// Reshape transforms the wide table to long format: every row fans out
// to exactly one Observation per rate column, so the output has
// len(Rows) x len(RateColumns) observations. Missing cells are carried
// through as NaN rather than dropped.
func Reshape(table *WideTable, suffix string) []Observation {
	labels := make(map[string]string, len(table.RateColumns))
	for _, col := range table.RateColumns {
		labels[col] = CrimeTypeLabel(col, suffix)
	}

	observations := make([]Observation, 0, len(table.Rows)*len(table.RateColumns))
	for _, row := range table.Rows {
		for _, col := range table.RateColumns {
			rate, ok := row.Rates[col]
			if !ok {
				rate = math.NaN()
			}
			observations = append(observations, Observation{
				Neighbourhood: row.Neighbourhood,
				Year:          row.Year,
				CrimeType:     labels[col],
				Rate:          rate,
			})
		}
	}
	return observations
}

// Pivot re-assembles a wide table from long-format observations. Rows
// and rate columns appear in first-occurrence order. Duplicate
// (neighbourhood, year, crime type) observations are rejected.
func Pivot(observations []Observation, suffix string) (*WideTable, error) {
	type rowKey struct {
		neighbourhood string
		year          int
	}

	table := &WideTable{}
	rowIndex := make(map[rowKey]int)
	seenColumn := make(map[string]bool)

	for _, obs := range observations {
		key := rowKey{obs.Neighbourhood, obs.Year}
		idx, ok := rowIndex[key]
		if !ok {
			idx = len(table.Rows)
			rowIndex[key] = idx
			table.Rows = append(table.Rows, WideRow{
				Neighbourhood: obs.Neighbourhood,
				Year:          obs.Year,
				Rates:         make(map[string]float64),
			})
		}

		column := columnForCrimeType(obs.CrimeType, suffix)
		if !seenColumn[column] {
			seenColumn[column] = true
			table.RateColumns = append(table.RateColumns, column)
		}

		if _, exists := table.Rows[idx].Rates[column]; exists {
			return nil, errors.NewValidationError("duplicate observation for neighbourhood, year and crime type").
				WithContext("neighbourhood", obs.Neighbourhood).
				WithContext("year", obs.Year).
				WithContext("crime_type", obs.CrimeType)
		}
		table.Rows[idx].Rates[column] = obs.Rate
	}

	return table, nil
}
