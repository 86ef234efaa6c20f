// Package dataset loads and transforms the neighbourhood crime-rate
// dataset.
//
// The source is a wide CSV table with one row per (neighbourhood, year)
// and one population-normalized rate column per crime type, identified
// by a fixed column-name suffix (ASSAULT_RATE, ROBBERY_RATE, ...).
// The package provides:
//
//   - LoadWideCSV: read and validate the wide table, demoting missing
//     and invalid rate cells to NaN
//   - LoadNIASet: read the set of NIA-designated neighbourhood
//     identifiers used as the filter predicate
//   - FilterNIA: keep only rows for NIA-designated neighbourhoods
//   - Reshape: fan the wide table out to long-format Observations,
//     one per (neighbourhood, year, crime type)
//   - Pivot: the inverse of Reshape, used for round-trip checks
package dataset
