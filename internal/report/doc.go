// Package report renders the analysis results into the published
// artifacts: summary and trend CSV tables, a plain-text narrative
// summary, and an Excel workbook with one line chart per crime type
// (observed yearly averages overlaid with the fitted trend line).
package report
