package report

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"niatrend/internal/analysis"
)

// Sheet names in the generated workbook.
const (
	sheetSummary   = "Summary"
	sheetTrends    = "Trends"
	sheetChartData = "ChartData"
	sheetCharts    = "Charts"
)

// ExcelReport builds the Excel workbook artifact: the summary and
// trend tables plus one line chart per crime type with the fitted
// trend series overlaid, laid out as small multiples.
type ExcelReport struct {
	logger *slog.Logger
}

// NewExcelReport creates a new Excel report builder.
func NewExcelReport(logger *slog.Logger) *ExcelReport {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelReport{logger: logger}
}

// Build assembles the workbook in memory.
func (r *ExcelReport) Build(summaries []analysis.TypeSummary, series []analysis.YearlySeries, fits []analysis.TrendFit) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	for _, name := range []string{sheetTrends, sheetChartData, sheetCharts} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := r.writeSummarySheet(f, headerStyle, summaries); err != nil {
		return nil, err
	}
	if err := r.writeTrendsSheet(f, headerStyle, fits); err != nil {
		return nil, err
	}
	if err := r.writeCharts(f, series, fits); err != nil {
		return nil, err
	}

	if index, err := f.GetSheetIndex(sheetSummary); err == nil {
		f.SetActiveSheet(index)
	}
	return f, nil
}

// Save writes the workbook to disk, creating the directory if needed.
func (r *ExcelReport) Save(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	r.logger.Info("writing Excel report", slog.String("path", path))
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (r *ExcelReport) writeSummarySheet(f *excelize.File, headerStyle int, summaries []analysis.TypeSummary) error {
	headers := []interface{}{"Crime Type", "Observations", "Missing", "Mean", "Median", "Std Dev"}
	if err := f.SetSheetRow(sheetSummary, "A1", &headers); err != nil {
		return fmt.Errorf("write summary header: %w", err)
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "F1", headerStyle); err != nil {
		return fmt.Errorf("style summary header: %w", err)
	}
	if err := f.SetColWidth(sheetSummary, "A", "A", 28); err != nil {
		return fmt.Errorf("size summary columns: %w", err)
	}

	for i, s := range summaries {
		row := []interface{}{
			s.CrimeType,
			s.Count,
			s.Missing,
			cellValue(s.Mean),
			cellValue(s.Median),
			cellValue(s.StdDev),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("summary cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i, err)
		}
	}
	return nil
}

func (r *ExcelReport) writeTrendsSheet(f *excelize.File, headerStyle int, fits []analysis.TrendFit) error {
	headers := []interface{}{"Crime Type", "Years", "Direction", "Slope", "Intercept", "R2", "Slope Std Err", "T Stat", "P Value"}
	if err := f.SetSheetRow(sheetTrends, "A1", &headers); err != nil {
		return fmt.Errorf("write trends header: %w", err)
	}
	if err := f.SetCellStyle(sheetTrends, "A1", "I1", headerStyle); err != nil {
		return fmt.Errorf("style trends header: %w", err)
	}
	if err := f.SetColWidth(sheetTrends, "A", "A", 28); err != nil {
		return fmt.Errorf("size trends columns: %w", err)
	}

	for i, fit := range fits {
		row := []interface{}{fit.CrimeType, fit.Years, fit.Direction()}
		if fit.HasFit {
			row = append(row,
				cellValue(fit.Slope),
				cellValue(fit.Intercept),
				cellValue(fit.R2),
				cellValue(fit.SlopeStdErr),
				cellValue(fit.TStat),
				cellValue(fit.PValue),
			)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("trends cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetTrends, cell, &row); err != nil {
			return fmt.Errorf("write trends row %d: %w", i, err)
		}
	}
	return nil
}

// writeCharts lays the per-crime-type data blocks on the ChartData
// sheet and anchors one line chart per crime type on the Charts sheet,
// two charts per row.
func (r *ExcelReport) writeCharts(f *excelize.File, series []analysis.YearlySeries, fits []analysis.TrendFit) error {
	fitByType := make(map[string]analysis.TrendFit, len(fits))
	for _, fit := range fits {
		fitByType[fit.CrimeType] = fit
	}

	for i, s := range series {
		baseCol := i*3 + 1
		fit, hasFit := fitByType[s.CrimeType]
		hasFit = hasFit && fit.HasFit

		if err := r.writeChartDataBlock(f, baseCol, s, fit, hasFit); err != nil {
			return err
		}
		if err := r.addChart(f, i, baseCol, s, hasFit); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExcelReport) writeChartDataBlock(f *excelize.File, baseCol int, s analysis.YearlySeries, fit analysis.TrendFit, hasFit bool) error {
	headers := []interface{}{"Year", s.CrimeType, s.CrimeType + " (trend)"}
	headerCell, err := excelize.CoordinatesToCellName(baseCol, 1)
	if err != nil {
		return fmt.Errorf("chart data cell name: %w", err)
	}
	if err := f.SetSheetRow(sheetChartData, headerCell, &headers); err != nil {
		return fmt.Errorf("write chart data header for %s: %w", s.CrimeType, err)
	}

	for j, point := range s.Points {
		row := []interface{}{point.Year, cellValue(point.MeanRate)}
		if hasFit {
			row = append(row, cellValue(fit.At(point.Year)))
		}
		cell, err := excelize.CoordinatesToCellName(baseCol, j+2)
		if err != nil {
			return fmt.Errorf("chart data cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetChartData, cell, &row); err != nil {
			return fmt.Errorf("write chart data row for %s: %w", s.CrimeType, err)
		}
	}
	return nil
}

func (r *ExcelReport) addChart(f *excelize.File, index, baseCol int, s analysis.YearlySeries, hasFit bool) error {
	if len(s.Points) == 0 {
		return nil
	}

	lastRow := len(s.Points) + 1
	observedSeries := excelize.ChartSeries{
		Name:       absCellRef(sheetChartData, baseCol+1, 1),
		Categories: absRangeRef(sheetChartData, baseCol, 2, lastRow),
		Values:     absRangeRef(sheetChartData, baseCol+1, 2, lastRow),
	}
	chartSeries := []excelize.ChartSeries{observedSeries}
	if hasFit {
		chartSeries = append(chartSeries, excelize.ChartSeries{
			Name:       absCellRef(sheetChartData, baseCol+2, 1),
			Categories: absRangeRef(sheetChartData, baseCol, 2, lastRow),
			Values:     absRangeRef(sheetChartData, baseCol+2, 2, lastRow),
		})
	}

	// Two panels per row
	anchor, err := excelize.CoordinatesToCellName(1+(index%2)*8, 1+(index/2)*16)
	if err != nil {
		return fmt.Errorf("chart anchor cell: %w", err)
	}

	chart := &excelize.Chart{
		Type:   excelize.Line,
		Series: chartSeries,
		Title:  []excelize.RichTextRun{{Text: s.CrimeType}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Year"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Rate per 100,000"}}},
		Dimension: excelize.ChartDimension{
			Width:  440,
			Height: 280,
		},
	}
	if err := f.AddChart(sheetCharts, anchor, chart); err != nil {
		return fmt.Errorf("add chart for %s: %w", s.CrimeType, err)
	}
	return nil
}

// absCellRef builds a sheet-qualified absolute single-cell reference.
func absCellRef(sheet string, col, row int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("%s!$%s$%d", sheet, name, row)
}

// absRangeRef builds a sheet-qualified absolute single-column range.
func absRangeRef(sheet string, col, fromRow, toRow int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("%s!$%s$%d:$%s$%d", sheet, name, fromRow, name, toRow)
}

// cellValue keeps undefined statistics out of the workbook; Excel has
// no native NaN cell value.
func cellValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return v
}
