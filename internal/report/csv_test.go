package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niatrend/internal/analysis"
)

func readCSVWithBOM(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}), "expected UTF-8 BOM")

	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "crime_summary.csv")
	summaries := []analysis.TypeSummary{
		{CrimeType: "Assault", Count: 30, Missing: 0, Mean: 512.25, Median: 498.5, StdDev: 88.123},
		{CrimeType: "Robbery", Count: 28, Missing: 2, Mean: 101.5, Median: 99.0, StdDev: 14.25},
	}

	writer := NewCSVWriter(nil)
	require.NoError(t, writer.WriteSummary(path, summaries))

	records := readCSVWithBOM(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"CrimeType", "Observations", "Missing", "Mean", "Median", "StdDev"}, records[0])
	assert.Equal(t, []string{"Assault", "30", "0", "512.25", "498.50", "88.12"}, records[1])
	assert.Equal(t, []string{"Robbery", "28", "2", "101.50", "99.00", "14.25"}, records[2])
}

func TestCSVWriter_WriteSummary_UndefinedStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crime_summary.csv")
	summaries := []analysis.TypeSummary{
		{CrimeType: "Homicide", Count: 0, Missing: 10, Mean: math.NaN(), Median: math.NaN(), StdDev: 0},
	}

	require.NoError(t, NewCSVWriter(nil).WriteSummary(path, summaries))

	records := readCSVWithBOM(t, path)
	assert.Equal(t, []string{"Homicide", "0", "10", "", "", "0.00"}, records[1])
}

func TestCSVWriter_WriteTrends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crime_trends.csv")
	fits := []analysis.TrendFit{
		{
			CrimeType: "Robbery", Years: 10, HasFit: true,
			Slope: -3.5, Intercept: 7175.2, R2: 0.9876,
			SlopeStdErr: 0.12, TStat: -29.1667, PValue: 0.000001,
		},
		{CrimeType: "Shooting", Years: 1, HasFit: false},
	}

	require.NoError(t, NewCSVWriter(nil).WriteTrends(path, fits))

	records := readCSVWithBOM(t, path)
	require.Len(t, records, 3)

	assert.Equal(t, "Robbery", records[1][0])
	assert.Equal(t, "decreasing", records[1][2])
	assert.Equal(t, "-3.5000", records[1][3])
	assert.Equal(t, "0.9876", records[1][5])

	assert.Equal(t, "Shooting", records[2][0])
	assert.Equal(t, "insufficient data", records[2][2])
	assert.Equal(t, "", records[2][3])
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.50", formatFloat(1.5, 2))
	assert.Equal(t, "0.000100", formatFloat(0.0001, 6))
	assert.Equal(t, "", formatFloat(math.NaN(), 2))
	assert.Equal(t, "", formatFloat(math.Inf(1), 2))
}
