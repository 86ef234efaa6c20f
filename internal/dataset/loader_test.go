package dataset

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niatrend/internal/errors"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crime_rates.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWideCSV(t *testing.T) {
	ctx := context.Background()
	path := writeTempCSV(t, `NEIGHBOURHOOD,YEAR,ASSAULT_RATE,ROBBERY_RATE
Black Creek,2014,612.4,101.2
Black Creek,2015,598.1,97.5
Regent Park,2014,488.0,
`)

	table, err := LoadWideCSV(ctx, path, DefaultLoadOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"ASSAULT_RATE", "ROBBERY_RATE"}, table.RateColumns)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, "Black Creek", table.Rows[0].Neighbourhood)
	assert.Equal(t, 2014, table.Rows[0].Year)
	assert.Equal(t, 612.4, table.Rows[0].Rates["ASSAULT_RATE"])

	// Empty cell is carried as NaN, not dropped
	assert.True(t, math.IsNaN(table.Rows[2].Rates["ROBBERY_RATE"]))
}

func TestLoadWideCSV_MissingFile(t *testing.T) {
	_, err := LoadWideCSV(context.Background(), filepath.Join(t.TempDir(), "absent.csv"), DefaultLoadOptions())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
}

func TestLoadWideCSV_MissingKeyColumns(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"no neighbourhood column", "AREA,YEAR,ASSAULT_RATE"},
		{"no year column", "NEIGHBOURHOOD,PERIOD,ASSAULT_RATE"},
		{"no rate columns", "NEIGHBOURHOOD,YEAR,ASSAULT_COUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, tt.header+"\n")
			_, err := LoadWideCSV(context.Background(), path, DefaultLoadOptions())
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
		})
	}
}

func TestLoadWideCSV_WindowFilter(t *testing.T) {
	path := writeTempCSV(t, `NEIGHBOURHOOD,YEAR,ASSAULT_RATE
Black Creek,2010,100.0
Black Creek,2014,200.0
Black Creek,2023,300.0
Black Creek,2024,400.0
`)

	table, err := LoadWideCSV(context.Background(), path, DefaultLoadOptions())
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2014, table.Rows[0].Year)
	assert.Equal(t, 2023, table.Rows[1].Year)
}

func TestLoadWideCSV_SkipsBadRows(t *testing.T) {
	path := writeTempCSV(t, `NEIGHBOURHOOD,YEAR,ASSAULT_RATE
Black Creek,2014,100.0
,2015,200.0
Regent Park,not-a-year,300.0
Regent Park,2016,400.0
`)

	table, err := LoadWideCSV(context.Background(), path, DefaultLoadOptions())
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Black Creek", table.Rows[0].Neighbourhood)
	assert.Equal(t, "Regent Park", table.Rows[1].Neighbourhood)
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantNaN    bool
		wantValue  float64
		wantStatus rateStatus
	}{
		{"plain value", "123.45", false, 123.45, rateOK},
		{"thousands separator", "1,234.5", false, 1234.5, rateOK},
		{"zero", "0", false, 0, rateOK},
		{"empty", "", true, 0, rateMissing},
		{"whitespace", "   ", true, 0, rateMissing},
		{"NA token", "NA", true, 0, rateMissing},
		{"null token", "null", true, 0, rateMissing},
		{"garbage", "n/a%", true, 0, rateInvalid},
		{"negative violates invariant", "-5.0", true, 0, rateNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, status := parseRate(tt.input)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantNaN {
				assert.True(t, math.IsNaN(value))
			} else {
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestLoadNIASet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nia.txt")
	content := `# NIA designations as of 2014
Black Creek
Regent Park

Thorncliffe Park
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	set, err := LoadNIASet(path)
	require.NoError(t, err)

	assert.Len(t, set, 3)
	assert.True(t, set.Contains("Black Creek"))
	assert.True(t, set.Contains("Thorncliffe Park"))
	assert.False(t, set.Contains("Rosedale"))
}

func TestLoadNIASet_CSVWithHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nia.csv")
	content := `NEIGHBOURHOOD,DESIGNATED
Black Creek,2014
"Regent Park",2014
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	set, err := LoadNIASet(path)
	require.NoError(t, err)

	assert.Len(t, set, 2)
	assert.True(t, set.Contains("Black Creek"))
	assert.True(t, set.Contains("Regent Park"))
}

func TestLoadNIASet_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadNIASet(filepath.Join(t.TempDir(), "absent.txt"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.txt")
		require.NoError(t, os.WriteFile(path, []byte("# only comments\n"), 0644))

		_, err := LoadNIASet(path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
	})
}
