package analysis

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niatrend/internal/dataset"
)

func obs(neighbourhood string, year int, crimeType string, rate float64) dataset.Observation {
	return dataset.Observation{
		Neighbourhood: neighbourhood,
		Year:          year,
		CrimeType:     crimeType,
		Rate:          rate,
	}
}

func TestSummarizeByType(t *testing.T) {
	observations := []dataset.Observation{
		obs("Black Creek", 2014, "Robbery", 10),
		obs("Regent Park", 2014, "Robbery", math.NaN()),
		obs("Thorncliffe Park", 2014, "Robbery", 20),
		obs("Black Creek", 2014, "Assault", 100),
		obs("Regent Park", 2014, "Assault", 200),
		obs("Thorncliffe Park", 2014, "Assault", 300),
	}

	summaries := SummarizeByType(observations)
	require.Len(t, summaries, 2)

	// Sorted by crime type
	assert.Equal(t, "Assault", summaries[0].CrimeType)
	assert.Equal(t, "Robbery", summaries[1].CrimeType)

	assault := summaries[0]
	assert.Equal(t, 3, assault.Count)
	assert.Zero(t, assault.Missing)
	assert.InDelta(t, 200, assault.Mean, 1e-12)
	assert.InDelta(t, 200, assault.Median, 1e-12)
	assert.InDelta(t, 100, assault.StdDev, 1e-12)

	// Mean over present values only: (10+20)/2, not (10+20)/3
	robbery := summaries[1]
	assert.Equal(t, 2, robbery.Count)
	assert.Equal(t, 1, robbery.Missing)
	assert.InDelta(t, 15, robbery.Mean, 1e-12)
}

func TestSummarizeByType_AllMissingGroup(t *testing.T) {
	observations := []dataset.Observation{
		obs("Black Creek", 2014, "Homicide", math.NaN()),
		obs("Regent Park", 2014, "Homicide", math.NaN()),
	}

	summaries := SummarizeByType(observations)
	require.Len(t, summaries, 1)

	assert.Equal(t, "Homicide", summaries[0].CrimeType)
	assert.Zero(t, summaries[0].Count)
	assert.Equal(t, 2, summaries[0].Missing)
	assert.True(t, math.IsNaN(summaries[0].Mean))
	assert.True(t, math.IsNaN(summaries[0].Median))
}

func TestSummarizeByType_OrderIndependent(t *testing.T) {
	observations := []dataset.Observation{
		obs("Black Creek", 2014, "Robbery", 10),
		obs("Black Creek", 2015, "Robbery", 12),
		obs("Regent Park", 2014, "Robbery", 14),
		obs("Regent Park", 2015, "Robbery", math.NaN()),
		obs("Black Creek", 2014, "Assault", 100),
		obs("Regent Park", 2014, "Assault", 140),
	}

	want := SummarizeByType(observations)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]dataset.Observation, len(observations))
		copy(shuffled, observations)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, want, SummarizeByType(shuffled))
	}
}

func TestYearlyMeans(t *testing.T) {
	observations := []dataset.Observation{
		obs("Black Creek", 2014, "Robbery", 10),
		obs("Regent Park", 2014, "Robbery", 20),
		obs("Black Creek", 2015, "Robbery", 8),
		obs("Regent Park", 2015, "Robbery", math.NaN()),
		obs("Black Creek", 2014, "Assault", 100),
	}

	series := YearlyMeans(observations)
	require.Len(t, series, 2)

	assert.Equal(t, "Assault", series[0].CrimeType)
	require.Len(t, series[0].Points, 1)
	assert.Equal(t, YearlyPoint{Year: 2014, MeanRate: 100, Count: 1}, series[0].Points[0])

	robbery := series[1]
	assert.Equal(t, "Robbery", robbery.CrimeType)
	require.Len(t, robbery.Points, 2)
	assert.Equal(t, YearlyPoint{Year: 2014, MeanRate: 15, Count: 2}, robbery.Points[0])
	// 2015 mean over present values only
	assert.Equal(t, YearlyPoint{Year: 2015, MeanRate: 8, Count: 1}, robbery.Points[1])
}

func TestYearlyMeans_OmitsEmptyCells(t *testing.T) {
	observations := []dataset.Observation{
		obs("Black Creek", 2014, "Shooting", 5),
		obs("Black Creek", 2015, "Shooting", math.NaN()),
		obs("Regent Park", 2015, "Shooting", math.NaN()),
		obs("Black Creek", 2016, "Shooting", 7),
	}

	series := YearlyMeans(observations)
	require.Len(t, series, 1)

	years := make([]int, 0, len(series[0].Points))
	for _, p := range series[0].Points {
		years = append(years, p.Year)
	}
	assert.Equal(t, []int{2014, 2016}, years)
}

func TestYearlyMeans_OrderIndependent(t *testing.T) {
	observations := []dataset.Observation{
		obs("Black Creek", 2016, "Robbery", 9),
		obs("Black Creek", 2014, "Robbery", 10),
		obs("Regent Park", 2015, "Robbery", 11),
		obs("Black Creek", 2015, "Robbery", 13),
	}

	want := YearlyMeans(observations)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := make([]dataset.Observation, len(observations))
		copy(shuffled, observations)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, want, YearlyMeans(shuffled))
	}
}
