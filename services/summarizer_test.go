package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-etl/models"
	"catalog-etl/utils"
)

func enrichAll(t *testing.T, raw ...*models.RawRecord) []*models.Record {
	t.Helper()
	for i, r := range raw {
		r.Row = i + 1
	}
	records, _ := NewEnricher(utils.NewNopLogger()).Enrich(raw)
	return records
}

func TestSummarize_Counts(t *testing.T) {
	records := enrichAll(t,
		&models.RawRecord{Type: models.TypeMovie, Duration: "90 min", ReleaseYear: "2019"},
		&models.RawRecord{Type: models.TypeMovie, Duration: "120 min", ReleaseYear: "2020"},
		&models.RawRecord{Type: models.TypeTVShow, Duration: "2 Seasons", ReleaseYear: "2021"},
	)

	s := NewSummarizer(utils.NewNopLogger(), 5).Summarize(records)

	assert.Equal(t, 3, s.TotalTitles)
	assert.Equal(t, 2, s.Movies)
	assert.Equal(t, 1, s.TVShows)
	assert.InDelta(t, 66.67, s.MoviePct, 0.01)
	assert.InDelta(t, 33.33, s.TVShowPct, 0.01)
	require.NotNil(t, s.ReleaseYearRange)
	assert.Equal(t, models.YearRange{From: 2019, To: 2021}, *s.ReleaseYearRange)
}

func TestSummarize_PercentagesKeepFullPrecision(t *testing.T) {
	raw := []*models.RawRecord{{Type: models.TypeMovie, Duration: "90 min"}}
	for i := 0; i < 15; i++ {
		raw = append(raw, &models.RawRecord{Type: models.TypeTVShow, Duration: "1 Season"})
	}

	s := NewSummarizer(utils.NewNopLogger(), 5).Summarize(enrichAll(t, raw...))

	assert.Equal(t, 6.25, s.MoviePct)
	assert.Equal(t, 93.75, s.TVShowPct)
}

func TestSummarize_TopCountriesNotPadded(t *testing.T) {
	records := enrichAll(t,
		&models.RawRecord{Type: models.TypeMovie, Country: "India"},
		&models.RawRecord{Type: models.TypeMovie, Country: "United States, India"},
		&models.RawRecord{Type: models.TypeMovie, Country: "India, Japan"},
		&models.RawRecord{Type: models.TypeMovie, Country: ""},
	)

	s := NewSummarizer(utils.NewNopLogger(), 5).Summarize(records)

	assert.Equal(t, 3, s.UniqueCountries)
	assert.Equal(t, []models.Frequency{
		{Value: "India", Count: 2},
		{Value: "United States", Count: 1},
		{Value: "Unknown", Count: 1},
	}, s.TopCountries)
}

func TestSummarize_TopGenresTruncatedWithStableTies(t *testing.T) {
	genres := []string{"Dramas", "Comedies", "Action", "Horror", "Comedies", "Kids", "Thrillers", "Dramas"}
	raw := make([]*models.RawRecord, 0, len(genres))
	for _, g := range genres {
		raw = append(raw, &models.RawRecord{Type: models.TypeMovie, ListedIn: g + ", International Movies"})
	}

	s := NewSummarizer(utils.NewNopLogger(), 5).Summarize(enrichAll(t, raw...))

	assert.Equal(t, 6, s.UniqueGenres)
	assert.Equal(t, []models.Frequency{
		{Value: "Dramas", Count: 2},
		{Value: "Comedies", Count: 2},
		{Value: "Action", Count: 1},
		{Value: "Horror", Count: 1},
		{Value: "Kids", Count: 1},
	}, s.TopGenres)
}

func TestSummarize_YearlyAdditions(t *testing.T) {
	records := enrichAll(t,
		&models.RawRecord{Type: models.TypeMovie, DateAdded: "March 1, 2019"},
		&models.RawRecord{Type: models.TypeMovie, DateAdded: "May 2, 2018"},
		&models.RawRecord{Type: models.TypeMovie, DateAdded: "June 3, 2019"},
		&models.RawRecord{Type: models.TypeMovie, DateAdded: "July 4, 2020"},
		&models.RawRecord{Type: models.TypeMovie, DateAdded: "August 5, 2020"},
		&models.RawRecord{Type: models.TypeMovie, DateAdded: "garbage"},
	)

	s := NewSummarizer(utils.NewNopLogger(), 5).Summarize(records)

	require.NotNil(t, s.YearlyAdditions)
	y := s.YearlyAdditions
	assert.Equal(t, map[int]int{2018: 1, 2019: 2, 2020: 2}, y.Counts)
	assert.Equal(t, 2018, y.FirstYear)
	assert.Equal(t, 1, y.FirstCount)
	assert.Equal(t, 2020, y.LastYear)
	assert.Equal(t, 2, y.LastCount)
	// tie between 2019 and 2020 goes to the earlier year
	assert.Equal(t, 2019, y.PeakYear)
	assert.Equal(t, 2, y.PeakCount)

	require.NotNil(t, s.DateAddedRange)
	assert.Equal(t, "2018-05-02", s.DateAddedRange.From.Format("2006-01-02"))
	assert.Equal(t, "2020-08-05", s.DateAddedRange.To.Format("2006-01-02"))
}

func TestSummarize_Distributions(t *testing.T) {
	records := enrichAll(t,
		&models.RawRecord{Type: models.TypeMovie, Duration: "90 min"},
		&models.RawRecord{Type: models.TypeMovie, Duration: "100 min"},
		&models.RawRecord{Type: models.TypeMovie, Duration: "130 min"},
		&models.RawRecord{Type: models.TypeMovie, Duration: "150 min"},
		&models.RawRecord{Type: models.TypeMovie, Duration: ""},
		&models.RawRecord{Type: models.TypeTVShow, Duration: "1 Season"},
		&models.RawRecord{Type: models.TypeTVShow, Duration: "3 Seasons"},
		&models.RawRecord{Type: models.TypeTVShow, Duration: "8 Seasons"},
	)

	s := NewSummarizer(utils.NewNopLogger(), 5).Summarize(records)

	require.NotNil(t, s.MovieDuration)
	assert.Equal(t, models.DistributionStats{Count: 4, Mean: 117.5, Median: 115, Min: 90, Max: 150}, *s.MovieDuration)
	require.NotNil(t, s.TVSeasons)
	assert.Equal(t, 3, s.TVSeasons.Count)
	assert.InDelta(t, 4.0, s.TVSeasons.Mean, 1e-9)
	assert.Equal(t, 3.0, s.TVSeasons.Median)
	assert.Equal(t, 1, s.TVSeasons.Min)
	assert.Equal(t, 8, s.TVSeasons.Max)
}

func TestSummarize_EmptyPopulationsOmitted(t *testing.T) {
	records := enrichAll(t,
		&models.RawRecord{Type: models.TypeMovie, Duration: "long min"},
		&models.RawRecord{Type: models.TypeMovie, Duration: "1 Season"},
		&models.RawRecord{Type: models.TypeMovie, Duration: ""},
	)

	s := NewSummarizer(utils.NewNopLogger(), 5).Summarize(records)

	assert.Nil(t, s.MovieDuration)
	assert.Nil(t, s.TVSeasons)
	assert.Nil(t, s.YearlyAdditions)
	assert.Nil(t, s.DateAddedRange)
	assert.Nil(t, s.ReleaseYearRange)
}

func TestSummarize_DoesNotMutateRecords(t *testing.T) {
	records := enrichAll(t,
		&models.RawRecord{Type: models.TypeMovie, Duration: "150 min", Country: "Spain"},
		&models.RawRecord{Type: models.TypeMovie, Duration: "90 min", Country: "Chile"},
	)
	before := make([]models.Record, len(records))
	for i, r := range records {
		before[i] = *r
	}

	NewSummarizer(utils.NewNopLogger(), 1).Summarize(records)

	require.Len(t, records, 2)
	for i, r := range records {
		assert.Equal(t, before[i], *r)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := NewSummarizer(utils.NewNopLogger(), 0).Summarize(nil)
	assert.Equal(t, 0, s.TotalTitles)
	assert.Zero(t, s.MoviePct)
	assert.Empty(t, s.TopCountries)
}

func TestNewSummarizer_DefaultTopN(t *testing.T) {
	assert.Equal(t, DefaultTopN, NewSummarizer(utils.NewNopLogger(), 0).topN)
	assert.Equal(t, 3, NewSummarizer(utils.NewNopLogger(), 3).topN)
}
