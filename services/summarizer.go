package services

import (
	"sort"

	"catalog-etl/models"
	"catalog-etl/utils"
)

// DefaultTopN is how many countries and genres the summary lists
const DefaultTopN = 5

// Summarizer computes aggregate statistics from the enriched catalog
type Summarizer struct {
	logger *utils.Logger
	topN   int
}

// NewSummarizer creates a new Summarizer. topN below 1 falls back to DefaultTopN.
func NewSummarizer(logger *utils.Logger, topN int) *Summarizer {
	if topN < 1 {
		topN = DefaultTopN
	}
	return &Summarizer{logger: logger, topN: topN}
}

// Summarize reads the records and never modifies them
func (s *Summarizer) Summarize(records []*models.Record) *models.Summary {
	summary := &models.Summary{TotalTitles: len(records)}
	if len(records) == 0 {
		s.logger.Warn("No records to summarize")
		return summary
	}

	countries := newCounter()
	genres := newCounter()
	yearly := make(map[int]int)
	var durations, seasons []int
	var firstAdded, lastAdded *models.Record
	var minRelease, maxRelease *int

	for _, r := range records {
		switch {
		case r.IsMovie():
			summary.Movies++
			if r.DurationMinutes != nil {
				durations = append(durations, *r.DurationMinutes)
			}
		case r.IsTVShow():
			summary.TVShows++
			if r.NumSeasons != nil {
				seasons = append(seasons, *r.NumSeasons)
			}
		}

		countries.add(r.PrimaryCountry)
		genres.add(r.PrimaryGenre)

		if r.YearAdded != nil {
			yearly[*r.YearAdded]++
		}
		if r.DateAdded != nil {
			if firstAdded == nil || r.DateAdded.Before(*firstAdded.DateAdded) {
				firstAdded = r
			}
			if lastAdded == nil || r.DateAdded.After(*lastAdded.DateAdded) {
				lastAdded = r
			}
		}
		if r.ReleaseYear != nil {
			if minRelease == nil || *r.ReleaseYear < *minRelease {
				minRelease = r.ReleaseYear
			}
			if maxRelease == nil || *r.ReleaseYear > *maxRelease {
				maxRelease = r.ReleaseYear
			}
		}
	}

	summary.MoviePct = percentage(summary.Movies, summary.TotalTitles)
	summary.TVShowPct = percentage(summary.TVShows, summary.TotalTitles)

	summary.UniqueCountries = countries.distinct()
	summary.TopCountries = countries.top(s.topN)
	summary.UniqueGenres = genres.distinct()
	summary.TopGenres = genres.top(s.topN)

	summary.YearlyAdditions = yearStats(yearly)
	summary.MovieDuration = distribution(durations)
	summary.TVSeasons = distribution(seasons)

	if firstAdded != nil {
		summary.DateAddedRange = &models.DateRange{From: *firstAdded.DateAdded, To: *lastAdded.DateAdded}
	}
	if minRelease != nil {
		summary.ReleaseYearRange = &models.YearRange{From: *minRelease, To: *maxRelease}
	}

	s.logger.Debug("Summarized %d records: %d countries, %d genres", len(records), summary.UniqueCountries, summary.UniqueGenres)
	return summary
}

// percentage returns part/total*100; rounding is left to the report
func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// counter tallies values, remembering the order they were first seen
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(v string) {
	if _, seen := c.counts[v]; !seen {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter) distinct() int { return len(c.order) }

// top returns at most n values by descending count; equal counts keep first-seen order
func (c *counter) top(n int) []models.Frequency {
	freqs := make([]models.Frequency, 0, len(c.order))
	for _, v := range c.order {
		freqs = append(freqs, models.Frequency{Value: v, Count: c.counts[v]})
	}
	sort.SliceStable(freqs, func(i, j int) bool {
		return freqs[i].Count > freqs[j].Count
	})
	if len(freqs) > n {
		freqs = freqs[:n]
	}
	return freqs
}

// yearStats finds first, last and peak years. Peak ties go to the earliest year.
func yearStats(yearly map[int]int) *models.YearStats {
	if len(yearly) == 0 {
		return nil
	}
	years := make([]int, 0, len(yearly))
	for y := range yearly {
		years = append(years, y)
	}
	sort.Ints(years)

	stats := &models.YearStats{
		Counts:     yearly,
		FirstYear:  years[0],
		FirstCount: yearly[years[0]],
		LastYear:   years[len(years)-1],
		LastCount:  yearly[years[len(years)-1]],
	}
	for _, y := range years {
		if yearly[y] > stats.PeakCount {
			stats.PeakYear = y
			stats.PeakCount = yearly[y]
		}
	}
	return stats
}

// distribution returns nil for an empty population
func distribution(values []int) *models.DistributionStats {
	if len(values) == 0 {
		return nil
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	sum := 0
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := float64(sorted[n/2])
	if n%2 == 0 {
		median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}

	return &models.DistributionStats{
		Count:  n,
		Mean:   float64(sum) / float64(n),
		Median: median,
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}
