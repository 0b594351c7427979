package models

import "time"

// Frequency is one entry of a top-N list
type Frequency struct {
	Value string `yaml:"value"`
	Count int    `yaml:"count"`
}

// YearStats describes how many titles were added per year
type YearStats struct {
	Counts     map[int]int `yaml:"counts"`
	FirstYear  int         `yaml:"first_year"`
	FirstCount int         `yaml:"first_count"`
	LastYear   int         `yaml:"last_year"`
	LastCount  int         `yaml:"last_count"`
	PeakYear   int         `yaml:"peak_year"`
	PeakCount  int         `yaml:"peak_count"`
}

// DistributionStats holds mean/median/min/max over a non-empty population
type DistributionStats struct {
	Count  int     `yaml:"count"`
	Mean   float64 `yaml:"mean"`
	Median float64 `yaml:"median"`
	Min    int     `yaml:"min"`
	Max    int     `yaml:"max"`
}

// DateRange is the earliest and latest parsed date_added
type DateRange struct {
	From time.Time `yaml:"from"`
	To   time.Time `yaml:"to"`
}

// YearRange is the lowest and highest release year
type YearRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// Summary holds aggregate statistics over an enriched catalog.
// Nil sections had no data to describe.
type Summary struct {
	TotalTitles int     `yaml:"total_titles"`
	Movies      int     `yaml:"movies"`
	TVShows     int     `yaml:"tv_shows"`
	MoviePct    float64 `yaml:"movie_pct"`
	TVShowPct   float64 `yaml:"tv_show_pct"`

	UniqueCountries int         `yaml:"unique_countries"`
	TopCountries    []Frequency `yaml:"top_countries,omitempty"`
	UniqueGenres    int         `yaml:"unique_genres"`
	TopGenres       []Frequency `yaml:"top_genres,omitempty"`

	YearlyAdditions *YearStats `yaml:"yearly_additions,omitempty"`

	MovieDuration *DistributionStats `yaml:"movie_duration_minutes,omitempty"`
	TVSeasons     *DistributionStats `yaml:"tv_seasons,omitempty"`

	DateAddedRange   *DateRange `yaml:"date_added_range,omitempty"`
	ReleaseYearRange *YearRange `yaml:"release_year_range,omitempty"`

	Anomalies int `yaml:"anomalies"`
}
