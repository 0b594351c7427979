package models

import "time"

// Category-type values as they appear in the catalog file
const (
	TypeMovie  = "Movie"
	TypeTVShow = "TV Show"
)

// UnknownValue replaces missing country, genre and rating values
const UnknownValue = "Unknown"

// RawRecord is one catalog row exactly as read from the source.
// Empty strings mean the cell was missing.
type RawRecord struct {
	Row         int // 1-based data row, header excluded
	ShowID      string
	Type        string
	Title       string
	Director    string
	Cast        string
	Country     string
	DateAdded   string // e.g. "September 25, 2021"
	ReleaseYear string
	Rating      string
	Duration    string // e.g. "90 min" or "2 Seasons"
	ListedIn    string // e.g. "Dramas, International Movies"
	Description string

	// Extra holds columns the loader does not recognize
	Extra map[string]string
}

// Record is a RawRecord plus its derived fields. A nil pointer is a null value.
type Record struct {
	*RawRecord

	Country string // cleaned, never empty
	Rating  string // cleaned, never empty

	DateAdded  *time.Time
	YearAdded  *int
	MonthAdded *int
	MonthName  *string
	YearMonth  *string // "2021-09"

	DurationMinutes *int // movies only
	NumSeasons      *int // TV shows only

	CountryList    []string
	PrimaryCountry string
	Genres         []string // nil when listed_in is missing
	PrimaryGenre   string

	ReleaseYear *int
	Decade      *int
}

// IsMovie reports whether the record is a long-form video
func (r *Record) IsMovie() bool { return r.Type == TypeMovie }

// IsTVShow reports whether the record is an episodic series
func (r *Record) IsTVShow() bool { return r.Type == TypeTVShow }

// Anomaly is a non-fatal problem found while enriching a single row
type Anomaly struct {
	Row    int    `yaml:"row"`
	Column string `yaml:"column"`
	Value  string `yaml:"value"`
	Reason string `yaml:"reason"`
}
