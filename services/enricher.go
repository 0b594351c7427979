package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"catalog-etl/models"
	"catalog-etl/utils"
)

// listSeparator splits multi-valued country and genre cells
const listSeparator = ", "

// Accepted date_added layouts, tried in order. The ISO layout is what CSVWriter emits.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02",
}

// Enricher derives computed columns for catalog records
type Enricher struct {
	logger *utils.Logger
}

// NewEnricher creates a new Enricher
func NewEnricher(logger *utils.Logger) *Enricher {
	return &Enricher{logger: logger}
}

// Enrich derives fields for every raw record, keeping input order.
// It never fails; per-row problems are returned as anomalies.
func (e *Enricher) Enrich(raw []*models.RawRecord) ([]*models.Record, []models.Anomaly) {
	records := make([]*models.Record, 0, len(raw))
	var anomalies []models.Anomaly
	ids := utils.NewIDTracker()

	for _, r := range raw {
		rec, rowAnomalies := EnrichRecord(r)
		records = append(records, rec)
		anomalies = append(anomalies, rowAnomalies...)

		if r.ShowID == "" {
			anomalies = append(anomalies, models.Anomaly{Row: r.Row, Column: "show_id", Reason: "missing identifier"})
			continue
		}
		if first, ok := ids.Add(r.ShowID, r.Row); !ok {
			anomalies = append(anomalies, models.Anomaly{
				Row:    r.Row,
				Column: "show_id",
				Value:  r.ShowID,
				Reason: fmt.Sprintf("duplicate identifier, first seen on row %d", first),
			})
		}
	}

	e.logger.Info("Enriched %d records (%d distinct identifiers)", len(records), ids.Count())
	if len(anomalies) > 0 {
		e.logger.Warn("%d row anomalies recovered with null values", len(anomalies))
		for _, a := range anomalies {
			e.logger.Debug("  row %d %s=%q: %s", a.Row, a.Column, a.Value, a.Reason)
		}
	}
	return records, anomalies
}

// EnrichRecord derives all computed fields for one raw record.
// It depends only on r, so repeated calls give identical results.
func EnrichRecord(r *models.RawRecord) (*models.Record, []models.Anomaly) {
	rec := &models.Record{RawRecord: r}
	var anomalies []models.Anomaly
	note := func(column, value, reason string) {
		anomalies = append(anomalies, models.Anomaly{Row: r.Row, Column: column, Value: value, Reason: reason})
	}

	// Date added
	if t, ok := parseDateAdded(r.DateAdded); ok {
		rec.DateAdded = &t
		rec.YearAdded = utils.Ptr(t.Year())
		rec.MonthAdded = utils.Ptr(int(t.Month()))
		rec.MonthName = utils.Ptr(t.Month().String())
		rec.YearMonth = utils.Ptr(t.Format("2006-01"))
	} else if r.DateAdded != "" {
		note("date_added", r.DateAdded, "unparsable date")
	}

	// Duration, interpreted by category type
	switch r.Type {
	case models.TypeMovie:
		n, reason := leadingInt(r.Duration, "min")
		rec.DurationMinutes = n
		if reason != "" {
			note("duration", r.Duration, reason)
		}
	case models.TypeTVShow:
		n, reason := leadingInt(r.Duration, "Season")
		rec.NumSeasons = n
		if reason != "" {
			note("duration", r.Duration, reason)
		}
	case "":
		note("type", r.Type, "missing category type")
	default:
		note("type", r.Type, "unrecognized category type")
	}

	// Country
	rec.Country = r.Country
	if rec.Country == "" {
		rec.Country = models.UnknownValue
	}
	rec.CountryList = strings.Split(rec.Country, listSeparator)
	rec.PrimaryCountry = firstOrUnknown(rec.CountryList)

	// Genres
	if r.ListedIn != "" {
		rec.Genres = strings.Split(r.ListedIn, listSeparator)
	}
	rec.PrimaryGenre = firstOrUnknown(rec.Genres)

	// Rating
	rec.Rating = r.Rating
	if rec.Rating == "" {
		rec.Rating = models.UnknownValue
	}

	// Release year and decade
	if year, ok := parseYear(r.ReleaseYear); ok {
		rec.ReleaseYear = utils.Ptr(year)
		rec.Decade = utils.Ptr(decadeOf(year))
	} else if r.ReleaseYear == "" {
		note("release_year", r.ReleaseYear, "missing release year")
	} else {
		note("release_year", r.ReleaseYear, "unparsable release year")
	}

	return rec, anomalies
}

func parseDateAdded(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// leadingInt extracts the first whitespace-delimited token of s as an integer,
// provided s mentions unit. It returns a reason when a non-empty s cannot be used.
func leadingInt(s, unit string) (*int, string) {
	if s == "" {
		return nil, ""
	}
	if !strings.Contains(s, unit) {
		return nil, fmt.Sprintf("no %q unit", unit)
	}
	fields := strings.Fields(s)
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, "non-numeric duration"
	}
	return &n, ""
}

// parseYear accepts "2019" and the "2019.0" form spreadsheets tend to produce
func parseYear(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// decadeOf floors year to a multiple of ten, rounding toward negative infinity
func decadeOf(year int) int {
	d := year / 10
	if year%10 != 0 && year < 0 {
		d--
	}
	return d * 10
}

func firstOrUnknown(list []string) string {
	if len(list) == 0 || list[0] == "" {
		return models.UnknownValue
	}
	return list[0]
}
