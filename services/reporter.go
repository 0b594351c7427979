package services

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"catalog-etl/models"
)

const reportWidth = 55

// PrintSummary formats the summary as a boxed terminal report.
// Sections without data are left out entirely.
func PrintSummary(w io.Writer, s *models.Summary) {
	p := message.NewPrinter(language.English)
	border := strings.Repeat("═", reportWidth)
	thin := strings.Repeat("─", reportWidth)

	p.Fprintf(w, "\n╔%s╗\n", border)
	p.Fprintf(w, "║%s║\n", center("DATASET SUMMARY STATISTICS", reportWidth))
	p.Fprintf(w, "╚%s╝\n", border)

	p.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	p.Fprintf(w, "  Total Titles : %d\n", s.TotalTitles)
	p.Fprintf(w, "  Movies       : %d (%.1f%%)\n", s.Movies, s.MoviePct)
	p.Fprintf(w, "  TV Shows     : %d (%.1f%%)\n", s.TVShows, s.TVShowPct)
	if s.ReleaseYearRange != nil {
		p.Fprintf(w, "  Release Years: %s to %s\n", year(s.ReleaseYearRange.From), year(s.ReleaseYearRange.To))
	}
	if s.DateAddedRange != nil {
		p.Fprintf(w, "  Date Added   : %s to %s\n",
			s.DateAddedRange.From.Format("2006-01-02"), s.DateAddedRange.To.Format("2006-01-02"))
	}
	if s.Anomalies > 0 {
		p.Fprintf(w, "  Row Anomalies: %d\n", s.Anomalies)
	}

	printTop(p, w, thin, "COUNTRIES", s.UniqueCountries, s.TopCountries)
	printTop(p, w, thin, "GENRES", s.UniqueGenres, s.TopGenres)

	if y := s.YearlyAdditions; y != nil {
		p.Fprintf(w, "\n CONTENT ADDED OVER TIME\n%s\n", thin)
		p.Fprintf(w, "  First year : %s (%d titles)\n", year(y.FirstYear), y.FirstCount)
		p.Fprintf(w, "  Last year  : %s (%d titles)\n", year(y.LastYear), y.LastCount)
		p.Fprintf(w, "  Peak year  : %s (%d titles)\n", year(y.PeakYear), y.PeakCount)

		years := make([]int, 0, len(y.Counts))
		for yr := range y.Counts {
			years = append(years, yr)
		}
		sort.Ints(years)
		for _, yr := range years {
			p.Fprintf(w, "  %s  %5d  %s\n", year(yr), y.Counts[yr], bar(y.Counts[yr], y.PeakCount))
		}
	}

	printDistribution(p, w, thin, "MOVIE DURATION STATISTICS", "minutes", s.MovieDuration)
	printDistribution(p, w, thin, "TV SHOW SEASONS STATISTICS", "seasons", s.TVSeasons)

	p.Fprintf(w, "\n%s\n\n", border)
}

func printTop(p *message.Printer, w io.Writer, thin, label string, unique int, top []models.Frequency) {
	p.Fprintf(w, "\n %s\n%s\n", label, thin)
	p.Fprintf(w, "  Unique: %d\n", unique)
	if len(top) == 0 {
		return
	}
	p.Fprintf(w, "  Top %d:\n", len(top))
	for i, f := range top {
		p.Fprintf(w, "  %d. %-35s %d titles\n", i+1, truncate(f.Value, 35), f.Count)
	}
}

func printDistribution(p *message.Printer, w io.Writer, thin, label, unit string, d *models.DistributionStats) {
	if d == nil {
		return
	}
	p.Fprintf(w, "\n %s\n%s\n", label, thin)
	p.Fprintf(w, "  Mean   : %.1f %s\n", d.Mean, unit)
	p.Fprintf(w, "  Median : %.1f %s\n", d.Median, unit)
	p.Fprintf(w, "  Min    : %d %s\n", d.Min, unit)
	p.Fprintf(w, "  Max    : %d %s\n", d.Max, unit)
}

// year keeps the printer from grouping digits
func year(y int) string { return strconv.Itoa(y) }

// bar scales count against peak into at most 30 blocks
func bar(count, peak int) string {
	if peak == 0 {
		return ""
	}
	n := count * 30 / peak
	if n == 0 && count > 0 {
		n = 1
	}
	return strings.Repeat("▓", n)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
