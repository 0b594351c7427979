package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"catalog-etl/models"
	"catalog-etl/utils"
)

// CSVWriter writes enriched records to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// WriteRecords writes OutputColumns for every record, replacing any existing file
func (w *CSVWriter) WriteRecords(records []*models.Record) (err error) {
	fail := func(err error) error {
		return utils.NewPipelineError(utils.ErrWrite, w.filePath, 0, err)
	}

	// Ensure output directory exists
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fail(fmt.Errorf("failed to create output directory: %w", err))
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fail(fmt.Errorf("failed to create CSV file: %w", err))
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fail(fmt.Errorf("failed to close CSV file: %w", cerr))
		}
	}()

	writer := csv.NewWriter(file)

	if err := writer.Write(OutputColumns); err != nil {
		return fail(fmt.Errorf("failed to write CSV header: %w", err))
	}
	for _, r := range records {
		if err := writer.Write(recordRow(r)); err != nil {
			return fail(fmt.Errorf("failed to write row %d: %w", r.Row, err))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fail(fmt.Errorf("failed to flush CSV: %w", err))
	}

	w.logger.Info("Processed data written to: %s (%d rows)", w.filePath, len(records))
	return nil
}

// recordRow lays out one record in OutputColumns order. Nulls become empty cells.
func recordRow(r *models.Record) []string {
	dateAdded := ""
	if r.DateAdded != nil {
		dateAdded = r.DateAdded.Format("2006-01-02")
	}
	releaseYear := r.RawRecord.ReleaseYear
	if r.ReleaseYear != nil {
		releaseYear = strconv.Itoa(*r.ReleaseYear)
	}

	return []string{
		r.ShowID,
		r.Type,
		r.Title,
		r.Director,
		r.Cast,
		r.Country,
		dateAdded,
		releaseYear,
		r.Rating,
		r.Duration,
		r.ListedIn,
		r.Description,
		intCell(r.YearAdded),
		intCell(r.MonthAdded),
		utils.Deref(r.MonthName, ""),
		utils.Deref(r.YearMonth, ""),
		intCell(r.DurationMinutes),
		intCell(r.NumSeasons),
		r.PrimaryCountry,
		r.PrimaryGenre,
		strings.Join(r.Genres, ", "),
		intCell(r.Decade),
	}
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
