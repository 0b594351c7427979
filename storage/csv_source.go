package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"catalog-etl/models"
	"catalog-etl/utils"
)

const utf8BOM = "\ufeff"

// CSVSource reads catalog rows from a delimited file with a header row
type CSVSource struct {
	filePath string
	comma    rune
	logger   *utils.Logger
}

// NewCSVSource creates a comma-delimited source
func NewCSVSource(filePath string, logger *utils.Logger) *CSVSource {
	return &CSVSource{filePath: filePath, comma: ',', logger: logger}
}

// WithDelimiter switches the field delimiter, e.g. '\t' for TSV exports
func (s *CSVSource) WithDelimiter(comma rune) *CSVSource {
	s.comma = comma
	return s
}

// Load reads the whole file. Any structural problem aborts the load.
func (s *CSVSource) Load(ctx context.Context) ([]*models.RawRecord, error) {
	s.logger.Info("Loading dataset from %s...", s.filePath)

	file, err := os.Open(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, utils.NewPipelineError(utils.ErrFileNotFound, s.filePath, 0, nil)
		}
		return nil, utils.NewPipelineError(utils.ErrSource, s.filePath, 0, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = s.comma

	header, err := reader.Read()
	if err == io.EOF {
		return nil, utils.NewPipelineError(utils.ErrParse, s.filePath, 1, errors.New("missing header row"))
	}
	if err != nil {
		return nil, s.parseError(err)
	}

	index, extras, err := mapHeader(header)
	if err != nil {
		return nil, utils.NewPipelineError(utils.ErrParse, s.filePath, 1, err)
	}

	var records []*models.RawRecord
	for row := 1; ; row++ {
		if row%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, s.parseError(err)
		}
		records = append(records, rawFromFields(row, fields, index, extras))
	}

	s.logger.Info("Loaded %d rows with %d columns", len(records), len(header))
	return records, nil
}

// Close is a no-op; the file is closed at the end of Load
func (s *CSVSource) Close() error { return nil }

func (s *CSVSource) parseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return utils.NewPipelineError(utils.ErrParse, s.filePath, pe.Line, pe.Err)
	}
	return utils.NewPipelineError(utils.ErrParse, s.filePath, 0, err)
}

// mapHeader resolves column positions. extras maps position to name for unrecognized columns.
func mapHeader(header []string) (map[string]int, map[int]string, error) {
	index := make(map[string]int, len(header))
	extras := make(map[int]string)
	known := make(map[string]bool, len(InputColumns))
	for _, c := range InputColumns {
		known[c] = true
	}

	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, dup := index[name]; dup {
			return nil, nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
		if !known[name] {
			extras[i] = name
		}
	}

	var missing []string
	for _, c := range InputColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, extras, nil
}

func rawFromFields(row int, fields []string, index map[string]int, extras map[int]string) *models.RawRecord {
	get := func(col string) string { return fields[index[col]] }

	r := &models.RawRecord{
		Row:         row,
		ShowID:      get(ColShowID),
		Type:        get(ColType),
		Title:       get(ColTitle),
		Director:    get(ColDirector),
		Cast:        get(ColCast),
		Country:     get(ColCountry),
		DateAdded:   get(ColDateAdded),
		ReleaseYear: get(ColReleaseYear),
		Rating:      get(ColRating),
		Duration:    get(ColDuration),
		ListedIn:    get(ColListedIn),
		Description: get(ColDescription),
	}
	if len(extras) > 0 {
		r.Extra = make(map[string]string, len(extras))
		for i, name := range extras {
			r.Extra[name] = fields[i]
		}
	}
	return r
}
