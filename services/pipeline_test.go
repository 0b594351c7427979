package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-etl/models"
	"catalog-etl/storage"
	"catalog-etl/utils"
)

type fakeSource struct {
	records []*models.RawRecord
	err     error
}

func (s *fakeSource) Load(context.Context) ([]*models.RawRecord, error) { return s.records, s.err }
func (s *fakeSource) Close() error                                      { return nil }

type fakeSink struct {
	written []*models.Record
	err     error
	calls   int
}

func (s *fakeSink) WriteRecords(records []*models.Record) error {
	s.calls++
	s.written = records
	return s.err
}

type fakeSummarySink struct {
	run       storage.RunInfo
	summary   *models.Summary
	anomalies []models.Anomaly
}

func (s *fakeSummarySink) WriteSummary(run storage.RunInfo, summary *models.Summary, anomalies []models.Anomaly) error {
	s.run, s.summary, s.anomalies = run, summary, anomalies
	return nil
}

func sampleRaw() []*models.RawRecord {
	return []*models.RawRecord{
		{Row: 1, ShowID: "s1", Type: models.TypeMovie, Duration: "90 min", DateAdded: "January 5, 2021", ReleaseYear: "2020", ListedIn: "Dramas"},
		{Row: 2, ShowID: "s2", Type: models.TypeTVShow, Duration: "3 Seasons", DateAdded: "not a date", Country: "Canada, France", ReleaseYear: "2019"},
	}
}

func TestPipeline_Run(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	sink := &fakeSink{}
	summarySink := &fakeSummarySink{}
	var report bytes.Buffer

	p := NewPipeline(&fakeSource{records: sampleRaw()}, utils.NewNopLogger(),
		WithSink(sink),
		WithSummarySink(summarySink),
		WithReport(&report),
		WithClock(clock),
		WithTopN(3),
		WithSourceName("titles.csv"),
	)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Records, 2)
	assert.Equal(t, result.Records, sink.written)
	assert.Equal(t, 1, sink.calls)

	require.Len(t, result.Anomalies, 1)
	assert.Equal(t, "date_added", result.Anomalies[0].Column)
	assert.Equal(t, 1, result.Summary.Anomalies)
	assert.Equal(t, 2, result.Summary.TotalTitles)

	assert.Contains(t, report.String(), "DATASET SUMMARY STATISTICS")

	assert.Equal(t, result.RunID, summarySink.run.RunID)
	assert.Equal(t, "titles.csv", summarySink.run.Source)
	assert.Equal(t, clock.Now().UTC(), summarySink.run.GeneratedAt)
	assert.Same(t, result.Summary, summarySink.summary)
	assert.Equal(t, result.Anomalies, summarySink.anomalies)
}

func TestPipeline_LoadFailureWritesNothing(t *testing.T) {
	loadErr := utils.NewPipelineError(utils.ErrFileNotFound, "missing.csv", 0, nil)
	sink := &fakeSink{}
	summarySink := &fakeSummarySink{}

	_, err := NewPipeline(&fakeSource{err: loadErr}, utils.NewNopLogger(),
		WithSink(sink), WithSummarySink(summarySink)).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrFileNotFound))
	assert.Zero(t, sink.calls)
	assert.Nil(t, summarySink.summary)
}

func TestPipeline_WriteFailureIsFatal(t *testing.T) {
	writeErr := utils.NewPipelineError(utils.ErrWrite, "/read-only/out.csv", 0, errors.New("permission denied"))
	summarySink := &fakeSummarySink{}

	result, err := NewPipeline(&fakeSource{records: sampleRaw()}, utils.NewNopLogger(),
		WithSink(&fakeSink{err: writeErr}), WithSummarySink(summarySink)).Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrWrite)
	require.NotNil(t, result)
	assert.Len(t, result.Records, 2)
	assert.Nil(t, summarySink.summary)
}

func TestPipeline_SummarizeOnly(t *testing.T) {
	result, err := NewPipeline(&fakeSource{records: sampleRaw()}, utils.NewNopLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.Movies)
	assert.Equal(t, 1, result.Summary.TVShows)
}
