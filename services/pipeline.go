package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"catalog-etl/models"
	"catalog-etl/storage"
	"catalog-etl/utils"
)

// RunResult is what a pipeline run produced
type RunResult struct {
	RunID     string
	Records   []*models.Record
	Anomalies []models.Anomaly
	Summary   *models.Summary
	Elapsed   time.Duration
}

// Pipeline runs Loader -> Enricher -> Summarizer -> Writer, one stage at a time
type Pipeline struct {
	source      storage.RawSource
	sourceName  string
	sink        storage.RecordSink
	summarySink storage.SummarySink
	report      io.Writer
	clock       clockwork.Clock
	topN        int
	logger      *utils.Logger
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithSink sets where enriched records are written. Without it the run only summarizes.
func WithSink(sink storage.RecordSink) Option {
	return func(p *Pipeline) { p.sink = sink }
}

// WithSummarySink also persists the summary
func WithSummarySink(sink storage.SummarySink) Option {
	return func(p *Pipeline) { p.summarySink = sink }
}

// WithReport prints the summary report to w
func WithReport(w io.Writer) Option {
	return func(p *Pipeline) { p.report = w }
}

// WithClock replaces the real clock
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// WithTopN sets how many countries and genres are listed
func WithTopN(n int) Option {
	return func(p *Pipeline) { p.topN = n }
}

// WithSourceName labels the source in logs and the summary file
func WithSourceName(name string) Option {
	return func(p *Pipeline) { p.sourceName = name }
}

// NewPipeline creates a pipeline reading from source
func NewPipeline(source storage.RawSource, logger *utils.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:     source,
		sourceName: "input",
		clock:      clockwork.NewRealClock(),
		topN:       DefaultTopN,
		logger:     logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Run executes every stage. Load and write failures are fatal; when loading fails nothing is written.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	started := p.clock.Now()
	result := &RunResult{RunID: uuid.NewString()}
	p.logger.Info("Run %s: reading %s", result.RunID, p.sourceName)

	raw, err := p.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	result.Records, result.Anomalies = NewEnricher(p.logger).Enrich(raw)

	result.Summary = NewSummarizer(p.logger, p.topN).Summarize(result.Records)
	result.Summary.Anomalies = len(result.Anomalies)
	if p.report != nil {
		PrintSummary(p.report, result.Summary)
	}

	if p.sink != nil {
		if err := p.sink.WriteRecords(result.Records); err != nil {
			return result, err
		}
	}

	if p.summarySink != nil {
		run := storage.RunInfo{RunID: result.RunID, Source: p.sourceName, GeneratedAt: p.clock.Now().UTC()}
		if err := p.summarySink.WriteSummary(run, result.Summary, result.Anomalies); err != nil {
			return result, err
		}
	}

	result.Elapsed = p.clock.Since(started)
	p.logger.Info("Run %s finished in %v", result.RunID, result.Elapsed)
	return result, nil
}
