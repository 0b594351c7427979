package storage

import (
	"context"

	"catalog-etl/models"
)

// RawSource loads raw catalog rows in their original order
type RawSource interface {
	Load(ctx context.Context) ([]*models.RawRecord, error)
	Close() error
}

// RecordSink persists enriched records as a flat file
type RecordSink interface {
	WriteRecords(records []*models.Record) error
}

// SummarySink persists the run summary
type SummarySink interface {
	WriteSummary(run RunInfo, summary *models.Summary, anomalies []models.Anomaly) error
}
