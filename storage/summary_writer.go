package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"catalog-etl/models"
	"catalog-etl/utils"
)

// RunInfo identifies the pipeline run a summary file belongs to
type RunInfo struct {
	RunID       string    `yaml:"run_id"`
	Source      string    `yaml:"source"`
	GeneratedAt time.Time `yaml:"generated_at"`
}

type summaryDocument struct {
	Run       RunInfo          `yaml:"run"`
	Summary   *models.Summary  `yaml:"summary"`
	Anomalies []models.Anomaly `yaml:"anomalies,omitempty"`
}

// SummaryWriter writes the run summary as a YAML document
type SummaryWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewSummaryWriter creates a new SummaryWriter
func NewSummaryWriter(filePath string, logger *utils.Logger) *SummaryWriter {
	return &SummaryWriter{filePath: filePath, logger: logger}
}

// WriteSummary replaces any existing file at the configured path
func (w *SummaryWriter) WriteSummary(run RunInfo, summary *models.Summary, anomalies []models.Anomaly) (err error) {
	fail := func(err error) error {
		return utils.NewPipelineError(utils.ErrWrite, w.filePath, 0, err)
	}

	if err := os.MkdirAll(filepath.Dir(w.filePath), 0755); err != nil {
		return fail(fmt.Errorf("failed to create output directory: %w", err))
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fail(fmt.Errorf("failed to create summary file: %w", err))
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fail(cerr)
		}
	}()

	enc := yaml.NewEncoder(file)
	enc.SetIndent(2)
	doc := summaryDocument{Run: run, Summary: summary, Anomalies: anomalies}
	if err := enc.Encode(doc); err != nil {
		return fail(fmt.Errorf("failed to encode summary: %w", err))
	}
	if err := enc.Close(); err != nil {
		return fail(err)
	}

	w.logger.Info("Summary written to: %s", w.filePath)
	return nil
}
