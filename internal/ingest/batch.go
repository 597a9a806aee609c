package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docqa/internal/models"
)

// Item is one document in a batch.
type Item struct {
	Path         string
	CompanyName  string
	DocumentName string
}

// Orchestrator drives the pipeline over a collection of documents.
// Best-effort semantics: a failed item is counted and its siblings still run.
type Orchestrator struct {
	pipeline    *Pipeline
	concurrency int
	logger      *zap.Logger
}

func NewOrchestrator(pipeline *Pipeline, concurrency int, logger *zap.Logger) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{pipeline: pipeline, concurrency: concurrency, logger: logger}
}

// Run ingests every item and returns the tally plus per-item reports in
// input order. With concurrency 1 items run strictly sequentially; higher
// values overlap documents while the pipeline's per-fingerprint lock keeps
// identical content from being written twice.
func (o *Orchestrator) Run(ctx context.Context, items []Item) (models.BatchSummary, []models.ItemReport) {
	reports := make([]models.ItemReport, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, item := range items {
		g.Go(func() error {
			o.logger.Info("processing document",
				zap.Int("item", i+1),
				zap.Int("total", len(items)),
				zap.String("path", item.Path),
			)
			reports[i] = o.runOne(gctx, item)
			return nil
		})
	}
	_ = g.Wait()

	summary := models.BatchSummary{Total: len(items)}
	for _, report := range reports {
		switch report.Outcome {
		case models.OutcomeProcessed:
			summary.Processed++
		case models.OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	o.logger.Info("batch complete",
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("total", summary.Total),
	)
	return summary, reports
}

func (o *Orchestrator) runOne(ctx context.Context, item Item) models.ItemReport {
	report := models.ItemReport{
		Path:         item.Path,
		CompanyName:  item.CompanyName,
		DocumentName: item.DocumentName,
	}

	result, err := o.pipeline.Ingest(ctx, item.Path, item.CompanyName, item.DocumentName)
	switch {
	case err != nil:
		report.Outcome = models.OutcomeFailed
		report.Error = err.Error()
		o.logger.Error("document failed", zap.String("path", item.Path), zap.Error(err))
	case result.Skipped:
		report.Outcome = models.OutcomeSkipped
	default:
		report.Outcome = models.OutcomeProcessed
	}
	return report
}

// Summary line in the shape the upload API reports.
func SummaryMessage(s models.BatchSummary) string {
	return fmt.Sprintf("Upload complete: %d processed, %d skipped, %d failed", s.Processed, s.Skipped, s.Failed)
}
