package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/models"
	"docqa/internal/vectorstore"
)

func TestBatchRunTallies(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	p := newTestPipeline(store)
	o := NewOrchestrator(p, 1, nil)

	dup := writeDoc(t, "dup.txt", "shared content between two items")
	items := []Item{
		{Path: writeDoc(t, "a.txt", "first unique document"), CompanyName: "Acme", DocumentName: "a"},
		{Path: writeDoc(t, "b.txt", "second unique document"), CompanyName: "Acme", DocumentName: "b"},
		{Path: dup, CompanyName: "Acme", DocumentName: "dup"},
		{Path: dup, CompanyName: "Acme", DocumentName: "dup again"},
		{Path: filepath.Join(t.TempDir(), "missing.txt"), CompanyName: "Acme", DocumentName: "gone"},
	}

	summary, reports := o.Run(ctx, items)

	assert.Equal(t, models.BatchSummary{Processed: 3, Skipped: 1, Failed: 1, Total: 5}, summary)

	require.Len(t, reports, 5)
	assert.Equal(t, models.OutcomeProcessed, reports[0].Outcome)
	assert.Equal(t, models.OutcomeProcessed, reports[1].Outcome)
	assert.Equal(t, models.OutcomeProcessed, reports[2].Outcome)
	assert.Equal(t, models.OutcomeSkipped, reports[3].Outcome)
	assert.Equal(t, models.OutcomeFailed, reports[4].Outcome)
	assert.NotEmpty(t, reports[4].Error)
}

func TestBatchFailureDoesNotStopSiblings(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	o := NewOrchestrator(newTestPipeline(store), 1, nil)

	items := []Item{
		{Path: filepath.Join(t.TempDir(), "missing.txt"), CompanyName: "Acme", DocumentName: "gone"},
		{Path: writeDoc(t, "after.txt", "processed even though an earlier item failed"), CompanyName: "Acme", DocumentName: "after"},
	}

	summary, reports := o.Run(ctx, items)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, models.OutcomeProcessed, reports[1].Outcome)
}

func TestBatchConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	o := NewOrchestrator(newTestPipeline(store), 4, nil)

	path := writeDoc(t, "same.txt", "identical content ingested concurrently")
	items := make([]Item, 6)
	for i := range items {
		items[i] = Item{Path: path, CompanyName: "Acme", DocumentName: "same"}
	}

	summary, _ := o.Run(ctx, items)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 5, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
}

func TestBatchEmpty(t *testing.T) {
	o := NewOrchestrator(newTestPipeline(vectorstore.NewMemoryStore()), 1, nil)
	summary, reports := o.Run(context.Background(), nil)
	assert.Equal(t, models.BatchSummary{}, summary)
	assert.Empty(t, reports)
}

func TestSummaryMessage(t *testing.T) {
	msg := SummaryMessage(models.BatchSummary{Processed: 2, Skipped: 1, Failed: 0, Total: 3})
	assert.Equal(t, "Upload complete: 2 processed, 1 skipped, 0 failed", msg)
}
