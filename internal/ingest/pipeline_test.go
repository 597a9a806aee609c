package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/chunking"
	"docqa/internal/models"
	"docqa/internal/parsing"
	"docqa/internal/vectorstore"
)

// stubEmbedder returns a fixed-dimension vector per text.
type stubEmbedder struct{}

func (stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	return out, nil
}

func (e stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// brokenStore fails every lookup; Add still works via the wrapped store.
type brokenStore struct {
	*vectorstore.MemoryStore
}

func (brokenStore) GetWhere(ctx context.Context, field, value string, limit int) ([]models.Passage, error) {
	return nil, errors.New("backend down")
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestPipeline(store vectorstore.Store) *Pipeline {
	segmenter := chunking.NewSegmenter(chunking.SegmenterConfig{MaxTokens: 512, MergePeers: true})
	return NewPipeline(store, parsing.NewRegistry(), segmenter, stubEmbedder{}, "sha256", nil)
}

func TestIngestThenSkip(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	p := newTestPipeline(store)

	path := writeDoc(t, "report.txt", "Acme grew revenue by ten percent in fiscal 2025.")

	first, err := p.Ingest(ctx, path, "Acme", "annual_report")
	require.NoError(t, err)
	assert.False(t, first.Skipped)
	assert.Greater(t, first.Passages, 0)

	countAfterFirst, err := store.Count(ctx)
	require.NoError(t, err)

	second, err := p.Ingest(ctx, path, "Acme", "annual_report")
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)

	countAfterSecond, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, countAfterFirst, countAfterSecond)
}

func TestIngestSkipsRelabeledContent(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	p := newTestPipeline(store)

	path := writeDoc(t, "same.txt", "identical bytes under two labels")

	_, err := p.Ingest(ctx, path, "Acme", "original_name")
	require.NoError(t, err)

	res, err := p.Ingest(ctx, path, "OtherCorp", "new_name")
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	// stored labels stay as first ingested
	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, models.DocumentInfo{Company: "Acme", Document: "original_name"}, docs[0])
}

func TestIngestModifiedContentIsNew(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	p := newTestPipeline(store)

	path := writeDoc(t, "report.txt", "original content")
	first, err := p.Ingest(ctx, path, "Acme", "report")
	require.NoError(t, err)
	require.False(t, first.Skipped)

	require.NoError(t, os.WriteFile(path, []byte("original content!"), 0o644))

	second, err := p.Ingest(ctx, path, "Acme", "report")
	require.NoError(t, err)
	assert.False(t, second.Skipped)
	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
}

func TestIngestMissingFile(t *testing.T) {
	p := newTestPipeline(vectorstore.NewMemoryStore())
	_, err := p.Ingest(context.Background(), filepath.Join(t.TempDir(), "gone.txt"), "Acme", "doc")
	assert.Error(t, err)
}

func TestIngestUnsupportedExtension(t *testing.T) {
	p := newTestPipeline(vectorstore.NewMemoryStore())
	path := writeDoc(t, "image.png", "not really an image")
	_, err := p.Ingest(context.Background(), path, "Acme", "doc")
	assert.ErrorIs(t, err, parsing.ErrUnsupportedFormat)
}

func TestDuplicateCheckFailureMeansNew(t *testing.T) {
	ctx := context.Background()
	checker := NewDuplicateChecker(brokenStore{vectorstore.NewMemoryStore()}, nil)
	assert.False(t, checker.Exists(ctx, "any-fingerprint"))
}

func TestIngestProceedsWhenDedupFails(t *testing.T) {
	ctx := context.Background()
	store := brokenStore{vectorstore.NewMemoryStore()}
	p := newTestPipeline(store)

	path := writeDoc(t, "doc.txt", "content stored despite a failing lookup")

	res, err := p.Ingest(ctx, path, "Acme", "doc")
	require.NoError(t, err)
	assert.False(t, res.Skipped)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Greater(t, n, 0)
}

func TestConcurrentIngestSameContentWritesOnce(t *testing.T) {
	ctx := context.Background()
	store := vectorstore.NewMemoryStore()
	p := newTestPipeline(store)

	path := writeDoc(t, "shared.txt", "the same bytes raced by several goroutines")

	const workers = 8
	results := make([]Result, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := p.Ingest(ctx, path, "Acme", "doc")
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	processed := 0
	for _, res := range results {
		if !res.Skipped {
			processed++
		}
	}
	assert.Equal(t, 1, processed)
}
