package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/models"
)

func record(id, company, document, hash string, embedding []float32) models.VectorRecord {
	return models.VectorRecord{
		Passage: models.Passage{
			ID:           id,
			Text:         "text for " + id,
			CompanyName:  company,
			DocumentName: document,
			DocumentHash: hash,
		},
		Embedding: embedding,
	}
}

func TestMemoryStoreAddIsIdempotentByID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := record("acme_doc_0", "Acme", "doc", "hash-a", []float32{1, 0})
	require.NoError(t, s.Add(ctx, []models.VectorRecord{rec}))
	require.NoError(t, s.Add(ctx, []models.VectorRecord{rec}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryStoreGetWhere(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Add(ctx, []models.VectorRecord{
		record("a_0", "Acme", "report", "hash-a", []float32{1, 0}),
		record("a_1", "Acme", "report", "hash-a", []float32{0, 1}),
		record("b_0", "Beta", "memo", "hash-b", []float32{1, 1}),
	}))

	got, err := s.GetWhere(ctx, "document_hash", "hash-a", 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	limited, err := s.GetWhere(ctx, "document_hash", "hash-a", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := s.GetWhere(ctx, "document_hash", "hash-missing", 1)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryStoreQueryRanksByCosine(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Add(ctx, []models.VectorRecord{
		record("far", "Acme", "doc", "h", []float32{0, 1}),
		record("near", "Acme", "doc", "h", []float32{1, 0.01}),
		record("mid", "Acme", "doc", "h", []float32{1, 1}),
	}))

	got, err := s.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "near", got[0].Passage.ID)
	assert.Equal(t, "mid", got[1].Passage.ID)
	assert.Greater(t, got[0].Score, got[1].Score)
}

func TestMemoryStoreListDocumentsUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Add(ctx, []models.VectorRecord{
		record("a_0", "Acme", "report", "h1", []float32{1}),
		record("a_1", "Acme", "report", "h1", []float32{1}),
		record("b_0", "Beta", "memo", "h2", []float32{1}),
	}))

	docs, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.DocumentInfo{
		{Company: "Acme", Document: "report"},
		{Company: "Beta", Document: "memo"},
	}, docs)
}
