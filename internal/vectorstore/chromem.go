package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"os"

	chromem "github.com/philippgille/chromem-go"
	"go.uber.org/zap"

	"docqa/internal/models"
)

// ChromemConfig holds configuration for the embedded chromem-go backend.
type ChromemConfig struct {
	// Path is the directory for persistent storage.
	Path string
	// Collection is the collection name within the database.
	Collection string
	// Dimension is the embedding dimension; the probe vector used for
	// metadata lookups needs it.
	Dimension int
}

// ChromemStore is the default backend: an embedded vector database persisted
// under a configured path, one named collection, no external service.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	dimension  int
	logger     *zap.Logger
}

func NewChromemStore(cfg ChromemConfig, logger *zap.Logger) (*ChromemStore, error) {
	if cfg.Dimension <= 0 {
		return nil, errors.New("chromem: dimension must be positive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
	}

	db, err := chromem.NewPersistentDB(cfg.Path, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db at %s: %w", cfg.Path, err)
	}

	// All embeddings are computed upstream, so the collection's embedding
	// function must never run.
	embedFn := func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("chromem: embeddings are precomputed")
	}
	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embedFn)
	if err != nil {
		return nil, fmt.Errorf("get/create collection %s: %w", cfg.Collection, err)
	}

	logger.Info("chromem store ready",
		zap.String("path", cfg.Path),
		zap.String("collection", cfg.Collection),
		zap.Int("dimension", cfg.Dimension),
	)
	return &ChromemStore{db: db, collection: collection, dimension: cfg.Dimension, logger: logger}, nil
}

func (s *ChromemStore) Add(ctx context.Context, records []models.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		docs[i] = chromem.Document{
			ID:        rec.Passage.ID,
			Content:   rec.Passage.Text,
			Metadata:  rec.Passage.Metadata(),
			Embedding: rec.Embedding,
		}
	}
	// Concurrency 1: embeddings are already present, nothing to parallelize.
	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("%w: add documents: %v", ErrBackendUnavailable, err)
	}
	return nil
}

func (s *ChromemStore) GetWhere(ctx context.Context, field, value string, limit int) ([]models.Passage, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > count {
		limit = count
	}
	results, err := s.collection.QueryEmbedding(ctx, s.probe(), limit, map[string]string{field: value}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: filtered get: %v", ErrBackendUnavailable, err)
	}
	passages := make([]models.Passage, 0, len(results))
	for _, r := range results {
		passages = append(passages, models.PassageFromMetadata(r.ID, r.Content, r.Metadata))
	}
	return passages, nil
}

func (s *ChromemStore) Query(ctx context.Context, embedding []float32, topK int) ([]models.RetrievalCandidate, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if topK <= 0 || topK > count {
		topK = count
	}
	results, err := s.collection.QueryEmbedding(ctx, embedding, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrBackendUnavailable, err)
	}
	candidates := make([]models.RetrievalCandidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, models.RetrievalCandidate{
			Passage: models.PassageFromMetadata(r.ID, r.Content, r.Metadata),
			Score:   float64(r.Similarity),
		})
	}
	return candidates, nil
}

func (s *ChromemStore) ListDocuments(ctx context.Context) ([]models.DocumentInfo, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem has no metadata scan, so enumerate the whole collection
	// through a fixed probe vector.
	results, err := s.collection.QueryEmbedding(ctx, s.probe(), count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: list documents: %v", ErrBackendUnavailable, err)
	}
	seen := make(map[models.DocumentInfo]struct{})
	var out []models.DocumentInfo
	for _, r := range results {
		info := models.DocumentInfo{
			Company:  r.Metadata["company_name"],
			Document: r.Metadata["document_name"],
		}
		if _, ok := seen[info]; ok {
			continue
		}
		seen[info] = struct{}{}
		out = append(out, info)
	}
	return out, nil
}

func (s *ChromemStore) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

func (s *ChromemStore) Close() error { return nil }

// probe is a fixed unit vector for lookups where similarity does not matter.
func (s *ChromemStore) probe() []float32 {
	v := make([]float32, s.dimension)
	v[0] = 1
	return v
}
