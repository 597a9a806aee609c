// Package ingest implements the deduplicated ingestion pipeline:
// hash, duplicate check, parse, chunk, embed, store.
package ingest

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"docqa/internal/chunking"
	"docqa/internal/hashing"
	"docqa/internal/llm"
	"docqa/internal/models"
	"docqa/internal/parsing"
	"docqa/internal/vectorstore"
)

// Result reports what one ingestion attempt did.
type Result struct {
	Skipped     bool
	Passages    int
	Fingerprint string
}

// Pipeline runs the fixed ingestion sequence for a single document. Failures
// in parsing, chunking or storage propagate to the caller; there is no
// rollback of partially written passages.
type Pipeline struct {
	store     vectorstore.Store
	parsers   *parsing.Registry
	segmenter *chunking.Segmenter
	embedder  llm.EmbeddingProvider
	dedup     *DuplicateChecker
	algorithm string
	logger    *zap.Logger

	// fpLocks serializes the duplicate-check-then-write window per
	// fingerprint, so concurrent ingestions of identical content cannot
	// both conclude "new" and both write.
	fpLocks sync.Map
}

func NewPipeline(
	store vectorstore.Store,
	parsers *parsing.Registry,
	segmenter *chunking.Segmenter,
	embedder llm.EmbeddingProvider,
	algorithm string,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if algorithm == "" {
		algorithm = hashing.DefaultAlgorithm
	}
	return &Pipeline{
		store:     store,
		parsers:   parsers,
		segmenter: segmenter,
		embedder:  embedder,
		dedup:     NewDuplicateChecker(store, logger),
		algorithm: algorithm,
		logger:    logger,
	}
}

// Ingest processes one file. The skip key is content only: identical bytes
// ingested again under different company/document labels are skipped and the
// stored labels stay as they were (known limitation, kept deliberately).
func (p *Pipeline) Ingest(ctx context.Context, path, company, document string) (Result, error) {
	fingerprint, err := hashing.Hash(path, p.algorithm)
	if err != nil {
		return Result{}, err
	}

	unlock := p.lockFingerprint(fingerprint)
	defer unlock()

	if p.dedup.Exists(ctx, fingerprint) {
		p.logger.Info("document already ingested, skipping",
			zap.String("document", document),
			zap.String("fingerprint", shortHash(fingerprint)),
		)
		return Result{Skipped: true, Fingerprint: fingerprint}, nil
	}

	doc, err := p.parsers.Parse(path)
	if err != nil {
		return Result{}, err
	}

	segments := p.segmenter.Segment(doc)
	passages := chunking.FromSegments(segments, company, document, fingerprint)
	if len(passages) == 0 {
		p.logger.Warn("document yielded no passages", zap.String("document", document))
		return Result{Fingerprint: fingerprint}, nil
	}

	texts := make([]string, len(passages))
	for i, passage := range passages {
		texts[i] = passage.Text
	}
	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return Result{}, fmt.Errorf("embed passages: %w", err)
	}
	if len(embeddings) != len(passages) {
		return Result{}, fmt.Errorf("embedder returned %d vectors for %d passages", len(embeddings), len(passages))
	}

	records := make([]models.VectorRecord, len(passages))
	for i := range passages {
		records[i] = models.VectorRecord{Passage: passages[i], Embedding: embeddings[i]}
	}
	if err := p.store.Add(ctx, records); err != nil {
		return Result{}, fmt.Errorf("store passages: %w", err)
	}

	p.logger.Info("document ingested",
		zap.String("document", document),
		zap.String("company", company),
		zap.Int("passages", len(passages)),
		zap.String("fingerprint", shortHash(fingerprint)),
	)
	return Result{Passages: len(passages), Fingerprint: fingerprint}, nil
}

// lockFingerprint acquires the per-fingerprint mutex, creating it on first
// use, and returns the release func.
func (p *Pipeline) lockFingerprint(fingerprint string) func() {
	v, _ := p.fpLocks.LoadOrStore(fingerprint, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
