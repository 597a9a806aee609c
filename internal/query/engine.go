package query

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"docqa/internal/llm"
	"docqa/internal/models"
	"docqa/internal/reranker"
	"docqa/internal/vectorstore"
)

// NoAnswerResponse is returned verbatim when the retrieved context does not
// contain the answer. Citation assembly keys off this exact string.
const NoAnswerResponse = "I'm sorry, but this information is not present in the uploaded documents."

const systemPrompt = `You are a virtual assistant that answers questions using ONLY the provided document context.

STRICT RULES:
1. Answer ONLY from the context below. Do not use any outside knowledge.
2. If the context does not contain the answer, respond EXACTLY with: "` + NoAnswerResponse + `"
3. Never invent, assume, or extrapolate information that is not in the context.
4. When the context contains tables, analyze them line by line before answering.`

// Options are the per-request retrieval knobs. Zero values fall back to the
// engine's configured defaults.
type Options struct {
	SimilarityTopK int
	RerankTopN     int
	MaxSources     int
}

// Answer is the full result of one query.
type Answer struct {
	Response  string
	Sources   []string
	Citations []models.CitationEntry
}

// Engine runs the retrieve, rerank, generate sequence over the vector store.
type Engine struct {
	store    vectorstore.Store
	embedder llm.EmbeddingProvider
	reranker reranker.Reranker
	provider llm.Provider
	defaults Options
	logger   *zap.Logger
}

func NewEngine(store vectorstore.Store, embedder llm.EmbeddingProvider, rr reranker.Reranker, provider llm.Provider, defaults Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:    store,
		embedder: embedder,
		reranker: rr,
		provider: provider,
		defaults: defaults,
		logger:   logger,
	}
}

// Query answers a question against the ingested documents.
func (e *Engine) Query(ctx context.Context, question string, opts Options) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	opts = e.fill(opts)

	candidates, err := e.retrieve(ctx, question, opts.SimilarityTopK)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		e.logger.Info("no passages retrieved", zap.String("query", question))
		return &Answer{Response: NoAnswerResponse, Sources: []string{}}, nil
	}

	ranked, err := e.rerank(ctx, question, candidates, opts.RerankTopN)
	if err != nil {
		return nil, err
	}

	response, err := e.provider.Generate(ctx, systemPrompt, buildUserPrompt(question, ranked))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}
	response = strings.TrimSpace(response)

	answer := &Answer{Response: response, Sources: []string{}}
	if response != NoAnswerResponse {
		answer.Citations = AssembleCitations(ranked, opts.MaxSources)
		answer.Sources = CitationLines(answer.Citations)
	}

	e.logger.Info("query answered",
		zap.Int("retrieved", len(candidates)),
		zap.Int("reranked", len(ranked)),
		zap.Int("sources", len(answer.Sources)),
	)
	return answer, nil
}

func (e *Engine) fill(opts Options) Options {
	if opts.SimilarityTopK <= 0 {
		opts.SimilarityTopK = e.defaults.SimilarityTopK
	}
	if opts.RerankTopN <= 0 {
		opts.RerankTopN = e.defaults.RerankTopN
	}
	if opts.MaxSources <= 0 {
		opts.MaxSources = e.defaults.MaxSources
	}
	return opts
}

func (e *Engine) retrieve(ctx context.Context, question string, topK int) ([]models.RetrievalCandidate, error) {
	embedding, err := e.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	candidates, err := e.store.Query(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return candidates, nil
}

// rerank rescopes the ANN candidates with the cross-checking reranker and
// keeps the topN best. Ties keep retrieval order.
func (e *Engine) rerank(ctx context.Context, question string, candidates []models.RetrievalCandidate, topN int) ([]models.RetrievalCandidate, error) {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Passage.Text
	}
	scores, err := e.reranker.Score(ctx, question, texts)
	if err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}
	if len(scores) != len(candidates) {
		return nil, fmt.Errorf("rerank: got %d scores for %d passages", len(scores), len(candidates))
	}

	ranked := make([]models.RetrievalCandidate, len(candidates))
	for i := range candidates {
		ranked[i] = candidates[i]
		ranked[i].Score = scores[i]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked, nil
}

func buildUserPrompt(question string, ranked []models.RetrievalCandidate) string {
	var b strings.Builder
	b.WriteString("Context:\n\n")
	for i, c := range ranked {
		fmt.Fprintf(&b, "[Passage %d] %s - %s", i+1, c.Passage.CompanyName, c.Passage.DocumentName)
		if c.Passage.PageNumber > 0 {
			fmt.Fprintf(&b, ", Page %d", c.Passage.PageNumber)
		}
		b.WriteString("\n")
		b.WriteString(c.Passage.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}
