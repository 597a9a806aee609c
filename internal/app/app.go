package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"docqa/internal/chunking"
	"docqa/internal/config"
	"docqa/internal/ingest"
	"docqa/internal/llm"
	"docqa/internal/parsing"
	"docqa/internal/query"
	"docqa/internal/reranker"
	"docqa/internal/vectorstore"
)

// App owns every long-lived component and wires them together.
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	Store        vectorstore.Store
	Pipeline     *ingest.Pipeline
	Orchestrator *ingest.Orchestrator
	Engine       *query.Engine
	Server       *Server
}

func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := vectorstore.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}
	logger.Info("vector store ready", zap.String("backend", cfg.VectorBackend))

	embedder, err := llm.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	var rr reranker.Reranker
	if cfg.RerankerURL != "" {
		rr = reranker.NewHTTPReranker(cfg.RerankerURL)
	} else {
		rr = reranker.NewLexicalReranker()
	}

	parsers := parsing.NewRegistry()
	segmenter := chunking.NewSegmenter(chunking.SegmenterConfig{
		MaxTokens:  cfg.MaxTokensPerChunk,
		MergePeers: cfg.MergePeers,
	})

	pipeline := ingest.NewPipeline(store, parsers, segmenter, embedder, cfg.HashAlgorithm, logger)
	orchestrator := ingest.NewOrchestrator(pipeline, cfg.IngestConcurrency, logger)

	engine := query.NewEngine(store, embedder, rr, provider, query.Options{
		SimilarityTopK: cfg.SimilarityTopK,
		RerankTopN:     cfg.RerankTopN,
		MaxSources:     cfg.MaxSources,
	}, logger)

	a := &App{
		Config:       cfg,
		Logger:       logger,
		Store:        store,
		Pipeline:     pipeline,
		Orchestrator: orchestrator,
		Engine:       engine,
	}
	a.Server = NewServer(cfg, store, orchestrator, engine, logger)
	return a, nil
}

func newProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "gemini":
		return llm.NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.GenModel)
	case "groq":
		return llm.NewGroqLLM(cfg.GroqAPIKey, cfg.GroqModel)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func (a *App) Close() {
	if a.Store != nil {
		_ = a.Store.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
