package vectorstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"docqa/internal/config"
)

// New builds the configured store backend.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Store, error) {
	switch cfg.VectorBackend {
	case "chromem":
		return NewChromemStore(ChromemConfig{
			Path:       cfg.ChromaPath,
			Collection: cfg.CollectionName,
			Dimension:  cfg.EmbedDim,
		}, logger)
	case "pgvector":
		return NewPgvectorStore(ctx, PgvectorConfig{
			DatabaseURL: cfg.DatabaseURL,
			Collection:  cfg.CollectionName,
			Dimension:   cfg.EmbedDim,
		}, logger)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}
