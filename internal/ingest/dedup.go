package ingest

import (
	"context"

	"go.uber.org/zap"

	"docqa/internal/vectorstore"
)

// DuplicateChecker decides whether content with a given fingerprint is
// already stored.
type DuplicateChecker struct {
	store  vectorstore.Store
	logger *zap.Logger
}

func NewDuplicateChecker(store vectorstore.Store, logger *zap.Logger) *DuplicateChecker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DuplicateChecker{store: store, logger: logger}
}

// Exists queries the store by fingerprint, limit 1. A backend failure is
// logged and reported as "not yet processed": re-ingesting a document is
// recoverable, silently skipping one is not.
func (c *DuplicateChecker) Exists(ctx context.Context, fingerprint string) bool {
	passages, err := c.store.GetWhere(ctx, "document_hash", fingerprint, 1)
	if err != nil {
		c.logger.Warn("duplicate check failed, treating document as new",
			zap.String("fingerprint", shortHash(fingerprint)),
			zap.Error(err),
		)
		return false
	}
	return len(passages) > 0
}

// shortHash truncates a fingerprint for log lines.
func shortHash(h string) string {
	if len(h) > 16 {
		return h[:16]
	}
	return h
}
