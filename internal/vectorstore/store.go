// Package vectorstore abstracts the persisted passage collection. A Store
// holds exactly one named collection of vector records; there is no other
// persisted state in the system.
package vectorstore

import (
	"context"
	"errors"

	"docqa/internal/models"
)

// ErrBackendUnavailable wraps storage backend failures so callers can
// distinguish them from bad input.
var ErrBackendUnavailable = errors.New("vector store unavailable")

// Store is the capability surface the ingestion and query pipelines need:
// upsert by identifier, filtered-equality lookup, and nearest-neighbour
// search.
type Store interface {
	// Add persists records under their passage IDs. Re-adding an existing
	// ID must not create a second record.
	Add(ctx context.Context, records []models.VectorRecord) error

	// GetWhere returns up to limit passages whose metadata field equals
	// value. Used by the duplicate check with field "document_hash".
	GetWhere(ctx context.Context, field, value string, limit int) ([]models.Passage, error)

	// Query returns the topK most similar passages to the embedding,
	// best first.
	Query(ctx context.Context, embedding []float32, topK int) ([]models.RetrievalCandidate, error)

	// ListDocuments returns the unique (company, document) pairs stored.
	ListDocuments(ctx context.Context) ([]models.DocumentInfo, error)

	// Count reports the number of stored passages.
	Count(ctx context.Context) (int, error)

	Close() error
}
