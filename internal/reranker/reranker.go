// Package reranker scores retrieved passages against a query for the second
// retrieval stage. Scores are only comparable within one call.
package reranker

import "context"

// Reranker assigns a relevance score to each passage text, in input order.
// Higher is more relevant.
type Reranker interface {
	Score(ctx context.Context, query string, passages []string) ([]float64, error)
}
