package reranker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPReranker calls an external cross-encoder scoring service. The service
// accepts {query, passages} and returns {scores} aligned with the input.
type HTTPReranker struct {
	url    string
	client *http.Client
}

func NewHTTPReranker(url string) *HTTPReranker {
	return &HTTPReranker{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *HTTPReranker) Score(ctx context.Context, query string, passages []string) ([]float64, error) {
	if len(passages) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(map[string]any{
		"query":    query,
		"passages": passages,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("rerank error %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode rerank response: %w", err)
	}
	if len(parsed.Scores) != len(passages) {
		return nil, fmt.Errorf("rerank returned %d scores for %d passages", len(parsed.Scores), len(passages))
	}
	return parsed.Scores, nil
}

var _ Reranker = (*HTTPReranker)(nil)
