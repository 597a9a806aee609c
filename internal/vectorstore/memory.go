package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"docqa/internal/models"
)

// MemoryStore keeps records in process memory. It backs tests and throwaway
// runs; nothing survives a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.VectorRecord
	byID    map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

func (s *MemoryStore) Add(ctx context.Context, records []models.VectorRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if idx, ok := s.byID[rec.Passage.ID]; ok {
			s.records[idx] = rec
			continue
		}
		s.byID[rec.Passage.ID] = len(s.records)
		s.records = append(s.records, rec)
	}
	return nil
}

func (s *MemoryStore) GetWhere(ctx context.Context, field, value string, limit int) ([]models.Passage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Passage
	for _, rec := range s.records {
		if rec.Passage.Metadata()[field] == value {
			out = append(out, rec.Passage)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (s *MemoryStore) Query(ctx context.Context, embedding []float32, topK int) ([]models.RetrievalCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := make([]models.RetrievalCandidate, 0, len(s.records))
	for _, rec := range s.records {
		candidates = append(candidates, models.RetrievalCandidate{
			Passage: rec.Passage,
			Score:   cosine(embedding, rec.Embedding),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates, nil
}

func (s *MemoryStore) ListDocuments(ctx context.Context) ([]models.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[models.DocumentInfo]struct{})
	var out []models.DocumentInfo
	for _, rec := range s.records {
		info := models.DocumentInfo{Company: rec.Passage.CompanyName, Document: rec.Passage.DocumentName}
		if _, ok := seen[info]; ok {
			continue
		}
		seen[info] = struct{}{}
		out = append(out, info)
	}
	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func (s *MemoryStore) Close() error { return nil }

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
