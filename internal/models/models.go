package models

import (
	"fmt"
	"strconv"
	"time"
)

// Passage is one retrievable unit of document text plus its provenance
// metadata. Passages are immutable once stored; re-processing a document
// creates a fresh set rather than updating in place.
type Passage struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	CompanyName  string    `json:"company_name"`
	DocumentName string    `json:"document_name"`
	DocumentHash string    `json:"document_hash"`
	PageNumber   int       `json:"page_number"` // 1-based; 0 when the source carried no page
	ChunkIndex   int       `json:"chunk_index"` // 0-based, contiguous within one ingestion
	Section      string    `json:"section"`     // comma-joined heading path, possibly empty
	ProcessedAt  time.Time `json:"processed_at"`
}

// PassageID builds the deterministic identifier for a chunk. It embeds the
// content fingerprint, so identical content yields identical IDs across runs.
func PassageID(company, document, documentHash string, index int) string {
	prefix := documentHash
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("%s_%s_%s_%d", company, document, prefix, index)
}

// Metadata renders the passage provenance as a flat string map, the shape the
// vector store persists alongside the embedding.
func (p *Passage) Metadata() map[string]string {
	return map[string]string{
		"company_name":  p.CompanyName,
		"document_name": p.DocumentName,
		"document_hash": p.DocumentHash,
		"page_number":   strconv.Itoa(p.PageNumber),
		"chunk_index":   strconv.Itoa(p.ChunkIndex),
		"section":       p.Section,
		"processed_at":  p.ProcessedAt.Format(time.RFC3339),
	}
}

// PassageFromMetadata rebuilds a passage from stored id, text and metadata.
func PassageFromMetadata(id, text string, meta map[string]string) Passage {
	p := Passage{ID: id, Text: text}
	p.CompanyName = meta["company_name"]
	p.DocumentName = meta["document_name"]
	p.DocumentHash = meta["document_hash"]
	p.Section = meta["section"]
	p.PageNumber, _ = strconv.Atoi(meta["page_number"])
	p.ChunkIndex, _ = strconv.Atoi(meta["chunk_index"])
	if ts, err := time.Parse(time.RFC3339, meta["processed_at"]); err == nil {
		p.ProcessedAt = ts
	}
	return p
}

// VectorRecord is a passage paired with its embedding, owned by the storage
// layer once written.
type VectorRecord struct {
	Passage   Passage
	Embedding []float32
}

// RetrievalCandidate is a transient (passage, relevance score) pair produced
// per query. Higher scores are more relevant; scores are only comparable
// within a single query's candidate set.
type RetrievalCandidate struct {
	Passage Passage
	Score   float64
}

// CitationEntry is one unique (document, page) source observed among the top
// candidates for a query, carrying the best score seen for that pair.
type CitationEntry struct {
	CompanyName  string
	DocumentName string
	PageNumber   int
	Score        float64
}

// Outcome classifies the result of ingesting one document.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// BatchSummary aggregates per-document outcomes of a batch run.
type BatchSummary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// ItemReport preserves the per-item outcome and error message for reporting.
type ItemReport struct {
	Path         string  `json:"path"`
	CompanyName  string  `json:"company_name"`
	DocumentName string  `json:"document_name"`
	Outcome      Outcome `json:"outcome"`
	Error        string  `json:"error,omitempty"`
}

// DocumentInfo identifies one stored document by its labels.
type DocumentInfo struct {
	Company  string `json:"company"`
	Document string `json:"document"`
}
