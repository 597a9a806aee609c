package chunking

import (
	"strings"
	"time"

	"docqa/internal/models"
	"docqa/internal/parsing"
)

// timeNow is swapped in tests to pin processed_at stamps.
var timeNow = time.Now

// Chunker assigns identity and provenance metadata to segments. Segmentation
// itself is the Segmenter's job; this layer only enriches.
type Chunker struct {
	segmenter *Segmenter
}

func NewChunker(segmenter *Segmenter) *Chunker {
	return &Chunker{segmenter: segmenter}
}

// Chunk turns a document's segments into passages. Indices are contiguous
// from 0 in emission order; the heading path is joined with ", "; segments
// with empty text pass through untouched. Passage IDs embed the document
// fingerprint, which is what makes re-ingestion of identical content
// idempotent at the store level.
func (c *Chunker) Chunk(doc *parsing.Document, company, document, documentHash string) []models.Passage {
	segments := c.segmenter.Segment(doc)
	return FromSegments(segments, company, document, documentHash)
}

// FromSegments enriches an already-segmented sequence. Split out so the
// pipeline and tests can feed segments directly.
func FromSegments(segments []Segment, company, document, documentHash string) []models.Passage {
	now := timeNow()
	passages := make([]models.Passage, 0, len(segments))
	for i, seg := range segments {
		passages = append(passages, models.Passage{
			ID:           models.PassageID(company, document, documentHash, i),
			Text:         seg.Text,
			CompanyName:  company,
			DocumentName: document,
			DocumentHash: documentHash,
			PageNumber:   seg.Page,
			ChunkIndex:   i,
			Section:      strings.Join(seg.Headings, ", "),
			ProcessedAt:  now,
		})
	}
	return passages
}
