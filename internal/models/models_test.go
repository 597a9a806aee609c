package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPassageID(t *testing.T) {
	id := PassageID("Acme", "annual_report", "0123456789abcdef", 4)
	assert.Equal(t, "Acme_annual_report_01234567_4", id)
}

func TestPassageIDShortHash(t *testing.T) {
	id := PassageID("Acme", "doc", "abc", 0)
	assert.Equal(t, "Acme_doc_abc_0", id)
}

func TestMetadataRoundTrip(t *testing.T) {
	p := Passage{
		ID:           "Acme_report_01234567_2",
		Text:         "revenue grew",
		CompanyName:  "Acme",
		DocumentName: "report",
		DocumentHash: "0123456789abcdef",
		PageNumber:   7,
		ChunkIndex:   2,
		Section:      "Financials, Revenue",
		ProcessedAt:  time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	got := PassageFromMetadata(p.ID, p.Text, p.Metadata())
	assert.Equal(t, p, got)
}
