package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/models"
)

func candidate(company, document string, page int, score float64) models.RetrievalCandidate {
	return models.RetrievalCandidate{
		Passage: models.Passage{
			CompanyName:  company,
			DocumentName: document,
			PageNumber:   page,
		},
		Score: score,
	}
}

func TestAssembleCitationsDeduplicatesByDocumentAndPage(t *testing.T) {
	candidates := []models.RetrievalCandidate{
		candidate("Acme", "report_a", 1, 0.9),
		candidate("Acme", "report_a", 1, 0.5),
		candidate("Acme", "report_b", 2, 0.7),
	}

	entries := AssembleCitations(candidates, 3)
	require.Len(t, entries, 2)
	assert.Equal(t, "report_a", entries[0].DocumentName)
	assert.Equal(t, 1, entries[0].PageNumber)
	assert.Equal(t, 0.9, entries[0].Score)
	assert.Equal(t, "report_b", entries[1].DocumentName)
}

func TestAssembleCitationsFirstOccurrenceWins(t *testing.T) {
	// lower-scored duplicate first: the first occurrence is kept, and the
	// final order still follows score
	candidates := []models.RetrievalCandidate{
		candidate("Acme", "report_a", 1, 0.5),
		candidate("Acme", "report_a", 1, 0.9),
		candidate("Acme", "report_b", 2, 0.7),
	}

	entries := AssembleCitations(candidates, 3)
	require.Len(t, entries, 2)
	assert.Equal(t, "report_b", entries[0].DocumentName)
	assert.Equal(t, 0.7, entries[0].Score)
	assert.Equal(t, "report_a", entries[1].DocumentName)
	assert.Equal(t, 0.5, entries[1].Score)
}

func TestAssembleCitationsSamePageDifferentDocuments(t *testing.T) {
	candidates := []models.RetrievalCandidate{
		candidate("Acme", "report_a", 3, 0.8),
		candidate("Acme", "report_b", 3, 0.6),
	}
	entries := AssembleCitations(candidates, 5)
	assert.Len(t, entries, 2)
}

func TestAssembleCitationsTruncates(t *testing.T) {
	candidates := []models.RetrievalCandidate{
		candidate("Acme", "a", 1, 0.9),
		candidate("Acme", "b", 1, 0.8),
		candidate("Acme", "c", 1, 0.7),
		candidate("Acme", "d", 1, 0.6),
	}

	entries := AssembleCitations(candidates, 2)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].DocumentName)
	assert.Equal(t, "b", entries[1].DocumentName)
}

func TestAssembleCitationsStableOnTies(t *testing.T) {
	candidates := []models.RetrievalCandidate{
		candidate("Acme", "first", 1, 0.5),
		candidate("Acme", "second", 2, 0.5),
	}

	entries := AssembleCitations(candidates, 5)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].DocumentName)
	assert.Equal(t, "second", entries[1].DocumentName)
}

func TestRenderCitations(t *testing.T) {
	entries := []models.CitationEntry{
		{CompanyName: "Acme", DocumentName: "annual_report", PageNumber: 12},
		{CompanyName: "Beta", DocumentName: "memo", PageNumber: 3},
	}

	got := RenderCitations(entries)
	want := "\n\nSources:\n" +
		"1. Acme - annual_report, Page 12\n" +
		"2. Beta - memo, Page 3"
	assert.Equal(t, want, got)
}

func TestRenderCitationsEmpty(t *testing.T) {
	assert.Equal(t, "", RenderCitations(nil))
}

func TestCitationLines(t *testing.T) {
	entries := []models.CitationEntry{
		{CompanyName: "Acme", DocumentName: "report", PageNumber: 1},
	}
	assert.Equal(t, []string{"1. Acme - report, Page 1"}, CitationLines(entries))
}
