package query

import (
	"fmt"
	"sort"
	"strings"

	"docqa/internal/models"
)

// AssembleCitations reduces reranked candidates to the source list shown to
// the user. Candidates citing the same (document, page) pair collapse to the
// first occurrence, the survivors are ordered by score descending, and the
// list is cut at maxSources.
func AssembleCitations(candidates []models.RetrievalCandidate, maxSources int) []models.CitationEntry {
	type key struct {
		document string
		page     int
	}

	seen := make(map[key]struct{}, len(candidates))
	entries := make([]models.CitationEntry, 0, len(candidates))
	for _, c := range candidates {
		k := key{document: c.Passage.DocumentName, page: c.Passage.PageNumber}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		entries = append(entries, models.CitationEntry{
			CompanyName:  c.Passage.CompanyName,
			DocumentName: c.Passage.DocumentName,
			PageNumber:   c.Passage.PageNumber,
			Score:        c.Score,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})

	if maxSources >= 0 && len(entries) > maxSources {
		entries = entries[:maxSources]
	}
	return entries
}

// RenderCitations formats entries as a numbered source block, or returns the
// empty string when there is nothing to cite.
func RenderCitations(entries []models.CitationEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nSources:\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s - %s, Page %d\n", i+1, e.CompanyName, e.DocumentName, e.PageNumber)
	}
	return strings.TrimRight(b.String(), "\n")
}

// CitationLines returns the rendered entries without the header, one string
// per source, for structured API responses.
func CitationLines(entries []models.CitationEntry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%d. %s - %s, Page %d", i+1, e.CompanyName, e.DocumentName, e.PageNumber)
	}
	return lines
}
