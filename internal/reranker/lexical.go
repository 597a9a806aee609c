package reranker

import (
	"context"
	"strings"
	"unicode"
)

// LexicalReranker scores by term overlap between query and passage. It is
// the zero-dependency default; a cross-encoder service (see HTTPReranker)
// gives better ordering when available.
type LexicalReranker struct{}

func NewLexicalReranker() *LexicalReranker {
	return &LexicalReranker{}
}

// Score returns, per passage, the fraction of query terms present in the
// passage. Passages sharing more query vocabulary score higher.
func (r *LexicalReranker) Score(ctx context.Context, query string, passages []string) ([]float64, error) {
	queryTerms := tokenize(query)
	scores := make([]float64, len(passages))
	if len(queryTerms) == 0 {
		return scores, nil
	}

	querySet := make(map[string]struct{}, len(queryTerms))
	for _, t := range queryTerms {
		querySet[t] = struct{}{}
	}

	for i, passage := range passages {
		seen := make(map[string]struct{})
		for _, t := range tokenize(passage) {
			if _, ok := querySet[t]; ok {
				seen[t] = struct{}{}
			}
		}
		scores[i] = float64(len(seen)) / float64(len(querySet))
	}
	return scores, nil
}

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "was": {}, "but": {},
	"not": {}, "with": {}, "that": {}, "this": {}, "from": {}, "what": {},
	"which": {}, "their": {}, "have": {}, "has": {}, "had": {},
}

// tokenize lowercases and splits on non-alphanumerics, dropping stopwords
// and tokens shorter than three runes.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

var _ Reranker = (*LexicalReranker)(nil)
