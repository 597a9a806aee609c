package reranker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalScoreOrdersByOverlap(t *testing.T) {
	r := NewLexicalReranker()
	scores, err := r.Score(context.Background(), "annual revenue growth", []string{
		"revenue growth accelerated in the annual results",
		"revenue stayed flat",
		"weather was pleasant",
	})
	require.NoError(t, err)
	require.Len(t, scores, 3)

	assert.Greater(t, scores[0], scores[1])
	assert.Greater(t, scores[1], scores[2])
	assert.Equal(t, 0.0, scores[2])
}

func TestLexicalScoreFullOverlap(t *testing.T) {
	r := NewLexicalReranker()
	scores, err := r.Score(context.Background(), "quarterly earnings", []string{
		"quarterly earnings were strong",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, scores[0])
}

func TestLexicalScoreCaseInsensitive(t *testing.T) {
	r := NewLexicalReranker()
	scores, err := r.Score(context.Background(), "REVENUE", []string{"revenue up"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, scores[0])
}

func TestLexicalScoreEmptyQuery(t *testing.T) {
	r := NewLexicalReranker()
	scores, err := r.Score(context.Background(), "of an it", []string{"anything"})
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 0.0, scores[0])
}

func TestLexicalScoreNoPassages(t *testing.T) {
	r := NewLexicalReranker()
	scores, err := r.Score(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}
