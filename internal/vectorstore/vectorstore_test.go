package vectorstore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hybrid-rag/internal/models"
)

// unit returns the unit vector at angle theta, so its cosine against (1,0)
// is exactly cos(theta).
func unit(cosine float64) []float32 {
	sine := math.Sqrt(1 - cosine*cosine)
	return []float32{float32(cosine), float32(sine)}
}

func TestCosine(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5}
	neg := []float32{-0.3, 1.2, -4.5}

	self, err := Cosine(v, v)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, self, 1e-6)

	opposite, err := Cosine(v, neg)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, opposite, 1e-6)

	ab, err := Cosine(v, []float32{1, 0, 0})
	require.NoError(t, err)
	ba, err := Cosine([]float32{1, 0, 0}, v)
	require.NoError(t, err)
	assert.InDelta(t, ab, ba, 1e-9)
}

func TestCosineZeroVector(t *testing.T) {
	score, err := Cosine([]float32{0, 0, 0}, []float32{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestCosineDimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})
	assert.Error(t, err)
}

func TestRankOrdering(t *testing.T) {
	query := []float32{1, 0}
	records := []models.VectorRecord{
		{Text: "high", Embedding: unit(0.9)},
		{Text: "low", Embedding: unit(0.1)},
		{Text: "mid", Embedding: unit(0.5)},
	}

	ranked, err := Rank(query, records)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].Text)
	assert.Equal(t, "mid", ranked[1].Text)
	assert.Equal(t, "low", ranked[2].Text)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}
}

func TestRankStableTies(t *testing.T) {
	query := []float32{1, 0}
	records := []models.VectorRecord{
		{Text: "first", Embedding: unit(0.5)},
		{Text: "second", Embedding: unit(0.5)},
	}

	ranked, err := Rank(query, records)
	require.NoError(t, err)
	assert.Equal(t, "first", ranked[0].Text)
	assert.Equal(t, "second", ranked[1].Text)
}

func TestSearchTopK(t *testing.T) {
	s := New()
	s.Put("req", []models.VectorRecord{
		{Text: "high", Embedding: unit(0.9)},
		{Text: "low", Embedding: unit(0.1)},
		{Text: "mid", Embedding: unit(0.5)},
	})

	ranked, err := s.Search("req", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "high", ranked[0].Text)
	assert.Equal(t, "mid", ranked[1].Text)
}

func TestSearchWithoutPut(t *testing.T) {
	s := New()
	_, err := s.Search("missing", []float32{1, 0}, 3)
	assert.ErrorIs(t, err, ErrNoStoreForRequest)
}

func TestReleaseLifecycle(t *testing.T) {
	s := New()
	s.Put("req", []models.VectorRecord{{Text: "a", Embedding: unit(0.5)}})

	_, err := s.Search("req", []float32{1, 0}, 1)
	require.NoError(t, err)

	s.Release("req")
	_, err = s.Search("req", []float32{1, 0}, 1)
	assert.ErrorIs(t, err, ErrNoStoreForRequest)

	// idempotent
	s.Release("req")
}

func TestPutOverwrites(t *testing.T) {
	s := New()
	s.Put("req", []models.VectorRecord{{Text: "old", Embedding: unit(0.5)}})
	s.Put("req", []models.VectorRecord{{Text: "new", Embedding: unit(0.5)}})

	ranked, err := s.Search("req", []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "new", ranked[0].Text)
}

func TestRequestsAreIsolated(t *testing.T) {
	s := New()
	s.Put("a", []models.VectorRecord{{Text: "doc-a", Embedding: unit(0.5)}})
	s.Put("b", []models.VectorRecord{{Text: "doc-b", Embedding: unit(0.5)}})
	s.Release("a")

	ranked, err := s.Search("b", []float32{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, "doc-b", ranked[0].Text)
}
