package vectorstore

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"hybrid-rag/internal/models"
)

// ErrNoStoreForRequest is returned when Search runs before Put or after Release.
var ErrNoStoreForRequest = errors.New("no vector store for request")

// Store maps request identifiers to their vector records. Each request only
// touches its own key, so a single RWMutex over the map is all the locking
// needed across concurrent requests.
type Store struct {
	mu        sync.RWMutex
	byRequest map[string][]models.VectorRecord
}

func New() *Store {
	return &Store{byRequest: make(map[string][]models.VectorRecord)}
}

// Put stores the records for a request, replacing any previous set.
func (s *Store) Put(requestID string, records []models.VectorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRequest[requestID] = records
}

// Search returns the topK records most similar to the query vector,
// descending by cosine score, ties broken by insertion order.
func (s *Store) Search(requestID string, query []float32, topK int) ([]models.RankedChunk, error) {
	s.mu.RLock()
	records, ok := s.byRequest[requestID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoStoreForRequest, requestID)
	}

	ranked, err := Rank(query, records)
	if err != nil {
		return nil, err
	}
	if topK < len(ranked) {
		ranked = ranked[:topK]
	}
	return ranked, nil
}

// Release discards the request's records. It is idempotent and must run on
// every exit path so memory stays bounded by the in-flight request set.
func (s *Store) Release(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byRequest, requestID)
}

// Rank scores every record against the query vector and sorts descending.
// The sort is stable so equal scores keep their insertion order.
func Rank(query []float32, records []models.VectorRecord) ([]models.RankedChunk, error) {
	ranked := make([]models.RankedChunk, 0, len(records))
	for i, rec := range records {
		score, err := Cosine(query, rec.Embedding)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		ranked = append(ranked, models.RankedChunk{Text: rec.Text, Score: score})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked, nil
}

// Cosine returns the cosine similarity of a and b. A zero-norm vector carries
// no direction, so its similarity is 0 rather than an error; a dimensionality
// mismatch is an error because the comparison is meaningless.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
