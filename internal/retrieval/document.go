package retrieval

import (
	"context"
	"strings"

	"hybrid-rag/internal/embedding"
	"hybrid-rag/internal/models"
	"hybrid-rag/internal/vectorstore"
)

// ContextBundle is a typed, bounded context string handed to the answer
// gateway. Empty data renders the sentinel so the model never fabricates
// from silence.
type ContextBundle struct {
	Type models.QueryType
	Data string
}

func (b ContextBundle) Context() string {
	if strings.TrimSpace(b.Data) == "" {
		return models.NoContextSentinel
	}
	return b.Data
}

// DocumentStrategy retrieves context from the request-scoped vector store.
type DocumentStrategy struct {
	Store    *vectorstore.Store
	Embedder embedding.Embedder
	TopK     int
}

// Retrieve embeds the question and keeps the TopK most similar chunks. A
// sub-threshold top score means "no answer derivable from context", which is
// a sentinel bundle, not an error.
func (s *DocumentStrategy) Retrieve(ctx context.Context, requestID, question string) (ContextBundle, error) {
	topK := s.TopK
	if topK <= 0 {
		topK = 3
	}

	queryVector, err := s.Embedder.Embed(ctx, question)
	if err != nil {
		return ContextBundle{}, err
	}

	ranked, err := s.Store.Search(requestID, queryVector, topK)
	if err != nil {
		return ContextBundle{}, err
	}
	if len(ranked) == 0 || ranked[0].Score < models.RelevanceThreshold {
		return ContextBundle{Type: models.QueryGeneral}, nil
	}

	texts := make([]string, 0, len(ranked))
	for _, rc := range ranked {
		if rc.Score < models.RelevanceThreshold {
			continue
		}
		texts = append(texts, rc.Text)
	}
	return ContextBundle{Type: models.QueryGeneral, Data: strings.Join(texts, "\n\n")}, nil
}
