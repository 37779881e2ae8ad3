package models

// Chunk is a bounded-size text segment produced by the chunker. Sequence
// preserves the original order so overlap stays contiguous.
type Chunk struct {
	Text     string
	Sequence int
}

// VectorRecord associates a chunk's text with its embedding. It is the unit
// stored in the request-scoped vector store.
type VectorRecord struct {
	Text      string
	Embedding []float32
}

// RankedChunk is a scored search result, recomputed per question.
type RankedChunk struct {
	Text  string
	Score float64
}

// QueryType is the retrieval intent assigned by the classifier.
type QueryType string

const (
	QueryRelation    QueryType = "relation"
	QueryTemporal    QueryType = "temporal"
	QueryCategorical QueryType = "categorical"
	QueryCount       QueryType = "count"
	QueryListing     QueryType = "listing"
	QueryDateRange   QueryType = "date_range"
	QueryGeneral     QueryType = "general"
)

// KnownQueryType reports whether s is a member of the query type enumeration.
func KnownQueryType(s string) bool {
	switch QueryType(s) {
	case QueryRelation, QueryTemporal, QueryCategorical, QueryCount,
		QueryListing, QueryDateRange, QueryGeneral:
		return true
	}
	return false
}

// EntityKind names the record kinds a question can reference.
type EntityKind string

const (
	KindTeam   EntityKind = "team"
	KindPlayer EntityKind = "player"
	KindMatch  EntityKind = "match"
)

// KnownEntityKind reports whether s is a member of the entity kind enumeration.
func KnownEntityKind(s string) bool {
	switch EntityKind(s) {
	case KindTeam, KindPlayer, KindMatch:
		return true
	}
	return false
}

// QueryClassification is the classifier's immutable output for one question.
// Confidence below the refinement threshold triggers a fetch-plan request.
type QueryClassification struct {
	Type       QueryType
	Entities   []EntityKind
	Parameters map[string]string
	Confidence float64
}

// PromptResponse carries the final answer together with the context it was
// grounded on.
type PromptResponse struct {
	Query   string
	Source  string
	Content string
}
