package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hybrid-rag/internal/config"
	"hybrid-rag/internal/db"
	"hybrid-rag/internal/llmservice"
	"hybrid-rag/internal/vectorstore"
)

type fixedEmbedder struct {
	byText map[string][]float32
}

func (e *fixedEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := e.byText[text]; ok {
		return v, nil
	}
	return []float32{0, 1}, nil
}

func (e *fixedEmbedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i], _ = e.Embed(ctx, t)
	}
	return out, nil
}

func newGateway(t *testing.T, prompt *string, answer string) (*llmservice.Client, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if prompt != nil {
			*prompt = req.Prompt
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": answer})
	}))
	return llmservice.NewClient(&config.LLMConfig{BaseURL: srv.URL, Models: []string{"m"}}), srv.Close
}

func testConfig() *config.Config {
	return &config.Config{RAG: config.RAGConfig{ChunkSize: 30, OverlapWords: 0, TopK: 3}}
}

func TestAnswerDocumentUsesRelevantChunk(t *testing.T) {
	text := "Alpha alpha alpha alpha alpha. Beta beta beta beta beta. Gamma gamma gamma gamma."
	embedder := &fixedEmbedder{byText: map[string][]float32{
		"Alpha alpha alpha alpha alpha.": {0.05, 0.9987},
		"Beta beta beta beta beta.":      {0.82, 0.5724},
		"Gamma gamma gamma gamma.":       {0.02, 0.9998},
		"what is beta":                   {1, 0},
	}}

	var prompt string
	gateway, stop := newGateway(t, &prompt, "beta is beta")
	defer stop()

	core := NewRAG(vectorstore.New(), embedder, gateway, nil, nil, testConfig())
	response, err := core.AnswerDocument(context.Background(), text, "what is beta")
	require.NoError(t, err)

	assert.Equal(t, "Beta beta beta beta beta.", response.Source)
	assert.Contains(t, prompt, "Beta beta beta beta beta.")
	assert.NotContains(t, prompt, "Alpha alpha")
	assert.Equal(t, "beta is beta", response.Content)
}

func TestAnswerDocumentNoRelevantContext(t *testing.T) {
	embedder := &fixedEmbedder{byText: map[string][]float32{
		"what is beta": {1, 0},
	}}

	var prompt string
	gateway, stop := newGateway(t, &prompt, "cannot say")
	defer stop()

	core := NewRAG(vectorstore.New(), embedder, gateway, nil, nil, testConfig())
	response, err := core.AnswerDocument(context.Background(), "Totally unrelated sentence lives here.", "what is beta")
	require.NoError(t, err)

	assert.Equal(t, "no relevant data found", response.Source)
	assert.Contains(t, prompt, "no relevant data found")
}

func TestAnswerDocumentInputErrors(t *testing.T) {
	gateway, stop := newGateway(t, nil, "unused")
	defer stop()
	core := NewRAG(vectorstore.New(), &fixedEmbedder{}, gateway, nil, nil, testConfig())

	_, err := core.AnswerDocument(context.Background(), "some document text here.", "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	_, err = core.AnswerDocument(context.Background(), "  ", "a question")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

type countFetcher struct{ teams int }

func (f *countFetcher) TeamsByName(context.Context, string) ([]db.Team, error)   { return nil, nil }
func (f *countFetcher) PlayersByTeam(context.Context, string) ([]db.Player, error) {
	return nil, nil
}
func (f *countFetcher) MatchesOn(context.Context, time.Time) ([]db.Match, error) { return nil, nil }
func (f *countFetcher) MatchesBetween(context.Context, time.Time, time.Time) ([]db.Match, error) {
	return nil, nil
}
func (f *countFetcher) TeamsByDivision(context.Context, string) ([]db.Team, error) {
	return nil, nil
}
func (f *countFetcher) ListTeams(context.Context, int) ([]db.Team, error) { return nil, nil }
func (f *countFetcher) CountTeams(context.Context) (int, error)           { return f.teams, nil }
func (f *countFetcher) CountPlayers(context.Context) (int, error)         { return 0, nil }
func (f *countFetcher) CountMatches(context.Context) (int, error)         { return 0, nil }
func (f *countFetcher) TeamName(context.Context, int64) string            { return "unknown" }

func TestAnswerDataset(t *testing.T) {
	var prompt string
	gateway, stop := newGateway(t, &prompt, "there are twelve")
	defer stop()

	core := NewRAG(vectorstore.New(), &fixedEmbedder{}, gateway, &countFetcher{teams: 12}, nil, testConfig())
	response, err := core.AnswerDataset(context.Background(), "How many teams are in the database?")
	require.NoError(t, err)

	assert.Equal(t, "There are 12 teams in the dataset.", response.Source)
	assert.Contains(t, prompt, "There are 12 teams in the dataset.")
	assert.Equal(t, "there are twelve", response.Content)
}

func TestAnswerDatasetEmptyQuestion(t *testing.T) {
	gateway, stop := newGateway(t, nil, "unused")
	defer stop()

	core := NewRAG(vectorstore.New(), &fixedEmbedder{}, gateway, &countFetcher{}, nil, testConfig())
	_, err := core.AnswerDataset(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}
