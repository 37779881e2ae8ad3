package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"syscall"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"hybrid-rag/internal/config"
)

var (
	// ErrServiceUnavailable marks transport-level failures reaching the
	// embedding endpoint.
	ErrServiceUnavailable = errors.New("embedding service unavailable")
	// ErrInvalidResponse marks a transport-level success that returned a
	// malformed or absent vector.
	ErrInvalidResponse = errors.New("embedding service returned no vector")
)

// Failure aborts a batch: it records which element failed and why. Partial
// embeddings are discarded, never cached.
type Failure struct {
	Index int
	Cause error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("embedding element %d: %v", f.Index, f.Cause)
}

func (f *Failure) Unwrap() error { return f.Cause }

// Embedder converts text into fixed-length vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedAll(ctx context.Context, texts []string) ([][]float32, error)
}

// OllamaEmbedder embeds text through a local Ollama-compatible server.
type OllamaEmbedder struct {
	impl *embeddings.EmbedderImpl
}

func NewOllamaEmbedder(llmConfig *config.LLMConfig) (*OllamaEmbedder, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(llmConfig.BaseURL),
		ollama.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, err
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, err
	}
	return &OllamaEmbedder{impl: embedder}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := e.impl.EmbedQuery(ctx, text)
	if err != nil {
		if unreachable(err) {
			return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		return nil, err
	}
	if len(vector) == 0 {
		return nil, ErrInvalidResponse
	}
	return vector, nil
}

// EmbedAll embeds each text with an independent, strictly sequential call to
// bound load on the model server. Any failure aborts the whole batch.
func (e *OllamaEmbedder) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, &Failure{Index: i, Cause: err}
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

func unreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
