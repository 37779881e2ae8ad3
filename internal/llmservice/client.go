package llmservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hybrid-rag/internal/config"
	"hybrid-rag/internal/models"
)

var (
	// ErrServiceUnreachable marks connection-level failures: the backend is down.
	ErrServiceUnreachable = errors.New("model server unreachable")
	// ErrBadModelResponse marks a reachable backend that answered nothing
	// useful: non-2xx status, or a missing/empty response field.
	ErrBadModelResponse = errors.New("model returned no usable response")
)

// AllModelsFailedError is raised only after every model in the fallback list
// has been tried. Last carries the final underlying cause.
type AllModelsFailedError struct {
	Models []string
	Last   error
}

func (e *AllModelsFailedError) Error() string {
	return fmt.Sprintf("all %d models failed, last error: %v", len(e.Models), e.Last)
}

func (e *AllModelsFailedError) Unwrap() error { return e.Last }

// Client talks to an Ollama-compatible generation endpoint with an ordered
// list of fallback models. Generation calls carry no client timeout; an
// unresponsive server stalls the request until the caller's context ends.
type Client struct {
	baseURL    string
	models     []string
	httpClient *http.Client
}

func NewClient(llmConfig *config.LLMConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(llmConfig.BaseURL, "/"),
		models:     llmConfig.Models,
		httpClient: &http.Client{},
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Answer builds the instruction prompt from question and context and runs
// the fallback chain.
func (c *Client) Answer(ctx context.Context, question, contextText string) (string, error) {
	prompt := fmt.Sprintf(models.AnswerPromptTemplate, contextText, question)
	return c.Generate(ctx, prompt)
}

// Generate tries each configured model in order and returns the first
// non-empty response. This is substitution, not retry: a model is called at
// most once per request.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, model := range c.models {
		text, err := c.generate(ctx, model, prompt)
		if err != nil {
			log.Warn().Err(err).Str("model", model).Msg("Model call failed, trying next")
			lastErr = err
			continue
		}
		return text, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no models configured")
	}
	return "", &AllModelsFailedError{Models: c.models, Last: lastErr}
}

func (c *Client) generate(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{Model: model, Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", ErrBadModelResponse, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadModelResponse, err)
	}
	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", fmt.Errorf("%w: empty response field", ErrBadModelResponse)
	}
	return text, nil
}

const probeTimeout = 5 * time.Second

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// InstalledModels probes the server for installed model names. The probe is
// bounded: past probeTimeout the call is abandoned. It reports operational
// status only and never gates the answering path.
func (c *Client) InstalledModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrBadModelResponse, resp.StatusCode)
	}
	var out tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelResponse, err)
	}
	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}
