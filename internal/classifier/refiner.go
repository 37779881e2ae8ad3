package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"hybrid-rag/internal/models"
)

// Generator is the minimal slice of the generation client the classifier
// needs, kept injectable so tests can simulate model output.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Vocab supplies the entity names and categories actually present in the
// dataset, so the model tier classifies against real vocabulary.
type Vocab interface {
	TeamNames(ctx context.Context) ([]string, error)
	Divisions(ctx context.Context) ([]string, error)
}

// Refiner is the model-assisted tier. Its output is treated as an untrusted
// external boundary: anything structurally invalid is discarded in favor of
// the rule-tier result, never patched up with a guess.
type Refiner struct {
	gen   Generator
	vocab Vocab
}

func NewRefiner(gen Generator, vocab Vocab) *Refiner {
	return &Refiner{gen: gen, vocab: vocab}
}

// Refine asks the generation model for a structured classification and falls
// back to base on any transport or validation failure.
func (r *Refiner) Refine(ctx context.Context, question string, base models.QueryClassification) models.QueryClassification {
	if r == nil || r.gen == nil {
		return base
	}

	teams, divisions := r.vocabulary(ctx)
	prompt := fmt.Sprintf(models.ClassifyPromptTemplate,
		strings.Join(teams, ", "), strings.Join(divisions, ", "), question)

	raw, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Model-assisted classification unavailable, keeping rule result")
		return base
	}

	refined, err := parseClassification(raw)
	if err != nil {
		log.Warn().Err(err).Msg("Discarding malformed model classification")
		return base
	}
	return refined
}

func (r *Refiner) vocabulary(ctx context.Context) (teams, divisions []string) {
	if r.vocab == nil {
		return nil, nil
	}
	teams, err := r.vocab.TeamNames(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not load team names for classification prompt")
	}
	divisions, err = r.vocab.Divisions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not load divisions for classification prompt")
	}
	return teams, divisions
}

type wireClassification struct {
	QueryType  string            `json:"query_type"`
	Entities   []string          `json:"entities"`
	Parameters map[string]string `json:"parameters"`
	Confidence float64           `json:"confidence"`
}

func parseClassification(raw string) (models.QueryClassification, error) {
	var zero models.QueryClassification

	var wire wireClassification
	if err := json.Unmarshal([]byte(StripFences(raw)), &wire); err != nil {
		return zero, fmt.Errorf("classification is not valid JSON: %v", err)
	}
	if !models.KnownQueryType(wire.QueryType) {
		return zero, fmt.Errorf("unknown query type %q", wire.QueryType)
	}
	if wire.Confidence < 0 || wire.Confidence > 1 {
		return zero, fmt.Errorf("confidence %v out of range", wire.Confidence)
	}
	kinds := make([]models.EntityKind, 0, len(wire.Entities))
	for _, e := range wire.Entities {
		if !models.KnownEntityKind(e) {
			return zero, fmt.Errorf("unknown entity kind %q", e)
		}
		kinds = append(kinds, models.EntityKind(e))
	}
	params := wire.Parameters
	if params == nil {
		params = map[string]string{}
	}
	return models.QueryClassification{
		Type:       models.QueryType(wire.QueryType),
		Entities:   kinds,
		Parameters: params,
		Confidence: wire.Confidence,
	}, nil
}

// StripFences removes markdown code-fence artifacts models wrap around JSON.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
