package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hybrid-rag/internal/models"
)

// FetchOperations is the fixed enumeration of data-fetch operations the
// model may choose among for low-confidence classifications.
var FetchOperations = []string{
	"teams_by_name",
	"players_by_team",
	"matches_on_date",
	"matches_between",
	"teams_by_division",
	"list_teams",
	"count_teams",
	"count_players",
	"count_matches",
}

// FetchPlan is the model's choice of one fetch operation plus its arguments.
type FetchPlan struct {
	Operation string            `json:"operation"`
	Arguments map[string]string `json:"arguments"`
}

// PlanFetch asks the generation model to pick one operation from the fixed
// set. A malformed plan is an error; the caller falls back to the direct
// type-to-operation mapping.
func (r *Refiner) PlanFetch(ctx context.Context, question string) (*FetchPlan, error) {
	if r == nil || r.gen == nil {
		return nil, fmt.Errorf("no generator available for fetch planning")
	}

	prompt := fmt.Sprintf(models.FetchPlanPromptTemplate, strings.Join(FetchOperations, ", "), question)
	raw, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var plan FetchPlan
	if err := json.Unmarshal([]byte(StripFences(raw)), &plan); err != nil {
		return nil, fmt.Errorf("fetch plan is not valid JSON: %v", err)
	}
	if !knownOperation(plan.Operation) {
		return nil, fmt.Errorf("unknown fetch operation %q", plan.Operation)
	}
	if plan.Arguments == nil {
		plan.Arguments = map[string]string{}
	}
	return &plan, nil
}

func knownOperation(op string) bool {
	for _, known := range FetchOperations {
		if op == known {
			return true
		}
	}
	return false
}
