package retrieval

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"hybrid-rag/internal/classifier"
	"hybrid-rag/internal/db"
	"hybrid-rag/internal/models"
)

// DataFetcher is the external structured-data capability: black-box calls
// returning plain records. Injectable so tests run against fakes.
type DataFetcher interface {
	TeamsByName(ctx context.Context, name string) ([]db.Team, error)
	PlayersByTeam(ctx context.Context, teamName string) ([]db.Player, error)
	MatchesOn(ctx context.Context, day time.Time) ([]db.Match, error)
	MatchesBetween(ctx context.Context, from, to time.Time) ([]db.Match, error)
	TeamsByDivision(ctx context.Context, division string) ([]db.Team, error)
	ListTeams(ctx context.Context, limit int) ([]db.Team, error)
	CountTeams(ctx context.Context) (int, error)
	CountPlayers(ctx context.Context) (int, error)
	CountMatches(ctx context.Context) (int, error)
	TeamName(ctx context.Context, id int64) string
}

// DatasetStrategy maps a classified question to one structured fetch call
// and renders the result. Low-confidence classifications are routed through
// the model-chosen fetch plan first.
type DatasetStrategy struct {
	Fetcher DataFetcher
	Planner *classifier.Refiner
}

func (s *DatasetStrategy) Retrieve(ctx context.Context, question string, cls models.QueryClassification) (ContextBundle, error) {
	if cls.Confidence < models.RefinementThreshold && s.Planner != nil {
		plan, err := s.Planner.PlanFetch(ctx, question)
		if err == nil {
			return s.execPlan(ctx, plan, cls)
		}
		log.Debug().Err(err).Msg("Fetch plan unusable, mapping query type directly")
	}
	return s.execDirect(ctx, cls)
}

func (s *DatasetStrategy) execDirect(ctx context.Context, cls models.QueryClassification) (ContextBundle, error) {
	bundle := ContextBundle{Type: cls.Type}
	var err error

	switch cls.Type {
	case models.QueryCount:
		bundle.Data, err = s.count(ctx, cls.Entities)
	case models.QueryRelation:
		name := cls.Parameters["name"]
		if name == "" {
			return bundle, nil
		}
		var players []db.Player
		if players, err = s.Fetcher.PlayersByTeam(ctx, name); err == nil {
			bundle.Data = FormatPlayers(name, players)
		}
	case models.QueryTemporal:
		day := parseDay(cls.Parameters["date"], time.Now())
		var matches []db.Match
		if matches, err = s.Fetcher.MatchesOn(ctx, day); err == nil {
			bundle.Data = s.formatMatches(ctx, matches)
		}
	case models.QueryDateRange:
		from, okFrom := parseDate(cls.Parameters["from"])
		to, okTo := parseDate(cls.Parameters["to"])
		if !okFrom || !okTo {
			return bundle, nil
		}
		var matches []db.Match
		if matches, err = s.Fetcher.MatchesBetween(ctx, from, to); err == nil {
			bundle.Data = s.formatMatches(ctx, matches)
		}
	case models.QueryCategorical:
		division := cls.Parameters["division"]
		if division == "" {
			division = cls.Parameters["name"]
		}
		if division == "" {
			return bundle, nil
		}
		var teams []db.Team
		if teams, err = s.Fetcher.TeamsByDivision(ctx, division); err == nil {
			bundle.Data = FormatTeams(teams)
		}
	default: // listing and general both fall back to the capped full listing
		var teams []db.Team
		if teams, err = s.Fetcher.ListTeams(ctx, db.ListLimit); err == nil {
			bundle.Data = FormatTeams(teams)
		}
	}
	if err != nil {
		return ContextBundle{}, err
	}
	return bundle, nil
}

func (s *DatasetStrategy) execPlan(ctx context.Context, plan *classifier.FetchPlan, cls models.QueryClassification) (ContextBundle, error) {
	bundle := ContextBundle{Type: cls.Type}
	var err error

	switch plan.Operation {
	case "teams_by_name":
		var teams []db.Team
		if teams, err = s.Fetcher.TeamsByName(ctx, plan.Arguments["name"]); err == nil {
			bundle.Data = FormatTeams(teams)
		}
	case "players_by_team":
		name := plan.Arguments["name"]
		var players []db.Player
		if players, err = s.Fetcher.PlayersByTeam(ctx, name); err == nil {
			bundle.Data = FormatPlayers(name, players)
		}
	case "matches_on_date":
		var matches []db.Match
		if matches, err = s.Fetcher.MatchesOn(ctx, parseDay(plan.Arguments["date"], time.Now())); err == nil {
			bundle.Data = s.formatMatches(ctx, matches)
		}
	case "matches_between":
		from, okFrom := parseDate(plan.Arguments["from"])
		to, okTo := parseDate(plan.Arguments["to"])
		if !okFrom || !okTo {
			return s.execDirect(ctx, cls)
		}
		var matches []db.Match
		if matches, err = s.Fetcher.MatchesBetween(ctx, from, to); err == nil {
			bundle.Data = s.formatMatches(ctx, matches)
		}
	case "teams_by_division":
		var teams []db.Team
		if teams, err = s.Fetcher.TeamsByDivision(ctx, plan.Arguments["division"]); err == nil {
			bundle.Data = FormatTeams(teams)
		}
	case "list_teams":
		var teams []db.Team
		if teams, err = s.Fetcher.ListTeams(ctx, db.ListLimit); err == nil {
			bundle.Data = FormatTeams(teams)
		}
	case "count_teams":
		var n int
		if n, err = s.Fetcher.CountTeams(ctx); err == nil {
			bundle.Data = FormatCount("teams", n)
		}
	case "count_players":
		var n int
		if n, err = s.Fetcher.CountPlayers(ctx); err == nil {
			bundle.Data = FormatCount("players", n)
		}
	case "count_matches":
		var n int
		if n, err = s.Fetcher.CountMatches(ctx); err == nil {
			bundle.Data = FormatCount("matches", n)
		}
	default:
		return s.execDirect(ctx, cls)
	}
	if err != nil {
		return ContextBundle{}, err
	}
	return bundle, nil
}

func (s *DatasetStrategy) count(ctx context.Context, kinds []models.EntityKind) (string, error) {
	subject := "teams"
	counter := s.Fetcher.CountTeams
	if len(kinds) > 0 {
		switch kinds[0] {
		case models.KindPlayer:
			subject, counter = "players", s.Fetcher.CountPlayers
		case models.KindMatch:
			subject, counter = "matches", s.Fetcher.CountMatches
		}
	}
	n, err := counter(ctx)
	if err != nil {
		return "", err
	}
	return FormatCount(subject, n), nil
}

func (s *DatasetStrategy) formatMatches(ctx context.Context, matches []db.Match) string {
	return FormatMatches(matches, func(id int64) string {
		return s.Fetcher.TeamName(ctx, id)
	})
}

func parseDate(v string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", v)
	return t, err == nil
}

func parseDay(v string, fallback time.Time) time.Time {
	if t, ok := parseDate(v); ok {
		return t
	}
	return fallback
}
