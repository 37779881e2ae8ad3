package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// ListLimit caps full listings so the eventual prompt size stays predictable.
const ListLimit = 50

// Store exposes the structured fetch operations the dataset retrieval
// strategy depends on. Records come back as plain rows; how they are
// persisted is not the caller's concern.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// TeamsByName looks teams up by fuzzy substring match.
func (s *Store) TeamsByName(ctx context.Context, name string) ([]Team, error) {
	var teams []Team
	err := s.db.NewSelect().
		Model(&teams).
		Where("t.name ILIKE ?", "%"+name+"%").
		Order("t.id").
		Limit(ListLimit).
		Scan(ctx)
	return teams, err
}

// PlayersByTeam returns all players of teams matching the given name.
func (s *Store) PlayersByTeam(ctx context.Context, teamName string) ([]Player, error) {
	var players []Player
	err := s.db.NewSelect().
		Model(&players).
		Where("p.team_id IN (SELECT id FROM teams WHERE name ILIKE ?)", "%"+teamName+"%").
		Order("p.id").
		Limit(ListLimit).
		Scan(ctx)
	return players, err
}

// MatchesOn lists matches played within the given calendar day.
func (s *Store) MatchesOn(ctx context.Context, day time.Time) ([]Match, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.MatchesBetween(ctx, start, start.AddDate(0, 0, 1))
}

// MatchesBetween lists matches with from <= played_at < to.
func (s *Store) MatchesBetween(ctx context.Context, from, to time.Time) ([]Match, error) {
	var matches []Match
	err := s.db.NewSelect().
		Model(&matches).
		Where("m.played_at >= ?", from).
		Where("m.played_at < ?", to).
		Order("m.played_at").
		Limit(ListLimit).
		Scan(ctx)
	return matches, err
}

// TeamsByDivision lists teams in a division, matched case-insensitively.
func (s *Store) TeamsByDivision(ctx context.Context, division string) ([]Team, error) {
	var teams []Team
	err := s.db.NewSelect().
		Model(&teams).
		Where("t.division ILIKE ?", division).
		Order("t.id").
		Limit(ListLimit).
		Scan(ctx)
	return teams, err
}

// ListTeams returns up to limit teams, hard-capped at ListLimit.
func (s *Store) ListTeams(ctx context.Context, limit int) ([]Team, error) {
	if limit <= 0 || limit > ListLimit {
		limit = ListLimit
	}
	var teams []Team
	err := s.db.NewSelect().Model(&teams).Order("t.id").Limit(limit).Scan(ctx)
	return teams, err
}

func (s *Store) CountTeams(ctx context.Context) (int, error) {
	return s.db.NewSelect().Model((*Team)(nil)).Count(ctx)
}

func (s *Store) CountPlayers(ctx context.Context) (int, error) {
	return s.db.NewSelect().Model((*Player)(nil)).Count(ctx)
}

func (s *Store) CountMatches(ctx context.Context) (int, error) {
	return s.db.NewSelect().Model((*Match)(nil)).Count(ctx)
}

// TeamNames feeds the classifier's model-tier prompt with the names actually
// present in the dataset.
func (s *Store) TeamNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.NewSelect().
		Model((*Team)(nil)).
		Column("name").
		Order("name").
		Limit(ListLimit).
		Scan(ctx, &names)
	return names, err
}

// Divisions lists the distinct division labels in the dataset.
func (s *Store) Divisions(ctx context.Context) ([]string, error) {
	var divisions []string
	err := s.db.NewSelect().
		Model((*Team)(nil)).
		ColumnExpr("DISTINCT division").
		Order("division").
		Scan(ctx, &divisions)
	return divisions, err
}

// TeamName resolves a team id for formatting; unknown ids render as "unknown".
func (s *Store) TeamName(ctx context.Context, id int64) string {
	var name string
	err := s.db.NewSelect().
		Model((*Team)(nil)).
		Column("name").
		Where("t.id = ?", id).
		Scan(ctx, &name)
	if err != nil || name == "" {
		return "unknown"
	}
	return name
}
