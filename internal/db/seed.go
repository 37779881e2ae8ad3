package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Seed loads a small demo league so the dataset path can be exercised
// without any external data.
func Seed(ctx context.Context, db *bun.DB) error {
	teams := []Team{
		{Name: "Harbor Hawks", City: "Portsmouth", Division: "North"},
		{Name: "Granite Giants", City: "Stonefield", Division: "North"},
		{Name: "River Rovers", City: "Eastbank", Division: "South"},
		{Name: "Cedar Comets", City: "Westwood", Division: "South"},
	}
	if _, err := db.NewInsert().Model(&teams).Exec(ctx); err != nil {
		return err
	}

	players := []Player{
		{TeamID: teams[0].ID, Name: "Avery Cole", Position: "forward"},
		{TeamID: teams[0].ID, Name: "Jordan Pike", Position: "keeper"},
		{TeamID: teams[1].ID, Name: "Sam Ridge", Position: "defender"},
		{TeamID: teams[1].ID, Name: "Quinn Vale", Position: "midfielder"},
		{TeamID: teams[2].ID, Name: "Riley Marsh", Position: "forward"},
		{TeamID: teams[3].ID, Name: "Casey Lane", Position: "defender"},
	}
	if _, err := db.NewInsert().Model(&players).Exec(ctx); err != nil {
		return err
	}

	now := time.Now()
	matches := []Match{
		{HomeTeamID: teams[0].ID, AwayTeamID: teams[1].ID, PlayedAt: now.AddDate(0, 0, -7), HomeScore: 2, AwayScore: 1},
		{HomeTeamID: teams[2].ID, AwayTeamID: teams[3].ID, PlayedAt: now.AddDate(0, 0, -3), HomeScore: 0, AwayScore: 0},
		{HomeTeamID: teams[1].ID, AwayTeamID: teams[2].ID, PlayedAt: now, HomeScore: 3, AwayScore: 2},
	}
	_, err := db.NewInsert().Model(&matches).Exec(ctx)
	return err
}
