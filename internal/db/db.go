package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"hybrid-rag/internal/config"
)

type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`
	ID            int64  `bun:"id,pk,autoincrement"`
	Name          string `bun:"name,notnull"`
	City          string `bun:"city"`
	Division      string `bun:"division"`
}

type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`
	ID            int64  `bun:"id,pk,autoincrement"`
	TeamID        int64  `bun:"team_id,notnull"`
	Name          string `bun:"name,notnull"`
	Position      string `bun:"position"`
}

type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`
	ID            int64     `bun:"id,pk,autoincrement"`
	HomeTeamID    int64     `bun:"home_team_id,notnull"`
	AwayTeamID    int64     `bun:"away_team_id,notnull"`
	PlayedAt      time.Time `bun:"played_at,notnull"`
	HomeScore     int       `bun:"home_score"`
	AwayScore     int       `bun:"away_score"`
}

func ConnectDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.URL + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Password))), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

func InitDB(ctx context.Context, db *bun.DB) error {
	for _, model := range []interface{}{(*Team)(nil), (*Player)(nil), (*Match)(nil)} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func ResetDB(ctx context.Context, db *bun.DB) error {
	for _, model := range []interface{}{(*Match)(nil), (*Player)(nil), (*Team)(nil)} {
		if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
