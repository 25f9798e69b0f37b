package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/gametotals"
	qb "github.com/wolvesmetrics/lineup-analytics/internal/platform/querybuilder"
)

type teamGameTotalModel struct {
	GameID string `db:"game_id"`
	TeamID int64  `db:"team_id"`
	Pts    int    `db:"pts"`
}

type GameTotalsRepository struct {
	db *sqlx.DB
}

func NewGameTotalsRepository(db *sqlx.DB) *GameTotalsRepository {
	return &GameTotalsRepository{db: db}
}

func (r *GameTotalsRepository) GetByGameAndTeam(ctx context.Context, gameID string, teamID int64) (gametotals.TeamGameTotal, bool, error) {
	query, args, err := qb.Select("game_id", "team_id", "pts").
		From("team_game_totals").
		Where(
			qb.Eq("game_id", gameID),
			qb.Eq("team_id", teamID),
		).
		ToSQL()
	if err != nil {
		return gametotals.TeamGameTotal{}, false, fmt.Errorf("build get team game total query: %w", err)
	}

	var row teamGameTotalModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gametotals.TeamGameTotal{}, false, nil
		}
		return gametotals.TeamGameTotal{}, false, fmt.Errorf("get team game total: %w", err)
	}

	return gametotals.TeamGameTotal{GameID: row.GameID, TeamID: row.TeamID, Pts: row.Pts}, true, nil
}

func (r *GameTotalsRepository) Upsert(ctx context.Context, total gametotals.TeamGameTotal) error {
	model := teamGameTotalModel{
		GameID: total.GameID,
		TeamID: total.TeamID,
		Pts:    total.Pts,
	}

	query, args, err := qb.InsertModel("team_game_totals", model, `ON CONFLICT (game_id, team_id)
DO UPDATE SET pts = EXCLUDED.pts`)
	if err != nil {
		return fmt.Errorf("build upsert team game total query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team game total game=%s team=%d: %w", total.GameID, total.TeamID, err)
	}

	return nil
}
