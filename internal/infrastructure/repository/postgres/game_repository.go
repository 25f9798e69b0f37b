package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/game"
	qb "github.com/wolvesmetrics/lineup-analytics/internal/platform/querybuilder"
)

type gameTableModel struct {
	ID         string    `db:"game_id"`
	Season     string    `db:"season"`
	GameDate   time.Time `db:"game_date"`
	HomeTeamID int64     `db:"home_team_id"`
	AwayTeamID int64     `db:"away_team_id"`
}

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Upsert(ctx context.Context, item game.Game) error {
	model := gameTableModel{
		ID:         item.ID,
		Season:     item.Season,
		GameDate:   item.GameDate,
		HomeTeamID: item.HomeTeamID,
		AwayTeamID: item.AwayTeamID,
	}

	query, args, err := qb.InsertModel("games", model, `ON CONFLICT (game_id)
DO UPDATE SET season = EXCLUDED.season,
	game_date = EXCLUDED.game_date,
	home_team_id = EXCLUDED.home_team_id,
	away_team_id = EXCLUDED.away_team_id`)
	if err != nil {
		return fmt.Errorf("build upsert game query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("upsert game %s: %w", item.ID, game.ErrInvalidReference)
		}
		return fmt.Errorf("upsert game %s: %w", item.ID, err)
	}

	return nil
}

func (r *GameRepository) GetByID(ctx context.Context, gameID string) (game.Game, bool, error) {
	query, args, err := gameBaseSelectBuilder().
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) GetByDateAndTeam(ctx context.Context, date time.Time, teamID int64) (game.Game, bool, error) {
	query, args, err := gameBaseSelectBuilder().
		Where(
			qb.Eq("game_date", date),
			qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by date query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by date: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListDatesByTeamSeason(ctx context.Context, teamID int64, season string) ([]time.Time, error) {
	query, args, err := qb.Select("DISTINCT game_date").
		From("games").
		Where(
			qb.Eq("season", season),
			qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID),
		).
		OrderBy("game_date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list game dates query: %w", err)
	}

	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, args...); err != nil {
		return nil, fmt.Errorf("list game dates: %w", err)
	}

	return dates, nil
}

// Delete removes the game row; lineup_game_logs rows referencing it go
// with it via the ON DELETE CASCADE foreign key.
func (r *GameRepository) Delete(ctx context.Context, gameID string) error {
	query, args, err := qb.DeleteFrom("games").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete game query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	return nil
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:         row.ID,
		Season:     row.Season,
		GameDate:   row.GameDate,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
	}
}

func gameBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("game_id", "season", "game_date", "home_team_id", "away_team_id").From("games")
}
