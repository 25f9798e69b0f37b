package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
	qb "github.com/wolvesmetrics/lineup-analytics/internal/platform/querybuilder"
)

const lineupLogUpsertSuffix = `ON CONFLICT (game_id, team_id, group_id)
DO UPDATE SET
    season = EXCLUDED.season,
    group_quantity = EXCLUDED.group_quantity,
    group_name = EXCLUDED.group_name,
    opponent_team_id = EXCLUDED.opponent_team_id,
    is_home = EXCLUDED.is_home,
    game_date = EXCLUDED.game_date,
    min = EXCLUDED.min,
    plus_minus = EXCLUDED.plus_minus,
    pts = EXCLUDED.pts,
    fgm = EXCLUDED.fgm,
    fga = EXCLUDED.fga,
    fg_pct = EXCLUDED.fg_pct,
    fg3m = EXCLUDED.fg3m,
    fg3a = EXCLUDED.fg3a,
    fg3_pct = EXCLUDED.fg3_pct,
    ftm = EXCLUDED.ftm,
    fta = EXCLUDED.fta,
    ft_pct = EXCLUDED.ft_pct,
    reb = EXCLUDED.reb,
    ast = EXCLUDED.ast,
    tov = EXCLUDED.tov,
    stl = EXCLUDED.stl,
    blk = EXCLUDED.blk,
    pf = EXCLUDED.pf,
    last_updated_at = NOW()`

type LineupLogRepository struct {
	db *sqlx.DB
}

func NewLineupLogRepository(db *sqlx.DB) *LineupLogRepository {
	return &LineupLogRepository{db: db}
}

func (r *LineupLogRepository) Insert(ctx context.Context, item lineuplog.GameLog) error {
	query, args, err := qb.InsertModel("lineup_game_logs", lineupLogInsertFromDomain(item), "")
	if err != nil {
		return fmt.Errorf("build insert lineup log query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert lineup log game=%s team=%d group=%s: %w", item.GameID, item.TeamID, item.GroupID, lineuplog.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert lineup log game=%s team=%d: %w", item.GameID, item.TeamID, lineuplog.ErrInvalidReference)
		}
		return fmt.Errorf("insert lineup log: %w", err)
	}

	return nil
}

func (r *LineupLogRepository) Upsert(ctx context.Context, item lineuplog.GameLog) error {
	query, args, err := qb.InsertModel("lineup_game_logs", lineupLogInsertFromDomain(item), lineupLogUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert lineup log query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("upsert lineup log game=%s team=%d: %w", item.GameID, item.TeamID, lineuplog.ErrInvalidReference)
		}
		return fmt.Errorf("upsert lineup log: %w", err)
	}

	return nil
}

func (r *LineupLogRepository) GetByKey(ctx context.Context, key lineuplog.Key) (lineuplog.GameLog, bool, error) {
	query, args, err := lineupLogBaseSelectBuilder().
		Where(
			qb.Eq("game_id", key.GameID),
			qb.Eq("team_id", key.TeamID),
			qb.Eq("group_id", key.GroupID),
		).
		ToSQL()
	if err != nil {
		return lineuplog.GameLog{}, false, fmt.Errorf("build get lineup log query: %w", err)
	}

	var row lineupLogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return lineuplog.GameLog{}, false, nil
		}
		return lineuplog.GameLog{}, false, fmt.Errorf("get lineup log: %w", err)
	}

	return lineupLogFromRow(row), true, nil
}

func (r *LineupLogRepository) ListByFilter(ctx context.Context, filter lineuplog.Filter) ([]lineuplog.GameLog, error) {
	builder := lineupLogBaseSelectBuilder().
		Where(lineupLogFilterConditions(filter)...).
		OrderBy("game_date", "game_id", "team_id", "group_id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineup logs query: %w", err)
	}

	var rows []lineupLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineup logs: %w", err)
	}

	out := make([]lineuplog.GameLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineupLogFromRow(row))
	}
	return out, nil
}

func lineupLogFilterConditions(filter lineuplog.Filter) []qb.Condition {
	var conditions []qb.Condition
	if filter.GameID != "" {
		conditions = append(conditions, qb.Eq("game_id", filter.GameID))
	}
	if filter.TeamID > 0 {
		conditions = append(conditions, qb.Eq("team_id", filter.TeamID))
	}
	if filter.GroupID != "" {
		conditions = append(conditions, qb.Eq("group_id", filter.GroupID))
	}
	if filter.Season != "" {
		conditions = append(conditions, qb.Eq("season", filter.Season))
	}
	if filter.GroupQuantity > 0 {
		conditions = append(conditions, qb.Eq("group_quantity", filter.GroupQuantity))
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, qb.Gte("game_date", *filter.DateFrom))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, qb.Lte("game_date", *filter.DateTo))
	}
	if filter.PlayerName != "" {
		// Served by the GIN index over group_name.
		conditions = append(conditions, qb.Expr(
			"to_tsvector('simple', coalesce(group_name, '')) @@ plainto_tsquery('simple', ?)",
			filter.PlayerName,
		))
	}
	return conditions
}

func lineupLogBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("lineup_game_logs")
}
