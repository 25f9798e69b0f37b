package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/report"
	qb "github.com/wolvesmetrics/lineup-analytics/internal/platform/querybuilder"
)

// ReportRepository reads the per_game_analysis and season_aggregate
// views. The win/loss classification is re-derived in Go from the
// joined scores so the caller's result policy applies; the views keep
// the default loss-on-missing behavior for SQL consumers.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type perGameRowModel struct {
	GameID        string     `db:"game_id"`
	TeamID        int64      `db:"team_id"`
	GroupID       string     `db:"group_id"`
	Season        string     `db:"season"`
	GroupQuantity int        `db:"group_quantity"`
	GroupName     *string    `db:"group_name"`
	OpponentID    *int64     `db:"opponent_team_id"`
	IsHome        *bool      `db:"is_home"`
	GameDate      *time.Time `db:"game_date"`
	OpponentName  *string    `db:"opponent_name"`
	OpponentAbbr  *string    `db:"opponent_abbr"`
	TeamPts       *int       `db:"team_pts"`
	OpponentPts   *int       `db:"opponent_pts"`
	Min           *float64   `db:"min"`
	PlusMinus     *int       `db:"plus_minus"`
	Pts           *int       `db:"pts"`
	FGM           *int       `db:"fgm"`
	FGA           *int       `db:"fga"`
	FGPct         *float64   `db:"fg_pct"`
	FG3M          *int       `db:"fg3m"`
	FG3A          *int       `db:"fg3a"`
	FG3Pct        *float64   `db:"fg3_pct"`
	FTM           *int       `db:"ftm"`
	FTA           *int       `db:"fta"`
	FTPct         *float64   `db:"ft_pct"`
	Reb           *int       `db:"reb"`
	Ast           *int       `db:"ast"`
	Tov           *int       `db:"tov"`
	Stl           *int       `db:"stl"`
	Blk           *int       `db:"blk"`
	PF            *int       `db:"pf"`
	PtsPerMin     float64    `db:"pts_per_min"`
	PMPerMin      float64    `db:"pm_per_min"`
	GameMonth     *int       `db:"game_month"`
	GameDOW       *int       `db:"game_dow"`
	GameIndex     int        `db:"game_index"`
	LastUpdatedAt time.Time  `db:"last_updated_at"`
}

type seasonRowModel struct {
	TeamID           int64    `db:"team_id"`
	Season           string   `db:"season"`
	GroupQuantity    int      `db:"group_quantity"`
	GroupID          string   `db:"group_id"`
	GroupName        *string  `db:"group_name"`
	GamesPlayed      int      `db:"games_played"`
	GamesPositive    int      `db:"games_positive"`
	TotalMin         float64  `db:"total_min"`
	TotalPlusMinus   int      `db:"total_plus_minus"`
	TotalPts         int      `db:"total_pts"`
	AvgMinPerGame    float64  `db:"avg_min_per_game"`
	AvgPlusMinus     float64  `db:"avg_plus_minus"`
	AvgPts           float64  `db:"avg_pts"`
	StdDevPlusMinus  *float64 `db:"stddev_plus_minus"`
	HomeAvgPlusMinus *float64 `db:"home_avg_plus_minus"`
	AwayAvgPlusMinus *float64 `db:"away_avg_plus_minus"`
	HomeAvgPts       *float64 `db:"home_avg_pts"`
	AwayAvgPts       *float64 `db:"away_avg_pts"`
}

func (r *ReportRepository) ListPerGame(ctx context.Context, filter report.Filter) ([]report.PerGameRow, error) {
	builder := qb.Select(
		"game_id", "team_id", "group_id", "season", "group_quantity", "group_name",
		"opponent_team_id", "is_home", "game_date",
		"opponent_name", "opponent_abbr", "team_pts", "opponent_pts",
		"min", "plus_minus", "pts", "fgm", "fga", "fg_pct",
		"fg3m", "fg3a", "fg3_pct", "ftm", "fta", "ft_pct",
		"reb", "ast", "tov", "stl", "blk", "pf",
		"pts_per_min", "pm_per_min", "game_month", "game_dow", "game_index",
		"last_updated_at",
	).
		From("per_game_analysis").
		Where(perGameFilterConditions(filter)...).
		OrderBy("game_date", "game_id", "group_id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list per-game analysis query: %w", err)
	}

	var rows []perGameRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list per-game analysis: %w", err)
	}

	out := make([]report.PerGameRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, perGameFromRow(row, filter.ResultPolicy))
	}
	return out, nil
}

// ListSeason ignores date-range filter fields: the season aggregate
// always collapses every stored game of a group.
func (r *ReportRepository) ListSeason(ctx context.Context, filter report.Filter) ([]report.SeasonRow, error) {
	builder := qb.Select(
		"team_id", "season", "group_quantity", "group_id", "group_name",
		"games_played", "games_positive",
		"total_min", "total_plus_minus", "total_pts",
		"avg_min_per_game", "avg_plus_minus", "avg_pts",
		"stddev_plus_minus",
		"home_avg_plus_minus", "away_avg_plus_minus", "home_avg_pts", "away_avg_pts",
	).
		From("season_aggregate").
		Where(seasonFilterConditions(filter)...).
		OrderBy("team_id", "season", "group_quantity", "group_id")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season aggregate query: %w", err)
	}

	var rows []seasonRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season aggregate: %w", err)
	}

	out := make([]report.SeasonRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}

func perGameFilterConditions(filter report.Filter) []qb.Condition {
	var conditions []qb.Condition
	if filter.TeamID > 0 {
		conditions = append(conditions, qb.Eq("team_id", filter.TeamID))
	}
	if filter.Season != "" {
		conditions = append(conditions, qb.Eq("season", filter.Season))
	}
	if filter.GroupID != "" {
		conditions = append(conditions, qb.Eq("group_id", filter.GroupID))
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
	return conditions
}

func seasonFilterConditions(filter report.Filter) []qb.Condition {
	var conditions []qb.Condition
	if filter.TeamID > 0 {
		conditions = append(conditions, qb.Eq("team_id", filter.TeamID))
	}
	if filter.Season != "" {
		conditions = append(conditions, qb.Eq("season", filter.Season))
	}
	if filter.GroupID != "" {
		conditions = append(conditions, qb.Eq("group_id", filter.GroupID))
	}
	if filter.GroupQuantity > 0 {
		conditions = append(conditions, qb.Eq("group_quantity", filter.GroupQuantity))
	}
	return conditions
}

func perGameFromRow(row perGameRowModel, policy report.ResultPolicy) report.PerGameRow {
	return report.PerGameRow{
		Log: lineuplog.GameLog{
			GameID:        row.GameID,
			TeamID:        row.TeamID,
			GroupID:       row.GroupID,
			Season:        row.Season,
			GroupQuantity: row.GroupQuantity,
			GroupName:     row.GroupName,
			OpponentID:    row.OpponentID,
			IsHome:        row.IsHome,
			GameDate:      row.GameDate,
			Min:           row.Min,
			PlusMinus:     row.PlusMinus,
			Pts:           row.Pts,
			FGM:           row.FGM,
			FGA:           row.FGA,
			FGPct:         row.FGPct,
			FG3M:          row.FG3M,
			FG3A:          row.FG3A,
			FG3Pct:        row.FG3Pct,
			FTM:           row.FTM,
			FTA:           row.FTA,
			FTPct:         row.FTPct,
			Reb:           row.Reb,
			Ast:           row.Ast,
			Tov:           row.Tov,
			Stl:           row.Stl,
			Blk:           row.Blk,
			PF:            row.PF,
			LastUpdatedAt: row.LastUpdatedAt,
		},
		OpponentName: row.OpponentName,
		OpponentAbbr: row.OpponentAbbr,
		TeamPts:      row.TeamPts,
		OpponentPts:  row.OpponentPts,
		GameResult:   report.DeriveResult(policy, row.TeamPts, row.OpponentPts),
		PtsPerMin:    row.PtsPerMin,
		PMPerMin:     row.PMPerMin,
		Month:        row.GameMonth,
		DayOfWeek:    row.GameDOW,
		GameIndex:    row.GameIndex,
	}
}

func seasonFromRow(row seasonRowModel) report.SeasonRow {
	return report.SeasonRow{
		TeamID:           row.TeamID,
		Season:           row.Season,
		GroupQuantity:    row.GroupQuantity,
		GroupID:          row.GroupID,
		GroupName:        row.GroupName,
		GamesPlayed:      row.GamesPlayed,
		GamesPositive:    row.GamesPositive,
		TotalMin:         row.TotalMin,
		TotalPlusMinus:   row.TotalPlusMinus,
		TotalPts:         row.TotalPts,
		AvgMinPerGame:    row.AvgMinPerGame,
		AvgPlusMinus:     row.AvgPlusMinus,
		AvgPts:           row.AvgPts,
		StdDevPlusMinus:  row.StdDevPlusMinus,
		HomeAvgPlusMinus: row.HomeAvgPlusMinus,
		AwayAvgPlusMinus: row.AwayAvgPlusMinus,
		HomeAvgPts:       row.HomeAvgPts,
		AwayAvgPts:       row.AwayAvgPts,
	}
}
