package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/team"
	qb "github.com/wolvesmetrics/lineup-analytics/internal/platform/querybuilder"
)

type teamTableModel struct {
	ID           int64  `db:"team_id"`
	Name         string `db:"team_name"`
	Abbreviation string `db:"team_abbreviation"`
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := teamBaseSelectBuilder().
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	query, args, err := teamBaseSelectBuilder().
		Where(qb.Eq("team_id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return teamFromRow(row), true, nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:           row.ID,
		Name:         row.Name,
		Abbreviation: row.Abbreviation,
	}
}

func teamBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("team_id", "team_name", "team_abbreviation").From("teams")
}
