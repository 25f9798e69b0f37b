package gametotals

import "context"

type Repository interface {
	GetByGameAndTeam(ctx context.Context, gameID string, teamID int64) (TeamGameTotal, bool, error)
	Upsert(ctx context.Context, total TeamGameTotal) error
}
