package game

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidReference marks a game whose home or away team is not in
// the teams reference table.
var ErrInvalidReference = errors.New("referenced team does not exist")

// Repository describes games reference lookups. The schema is owned by
// the upstream game-structure loader; deleting a game cascades into the
// lineup game logs that reference it.
type Repository interface {
	Upsert(ctx context.Context, item Game) error
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	// GetByDateAndTeam resolves the game a team played on a calendar date.
	GetByDateAndTeam(ctx context.Context, date time.Time, teamID int64) (Game, bool, error)
	// ListDatesByTeamSeason returns the distinct dates a team played in a
	// season, ascending.
	ListDatesByTeamSeason(ctx context.Context, teamID int64, season string) ([]time.Time, error)
	Delete(ctx context.Context, gameID string) error
}
