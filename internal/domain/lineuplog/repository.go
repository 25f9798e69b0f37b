package lineuplog

import (
	"context"
	"errors"
)

// Storage-level integrity failures. Postgres maps constraint violations
// onto these; the memory implementation enforces them directly.
var (
	ErrDuplicate        = errors.New("lineup game log already exists")
	ErrInvalidReference = errors.New("referenced game or team does not exist")
)

// Repository exposes lineup game log persistence operations.
type Repository interface {
	// Insert writes a new row and fails with ErrDuplicate when the
	// (game, team, group) key is already present.
	Insert(ctx context.Context, item GameLog) error
	// Upsert writes or replaces the row for the item's key, bumping
	// last_updated_at. Used when corrected box-score data arrives.
	Upsert(ctx context.Context, item GameLog) error
	GetByKey(ctx context.Context, key Key) (GameLog, bool, error)
	ListByFilter(ctx context.Context, filter Filter) ([]GameLog, error)
}
