package memory

import (
	"context"
	"sync"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/gametotals"
)

type totalKey struct {
	gameID string
	teamID int64
}

type GameTotalsRepository struct {
	mu     sync.RWMutex
	totals map[totalKey]gametotals.TeamGameTotal
}

func NewGameTotalsRepository(totals []gametotals.TeamGameTotal) *GameTotalsRepository {
	byKey := make(map[totalKey]gametotals.TeamGameTotal, len(totals))
	for _, item := range totals {
		byKey[totalKey{gameID: item.GameID, teamID: item.TeamID}] = item
	}

	return &GameTotalsRepository{totals: byKey}
}

func (r *GameTotalsRepository) GetByGameAndTeam(_ context.Context, gameID string, teamID int64) (gametotals.TeamGameTotal, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.totals[totalKey{gameID: gameID, teamID: teamID}]
	return item, ok, nil
}

func (r *GameTotalsRepository) Upsert(_ context.Context, total gametotals.TeamGameTotal) error {
	if err := total.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.totals[totalKey{gameID: total.GameID, teamID: total.TeamID}] = total
	r.mu.Unlock()
	return nil
}
