package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]game.Game
	// cascade mirrors the ON DELETE CASCADE foreign key of the
	// relational schema; the lineup log repository registers itself.
	cascade func(gameID string)
}

func NewGameRepository(games []game.Game) *GameRepository {
	byID := make(map[string]game.Game, len(games))
	for _, item := range games {
		byID[item.ID] = item
	}

	return &GameRepository{games: byID}
}

func (r *GameRepository) Upsert(_ context.Context, item game.Game) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.games[item.ID] = item
	r.mu.Unlock()
	return nil
}

func (r *GameRepository) BindCascade(fn func(gameID string)) {
	r.mu.Lock()
	r.cascade = fn
	r.mu.Unlock()
}

func (r *GameRepository) GetByID(_ context.Context, gameID string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.games[gameID]
	return item, ok, nil
}

func (r *GameRepository) GetByDateAndTeam(_ context.Context, date time.Time, teamID int64) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.games {
		if !sameDay(item.GameDate, date) {
			continue
		}
		if item.HomeTeamID == teamID || item.AwayTeamID == teamID {
			return item, true, nil
		}
	}
	return game.Game{}, false, nil
}

func (r *GameRepository) ListDatesByTeamSeason(_ context.Context, teamID int64, season string) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]time.Time)
	for _, item := range r.games {
		if item.Season != season {
			continue
		}
		if item.HomeTeamID != teamID && item.AwayTeamID != teamID {
			continue
		}
		day := item.GameDate.Format("2006-01-02")
		seen[day] = item.GameDate
	}

	out := make([]time.Time, 0, len(seen))
	for _, date := range seen {
		out = append(out, date)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (r *GameRepository) Delete(_ context.Context, gameID string) error {
	r.mu.Lock()
	delete(r.games, gameID)
	cascade := r.cascade
	r.mu.Unlock()

	if cascade != nil {
		cascade(gameID)
	}
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
