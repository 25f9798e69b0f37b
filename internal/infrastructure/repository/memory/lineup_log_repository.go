package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
)

// LineupLogRepository enforces the relational integrity rules of the
// schema in memory: the composite primary key and the game/team foreign
// keys. The game repository's cascade hook removes rows when a game is
// deleted.
type LineupLogRepository struct {
	mu    sync.RWMutex
	rows  map[lineuplog.Key]lineuplog.GameLog
	games *GameRepository
	teams *TeamRepository
	now   func() time.Time
}

func NewLineupLogRepository(games *GameRepository, teams *TeamRepository) *LineupLogRepository {
	repo := &LineupLogRepository{
		rows:  make(map[lineuplog.Key]lineuplog.GameLog),
		games: games,
		teams: teams,
		now:   time.Now,
	}
	if games != nil {
		games.BindCascade(repo.removeByGame)
	}
	return repo
}

func (r *LineupLogRepository) Insert(ctx context.Context, item lineuplog.GameLog) error {
	if err := r.checkReferences(ctx, item); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := item.Key()
	if _, exists := r.rows[key]; exists {
		return fmt.Errorf("insert lineup log game=%s team=%d group=%s: %w", item.GameID, item.TeamID, item.GroupID, lineuplog.ErrDuplicate)
	}

	item.LastUpdatedAt = r.now()
	r.rows[key] = item
	return nil
}

func (r *LineupLogRepository) Upsert(ctx context.Context, item lineuplog.GameLog) error {
	if err := r.checkReferences(ctx, item); err != nil {
		return err
	}

	r.mu.Lock()
	item.LastUpdatedAt = r.now()
	r.rows[item.Key()] = item
	r.mu.Unlock()
	return nil
}

func (r *LineupLogRepository) GetByKey(_ context.Context, key lineuplog.Key) (lineuplog.GameLog, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.rows[key]
	return item, ok, nil
}

func (r *LineupLogRepository) ListByFilter(_ context.Context, filter lineuplog.Filter) ([]lineuplog.GameLog, error) {
	r.mu.RLock()
	out := make([]lineuplog.GameLog, 0, len(r.rows))
	for _, item := range r.rows {
		if matchesFilter(item, filter) {
			out = append(out, item)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return lessByGameOrder(out[i], out[j]) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *LineupLogRepository) checkReferences(ctx context.Context, item lineuplog.GameLog) error {
	if r.games != nil {
		if _, ok, err := r.games.GetByID(ctx, item.GameID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("lineup log game=%s: %w", item.GameID, lineuplog.ErrInvalidReference)
		}
	}
	if r.teams != nil {
		if _, ok, err := r.teams.GetByID(ctx, item.TeamID); err != nil {
			return err
		} else if !ok {
			return fmt.Errorf("lineup log team=%d: %w", item.TeamID, lineuplog.ErrInvalidReference)
		}
	}
	return nil
}

func (r *LineupLogRepository) removeByGame(gameID string) {
	r.mu.Lock()
	for key := range r.rows {
		if key.GameID == gameID {
			delete(r.rows, key)
		}
	}
	r.mu.Unlock()
}

func matchesFilter(item lineuplog.GameLog, filter lineuplog.Filter) bool {
	if filter.GameID != "" && item.GameID != filter.GameID {
		return false
	}
	if filter.TeamID > 0 && item.TeamID != filter.TeamID {
		return false
	}
	if filter.GroupID != "" && item.GroupID != filter.GroupID {
		return false
	}
	if filter.Season != "" && item.Season != filter.Season {
		return false
	}
	if filter.GroupQuantity > 0 && item.GroupQuantity != filter.GroupQuantity {
		return false
	}
	if filter.DateFrom != nil {
		if item.GameDate == nil || item.GameDate.Before(*filter.DateFrom) {
			return false
		}
	}
	if filter.DateTo != nil {
		if item.GameDate == nil || item.GameDate.After(*filter.DateTo) {
			return false
		}
	}
	if filter.PlayerName != "" {
		// Substring approximation of the full-text index.
		if item.GroupName == nil || !strings.Contains(*item.GroupName, filter.PlayerName) {
			return false
		}
	}
	return true
}

func lessByGameOrder(a, b lineuplog.GameLog) bool {
	aDate, bDate := dateOrZero(a.GameDate), dateOrZero(b.GameDate)
	if !aDate.Equal(bDate) {
		return aDate.Before(bDate)
	}
	if a.GameID != b.GameID {
		return a.GameID < b.GameID
	}
	if a.TeamID != b.TeamID {
		return a.TeamID < b.TeamID
	}
	return a.GroupID < b.GroupID
}

func dateOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
