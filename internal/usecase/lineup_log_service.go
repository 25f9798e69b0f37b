package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/game"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/cache"
)

// reportCachePrefix covers every cached report entry; any write to the
// base table flushes them.
const reportCachePrefix = "report:"

type LineupLogService struct {
	logs      lineuplog.Repository
	games     game.Repository
	reportCch *cache.Store
}

func NewLineupLogService(logs lineuplog.Repository, games game.Repository, reportCache *cache.Store) *LineupLogService {
	return &LineupLogService{
		logs:      logs,
		games:     games,
		reportCch: reportCache,
	}
}

// Record inserts a new lineup game log and rejects duplicates of the
// (game, team, lineup) key.
func (s *LineupLogService) Record(ctx context.Context, item lineuplog.GameLog) (lineuplog.GameLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupLogService.Record")
	defer span.End()

	item, err := s.normalize(ctx, item)
	if err != nil {
		return lineuplog.GameLog{}, err
	}

	if err := s.logs.Insert(ctx, item); err != nil {
		if errors.Is(err, lineuplog.ErrDuplicate) {
			return lineuplog.GameLog{}, fmt.Errorf("%w: lineup log game=%s team=%d group=%s", ErrConflict, item.GameID, item.TeamID, item.GroupID)
		}
		if errors.Is(err, lineuplog.ErrInvalidReference) {
			return lineuplog.GameLog{}, fmt.Errorf("%w: unknown game or team", ErrInvalidInput)
		}
		return lineuplog.GameLog{}, fmt.Errorf("insert lineup log: %w", err)
	}

	s.invalidateReports(ctx)

	stored, _, err := s.logs.GetByKey(ctx, item.Key())
	if err != nil {
		return lineuplog.GameLog{}, fmt.Errorf("reload lineup log: %w", err)
	}
	return stored, nil
}

// Replace writes a lineup game log regardless of whether the key
// already exists; corrected feed data lands here.
func (s *LineupLogService) Replace(ctx context.Context, item lineuplog.GameLog) (lineuplog.GameLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupLogService.Replace")
	defer span.End()

	item, err := s.normalize(ctx, item)
	if err != nil {
		return lineuplog.GameLog{}, err
	}

	if err := s.logs.Upsert(ctx, item); err != nil {
		if errors.Is(err, lineuplog.ErrInvalidReference) {
			return lineuplog.GameLog{}, fmt.Errorf("%w: unknown game or team", ErrInvalidInput)
		}
		return lineuplog.GameLog{}, fmt.Errorf("upsert lineup log: %w", err)
	}

	s.invalidateReports(ctx)

	stored, _, err := s.logs.GetByKey(ctx, item.Key())
	if err != nil {
		return lineuplog.GameLog{}, fmt.Errorf("reload lineup log: %w", err)
	}
	return stored, nil
}

func (s *LineupLogService) Get(ctx context.Context, key lineuplog.Key) (lineuplog.GameLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupLogService.Get")
	defer span.End()

	key.GameID = strings.TrimSpace(key.GameID)
	key.GroupID = strings.TrimSpace(key.GroupID)
	if key.GameID == "" || key.GroupID == "" || key.TeamID <= 0 {
		return lineuplog.GameLog{}, fmt.Errorf("%w: game id, team id and group id are required", ErrInvalidInput)
	}

	item, exists, err := s.logs.GetByKey(ctx, key)
	if err != nil {
		return lineuplog.GameLog{}, fmt.Errorf("get lineup log: %w", err)
	}
	if !exists {
		return lineuplog.GameLog{}, fmt.Errorf("%w: lineup log game=%s team=%d group=%s", ErrNotFound, key.GameID, key.TeamID, key.GroupID)
	}
	return item, nil
}

func (s *LineupLogService) List(ctx context.Context, filter lineuplog.Filter) ([]lineuplog.GameLog, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupLogService.List")
	defer span.End()

	if filter.Season != "" {
		if err := ValidateSeason(filter.Season); err != nil {
			return nil, err
		}
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, fmt.Errorf("%w: date range is inverted", ErrInvalidInput)
	}

	items, err := s.logs.ListByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list lineup logs: %w", err)
	}
	return items, nil
}

// normalize trims identifiers, validates the row and fills opponent,
// venue and date from the games reference when the caller left them
// out.
func (s *LineupLogService) normalize(ctx context.Context, item lineuplog.GameLog) (lineuplog.GameLog, error) {
	item.GameID = strings.TrimSpace(item.GameID)
	item.GroupID = strings.TrimSpace(item.GroupID)
	item.Season = strings.TrimSpace(item.Season)
	if item.GroupName != nil {
		trimmed := strings.TrimSpace(*item.GroupName)
		if trimmed == "" {
			item.GroupName = nil
		} else {
			item.GroupName = &trimmed
		}
	}

	if item.GameID == "" {
		return lineuplog.GameLog{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if item.TeamID <= 0 {
		return lineuplog.GameLog{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if item.GroupID == "" {
		return lineuplog.GameLog{}, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}
	if err := ValidateSeason(item.Season); err != nil {
		return lineuplog.GameLog{}, err
	}
	if item.GroupQuantity <= 0 {
		return lineuplog.GameLog{}, fmt.Errorf("%w: group quantity must be greater than zero", ErrInvalidInput)
	}
	if item.Min != nil && *item.Min < 0 {
		return lineuplog.GameLog{}, fmt.Errorf("%w: minutes cannot be negative", ErrInvalidInput)
	}
	for _, pct := range []*float64{item.FGPct, item.FG3Pct, item.FTPct} {
		if pct != nil && (*pct < 0 || *pct > 1) {
			return lineuplog.GameLog{}, fmt.Errorf("%w: shooting percentages must be between 0 and 1", ErrInvalidInput)
		}
	}

	if item.OpponentID == nil || item.IsHome == nil || item.GameDate == nil {
		ref, exists, err := s.games.GetByID(ctx, item.GameID)
		if err != nil {
			return lineuplog.GameLog{}, fmt.Errorf("resolve game: %w", err)
		}
		if exists {
			if isHome, opponentID, played := ref.Side(item.TeamID); played {
				if item.IsHome == nil {
					item.IsHome = &isHome
				}
				if item.OpponentID == nil {
					item.OpponentID = &opponentID
				}
			}
			if item.GameDate == nil {
				date := ref.GameDate
				item.GameDate = &date
			}
		}
	}

	return item, nil
}

func (s *LineupLogService) invalidateReports(ctx context.Context) {
	if s.reportCch != nil {
		s.reportCch.DeletePrefix(ctx, reportCachePrefix)
	}
}
