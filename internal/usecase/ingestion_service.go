package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/game"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/gametotals"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/team"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/cache"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/id"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/logging"
)

// StatsProvider is the upstream stats feed. The external client
// implements it; tests substitute their own.
type StatsProvider interface {
	FetchTeamGames(ctx context.Context, teamID int64, season string) ([]ExternalTeamGame, error)
	FetchLineups(ctx context.Context, req LineupFetchRequest) ([]ExternalLineupLine, error)
}

// ExternalTeamGame is one finished game from the team's schedule, seen
// from its side. The opponent's final score is reconstructed as
// Pts - PlusMinus.
type ExternalTeamGame struct {
	GameID       string
	TeamID       int64
	GameDate     time.Time
	IsHome       bool
	OpponentAbbr string
	Pts          *int
	PlusMinus    *int
}

// LineupFetchRequest asks for every lineup stat line of one team on one
// calendar date.
type LineupFetchRequest struct {
	TeamID        int64
	Season        string
	GroupQuantity int
	Date          time.Time
}

// ExternalLineupLine is one raw lineup stat line as the feed sends it.
// GroupName is the uncleaned "A. Edwards - R. Gobert" form.
type ExternalLineupLine struct {
	GroupID   string
	GroupName string
	TeamID    int64

	Min       *float64
	PlusMinus *int

	Pts    *int
	FGM    *int
	FGA    *int
	FGPct  *float64
	FG3M   *int
	FG3A   *int
	FG3Pct *float64
	FTM    *int
	FTA    *int
	FTPct  *float64
	Reb    *int
	Ast    *int
	Tov    *int
	Stl    *int
	Blk    *int
	PF     *int
}

type IngestInput struct {
	TeamID int64
	// Season defaults to the season in progress.
	Season          string
	GroupQuantities []int
	MaxWorkers      int
	// Limit caps how many game dates are processed; zero means all.
	Limit int
}

type IngestionTaskResult struct {
	Date          string `json:"date"`
	GroupQuantity int    `json:"group_quantity"`
	Rows          int    `json:"rows"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	DurationMs    int64  `json:"duration_ms"`
}

type IngestionResult struct {
	RunID          string                `json:"run_id"`
	TeamID         int64                 `json:"team_id"`
	Season         string                `json:"season"`
	GamesSynced    int                   `json:"games_synced"`
	DatesProcessed int                   `json:"dates_processed"`
	RowsUpserted   int                   `json:"rows_upserted"`
	TaskCount      int                   `json:"task_count"`
	WorkerCount    int                   `json:"worker_count"`
	SuccessCount   int                   `json:"success_count"`
	FailedCount    int                   `json:"failed_count"`
	SkippedCount   int                   `json:"skipped_count"`
	Tasks          []IngestionTaskResult `json:"tasks"`
}

const (
	ingestStatusSuccess = "success"
	ingestStatusFailed  = "failed"
	ingestStatusSkipped = "skipped"
)

const defaultIngestWorkers = 4

// IngestionDefaults fills IngestInput fields the caller left zero,
// typically from the service configuration. A season left empty here
// still resolves to the season in progress.
type IngestionDefaults struct {
	TeamID          int64
	Season          string
	GroupQuantities []int
	MaxWorkers      int
}

type IngestionService struct {
	provider  StatsProvider
	logs      lineuplog.Repository
	games     game.Repository
	teams     team.Repository
	totals    gametotals.Repository
	ids       id.Generator
	logger    *logging.Logger
	reportCch *cache.Store
	defaults  IngestionDefaults
	now       func() time.Time
}

func NewIngestionService(
	provider StatsProvider,
	logs lineuplog.Repository,
	games game.Repository,
	teams team.Repository,
	totals gametotals.Repository,
	ids id.Generator,
	logger *logging.Logger,
	reportCache *cache.Store,
	defaults IngestionDefaults,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &IngestionService{
		provider:  provider,
		logs:      logs,
		games:     games,
		teams:     teams,
		totals:    totals,
		ids:       ids,
		logger:    logger,
		reportCch: reportCache,
		defaults:  defaults,
		now:       time.Now,
	}
}

// Ingest pulls a team's finished games from the stats feed, refreshes
// the games and totals reference tables, then fans per-date lineup
// fetches out over a worker pool and upserts every stat line.
func (s *IngestionService) Ingest(ctx context.Context, input IngestInput) (IngestionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	if s.provider == nil {
		return IngestionResult{}, fmt.Errorf("%w: stats provider is not configured", ErrDependencyUnavailable)
	}
	if input.TeamID == 0 {
		input.TeamID = s.defaults.TeamID
	}
	if input.TeamID <= 0 {
		return IngestionResult{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	season := strings.TrimSpace(input.Season)
	if season == "" {
		season = strings.TrimSpace(s.defaults.Season)
	}
	if season == "" {
		season = CurrentSeason(s.now().UTC())
	}
	if err := ValidateSeason(season); err != nil {
		return IngestionResult{}, err
	}

	quantities := input.GroupQuantities
	if len(quantities) == 0 {
		quantities = s.defaults.GroupQuantities
	}
	if len(quantities) == 0 {
		quantities = []int{5}
	}
	for _, qty := range quantities {
		if qty <= 0 {
			return IngestionResult{}, fmt.Errorf("%w: group quantity must be greater than zero", ErrInvalidInput)
		}
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return IngestionResult{}, fmt.Errorf("generate run id: %w", err)
	}

	result := IngestionResult{
		RunID:  runID,
		TeamID: input.TeamID,
		Season: season,
	}

	dates, gamesSynced, err := s.syncGames(ctx, input.TeamID, season)
	if err != nil {
		return IngestionResult{}, err
	}
	result.GamesSynced = gamesSynced

	if input.Limit > 0 && len(dates) > input.Limit {
		dates = dates[:input.Limit]
	}
	result.DatesProcessed = len(dates)

	type ingestTask struct {
		date time.Time
		qty  int
	}
	tasks := make([]ingestTask, 0, len(dates)*len(quantities))
	for _, date := range dates {
		for _, qty := range quantities {
			tasks = append(tasks, ingestTask{date: date, qty: qty})
		}
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = s.defaults.MaxWorkers
	}
	if workerCount <= 0 {
		workerCount = defaultIngestWorkers
	}
	if workerCount > len(tasks) && len(tasks) > 0 {
		workerCount = len(tasks)
	}
	result.TaskCount = len(tasks)
	result.WorkerCount = workerCount
	result.Tasks = make([]IngestionTaskResult, 0, len(tasks))
	if len(tasks) == 0 {
		return result, nil
	}

	s.logger.InfoContext(ctx, "starting lineup ingestion",
		"run_id", runID, "team_id", input.TeamID, "season", season,
		"dates", len(dates), "tasks", len(tasks), "workers", workerCount)

	rows := make(chan IngestionTaskResult, len(tasks))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var skippedCount atomic.Int32
	var upserted atomic.Int64

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return IngestionResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, task := range tasks {
		task := task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := IngestionTaskResult{
				Date:          task.date.Format("2006-01-02"),
				GroupQuantity: task.qty,
			}

			count, status, message := s.runLineupTask(ctx, input.TeamID, season, task.qty, task.date)
			row.Rows = count
			row.Status = status
			row.Message = message
			row.DurationMs = time.Since(start).Milliseconds()

			switch status {
			case ingestStatusSuccess:
				successCount.Add(1)
				upserted.Add(int64(count))
			case ingestStatusSkipped:
				skippedCount.Add(1)
			default:
				failedCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return IngestionResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].Date != result.Tasks[j].Date {
			return result.Tasks[i].Date < result.Tasks[j].Date
		}
		return result.Tasks[i].GroupQuantity < result.Tasks[j].GroupQuantity
	})

	result.RowsUpserted = int(upserted.Load())
	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = int(skippedCount.Load())

	if s.reportCch != nil && result.RowsUpserted > 0 {
		s.reportCch.DeletePrefix(ctx, reportCachePrefix)
	}

	s.logger.InfoContext(ctx, "lineup ingestion finished",
		"run_id", runID, "games_synced", result.GamesSynced,
		"rows_upserted", result.RowsUpserted,
		"success", result.SuccessCount, "failed", result.FailedCount,
		"skipped", result.SkippedCount)

	return result, nil
}

// syncGames refreshes the games and team_game_totals reference tables
// from the team's schedule and returns the distinct game dates seen,
// ascending.
func (s *IngestionService) syncGames(ctx context.Context, teamID int64, season string) ([]time.Time, int, error) {
	schedule, err := s.provider.FetchTeamGames(ctx, teamID, season)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: fetch team games: %v", ErrDependencyUnavailable, err)
	}

	byAbbr, err := s.teamsByAbbreviation(ctx)
	if err != nil {
		return nil, 0, err
	}

	synced := 0
	seen := make(map[string]time.Time)
	for _, item := range schedule {
		opponent, known := byAbbr[item.OpponentAbbr]
		if !known {
			s.logger.WarnContext(ctx, "skipping game with unknown opponent",
				"game_id", item.GameID, "opponent", item.OpponentAbbr)
			continue
		}

		ref := game.Game{
			ID:       item.GameID,
			Season:   season,
			GameDate: item.GameDate,
		}
		if item.IsHome {
			ref.HomeTeamID = teamID
			ref.AwayTeamID = opponent.ID
		} else {
			ref.HomeTeamID = opponent.ID
			ref.AwayTeamID = teamID
		}

		if err := s.games.Upsert(ctx, ref); err != nil {
			return nil, 0, fmt.Errorf("upsert game %s: %w", item.GameID, err)
		}
		synced++
		seen[item.GameDate.Format("2006-01-02")] = item.GameDate

		if item.Pts != nil {
			if err := s.totals.Upsert(ctx, gametotals.TeamGameTotal{
				GameID: item.GameID,
				TeamID: teamID,
				Pts:    *item.Pts,
			}); err != nil {
				return nil, 0, fmt.Errorf("upsert team total for game %s: %w", item.GameID, err)
			}
			if item.PlusMinus != nil {
				if err := s.totals.Upsert(ctx, gametotals.TeamGameTotal{
					GameID: item.GameID,
					TeamID: opponent.ID,
					Pts:    *item.Pts - *item.PlusMinus,
				}); err != nil {
					return nil, 0, fmt.Errorf("upsert opponent total for game %s: %w", item.GameID, err)
				}
			}
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for _, date := range seen {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, synced, nil
}

func (s *IngestionService) runLineupTask(ctx context.Context, teamID int64, season string, qty int, date time.Time) (int, string, string) {
	lines, err := s.provider.FetchLineups(ctx, LineupFetchRequest{
		TeamID:        teamID,
		Season:        season,
		GroupQuantity: qty,
		Date:          date,
	})
	if err != nil {
		return 0, ingestStatusFailed, err.Error()
	}
	if len(lines) == 0 {
		return 0, ingestStatusSkipped, "no lineup data for date"
	}

	ref, exists, err := s.games.GetByDateAndTeam(ctx, date, teamID)
	if err != nil {
		return 0, ingestStatusFailed, err.Error()
	}
	if !exists {
		return 0, ingestStatusSkipped, "no game on record for date"
	}
	isHome, opponentID, _ := ref.Side(teamID)

	count := 0
	for idx, line := range lines {
		if line.TeamID != 0 && line.TeamID != teamID {
			continue
		}

		groupID := strings.TrimSpace(line.GroupID)
		if groupID == "" {
			groupID = fmt.Sprintf("date_%s_lineup_%d", date.Format("20060102"), idx)
		}

		gameDate := ref.GameDate
		item := lineuplog.GameLog{
			GameID:        ref.ID,
			TeamID:        teamID,
			GroupID:       groupID,
			Season:        season,
			GroupQuantity: qty,
			GroupName:     lineuplog.CleanGroupName(line.GroupName),
			OpponentID:    &opponentID,
			IsHome:        &isHome,
			GameDate:      &gameDate,
			Min:           line.Min,
			PlusMinus:     line.PlusMinus,
			Pts:           line.Pts,
			FGM:           line.FGM,
			FGA:           line.FGA,
			FGPct:         line.FGPct,
			FG3M:          line.FG3M,
			FG3A:          line.FG3A,
			FG3Pct:        line.FG3Pct,
			FTM:           line.FTM,
			FTA:           line.FTA,
			FTPct:         line.FTPct,
			Reb:           line.Reb,
			Ast:           line.Ast,
			Tov:           line.Tov,
			Stl:           line.Stl,
			Blk:           line.Blk,
			PF:            line.PF,
		}

		if err := s.logs.Upsert(ctx, item); err != nil {
			return count, ingestStatusFailed, fmt.Sprintf("upsert lineup %s: %v", groupID, err)
		}
		count++
	}

	if count == 0 {
		return 0, ingestStatusSkipped, "no lineup rows for team"
	}
	return count, ingestStatusSuccess, ""
}

func (s *IngestionService) teamsByAbbreviation(ctx context.Context) (map[string]team.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	byAbbr := make(map[string]team.Team, len(teams))
	for _, item := range teams {
		byAbbr[item.Abbreviation] = item
	}
	return byAbbr, nil
}
