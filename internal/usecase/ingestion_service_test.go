package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
	"github.com/wolvesmetrics/lineup-analytics/internal/infrastructure/repository/memory"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/id"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/logging"
)

type fakeStatsProvider struct {
	mu      sync.Mutex
	games   []ExternalTeamGame
	lineups map[string][]ExternalLineupLine
	gameErr error
	calls   int
}

func (f *fakeStatsProvider) FetchTeamGames(_ context.Context, _ int64, _ string) ([]ExternalTeamGame, error) {
	if f.gameErr != nil {
		return nil, f.gameErr
	}
	return f.games, nil
}

func (f *fakeStatsProvider) FetchLineups(_ context.Context, req LineupFetchRequest) ([]ExternalLineupLine, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.lineups[req.Date.Format("2006-01-02")], nil
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func newIngestionFixture(provider StatsProvider) (*IngestionService, *memory.LineupLogRepository, *memory.GameTotalsRepository) {
	games := memory.NewGameRepository(nil)
	teams := memory.NewTeamRepository(memory.SeedTeams())
	logs := memory.NewLineupLogRepository(games, teams)
	totals := memory.NewGameTotalsRepository(nil)
	svc := NewIngestionService(provider, logs, games, teams, totals, id.NewRandomGenerator(), logging.NewNop(), nil, IngestionDefaults{})
	return svc, logs, totals
}

func TestIngestionService_Ingest(t *testing.T) {
	day1 := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 10, 24, 0, 0, 0, 0, time.UTC)

	provider := &fakeStatsProvider{
		games: []ExternalTeamGame{
			{GameID: "0022400061", TeamID: memory.TeamIDTimberwolves, GameDate: day1, IsHome: false, OpponentAbbr: "LAL", Pts: intPtr(110), PlusMinus: intPtr(7)},
			{GameID: "0022400078", TeamID: memory.TeamIDTimberwolves, GameDate: day2, IsHome: true, OpponentAbbr: "SAC", Pts: intPtr(98), PlusMinus: intPtr(-5)},
		},
		lineups: map[string][]ExternalLineupLine{
			"2024-10-22": {
				{GroupID: "g1", GroupName: "A. Edwards - R. Gobert - M. Conley", TeamID: memory.TeamIDTimberwolves, Min: floatPtr(12.0), PlusMinus: intPtr(6), Pts: intPtr(18)},
				{GroupID: "g2", GroupName: "N. Reid - J. Randle - J. McDaniels", TeamID: memory.TeamIDTimberwolves, Min: floatPtr(8.5), PlusMinus: intPtr(-2), Pts: intPtr(9)},
			},
			"2024-10-24": {
				{GroupID: "g1", GroupName: "A. Edwards - R. Gobert - M. Conley", TeamID: memory.TeamIDTimberwolves, Min: floatPtr(10.0), PlusMinus: intPtr(3), Pts: intPtr(11)},
			},
		},
	}

	svc, logs, totals := newIngestionFixture(provider)

	result, err := svc.Ingest(t.Context(), IngestInput{
		TeamID:          memory.TeamIDTimberwolves,
		Season:          memory.SeedSeason,
		GroupQuantities: []int{3},
		MaxWorkers:      2,
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	if result.RunID == "" {
		t.Fatal("run id not assigned")
	}
	if result.GamesSynced != 2 {
		t.Fatalf("games synced: %d", result.GamesSynced)
	}
	if result.RowsUpserted != 3 {
		t.Fatalf("rows upserted: %d", result.RowsUpserted)
	}
	if result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("task counts: success=%d failed=%d", result.SuccessCount, result.FailedCount)
	}

	stored, _, err := logs.GetByKey(t.Context(), lineuplog.Key{
		GameID:  "0022400061",
		TeamID:  memory.TeamIDTimberwolves,
		GroupID: "g1",
	})
	if err != nil {
		t.Fatalf("get stored row: %v", err)
	}
	if stored.GroupName == nil || *stored.GroupName != "Edwards; Gobert; Conley" {
		t.Fatalf("group name not cleaned: %+v", stored.GroupName)
	}
	if stored.OpponentID == nil || *stored.OpponentID != memory.TeamIDLakers {
		t.Fatalf("opponent not resolved: %+v", stored.OpponentID)
	}
	if stored.IsHome == nil || *stored.IsHome {
		t.Fatalf("is_home wrong: %+v", stored.IsHome)
	}

	// Opponent's score comes from pts - plus_minus.
	opponentTotal, ok, err := totals.GetByGameAndTeam(t.Context(), "0022400061", memory.TeamIDLakers)
	if err != nil || !ok {
		t.Fatalf("opponent total missing: ok=%v err=%v", ok, err)
	}
	if opponentTotal.Pts != 103 {
		t.Fatalf("opponent pts: %d", opponentTotal.Pts)
	}
}

func TestIngestionService_Ingest_ConfiguredDefaults(t *testing.T) {
	day := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	provider := &fakeStatsProvider{
		games: []ExternalTeamGame{
			{GameID: "0022400061", TeamID: memory.TeamIDTimberwolves, GameDate: day, IsHome: true, OpponentAbbr: "DEN"},
		},
	}

	games := memory.NewGameRepository(nil)
	teams := memory.NewTeamRepository(memory.SeedTeams())
	logs := memory.NewLineupLogRepository(games, teams)
	totals := memory.NewGameTotalsRepository(nil)
	svc := NewIngestionService(provider, logs, games, teams, totals, id.NewRandomGenerator(), logging.NewNop(), nil, IngestionDefaults{
		TeamID:          memory.TeamIDTimberwolves,
		Season:          memory.SeedSeason,
		GroupQuantities: []int{3, 2},
		MaxWorkers:      2,
	})

	// A zero input must fall back to the configured defaults, not the
	// hard-coded ones.
	result, err := svc.Ingest(t.Context(), IngestInput{})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if result.TeamID != memory.TeamIDTimberwolves {
		t.Fatalf("team id: %d", result.TeamID)
	}
	if result.Season != memory.SeedSeason {
		t.Fatalf("season not taken from defaults: %s", result.Season)
	}
	if result.TaskCount != 2 {
		t.Fatalf("expected one task per configured quantity, got %d", result.TaskCount)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("worker count not taken from defaults: %d", result.WorkerCount)
	}
}

func TestIngestionService_Ingest_SkipsDatesWithoutLineups(t *testing.T) {
	day := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	provider := &fakeStatsProvider{
		games: []ExternalTeamGame{
			{GameID: "0022400061", TeamID: memory.TeamIDTimberwolves, GameDate: day, IsHome: true, OpponentAbbr: "DEN"},
		},
	}

	svc, _, _ := newIngestionFixture(provider)

	result, err := svc.Ingest(t.Context(), IngestInput{
		TeamID: memory.TeamIDTimberwolves,
		Season: memory.SeedSeason,
	})
	if err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if result.SkippedCount != 1 || result.RowsUpserted != 0 {
		t.Fatalf("expected one skipped task: %+v", result)
	}
}

func TestIngestionService_Ingest_ProviderDown(t *testing.T) {
	provider := &fakeStatsProvider{gameErr: errors.New("upstream 503")}
	svc, _, _ := newIngestionFixture(provider)

	_, err := svc.Ingest(t.Context(), IngestInput{TeamID: memory.TeamIDTimberwolves, Season: memory.SeedSeason})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestIngestionService_Ingest_Validation(t *testing.T) {
	svc, _, _ := newIngestionFixture(&fakeStatsProvider{})

	if _, err := svc.Ingest(t.Context(), IngestInput{Season: memory.SeedSeason}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing team: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Ingest(t.Context(), IngestInput{TeamID: 1, Season: "25"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("bad season: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Ingest(t.Context(), IngestInput{TeamID: 1, Season: memory.SeedSeason, GroupQuantities: []int{0}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero quantity: expected ErrInvalidInput, got %v", err)
	}
}
