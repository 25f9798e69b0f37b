package usecase

import (
	"errors"
	"testing"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
	"github.com/wolvesmetrics/lineup-analytics/internal/infrastructure/repository/memory"
)

func newLineupLogService() (*LineupLogService, *memory.LineupLogRepository) {
	games := memory.NewGameRepository(memory.SeedGames())
	teams := memory.NewTeamRepository(memory.SeedTeams())
	logs := memory.NewLineupLogRepository(games, teams)
	return NewLineupLogService(logs, games, nil), logs
}

func validGameLog() lineuplog.GameLog {
	name := "Edwards; Gobert; Conley"
	min := 11.4
	return lineuplog.GameLog{
		GameID:        "0022400061",
		TeamID:        memory.TeamIDTimberwolves,
		GroupID:       "g1",
		Season:        memory.SeedSeason,
		GroupQuantity: 3,
		GroupName:     &name,
		Min:           &min,
	}
}

func TestLineupLogService_Record_FillsGameContext(t *testing.T) {
	svc, _ := newLineupLogService()

	stored, err := svc.Record(t.Context(), validGameLog())
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	// Seed game 0022400061 is Timberwolves at the Lakers.
	if stored.IsHome == nil || *stored.IsHome {
		t.Fatalf("is_home not resolved to away: %+v", stored.IsHome)
	}
	if stored.OpponentID == nil || *stored.OpponentID != memory.TeamIDLakers {
		t.Fatalf("opponent not resolved: %+v", stored.OpponentID)
	}
	if stored.GameDate == nil {
		t.Fatal("game date not resolved")
	}
	if stored.LastUpdatedAt.IsZero() {
		t.Fatal("last_updated_at not set")
	}
}

func TestLineupLogService_Record_Duplicate(t *testing.T) {
	svc, _ := newLineupLogService()

	if _, err := svc.Record(t.Context(), validGameLog()); err != nil {
		t.Fatalf("first record failed: %v", err)
	}
	_, err := svc.Record(t.Context(), validGameLog())
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLineupLogService_Record_UnknownGame(t *testing.T) {
	svc, _ := newLineupLogService()

	item := validGameLog()
	item.GameID = "0099999999"
	_, err := svc.Record(t.Context(), item)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLineupLogService_Record_Validation(t *testing.T) {
	svc, _ := newLineupLogService()

	cases := map[string]func(*lineuplog.GameLog){
		"missing game id":  func(g *lineuplog.GameLog) { g.GameID = "  " },
		"missing group id": func(g *lineuplog.GameLog) { g.GroupID = "" },
		"bad season":       func(g *lineuplog.GameLog) { g.Season = "2024/25" },
		"zero quantity":    func(g *lineuplog.GameLog) { g.GroupQuantity = 0 },
		"negative minutes": func(g *lineuplog.GameLog) { min := -1.0; g.Min = &min },
		"bad percentage":   func(g *lineuplog.GameLog) { pct := 1.5; g.FGPct = &pct },
	}

	for label, mutate := range cases {
		item := validGameLog()
		mutate(&item)
		if _, err := svc.Record(t.Context(), item); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", label, err)
		}
	}
}

func TestLineupLogService_Replace_OverwritesExisting(t *testing.T) {
	svc, _ := newLineupLogService()

	if _, err := svc.Record(t.Context(), validGameLog()); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	corrected := validGameLog()
	pm := 12
	corrected.PlusMinus = &pm
	stored, err := svc.Replace(t.Context(), corrected)
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if stored.PlusMinus == nil || *stored.PlusMinus != 12 {
		t.Fatalf("plus-minus not replaced: %+v", stored.PlusMinus)
	}
}

func TestLineupLogService_Get_NotFound(t *testing.T) {
	svc, _ := newLineupLogService()

	_, err := svc.Get(t.Context(), lineuplog.Key{GameID: "0022400061", TeamID: memory.TeamIDTimberwolves, GroupID: "missing"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLineupLogService_List_RejectsInvertedRange(t *testing.T) {
	svc, _ := newLineupLogService()

	logs, err := svc.List(t.Context(), lineuplog.Filter{Season: memory.SeedSeason})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(logs) != 0 {
		t.Fatalf("expected empty list, got %d", len(logs))
	}

	from := mustDate(t, "2024-11-01")
	to := mustDate(t, "2024-10-01")
	if _, err := svc.List(t.Context(), lineuplog.Filter{DateFrom: &from, DateTo: &to}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
