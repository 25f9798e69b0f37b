package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wolvesmetrics/lineup-analytics/internal/infrastructure/repository/memory"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/id"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/logging"
	"github.com/wolvesmetrics/lineup-analytics/internal/usecase"
)

type emptyStatsProvider struct{}

func (emptyStatsProvider) FetchTeamGames(context.Context, int64, string) ([]usecase.ExternalTeamGame, error) {
	return nil, nil
}

func (emptyStatsProvider) FetchLineups(context.Context, usecase.LineupFetchRequest) ([]usecase.ExternalLineupLine, error) {
	return nil, nil
}

func newIngestTestRouter(t *testing.T, withService bool) http.Handler {
	t.Helper()

	games := memory.NewGameRepository(memory.SeedGames())
	teams := memory.NewTeamRepository(memory.SeedTeams())
	logs := memory.NewLineupLogRepository(games, teams)
	totals := memory.NewGameTotalsRepository(nil)
	reports := memory.NewReportRepository(logs, teams, totals)

	lineupLogService := usecase.NewLineupLogService(logs, games, nil)
	reportService := usecase.NewReportService(reports, nil, nil)
	exportService := usecase.NewExportService(reportService)

	var ingestionService *usecase.IngestionService
	if withService {
		ingestionService = usecase.NewIngestionService(
			emptyStatsProvider{}, logs, games, teams, totals,
			id.NewRandomGenerator(), logging.NewNop(), nil,
			usecase.IngestionDefaults{TeamID: memory.TeamIDTimberwolves, Season: memory.SeedSeason},
		)
	}

	handler := NewHandler(lineupLogService, reportService, exportService, ingestionService, discardLogger())
	return NewRouter(handler, discardLogger(), false, nil, testJobToken)
}

func TestRunLineupIngestJob_RequiresToken(t *testing.T) {
	router := newIngestTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/ingest-lineups", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRunLineupIngestJob_UnconfiguredService(t *testing.T) {
	router := newIngestTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/ingest-lineups", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestRunLineupIngestJob_EmptyBodyUsesDefaults(t *testing.T) {
	router := newIngestTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/ingest-lineups", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if got, _ := data["team_id"].(float64); int64(got) != memory.TeamIDTimberwolves {
		t.Fatalf("expected default team id, got %v", data["team_id"])
	}
	if got, _ := data["season"].(string); got != memory.SeedSeason {
		t.Fatalf("expected configured season, got %v", data["season"])
	}
	if got, _ := data["games_synced"].(float64); got != 0 {
		t.Fatalf("expected no games synced from empty feed, got %v", data["games_synced"])
	}
}

func TestRunLineupIngestJob_RejectsBadPayload(t *testing.T) {
	router := newIngestTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/ingest-lineups", strings.NewReader(`{"max_workers": -2}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
