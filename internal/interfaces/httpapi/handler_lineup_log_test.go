package httpapi

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/gametotals"
	"github.com/wolvesmetrics/lineup-analytics/internal/infrastructure/repository/memory"
	"github.com/wolvesmetrics/lineup-analytics/internal/usecase"
)

const testJobToken = "test-job-token"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, seedTotals []gametotals.TeamGameTotal) http.Handler {
	t.Helper()

	games := memory.NewGameRepository(memory.SeedGames())
	teams := memory.NewTeamRepository(memory.SeedTeams())
	logs := memory.NewLineupLogRepository(games, teams)
	totals := memory.NewGameTotalsRepository(seedTotals)
	reports := memory.NewReportRepository(logs, teams, totals)

	lineupLogService := usecase.NewLineupLogService(logs, games, nil)
	reportService := usecase.NewReportService(reports, nil, []string{"Edwards"})
	exportService := usecase.NewExportService(reportService)

	handler := NewHandler(lineupLogService, reportService, exportService, nil, discardLogger())
	return NewRouter(handler, discardLogger(), false, nil, testJobToken)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

const recordLineupLogBody = `{
	"game_id": "0022400061",
	"team_id": 1610612750,
	"group_id": "lineup_a",
	"season": "2024-25",
	"group_quantity": 3,
	"group_name": "Conley; Edwards; Gobert",
	"min": 12.5,
	"plus_minus": 8,
	"pts": 25
}`

func TestRecordLineupLog_CreatedWithGameContext(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/lineup-logs", strings.NewReader(recordLineupLogBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object in response")
	}
	// The Timberwolves were the road team in this seeded game.
	if got, _ := data["game_date"].(string); got != "2024-10-22" {
		t.Fatalf("expected game_date backfilled from the game, got %v", data["game_date"])
	}
	if isHome, _ := data["is_home"].(bool); isHome {
		t.Fatalf("expected is_home=false, got %v", data["is_home"])
	}
	if opponent, _ := data["opponent_id"].(float64); int64(opponent) != memory.TeamIDLakers {
		t.Fatalf("expected opponent_id=%d, got %v", memory.TeamIDLakers, data["opponent_id"])
	}
}

func TestRecordLineupLog_DuplicateConflicts(t *testing.T) {
	router := newTestRouter(t, nil)

	for i, wantStatus := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/v1/lineup-logs", strings.NewReader(recordLineupLogBody))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != wantStatus {
			t.Fatalf("request %d: expected status %d, got %d", i, wantStatus, rec.Code)
		}
	}
}

func TestRecordLineupLog_MissingFields(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/lineup-logs", strings.NewReader(`{"game_id":"0022400061"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestReplaceLineupLog_OverwritesExisting(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/lineup-logs", strings.NewReader(recordLineupLogBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed record failed with status %d", rec.Code)
	}

	replaced := strings.Replace(recordLineupLogBody, `"pts": 25`, `"pts": 31`, 1)
	req = httptest.NewRequest(http.MethodPut, "/v1/lineup-logs", strings.NewReader(replaced))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data, _ := decodeEnvelope(t, rec)["data"].(map[string]any)
	if pts, _ := data["pts"].(float64); pts != 31 {
		t.Fatalf("expected pts=31 after replace, got %v", data["pts"])
	}
}

func TestGetLineupLog_NotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/lineup-logs/0022400061/1610612750/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestListLineupLogs_FiltersByPlayer(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/lineup-logs", strings.NewReader(recordLineupLogBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed record failed with status %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/lineup-logs?team_id=1610612750&player=Gobert", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data, _ := decodeEnvelope(t, rec)["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("expected 1 row, got %d", len(data))
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/lineup-logs?team_id=1610612750&player=Jokic", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	data, _ = decodeEnvelope(t, rec)["data"].([]any)
	if len(data) != 0 {
		t.Fatalf("expected no rows for unmatched player, got %d", len(data))
	}
}
