package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/gametotals"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/report"
)

func newReportFixture(t *testing.T) (*LineupLogRepository, *GameTotalsRepository, *ReportRepository) {
	t.Helper()
	games := NewGameRepository(SeedGames())
	teams := NewTeamRepository(SeedTeams())
	logs := NewLineupLogRepository(games, teams)
	totals := NewGameTotalsRepository(nil)
	return logs, totals, NewReportRepository(logs, teams, totals)
}

func datedLog(gameID string, date time.Time, isHome bool, opponentID int64, min float64, pm, pts int) lineuplog.GameLog {
	name := "Edwards; Gobert; Conley"
	return lineuplog.GameLog{
		GameID:        gameID,
		TeamID:        TeamIDTimberwolves,
		GroupID:       "g1",
		Season:        SeedSeason,
		GroupQuantity: 3,
		GroupName:     &name,
		OpponentID:    &opponentID,
		IsHome:        &isHome,
		GameDate:      &date,
		Min:           &min,
		PlusMinus:     &pm,
		Pts:           &pts,
	}
}

func TestPerGameEnrichment(t *testing.T) {
	logs, totals, reports := newReportFixture(t)
	ctx := context.Background()

	date := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	if err := logs.Insert(ctx, datedLog("0022400061", date, false, TeamIDLakers, 10, 8, 20)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := totals.Upsert(ctx, gametotals.TeamGameTotal{GameID: "0022400061", TeamID: TeamIDTimberwolves, Pts: 110}); err != nil {
		t.Fatalf("upsert total: %v", err)
	}
	if err := totals.Upsert(ctx, gametotals.TeamGameTotal{GameID: "0022400061", TeamID: TeamIDLakers, Pts: 103}); err != nil {
		t.Fatalf("upsert total: %v", err)
	}

	rows, err := reports.ListPerGame(ctx, report.Filter{TeamID: TeamIDTimberwolves})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]

	if row.OpponentName == nil || *row.OpponentName != "Los Angeles Lakers" {
		t.Fatalf("opponent name: %+v", row.OpponentName)
	}
	if row.OpponentAbbr == nil || *row.OpponentAbbr != "LAL" {
		t.Fatalf("opponent abbr: %+v", row.OpponentAbbr)
	}
	if row.TeamPts == nil || *row.TeamPts != 110 || row.OpponentPts == nil || *row.OpponentPts != 103 {
		t.Fatalf("scores: team=%v opp=%v", row.TeamPts, row.OpponentPts)
	}
	if row.GameResult != report.ResultWin {
		t.Fatalf("result: got %q want W", row.GameResult)
	}
	if math.Abs(row.PtsPerMin-2.0) > 1e-9 {
		t.Fatalf("pts per min: %v", row.PtsPerMin)
	}
	if math.Abs(row.PMPerMin-0.8) > 1e-9 {
		t.Fatalf("pm per min: %v", row.PMPerMin)
	}
	if row.Month == nil || *row.Month != 10 {
		t.Fatalf("month: %+v", row.Month)
	}
	if row.DayOfWeek == nil || *row.DayOfWeek != 2 {
		t.Fatalf("day of week: %+v", row.DayOfWeek)
	}
	if row.GameIndex != 1 {
		t.Fatalf("game index: %d", row.GameIndex)
	}
}

func TestPerGameResultPolicies(t *testing.T) {
	logs, _, reports := newReportFixture(t)
	ctx := context.Background()

	date := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	if err := logs.Insert(ctx, datedLog("0022400061", date, false, TeamIDLakers, 10, 8, 20)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// No totals stored: default policy forces a loss.
	rows, err := reports.ListPerGame(ctx, report.Filter{TeamID: TeamIDTimberwolves})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rows[0].GameResult != report.ResultLoss {
		t.Fatalf("default policy: got %q want L", rows[0].GameResult)
	}

	rows, err = reports.ListPerGame(ctx, report.Filter{
		TeamID:       TeamIDTimberwolves,
		ResultPolicy: report.ResultPolicyUnknownOnMissing,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rows[0].GameResult != report.ResultUnknown {
		t.Fatalf("unknown policy: got %q want unknown", rows[0].GameResult)
	}
}

func TestPerGameZeroMinutesRates(t *testing.T) {
	logs, _, reports := newReportFixture(t)
	ctx := context.Background()

	date := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	if err := logs.Insert(ctx, datedLog("0022400061", date, false, TeamIDLakers, 0, 5, 9)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := reports.ListPerGame(ctx, report.Filter{TeamID: TeamIDTimberwolves})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rows[0].PtsPerMin != 0 || rows[0].PMPerMin != 0 {
		t.Fatalf("zero minutes must yield zero rates: pts=%v pm=%v", rows[0].PtsPerMin, rows[0].PMPerMin)
	}
}

func TestPerGameIndexOrdersByDate(t *testing.T) {
	logs, _, reports := newReportFixture(t)
	ctx := context.Background()

	second := time.Date(2024, 10, 24, 0, 0, 0, 0, time.UTC)
	first := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	if err := logs.Insert(ctx, datedLog("0022400078", second, false, TeamIDKings, 8, -2, 10)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := logs.Insert(ctx, datedLog("0022400061", first, false, TeamIDLakers, 10, 8, 20)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := reports.ListPerGame(ctx, report.Filter{TeamID: TeamIDTimberwolves})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Log.GameID != "0022400061" || rows[0].GameIndex != 1 {
		t.Fatalf("first row: game=%s index=%d", rows[0].Log.GameID, rows[0].GameIndex)
	}
	if rows[1].Log.GameID != "0022400078" || rows[1].GameIndex != 2 {
		t.Fatalf("second row: game=%s index=%d", rows[1].Log.GameID, rows[1].GameIndex)
	}
}

func TestPerGameIndexSharesRanksAcrossRows(t *testing.T) {
	logs, _, reports := newReportFixture(t)
	ctx := context.Background()

	first := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	second := time.Date(2024, 10, 24, 0, 0, 0, 0, time.UTC)
	if err := logs.Insert(ctx, datedLog("0022400061", first, false, TeamIDLakers, 10, 8, 20)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	sibling := datedLog("0022400061", first, false, TeamIDLakers, 6, 1, 5)
	sibling.GroupID = "g2"
	if err := logs.Insert(ctx, sibling); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := logs.Insert(ctx, datedLog("0022400078", second, false, TeamIDKings, 8, -2, 10)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	undated := datedLog("0022400092", time.Time{}, true, TeamIDTrailBlazers, 7, 3, 9)
	undated.GameDate = nil
	if err := logs.Insert(ctx, undated); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := reports.ListPerGame(ctx, report.Filter{TeamID: TeamIDTimberwolves})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	indexes := make(map[string]int)
	for _, row := range rows {
		key := row.Log.GameID + "/" + row.Log.GroupID
		indexes[key] = row.GameIndex
	}
	if indexes["0022400061/g1"] != 1 || indexes["0022400061/g2"] != 1 {
		t.Fatalf("same-date rows must share the rank: %v", indexes)
	}
	if indexes["0022400078/g1"] != 2 {
		t.Fatalf("second date rank: %v", indexes)
	}
	// Undated rows sort after every dated game.
	if indexes["0022400092/g1"] != 3 {
		t.Fatalf("undated row rank: %v", indexes)
	}
}

func TestSeasonAggregate(t *testing.T) {
	logs, _, reports := newReportFixture(t)
	ctx := context.Background()

	home := time.Date(2024, 10, 26, 0, 0, 0, 0, time.UTC)
	away := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	if err := logs.Insert(ctx, datedLog("0022400061", away, false, TeamIDLakers, 10, 8, 20)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := logs.Insert(ctx, datedLog("0022400092", home, true, TeamIDTrailBlazers, 14, -4, 12)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := reports.ListSeason(ctx, report.Filter{TeamID: TeamIDTimberwolves, Season: SeedSeason})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]

	if row.GamesPlayed != 2 {
		t.Fatalf("games played: %d", row.GamesPlayed)
	}
	if row.GamesPositive != 1 {
		t.Fatalf("games positive: %d", row.GamesPositive)
	}
	if math.Abs(row.TotalMin-24) > 1e-9 {
		t.Fatalf("total minutes: %v", row.TotalMin)
	}
	if row.TotalPlusMinus != 4 || row.TotalPts != 32 {
		t.Fatalf("totals: pm=%d pts=%d", row.TotalPlusMinus, row.TotalPts)
	}
	if math.Abs(row.AvgMinPerGame-12) > 1e-9 || math.Abs(row.AvgPlusMinus-2) > 1e-9 || math.Abs(row.AvgPts-16) > 1e-9 {
		t.Fatalf("averages: min=%v pm=%v pts=%v", row.AvgMinPerGame, row.AvgPlusMinus, row.AvgPts)
	}

	// Sample stddev of {8, -4} is sqrt(72).
	if row.StdDevPlusMinus == nil || math.Abs(*row.StdDevPlusMinus-math.Sqrt(72)) > 1e-9 {
		t.Fatalf("stddev: %+v", row.StdDevPlusMinus)
	}
	if row.HomeAvgPlusMinus == nil || *row.HomeAvgPlusMinus != -4 {
		t.Fatalf("home avg pm: %+v", row.HomeAvgPlusMinus)
	}
	if row.AwayAvgPlusMinus == nil || *row.AwayAvgPlusMinus != 8 {
		t.Fatalf("away avg pm: %+v", row.AwayAvgPlusMinus)
	}
}

func TestSeasonAggregateSingleGame(t *testing.T) {
	logs, _, reports := newReportFixture(t)
	ctx := context.Background()

	away := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	if err := logs.Insert(ctx, datedLog("0022400061", away, false, TeamIDLakers, 10, 8, 20)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := reports.ListSeason(ctx, report.Filter{TeamID: TeamIDTimberwolves})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	row := rows[0]

	if row.StdDevPlusMinus != nil {
		t.Fatalf("stddev must be nil below two games: %v", *row.StdDevPlusMinus)
	}
	if row.HomeAvgPlusMinus != nil || row.HomeAvgPts != nil {
		t.Fatal("home splits must be nil with no home games")
	}
	if row.AwayAvgPlusMinus == nil || row.AwayAvgPts == nil {
		t.Fatal("away splits missing")
	}
}

func TestSeasonAggregateGroupsByLineup(t *testing.T) {
	logs, _, reports := newReportFixture(t)
	ctx := context.Background()

	date := time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC)
	first := datedLog("0022400061", date, false, TeamIDLakers, 10, 8, 20)
	second := datedLog("0022400061", date, false, TeamIDLakers, 6, 1, 5)
	second.GroupID = "g2"
	otherName := "Reid; Randle; McDaniels"
	second.GroupName = &otherName
	if err := logs.Insert(ctx, first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := logs.Insert(ctx, second); err != nil {
		t.Fatalf("insert: %v", err)
	}

	rows, err := reports.ListSeason(ctx, report.Filter{TeamID: TeamIDTimberwolves})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].GroupID != "g1" || rows[1].GroupID != "g2" {
		t.Fatalf("ordering: %s, %s", rows[0].GroupID, rows[1].GroupID)
	}
}
