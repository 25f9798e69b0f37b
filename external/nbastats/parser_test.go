package nbastats

import (
	"testing"

	sonic "github.com/bytedance/sonic"
)

const gameFinderPayload = `{
  "resource": "leaguegamefinder",
  "resultSets": [
    {
      "name": "LeagueGameFinderResults",
      "headers": ["SEASON_ID", "TEAM_ID", "TEAM_ABBREVIATION", "GAME_ID", "GAME_DATE", "MATCHUP", "WL", "PTS", "PLUS_MINUS"],
      "rowSet": [
        ["22024", 1610612750, "MIN", "0022400061", "2024-10-22", "MIN @ LAL", "W", 110, 7],
        ["22024", 1610612750, "MIN", "0022400092", "2024-10-26", "MIN vs. POR", "L", 98, -5],
        ["22024", 1610612750, "MIN", "0022400200", "2024-11-20", "MIN vs. DEN", null, null, null],
        ["22024", 1610612747, "LAL", "0022400061", "2024-10-22", "LAL vs. MIN", "L", 103, -7]
      ]
    }
  ]
}`

const lineupsPayload = `{
  "resource": "leaguedashlineups",
  "resultSets": [
    {
      "name": "Lineups",
      "headers": ["GROUP_SET", "GROUP_ID", "GROUP_NAME", "TEAM_ID", "MIN", "FGM", "FGA", "FG_PCT", "PTS", "PLUS_MINUS"],
      "rowSet": [
        ["Lineups", "-1630162-1626157-203081-", "A. Edwards - R. Gobert - M. Conley", 1610612750, 12.4, 5, 11, 0.455, 14, 6],
        ["Lineups", "-1629675-", "N. Reid", 1610612750, 8.0, null, null, null, 9, -2]
      ]
    }
  ]
}`

func TestParseTeamGames(t *testing.T) {
	var envelope statsEnvelope
	if err := sonic.Unmarshal([]byte(gameFinderPayload), &envelope); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	games, err := parseTeamGames(envelope, 1610612750)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	// The unfinished game and the other team's row are filtered out.
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}

	first := games[0]
	if first.GameID != "0022400061" || first.IsHome || first.OpponentAbbr != "LAL" {
		t.Fatalf("first game: %+v", first)
	}
	if first.Pts == nil || *first.Pts != 110 || first.PlusMinus == nil || *first.PlusMinus != 7 {
		t.Fatalf("first game score: pts=%v pm=%v", first.Pts, first.PlusMinus)
	}
	if first.GameDate.Format("2006-01-02") != "2024-10-22" {
		t.Fatalf("first game date: %v", first.GameDate)
	}

	second := games[1]
	if !second.IsHome || second.OpponentAbbr != "POR" {
		t.Fatalf("second game: %+v", second)
	}
}

func TestParseLineups(t *testing.T) {
	var envelope statsEnvelope
	if err := sonic.Unmarshal([]byte(lineupsPayload), &envelope); err != nil {
		t.Fatalf("decode payload: %v", err)
	}

	lines, err := parseLineups(envelope)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	first := lines[0]
	if first.GroupID != "-1630162-1626157-203081-" {
		t.Fatalf("group id: %q", first.GroupID)
	}
	if first.GroupName != "A. Edwards - R. Gobert - M. Conley" {
		t.Fatalf("group name: %q", first.GroupName)
	}
	if first.Min == nil || *first.Min != 12.4 {
		t.Fatalf("minutes: %v", first.Min)
	}
	if first.FGPct == nil || *first.FGPct != 0.455 {
		t.Fatalf("fg pct: %v", first.FGPct)
	}

	second := lines[1]
	if second.FGM != nil || second.FGPct != nil {
		t.Fatal("null cells must map to nil")
	}
	if second.PlusMinus == nil || *second.PlusMinus != -2 {
		t.Fatalf("plus-minus: %v", second.PlusMinus)
	}
}

func TestParseMatchup(t *testing.T) {
	isHome, opponent, err := parseMatchup("MIN vs. LAL")
	if err != nil || !isHome || opponent != "LAL" {
		t.Fatalf("home matchup: home=%v opp=%q err=%v", isHome, opponent, err)
	}

	isHome, opponent, err = parseMatchup("MIN @ OKC")
	if err != nil || isHome || opponent != "OKC" {
		t.Fatalf("away matchup: home=%v opp=%q err=%v", isHome, opponent, err)
	}

	if _, _, err := parseMatchup("garbage"); err == nil {
		t.Fatal("expected error for unrecognized matchup")
	}
}

func TestParseGameDateLayouts(t *testing.T) {
	for _, raw := range []string{"2024-10-22", "Oct 22, 2024", "10/22/2024"} {
		date, err := parseGameDate(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if date.Format("2006-01-02") != "2024-10-22" {
			t.Fatalf("parse %q: got %v", raw, date)
		}
	}
}

func TestParseTeamGamesMissingResultSet(t *testing.T) {
	if _, err := parseTeamGames(statsEnvelope{}, 1); err == nil {
		t.Fatal("expected error for missing result set")
	}
	if _, err := parseLineups(statsEnvelope{}); err == nil {
		t.Fatal("expected error for missing result set")
	}
}
