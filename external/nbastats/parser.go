package nbastats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wolvesmetrics/lineup-analytics/internal/usecase"
)

// statsEnvelope is the stats.nba.com response shape: tabular result
// sets with a header row and untyped cells.
type statsEnvelope struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

func (e statsEnvelope) resultSet(name string) (resultSet, bool) {
	for _, set := range e.ResultSets {
		if strings.EqualFold(set.Name, name) {
			return set, true
		}
	}
	return resultSet{}, false
}

// row pairs one rowSet entry with its header index so cells can be
// addressed by column name.
type row struct {
	index map[string]int
	cells []any
}

func (s resultSet) rows() []row {
	index := make(map[string]int, len(s.Headers))
	for i, header := range s.Headers {
		index[header] = i
	}

	out := make([]row, 0, len(s.RowSet))
	for _, cells := range s.RowSet {
		out = append(out, row{index: index, cells: cells})
	}
	return out
}

func (r row) cell(name string) (any, bool) {
	idx, ok := r.index[name]
	if !ok || idx >= len(r.cells) {
		return nil, false
	}
	return r.cells[idx], true
}

func (r row) str(name string) string {
	value, ok := r.cell(name)
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func (r row) int64Val(name string) int64 {
	value, ok := r.cell(name)
	if !ok || value == nil {
		return 0
	}
	switch v := value.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case string:
		parsed, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return parsed
	default:
		return 0
	}
}

func (r row) intPtr(name string) *int {
	value, ok := r.cell(name)
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case float64:
		out := int(v)
		return &out
	case int64:
		out := int(v)
		return &out
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

func (r row) floatPtr(name string) *float64 {
	value, ok := r.cell(name)
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case float64:
		out := v
		return &out
	case int64:
		out := float64(v)
		return &out
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}

// parseMatchup splits "MIN vs. LAL" / "MIN @ LAL" into venue and
// opponent. "vs." marks the home side.
func parseMatchup(matchup string) (isHome bool, opponentAbbr string, err error) {
	if _, after, found := strings.Cut(matchup, " vs. "); found {
		return true, strings.TrimSpace(after), nil
	}
	if _, after, found := strings.Cut(matchup, " @ "); found {
		return false, strings.TrimSpace(after), nil
	}
	return false, "", fmt.Errorf("unrecognized matchup %q", matchup)
}

func parseGameDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", "Jan 2, 2006", "01/02/2006"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized game date %q", raw)
}

func parseTeamGames(envelope statsEnvelope, teamID int64) ([]usecase.ExternalTeamGame, error) {
	set, ok := envelope.resultSet("LeagueGameFinderResults")
	if !ok {
		return nil, fmt.Errorf("response has no LeagueGameFinderResults result set")
	}

	out := make([]usecase.ExternalTeamGame, 0, len(set.RowSet))
	for _, r := range set.rows() {
		if r.int64Val("TEAM_ID") != teamID {
			continue
		}
		// Unplayed games carry no result yet.
		if strings.TrimSpace(r.str("WL")) == "" {
			continue
		}

		gameID := strings.TrimSpace(r.str("GAME_ID"))
		if gameID == "" {
			continue
		}

		date, err := parseGameDate(r.str("GAME_DATE"))
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", gameID, err)
		}
		isHome, opponent, err := parseMatchup(r.str("MATCHUP"))
		if err != nil {
			return nil, fmt.Errorf("game %s: %w", gameID, err)
		}

		out = append(out, usecase.ExternalTeamGame{
			GameID:       gameID,
			TeamID:       teamID,
			GameDate:     date,
			IsHome:       isHome,
			OpponentAbbr: opponent,
			Pts:          r.intPtr("PTS"),
			PlusMinus:    r.intPtr("PLUS_MINUS"),
		})
	}
	return out, nil
}

func parseLineups(envelope statsEnvelope) ([]usecase.ExternalLineupLine, error) {
	set, ok := envelope.resultSet("Lineups")
	if !ok {
		return nil, fmt.Errorf("response has no Lineups result set")
	}

	out := make([]usecase.ExternalLineupLine, 0, len(set.RowSet))
	for _, r := range set.rows() {
		out = append(out, usecase.ExternalLineupLine{
			GroupID:   strings.TrimSpace(r.str("GROUP_ID")),
			GroupName: strings.TrimSpace(r.str("GROUP_NAME")),
			TeamID:    r.int64Val("TEAM_ID"),
			Min:       r.floatPtr("MIN"),
			PlusMinus: r.intPtr("PLUS_MINUS"),
			Pts:       r.intPtr("PTS"),
			FGM:       r.intPtr("FGM"),
			FGA:       r.intPtr("FGA"),
			FGPct:     r.floatPtr("FG_PCT"),
			FG3M:      r.intPtr("FG3M"),
			FG3A:      r.intPtr("FG3A"),
			FG3Pct:    r.floatPtr("FG3_PCT"),
			FTM:       r.intPtr("FTM"),
			FTA:       r.intPtr("FTA"),
			FTPct:     r.floatPtr("FT_PCT"),
			Reb:       r.intPtr("REB"),
			Ast:       r.intPtr("AST"),
			Tov:       r.intPtr("TOV"),
			Stl:       r.intPtr("STL"),
			Blk:       r.intPtr("BLK"),
			PF:        r.intPtr("PF"),
		})
	}
	return out, nil
}
