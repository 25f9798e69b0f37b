package gametotals

import "fmt"

// TeamGameTotal is one team's final score in one game, from the
// per-team-per-game totals reference. The per-game analysis derives
// win/loss by joining it for both sides of a game.
type TeamGameTotal struct {
	GameID string
	TeamID int64
	Pts    int
}

func (t TeamGameTotal) Validate() error {
	if t.GameID == "" {
		return fmt.Errorf("game total game id is required")
	}
	if t.TeamID <= 0 {
		return fmt.Errorf("game total team id is required")
	}
	if t.Pts < 0 {
		return fmt.Errorf("game total points cannot be negative")
	}

	return nil
}
