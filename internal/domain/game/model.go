package game

import (
	"fmt"
	"time"
)

// Game is one entry in the games reference table. Home/away team ids
// are enough to resolve a lineup row's opponent and venue.
type Game struct {
	ID         string
	Season     string
	GameDate   time.Time
	HomeTeamID int64
	AwayTeamID int64
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.HomeTeamID <= 0 || g.AwayTeamID <= 0 {
		return fmt.Errorf("game home and away team ids are required")
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("game home and away team ids must differ")
	}

	return nil
}

// Side reports whether teamID played this game and, if so, whether it
// was the home side and who the opponent was.
func (g Game) Side(teamID int64) (isHome bool, opponentID int64, ok bool) {
	switch teamID {
	case g.HomeTeamID:
		return true, g.AwayTeamID, true
	case g.AwayTeamID:
		return false, g.HomeTeamID, true
	default:
		return false, 0, false
	}
}
