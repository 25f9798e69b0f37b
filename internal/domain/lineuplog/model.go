package lineuplog

import "time"

// GameLog is one lineup's box-score line for a single game. Rows are
// immutable historical facts once ingested; corrected data replaces the
// row in place and bumps LastUpdatedAt.
type GameLog struct {
	GameID        string
	TeamID        int64
	GroupID       string
	Season        string
	GroupQuantity int
	GroupName     *string
	OpponentID    *int64
	IsHome        *bool
	GameDate      *time.Time

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

	LastUpdatedAt time.Time
}

// Key uniquely identifies a lineup's appearance in a game.
type Key struct {
	GameID  string
	TeamID  int64
	GroupID string
}

func (g GameLog) Key() Key {
	return Key{GameID: g.GameID, TeamID: g.TeamID, GroupID: g.GroupID}
}

// Filter narrows ListByFilter results. Zero values mean "no constraint".
type Filter struct {
	GameID        string
	TeamID        int64
	GroupID       string
	Season        string
	GroupQuantity int
	DateFrom      *time.Time
	DateTo        *time.Time
	// PlayerName is matched against group_name via the full-text index.
	PlayerName string
	Limit      int
}
