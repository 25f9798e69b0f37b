package report

import (
	"time"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
)

// Result classifies a lineup's game from its team's perspective.
type Result string

const (
	ResultWin     Result = "W"
	ResultLoss    Result = "L"
	ResultUnknown Result = ""
)

// ResultPolicy names how missing or tied scores are classified.
type ResultPolicy string

const (
	// ResultPolicyLossOnMissing keeps the historical behavior: missing
	// scores and ties classify as a loss. A simplification, not a
	// guarantee of accuracy when scores are incomplete.
	ResultPolicyLossOnMissing ResultPolicy = "loss_on_missing"
	// ResultPolicyUnknownOnMissing propagates missing scores as an
	// unknown result instead of forcing a loss.
	ResultPolicyUnknownOnMissing ResultPolicy = "unknown_on_missing"
)

// DeriveResult applies the named policy to a pair of final scores.
func DeriveResult(policy ResultPolicy, teamPts, opponentPts *int) Result {
	if teamPts == nil || opponentPts == nil {
		if policy == ResultPolicyUnknownOnMissing {
			return ResultUnknown
		}
		return ResultLoss
	}
	if *teamPts > *opponentPts {
		return ResultWin
	}
	// Ties classify as losses under both policies.
	return ResultLoss
}

// PerGameRow is one lineup game log enriched for trend and regression
// analysis: opponent identity, final scores, rate stats, calendar
// features and the chronological game index within the team-season.
type PerGameRow struct {
	Log lineuplog.GameLog

	OpponentName *string
	OpponentAbbr *string
	TeamPts      *int
	OpponentPts  *int
	GameResult   Result

	PtsPerMin float64
	PMPerMin  float64

	Month     *int
	DayOfWeek *int
	GameIndex int

	Flags map[string]bool
}

// SeasonRow is one lineup's season summary: one row per
// (team, season, group_quantity, group_id, group_name).
type SeasonRow struct {
	TeamID        int64
	Season        string
	GroupQuantity int
	GroupID       string
	GroupName     *string

	GamesPlayed   int
	GamesPositive int

	TotalMin       float64
	TotalPlusMinus int
	TotalPts       int

	AvgMinPerGame float64
	AvgPlusMinus  float64
	AvgPts        float64

	// Sample standard deviation of plus-minus; nil with fewer than two
	// games.
	StdDevPlusMinus *float64

	// Home/away splits are nil when the split has no games, never zero.
	HomeAvgPlusMinus *float64
	AwayAvgPlusMinus *float64
	HomeAvgPts       *float64
	AwayAvgPts       *float64

	Flags map[string]bool
}

// Filter narrows report rows. Zero values mean "no constraint".
type Filter struct {
	TeamID        int64
	Season        string
	GroupID       string
	GroupQuantity int
	DateFrom      *time.Time
	DateTo        *time.Time
	ResultPolicy  ResultPolicy
	Limit         int
}
