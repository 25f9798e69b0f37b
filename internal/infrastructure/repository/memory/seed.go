package memory

import (
	"time"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/game"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/team"
)

const (
	TeamIDTimberwolves  int64 = 1610612750
	TeamIDNuggets       int64 = 1610612743
	TeamIDLakers        int64 = 1610612747
	TeamIDWarriors      int64 = 1610612744
	TeamIDMavericks     int64 = 1610612742
	TeamIDThunder       int64 = 1610612760
	TeamIDSuns          int64 = 1610612756
	TeamIDKings         int64 = 1610612758
	TeamIDTrailBlazers  int64 = 1610612757
	TeamIDSpurs         int64 = 1610612759
	TeamIDJazz          int64 = 1610612762
	TeamIDGrizzlies     int64 = 1610612763
	TeamIDPelicans      int64 = 1610612740
	TeamIDRockets       int64 = 1610612745
	TeamIDClippers      int64 = 1610612746
)

const SeedSeason = "2024-25"

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDTimberwolves, Name: "Minnesota Timberwolves", Abbreviation: "MIN"},
		{ID: TeamIDNuggets, Name: "Denver Nuggets", Abbreviation: "DEN"},
		{ID: TeamIDLakers, Name: "Los Angeles Lakers", Abbreviation: "LAL"},
		{ID: TeamIDWarriors, Name: "Golden State Warriors", Abbreviation: "GSW"},
		{ID: TeamIDMavericks, Name: "Dallas Mavericks", Abbreviation: "DAL"},
		{ID: TeamIDThunder, Name: "Oklahoma City Thunder", Abbreviation: "OKC"},
		{ID: TeamIDSuns, Name: "Phoenix Suns", Abbreviation: "PHX"},
		{ID: TeamIDKings, Name: "Sacramento Kings", Abbreviation: "SAC"},
		{ID: TeamIDTrailBlazers, Name: "Portland Trail Blazers", Abbreviation: "POR"},
		{ID: TeamIDSpurs, Name: "San Antonio Spurs", Abbreviation: "SAS"},
		{ID: TeamIDJazz, Name: "Utah Jazz", Abbreviation: "UTA"},
		{ID: TeamIDGrizzlies, Name: "Memphis Grizzlies", Abbreviation: "MEM"},
		{ID: TeamIDPelicans, Name: "New Orleans Pelicans", Abbreviation: "NOP"},
		{ID: TeamIDRockets, Name: "Houston Rockets", Abbreviation: "HOU"},
		{ID: TeamIDClippers, Name: "Los Angeles Clippers", Abbreviation: "LAC"},
	}
}

func SeedGames() []game.Game {
	return []game.Game{
		{
			ID:         "0022400061",
			Season:     SeedSeason,
			GameDate:   time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC),
			HomeTeamID: TeamIDLakers,
			AwayTeamID: TeamIDTimberwolves,
		},
		{
			ID:         "0022400078",
			Season:     SeedSeason,
			GameDate:   time.Date(2024, 10, 24, 0, 0, 0, 0, time.UTC),
			HomeTeamID: TeamIDKings,
			AwayTeamID: TeamIDTimberwolves,
		},
		{
			ID:         "0022400092",
			Season:     SeedSeason,
			GameDate:   time.Date(2024, 10, 26, 0, 0, 0, 0, time.UTC),
			HomeTeamID: TeamIDTimberwolves,
			AwayTeamID: TeamIDTrailBlazers,
		},
		{
			ID:         "0022400110",
			Season:     SeedSeason,
			GameDate:   time.Date(2024, 10, 29, 0, 0, 0, 0, time.UTC),
			HomeTeamID: TeamIDTimberwolves,
			AwayTeamID: TeamIDMavericks,
		},
		{
			ID:         "0022400131",
			Season:     SeedSeason,
			GameDate:   time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
			HomeTeamID: TeamIDTimberwolves,
			AwayTeamID: TeamIDNuggets,
		},
		{
			ID:         "0022400155",
			Season:     SeedSeason,
			GameDate:   time.Date(2024, 11, 4, 0, 0, 0, 0, time.UTC),
			HomeTeamID: TeamIDThunder,
			AwayTeamID: TeamIDTimberwolves,
		},
	}
}
