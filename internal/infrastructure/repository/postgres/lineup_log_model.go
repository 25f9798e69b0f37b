package postgres

import (
	"time"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
)

type lineupLogTableModel struct {
	GameID        string     `db:"game_id"`
	TeamID        int64      `db:"team_id"`
	GroupID       string     `db:"group_id"`
	Season        string     `db:"season"`
	GroupQuantity int        `db:"group_quantity"`
	GroupName     *string    `db:"group_name"`
	OpponentID    *int64     `db:"opponent_team_id"`
	IsHome        *bool      `db:"is_home"`
	GameDate      *time.Time `db:"game_date"`
	Min           *float64   `db:"min"`
	PlusMinus     *int       `db:"plus_minus"`
	Pts           *int       `db:"pts"`
	FGM           *int       `db:"fgm"`
	FGA           *int       `db:"fga"`
	FGPct         *float64   `db:"fg_pct"`
	FG3M          *int       `db:"fg3m"`
	FG3A          *int       `db:"fg3a"`
	FG3Pct        *float64   `db:"fg3_pct"`
	FTM           *int       `db:"ftm"`
	FTA           *int       `db:"fta"`
	FTPct         *float64   `db:"ft_pct"`
	Reb           *int       `db:"reb"`
	Ast           *int       `db:"ast"`
	Tov           *int       `db:"tov"`
	Stl           *int       `db:"stl"`
	Blk           *int       `db:"blk"`
	PF            *int       `db:"pf"`
	LastUpdatedAt time.Time  `db:"last_updated_at"`
}

// lineupLogInsertModel omits last_updated_at so the column default (or
// the upsert suffix) supplies the write timestamp.
type lineupLogInsertModel struct {
	GameID        string     `db:"game_id"`
	TeamID        int64      `db:"team_id"`
	GroupID       string     `db:"group_id"`
	Season        string     `db:"season"`
	GroupQuantity int        `db:"group_quantity"`
	GroupName     *string    `db:"group_name"`
	OpponentID    *int64     `db:"opponent_team_id"`
	IsHome        *bool      `db:"is_home"`
	GameDate      *time.Time `db:"game_date"`
	Min           *float64   `db:"min"`
	PlusMinus     *int       `db:"plus_minus"`
	Pts           *int       `db:"pts"`
	FGM           *int       `db:"fgm"`
	FGA           *int       `db:"fga"`
	FGPct         *float64   `db:"fg_pct"`
	FG3M          *int       `db:"fg3m"`
	FG3A          *int       `db:"fg3a"`
	FG3Pct        *float64   `db:"fg3_pct"`
	FTM           *int       `db:"ftm"`
	FTA           *int       `db:"fta"`
	FTPct         *float64   `db:"ft_pct"`
	Reb           *int       `db:"reb"`
	Ast           *int       `db:"ast"`
	Tov           *int       `db:"tov"`
	Stl           *int       `db:"stl"`
	Blk           *int       `db:"blk"`
	PF            *int       `db:"pf"`
}

func lineupLogInsertFromDomain(item lineuplog.GameLog) lineupLogInsertModel {
	return lineupLogInsertModel{
		GameID:        item.GameID,
		TeamID:        item.TeamID,
		GroupID:       item.GroupID,
		Season:        item.Season,
		GroupQuantity: item.GroupQuantity,
		GroupName:     item.GroupName,
		OpponentID:    item.OpponentID,
		IsHome:        item.IsHome,
		GameDate:      item.GameDate,
		Min:           item.Min,
		PlusMinus:     item.PlusMinus,
		Pts:           item.Pts,
		FGM:           item.FGM,
		FGA:           item.FGA,
		FGPct:         item.FGPct,
		FG3M:          item.FG3M,
		FG3A:          item.FG3A,
		FG3Pct:        item.FG3Pct,
		FTM:           item.FTM,
		FTA:           item.FTA,
		FTPct:         item.FTPct,
		Reb:           item.Reb,
		Ast:           item.Ast,
		Tov:           item.Tov,
		Stl:           item.Stl,
		Blk:           item.Blk,
		PF:            item.PF,
	}
}

func lineupLogFromRow(row lineupLogTableModel) lineuplog.GameLog {
	return lineuplog.GameLog{
		GameID:        row.GameID,
		TeamID:        row.TeamID,
		GroupID:       row.GroupID,
		Season:        row.Season,
		GroupQuantity: row.GroupQuantity,
		GroupName:     row.GroupName,
		OpponentID:    row.OpponentID,
		IsHome:        row.IsHome,
		GameDate:      row.GameDate,
		Min:           row.Min,
		PlusMinus:     row.PlusMinus,
		Pts:           row.Pts,
		FGM:           row.FGM,
		FGA:           row.FGA,
		FGPct:         row.FGPct,
		FG3M:          row.FG3M,
		FG3A:          row.FG3A,
		FG3Pct:        row.FG3Pct,
		FTM:           row.FTM,
		FTA:           row.FTA,
		FTPct:         row.FTPct,
		Reb:           row.Reb,
		Ast:           row.Ast,
		Tov:           row.Tov,
		Stl:           row.Stl,
		Blk:           row.Blk,
		PF:            row.PF,
		LastUpdatedAt: row.LastUpdatedAt,
	}
}
