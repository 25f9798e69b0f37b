package httpapi

import (
	"net/http"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/report"
	"github.com/wolvesmetrics/lineup-analytics/internal/usecase"
)

type perGameRowDTO struct {
	lineupLogDTO

	OpponentName *string `json:"opponent_name"`
	OpponentAbbr *string `json:"opponent_abbr"`
	TeamPts      *int    `json:"team_final_score"`
	OpponentPts  *int    `json:"opponent_final_score"`
	GameResult   string  `json:"game_result"`

	PtsPerMin float64 `json:"pts_per_min"`
	PMPerMin  float64 `json:"plus_minus_per_min"`

	Month     *int `json:"month"`
	DayOfWeek *int `json:"day_of_week"`
	GameIndex int  `json:"game_index"`

	Flags map[string]bool `json:"flags,omitempty"`
}

type seasonRowDTO struct {
	TeamID        int64   `json:"team_id"`
	Season        string  `json:"season"`
	GroupQuantity int     `json:"group_quantity"`
	GroupID       string  `json:"group_id"`
	GroupName     *string `json:"group_name"`

	GamesPlayed   int `json:"games_played"`
	GamesPositive int `json:"games_positive"`

	TotalMin       float64 `json:"total_min"`
	TotalPlusMinus int     `json:"total_plus_minus"`
	TotalPts       int     `json:"total_pts"`

	AvgMinPerGame float64 `json:"avg_min_per_game"`
	AvgPlusMinus  float64 `json:"avg_plus_minus"`
	AvgPts        float64 `json:"avg_pts"`

	StdDevPlusMinus *float64 `json:"stddev_plus_minus"`

	HomeAvgPlusMinus *float64 `json:"home_avg_plus_minus"`
	AwayAvgPlusMinus *float64 `json:"away_avg_plus_minus"`
	HomeAvgPts       *float64 `json:"home_avg_pts"`
	AwayAvgPts       *float64 `json:"away_avg_pts"`

	Flags map[string]bool `json:"flags,omitempty"`
}

func perGameRowToDTO(row report.PerGameRow) perGameRowDTO {
	return perGameRowDTO{
		lineupLogDTO: lineupLogToDTO(row.Log),
		OpponentName: row.OpponentName,
		OpponentAbbr: row.OpponentAbbr,
		TeamPts:      row.TeamPts,
		OpponentPts:  row.OpponentPts,
		GameResult:   string(row.GameResult),
		PtsPerMin:    row.PtsPerMin,
		PMPerMin:     row.PMPerMin,
		Month:        row.Month,
		DayOfWeek:    row.DayOfWeek,
		GameIndex:    row.GameIndex,
		Flags:        row.Flags,
	}
}

func seasonRowToDTO(row report.SeasonRow) seasonRowDTO {
	return seasonRowDTO{
		TeamID:           row.TeamID,
		Season:           row.Season,
		GroupQuantity:    row.GroupQuantity,
		GroupID:          row.GroupID,
		GroupName:        row.GroupName,
		GamesPlayed:      row.GamesPlayed,
		GamesPositive:    row.GamesPositive,
		TotalMin:         row.TotalMin,
		TotalPlusMinus:   row.TotalPlusMinus,
		TotalPts:         row.TotalPts,
		AvgMinPerGame:    row.AvgMinPerGame,
		AvgPlusMinus:     row.AvgPlusMinus,
		AvgPts:           row.AvgPts,
		StdDevPlusMinus:  row.StdDevPlusMinus,
		HomeAvgPlusMinus: row.HomeAvgPlusMinus,
		AwayAvgPlusMinus: row.AwayAvgPlusMinus,
		HomeAvgPts:       row.HomeAvgPts,
		AwayAvgPts:       row.AwayAvgPts,
		Flags:            row.Flags,
	}
}

func reportQueryFromRequest(r *http.Request) (usecase.ReportQuery, error) {
	teamID, err := parseInt64Query(r, "team_id")
	if err != nil {
		return usecase.ReportQuery{}, err
	}
	groupQuantity, err := parseIntQuery(r, "group_quantity")
	if err != nil {
		return usecase.ReportQuery{}, err
	}
	limit, err := parseIntQuery(r, "limit")
	if err != nil {
		return usecase.ReportQuery{}, err
	}
	dateFrom, err := parseDateQuery(r, "date_from")
	if err != nil {
		return usecase.ReportQuery{}, err
	}
	dateTo, err := parseDateQuery(r, "date_to")
	if err != nil {
		return usecase.ReportQuery{}, err
	}

	return usecase.ReportQuery{
		Filter: report.Filter{
			TeamID:        teamID,
			Season:        r.URL.Query().Get("season"),
			GroupID:       r.URL.Query().Get("group_id"),
			GroupQuantity: groupQuantity,
			DateFrom:      dateFrom,
			DateTo:        dateTo,
			ResultPolicy:  report.ResultPolicy(r.URL.Query().Get("result_policy")),
			Limit:         limit,
		},
		Players: parseCSVQuery(r, "players"),
	}, nil
}

func (h *Handler) ListPerGameReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPerGameReport")
	defer span.End()

	query, err := reportQueryFromRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.reportService.PerGame(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "per-game report failed", "team_id", query.Filter.TeamID, "season", query.Filter.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]perGameRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, perGameRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

func (h *Handler) ListSeasonReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonReport")
	defer span.End()

	query, err := reportQueryFromRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.reportService.Season(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "season report failed", "team_id", query.Filter.TeamID, "season", query.Filter.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]seasonRowDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, seasonRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

func (h *Handler) ExportSeasonReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportSeasonReport")
	defer span.End()

	query, err := reportQueryFromRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	csvBytes, err := h.exportService.SeasonCSV(ctx, query)
	if err != nil {
		h.logger.WarnContext(ctx, "season export failed", "team_id", query.Filter.TeamID, "season", query.Filter.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="season_aggregate.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(csvBytes)
}
