package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
	"github.com/wolvesmetrics/lineup-analytics/internal/usecase"
)

type lineupLogRequest struct {
	GameID        string `json:"game_id" validate:"required"`
	TeamID        int64  `json:"team_id" validate:"required,gt=0"`
	GroupID       string `json:"group_id" validate:"required"`
	Season        string `json:"season" validate:"required"`
	GroupQuantity int    `json:"group_quantity" validate:"required,gt=0"`

	GroupName *string  `json:"group_name"`
	Min       *float64 `json:"min"`
	PlusMinus *int     `json:"plus_minus"`

	Pts    *int     `json:"pts"`
	FGM    *int     `json:"fgm"`
	FGA    *int     `json:"fga"`
	FGPct  *float64 `json:"fg_pct"`
	FG3M   *int     `json:"fg3m"`
	FG3A   *int     `json:"fg3a"`
	FG3Pct *float64 `json:"fg3_pct"`
	FTM    *int     `json:"ftm"`
	FTA    *int     `json:"fta"`
	FTPct  *float64 `json:"ft_pct"`
	Reb    *int     `json:"reb"`
	Ast    *int     `json:"ast"`
	Tov    *int     `json:"tov"`
	Stl    *int     `json:"stl"`
	Blk    *int     `json:"blk"`
	PF     *int     `json:"pf"`
}

type lineupLogDTO struct {
	GameID        string  `json:"game_id"`
	TeamID        int64   `json:"team_id"`
	GroupID       string  `json:"group_id"`
	Season        string  `json:"season"`
	GroupQuantity int     `json:"group_quantity"`
	GroupName     *string `json:"group_name"`
	OpponentID    *int64  `json:"opponent_id"`
	IsHome        *bool   `json:"is_home"`
	GameDate      *string `json:"game_date"`

	Min       *float64 `json:"min"`
	PlusMinus *int     `json:"plus_minus"`

	Pts    *int     `json:"pts"`
	FGM    *int     `json:"fgm"`
	FGA    *int     `json:"fga"`
	FGPct  *float64 `json:"fg_pct"`
	FG3M   *int     `json:"fg3m"`
	FG3A   *int     `json:"fg3a"`
	FG3Pct *float64 `json:"fg3_pct"`
	FTM    *int     `json:"ftm"`
	FTA    *int     `json:"fta"`
	FTPct  *float64 `json:"ft_pct"`
	Reb    *int     `json:"reb"`
	Ast    *int     `json:"ast"`
	Tov    *int     `json:"tov"`
	Stl    *int     `json:"stl"`
	Blk    *int     `json:"blk"`
	PF     *int     `json:"pf"`

	LastUpdatedAt string `json:"last_updated_at"`
}

func (req lineupLogRequest) toGameLog() lineuplog.GameLog {
	return lineuplog.GameLog{
		GameID:        req.GameID,
		TeamID:        req.TeamID,
		GroupID:       req.GroupID,
		Season:        req.Season,
		GroupQuantity: req.GroupQuantity,
		GroupName:     req.GroupName,
		Min:           req.Min,
		PlusMinus:     req.PlusMinus,
		Pts:           req.Pts,
		FGM:           req.FGM,
		FGA:           req.FGA,
		FGPct:         req.FGPct,
		FG3M:          req.FG3M,
		FG3A:          req.FG3A,
		FG3Pct:        req.FG3Pct,
		FTM:           req.FTM,
		FTA:           req.FTA,
		FTPct:         req.FTPct,
		Reb:           req.Reb,
		Ast:           req.Ast,
		Tov:           req.Tov,
		Stl:           req.Stl,
		Blk:           req.Blk,
		PF:            req.PF,
	}
}

func lineupLogToDTO(item lineuplog.GameLog) lineupLogDTO {
	return lineupLogDTO{
		GameID:        item.GameID,
		TeamID:        item.TeamID,
		GroupID:       item.GroupID,
		Season:        item.Season,
		GroupQuantity: item.GroupQuantity,
		GroupName:     item.GroupName,
		OpponentID:    item.OpponentID,
		IsHome:        item.IsHome,
		GameDate:      formatDatePtr(item.GameDate),
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
		LastUpdatedAt: item.LastUpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) decodeLineupLogRequest(w http.ResponseWriter, r *http.Request) (lineupLogRequest, bool) {
	ctx := r.Context()

	var req lineupLogRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return lineupLogRequest{}, false
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return lineupLogRequest{}, false
	}

	return req, true
}

func (h *Handler) RecordLineupLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordLineupLog")
	defer span.End()

	req, ok := h.decodeLineupLogRequest(w, r.WithContext(ctx))
	if !ok {
		return
	}

	recorded, err := h.lineupLogService.Record(ctx, req.toGameLog())
	if err != nil {
		h.logger.WarnContext(ctx, "record lineup log failed", "game_id", req.GameID, "team_id", req.TeamID, "group_id", req.GroupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, lineupLogToDTO(recorded))
}

func (h *Handler) ReplaceLineupLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplaceLineupLog")
	defer span.End()

	req, ok := h.decodeLineupLogRequest(w, r.WithContext(ctx))
	if !ok {
		return
	}

	replaced, err := h.lineupLogService.Replace(ctx, req.toGameLog())
	if err != nil {
		h.logger.WarnContext(ctx, "replace lineup log failed", "game_id", req.GameID, "team_id", req.TeamID, "group_id", req.GroupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupLogToDTO(replaced))
}

func (h *Handler) GetLineupLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLineupLog")
	defer span.End()

	teamID, err := parsePathInt64(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	key := lineuplog.Key{
		GameID:  r.PathValue("gameID"),
		TeamID:  teamID,
		GroupID: r.PathValue("groupID"),
	}

	item, err := h.lineupLogService.Get(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "get lineup log failed", "game_id", key.GameID, "team_id", key.TeamID, "group_id", key.GroupID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupLogToDTO(item))
}

func (h *Handler) ListLineupLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLineupLogs")
	defer span.End()

	filter, err := lineupLogFilterFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.lineupLogService.List(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "list lineup logs failed", "team_id", filter.TeamID, "season", filter.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	dtos := make([]lineupLogDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, lineupLogToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, dtos)
}

func lineupLogFilterFromQuery(r *http.Request) (lineuplog.Filter, error) {
	teamID, err := parseInt64Query(r, "team_id")
	if err != nil {
		return lineuplog.Filter{}, err
	}
	groupQuantity, err := parseIntQuery(r, "group_quantity")
	if err != nil {
		return lineuplog.Filter{}, err
	}
	limit, err := parseIntQuery(r, "limit")
	if err != nil {
		return lineuplog.Filter{}, err
	}
	dateFrom, err := parseDateQuery(r, "date_from")
	if err != nil {
		return lineuplog.Filter{}, err
	}
	dateTo, err := parseDateQuery(r, "date_to")
	if err != nil {
		return lineuplog.Filter{}, err
	}

	return lineuplog.Filter{
		GameID:        r.URL.Query().Get("game_id"),
		TeamID:        teamID,
		GroupID:       r.URL.Query().Get("group_id"),
		Season:        r.URL.Query().Get("season"),
		GroupQuantity: groupQuantity,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		PlayerName:    r.URL.Query().Get("player"),
		Limit:         limit,
	}, nil
}
