package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/wolvesmetrics/lineup-analytics/internal/usecase"
)

type ingestLineupsRequest struct {
	TeamID          int64  `json:"team_id" validate:"omitempty,gt=0"`
	Season          string `json:"season"`
	GroupQuantities []int  `json:"group_quantities" validate:"omitempty,dive,gt=0"`
	MaxWorkers      int    `json:"max_workers" validate:"omitempty,gt=0"`
	Limit           int    `json:"limit" validate:"omitempty,gt=0"`
}

func (h *Handler) RunLineupIngestJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLineupIngestJob")
	defer span.End()

	if h.ingestionService == nil {
		writeError(ctx, w, fmt.Errorf("%w: ingestion service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	// Scheduled triggers post an empty body; an explicit payload narrows
	// the run.
	var req ingestLineupsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ingestionService.Ingest(ctx, usecase.IngestInput{
		TeamID:          req.TeamID,
		Season:          req.Season,
		GroupQuantities: req.GroupQuantities,
		MaxWorkers:      req.MaxWorkers,
		Limit:           req.Limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "lineup ingest job failed", "team_id", req.TeamID, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
