package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wolvesmetrics/lineup-analytics/internal/usecase"
)

type Handler struct {
	lineupLogService *usecase.LineupLogService
	reportService    *usecase.ReportService
	exportService    *usecase.ExportService
	ingestionService *usecase.IngestionService
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	lineupLogService *usecase.LineupLogService,
	reportService *usecase.ReportService,
	exportService *usecase.ExportService,
	ingestionService *usecase.IngestionService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		lineupLogService: lineupLogService,
		reportService:    reportService,
		exportService:    exportService,
		ingestionService: ingestionService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
