package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerLineupLogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/lineup-logs", handler.ListLineupLogs)
	mux.HandleFunc("POST /v1/lineup-logs", handler.RecordLineupLog)
	mux.HandleFunc("PUT /v1/lineup-logs", handler.ReplaceLineupLog)
	mux.HandleFunc("GET /v1/lineup-logs/{gameID}/{teamID}/{groupID}", handler.GetLineupLog)
}

func registerReportRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/reports/per-game", handler.ListPerGameReport)
	mux.HandleFunc("GET /v1/reports/season", handler.ListSeasonReport)
	mux.HandleFunc("GET /v1/reports/season/export", handler.ExportSeasonReport)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/ingest-lineups", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLineupIngestJob)))
}
