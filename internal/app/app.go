package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/wolvesmetrics/lineup-analytics/external/nbastats"
	"github.com/wolvesmetrics/lineup-analytics/internal/config"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/game"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/gametotals"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/report"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/team"
	"github.com/wolvesmetrics/lineup-analytics/internal/infrastructure/repository/memory"
	"github.com/wolvesmetrics/lineup-analytics/internal/infrastructure/repository/postgres"
	"github.com/wolvesmetrics/lineup-analytics/internal/interfaces/httpapi"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/cache"
	idgen "github.com/wolvesmetrics/lineup-analytics/internal/platform/id"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/logging"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/resilience"
	"github.com/wolvesmetrics/lineup-analytics/internal/usecase"
)

type repositories struct {
	logs    lineuplog.Repository
	games   game.Repository
	teams   team.Repository
	totals  gametotals.Repository
	reports report.Repository
}

// Services bundles the wired usecase layer. Ingestion is nil when the
// upstream stats source is disabled.
type Services struct {
	LineupLogs *usecase.LineupLogService
	Reports    *usecase.ReportService
	Export     *usecase.ExportService
	Ingestion  *usecase.IngestionService
}

// NewServices builds the repositories and usecase services from config.
// The returned close func releases the database connection when one was
// opened; it may be nil.
func NewServices(cfg config.Config, logger *slog.Logger) (*Services, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}
	zlogger := logging.Default()

	repos, dbClose, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var reportCache *cache.Store
	if cfg.CacheEnabled {
		reportCache = cache.NewStore(cfg.CacheTTL)
	}

	lineupLogSvc := usecase.NewLineupLogService(repos.logs, repos.games, reportCache)
	reportSvc := usecase.NewReportService(repos.reports, reportCache, cfg.TrackedPlayers)
	exportSvc := usecase.NewExportService(reportSvc)

	var ingestionSvc *usecase.IngestionService
	if cfg.NBAStatsEnabled {
		statsClient := nbastats.NewClient(nbastats.ClientConfig{
			BaseURL:    cfg.NBAStatsBaseURL,
			Timeout:    cfg.NBAStatsTimeout,
			MaxRetries: cfg.NBAStatsMaxRetries,
			Logger:     zlogger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.NBAStatsCircuitEnabled,
				FailureThreshold: cfg.NBAStatsCircuitFailureCount,
				OpenTimeout:      cfg.NBAStatsCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.NBAStatsCircuitHalfOpenMaxReq,
			},
		})
		ingestionSvc = usecase.NewIngestionService(
			statsClient,
			repos.logs,
			repos.games,
			repos.teams,
			repos.totals,
			idgen.NewRandomGenerator(),
			zlogger,
			reportCache,
			usecase.IngestionDefaults{
				TeamID:          cfg.HomeTeamID,
				Season:          cfg.Season,
				GroupQuantities: cfg.GroupQuantities,
				MaxWorkers:      cfg.IngestMaxWorkers,
			},
		)
	} else {
		logger.Info("stats ingestion disabled", "reason", "NBA_STATS_ENABLED=false")
	}

	return &Services{
		LineupLogs: lineupLogSvc,
		Reports:    reportSvc,
		Export:     exportSvc,
		Ingestion:  ingestionSvc,
	}, dbClose, nil
}

func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	services, dbClose, err := NewServices(cfg, logger)
	if err != nil {
		return nil, err
	}

	handler := httpapi.NewHandler(services.LineupLogs, services.Reports, services.Export, services.Ingestion, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if dbClose != nil {
		server.RegisterOnShutdown(dbClose)
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildRepositories connects to Postgres when DB_URL is configured and
// falls back to seeded in-memory repositories otherwise, which keeps
// local development working without a database.
func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, func(), error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		logger.Warn("DB_URL not set, using in-memory repositories with seed data")

		games := memory.NewGameRepository(memory.SeedGames())
		teams := memory.NewTeamRepository(memory.SeedTeams())
		logs := memory.NewLineupLogRepository(games, teams)
		totals := memory.NewGameTotalsRepository(nil)

		return repositories{
			logs:    logs,
			games:   games,
			teams:   teams,
			totals:  totals,
			reports: memory.NewReportRepository(logs, teams, totals),
		}, nil, nil
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect database: %w", err)
	}

	return repositories{
		logs:    postgres.NewLineupLogRepository(db),
		games:   postgres.NewGameRepository(db),
		teams:   postgres.NewTeamRepository(db),
		totals:  postgres.NewGameTotalsRepository(db),
		reports: postgres.NewReportRepository(db),
	}, func() { _ = db.Close() }, nil
}
