// Command pipeline runs the weekly refresh end to end: sync games and
// lineup logs from the upstream stats source, then export one season
// aggregate CSV per group quantity.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/wolvesmetrics/lineup-analytics/internal/app"
	"github.com/wolvesmetrics/lineup-analytics/internal/config"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/report"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/logging"
	"github.com/wolvesmetrics/lineup-analytics/internal/usecase"
)

func main() {
	var (
		teamID     = flag.Int64("team", 0, "team id (defaults to HOME_TEAM_ID)")
		season     = flag.String("season", "", "season, e.g. 2024-25 (defaults to SEASON, then the season in progress)")
		quantities = flag.String("quantities", "", "comma-separated group quantities (defaults to GROUP_QUANTITIES)")
		workers    = flag.Int("workers", 0, "max concurrent fetch tasks (defaults to INGEST_MAX_WORKERS)")
		limit      = flag.Int("limit", 0, "cap on game dates processed; 0 means all")
		outDir     = flag.String("out", "out", "directory for exported CSV files")
		skipIngest = flag.Bool("skip-ingest", false, "export from stored data without syncing upstream")
		timeout    = flag.Duration("timeout", 30*time.Minute, "overall run deadline")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	zlogger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(zlogger)
	defer func() { _ = zlogger.Sync() }()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.SlogLevel(cfg.LogLevel),
	}))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	services, closeDB, err := app.NewServices(cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}
	if closeDB != nil {
		defer closeDB()
	}

	groupQuantities := cfg.GroupQuantities
	if *quantities != "" {
		groupQuantities, err = parseQuantities(*quantities)
		if err != nil {
			logger.Error("parse quantities", "error", err)
			os.Exit(1)
		}
	}

	run := pipelineRun{
		services: services,
		logger:   logger,
		teamID:   *teamID,
		season:   *season,
		outDir:   *outDir,
	}
	if run.teamID == 0 {
		run.teamID = cfg.HomeTeamID
	}
	if run.season == "" {
		run.season = cfg.Season
	}

	if !*skipIngest {
		if services.Ingestion == nil {
			logger.Error("ingestion requested but NBA_STATS_ENABLED=false; rerun with -skip-ingest to export stored data")
			os.Exit(1)
		}
		result, err := services.Ingestion.Ingest(ctx, usecase.IngestInput{
			TeamID:          *teamID,
			Season:          *season,
			GroupQuantities: groupQuantities,
			MaxWorkers:      *workers,
			Limit:           *limit,
		})
		if err != nil {
			logger.Error("ingest", "error", err)
			os.Exit(1)
		}
		logger.Info("ingest complete",
			"run_id", result.RunID,
			"season", result.Season,
			"games_synced", result.GamesSynced,
			"rows_upserted", result.RowsUpserted,
			"failed_tasks", result.FailedCount,
		)
		// The ingest resolves the season in progress; exports follow it.
		run.teamID = result.TeamID
		run.season = result.Season
	}

	if err := run.exportAll(ctx, groupQuantities); err != nil {
		logger.Error("export", "error", err)
		os.Exit(1)
	}

	logger.Info("pipeline complete", "out_dir", *outDir)
}

type pipelineRun struct {
	services *app.Services
	logger   *slog.Logger
	teamID   int64
	season   string
	outDir   string
}

// exportAll writes season_aggregate_q<N>.csv for every group quantity,
// fetching the exports concurrently. Any single failure fails the run.
func (r pipelineRun) exportAll(ctx context.Context, groupQuantities []int) error {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(len(groupQuantities))
	for _, qty := range groupQuantities {
		p.Go(func(ctx context.Context) error {
			return r.exportQuantity(ctx, qty)
		})
	}
	return p.Wait()
}

func (r pipelineRun) exportQuantity(ctx context.Context, qty int) error {
	query := usecase.ReportQuery{
		Filter: report.Filter{
			TeamID:        r.teamID,
			Season:        r.season,
			GroupQuantity: qty,
			ResultPolicy:  report.ResultPolicyLossOnMissing,
		},
	}

	data, err := r.services.Export.SeasonCSV(ctx, query)
	if err != nil {
		return fmt.Errorf("export season aggregate (quantity %d): %w", qty, err)
	}

	path := filepath.Join(r.outDir, fmt.Sprintf("season_aggregate_q%d.csv", qty))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	rows, err := r.services.Reports.Season(ctx, query)
	if err != nil {
		return fmt.Errorf("count season rows (quantity %d): %w", qty, err)
	}
	r.logger.Info("exported season aggregate", "group_quantity", qty, "rows", len(rows), "path", path)
	return nil
}

func parseQuantities(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.Atoi(part)
		if err != nil || value <= 0 {
			return nil, fmt.Errorf("invalid group quantity %q", part)
		}
		out = append(out, value)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no group quantities given")
	}
	return out, nil
}
