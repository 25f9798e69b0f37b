package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/report"
	"github.com/wolvesmetrics/lineup-analytics/internal/platform/cache"
)

// ReportQuery narrows a report and names the players whose lineup
// membership should be flagged on each row. Empty Players falls back to
// the service's configured roster.
type ReportQuery struct {
	Filter  report.Filter
	Players []string
}

type ReportService struct {
	reports      report.Repository
	cch          *cache.Store
	defaultFlags []report.PlayerFlag
}

func NewReportService(reports report.Repository, cch *cache.Store, trackedPlayers []string) *ReportService {
	flags := make([]report.PlayerFlag, 0, len(trackedPlayers))
	for _, name := range trackedPlayers {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		flags = append(flags, report.FlagFromFragment(name))
	}

	return &ReportService{
		reports:      reports,
		cch:          cch,
		defaultFlags: flags,
	}
}

func (s *ReportService) PerGame(ctx context.Context, query ReportQuery) ([]report.PerGameRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.PerGame")
	defer span.End()

	query, flags, err := s.prepare(query)
	if err != nil {
		return nil, err
	}

	load := func(ctx context.Context) (any, error) {
		rows, err := s.reports.ListPerGame(ctx, query.Filter)
		if err != nil {
			return nil, fmt.Errorf("list per-game report: %w", err)
		}
		for i := range rows {
			rows[i].Flags = report.EvalFlags(rows[i].Log.GroupName, flags)
		}
		return rows, nil
	}

	if s.cch == nil {
		rows, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return rows.([]report.PerGameRow), nil
	}

	cached, err := s.cch.GetOrLoad(ctx, reportCacheKey("per-game", query, flags), load)
	if err != nil {
		return nil, err
	}
	return cached.([]report.PerGameRow), nil
}

func (s *ReportService) Season(ctx context.Context, query ReportQuery) ([]report.SeasonRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Season")
	defer span.End()

	query, flags, err := s.prepare(query)
	if err != nil {
		return nil, err
	}

	load := func(ctx context.Context) (any, error) {
		rows, err := s.reports.ListSeason(ctx, query.Filter)
		if err != nil {
			return nil, fmt.Errorf("list season report: %w", err)
		}
		for i := range rows {
			rows[i].Flags = report.EvalFlags(rows[i].GroupName, flags)
		}
		return rows, nil
	}

	if s.cch == nil {
		rows, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return rows.([]report.SeasonRow), nil
	}

	cached, err := s.cch.GetOrLoad(ctx, reportCacheKey("season", query, flags), load)
	if err != nil {
		return nil, err
	}
	return cached.([]report.SeasonRow), nil
}

func (s *ReportService) prepare(query ReportQuery) (ReportQuery, []report.PlayerFlag, error) {
	if query.Filter.Season != "" {
		if err := ValidateSeason(query.Filter.Season); err != nil {
			return ReportQuery{}, nil, err
		}
	}
	if query.Filter.TeamID < 0 || query.Filter.GroupQuantity < 0 {
		return ReportQuery{}, nil, fmt.Errorf("%w: team id and group quantity cannot be negative", ErrInvalidInput)
	}
	if query.Filter.DateFrom != nil && query.Filter.DateTo != nil && query.Filter.DateTo.Before(*query.Filter.DateFrom) {
		return ReportQuery{}, nil, fmt.Errorf("%w: date range is inverted", ErrInvalidInput)
	}

	switch query.Filter.ResultPolicy {
	case "":
		query.Filter.ResultPolicy = report.ResultPolicyLossOnMissing
	case report.ResultPolicyLossOnMissing, report.ResultPolicyUnknownOnMissing:
	default:
		return ReportQuery{}, nil, fmt.Errorf("%w: unknown result policy %q", ErrInvalidInput, query.Filter.ResultPolicy)
	}

	flags := s.defaultFlags
	if len(query.Players) > 0 {
		flags = make([]report.PlayerFlag, 0, len(query.Players))
		for _, name := range query.Players {
			name = strings.TrimSpace(name)
			if name == "" {
				return ReportQuery{}, nil, fmt.Errorf("%w: player name cannot be empty", ErrInvalidInput)
			}
			flags = append(flags, report.FlagFromFragment(name))
		}
	}
	if err := report.ValidateFlags(flags); err != nil {
		return ReportQuery{}, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return query, flags, nil
}

func reportCacheKey(kind string, query ReportQuery, flags []report.PlayerFlag) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s:%d:%s:%s:%d:%s", reportCachePrefix, kind,
		query.Filter.TeamID, query.Filter.Season, query.Filter.GroupID,
		query.Filter.GroupQuantity, query.Filter.ResultPolicy)
	if query.Filter.DateFrom != nil {
		fmt.Fprintf(&b, ":from=%s", query.Filter.DateFrom.Format("2006-01-02"))
	}
	if query.Filter.DateTo != nil {
		fmt.Fprintf(&b, ":to=%s", query.Filter.DateTo.Format("2006-01-02"))
	}
	if query.Filter.Limit > 0 {
		fmt.Fprintf(&b, ":limit=%d", query.Filter.Limit)
	}
	for _, flag := range flags {
		fmt.Fprintf(&b, ":f=%s", flag.Fragment)
	}
	return b.String()
}
