package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/report"
)

// ExportService renders season aggregates as CSV for spreadsheet and
// notebook consumers.
type ExportService struct {
	reports *ReportService
}

func NewExportService(reports *ReportService) *ExportService {
	return &ExportService{reports: reports}
}

// SeasonCSV runs the season report and renders it. Player flag columns
// come after the fixed columns, sorted by flag name so the layout is
// stable for a given query.
func (s *ExportService) SeasonCSV(ctx context.Context, query ReportQuery) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.SeasonCSV")
	defer span.End()

	rows, err := s.reports.Season(ctx, query)
	if err != nil {
		return nil, err
	}

	flagNames := collectFlagNames(rows)
	header := append([]string{
		"team_id", "season", "group_quantity", "group_id", "group_name",
		"games_played", "games_positive",
		"total_min", "total_plus_minus", "total_pts",
		"avg_min_per_game", "avg_plus_minus", "avg_pts",
		"stddev_plus_minus",
		"home_avg_plus_minus", "away_avg_plus_minus",
		"home_avg_pts", "away_avg_pts",
	}, flagNames...)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.TeamID, 10),
			row.Season,
			strconv.Itoa(row.GroupQuantity),
			row.GroupID,
			stringOrEmpty(row.GroupName),
			strconv.Itoa(row.GamesPlayed),
			strconv.Itoa(row.GamesPositive),
			formatFloat(row.TotalMin),
			strconv.Itoa(row.TotalPlusMinus),
			strconv.Itoa(row.TotalPts),
			formatFloat(row.AvgMinPerGame),
			formatFloat(row.AvgPlusMinus),
			formatFloat(row.AvgPts),
			floatOrEmpty(row.StdDevPlusMinus),
			floatOrEmpty(row.HomeAvgPlusMinus),
			floatOrEmpty(row.AwayAvgPlusMinus),
			floatOrEmpty(row.HomeAvgPts),
			floatOrEmpty(row.AwayAvgPts),
		}
		for _, name := range flagNames {
			record = append(record, strconv.FormatBool(row.Flags[name]))
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func collectFlagNames(rows []report.SeasonRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for name := range row.Flags {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func floatOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
