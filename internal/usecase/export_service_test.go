package usecase

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/report"
	"github.com/wolvesmetrics/lineup-analytics/internal/infrastructure/repository/memory"
)

func TestExportService_SeasonCSV(t *testing.T) {
	logs, reportSvc := newReportFixtures(t, []string{"Edwards"}, nil)
	seedReportRow(t, logs, "g1", "Edwards; Gobert; Conley")

	svc := NewExportService(reportSvc)
	out, err := svc.SeasonCSV(t.Context(), ReportQuery{Filter: report.Filter{TeamID: memory.TeamIDTimberwolves}})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(records))
	}

	header := records[0]
	if header[0] != "team_id" || header[len(header)-1] != "has_edwards" {
		t.Fatalf("unexpected header layout: %v", header)
	}

	row := records[1]
	if row[0] != "1610612750" {
		t.Fatalf("team id column: %q", row[0])
	}
	if row[4] != "Edwards; Gobert; Conley" {
		t.Fatalf("group name column: %q", row[4])
	}
	if row[len(row)-1] != "true" {
		t.Fatalf("flag column: %q", row[len(row)-1])
	}
}

func TestExportService_SeasonCSV_Empty(t *testing.T) {
	_, reportSvc := newReportFixtures(t, nil, nil)

	svc := NewExportService(reportSvc)
	out, err := svc.SeasonCSV(t.Context(), ReportQuery{Filter: report.Filter{TeamID: memory.TeamIDTimberwolves}})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected header only, got %d records", len(records))
	}
}
