package memory

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/wolvesmetrics/lineup-analytics/internal/domain/lineuplog"
	"github.com/wolvesmetrics/lineup-analytics/internal/domain/report"
)

// ReportRepository computes the per-game analysis and season aggregate
// read models from the in-memory base table, mirroring the SQL views
// row for row.
type ReportRepository struct {
	logs   *LineupLogRepository
	teams  *TeamRepository
	totals *GameTotalsRepository
}

func NewReportRepository(logs *LineupLogRepository, teams *TeamRepository, totals *GameTotalsRepository) *ReportRepository {
	return &ReportRepository{logs: logs, teams: teams, totals: totals}
}

func (r *ReportRepository) ListPerGame(ctx context.Context, filter report.Filter) ([]report.PerGameRow, error) {
	rows, err := r.logs.ListByFilter(ctx, lineuplog.Filter{
		TeamID:        filter.TeamID,
		Season:        filter.Season,
		GroupID:       filter.GroupID,
		GroupQuantity: filter.GroupQuantity,
		DateFrom:      filter.DateFrom,
		DateTo:        filter.DateTo,
	})
	if err != nil {
		return nil, err
	}

	type rankKey struct {
		teamID int64
		season string
	}
	// One date-rank map per team-season, shared across the output rows.
	rankCache := make(map[rankKey]map[string]int)

	out := make([]report.PerGameRow, 0, len(rows))
	for _, row := range rows {
		enriched := report.PerGameRow{Log: row}

		if row.OpponentID != nil {
			if opponent, ok, err := r.teams.GetByID(ctx, *row.OpponentID); err != nil {
				return nil, err
			} else if ok {
				name, abbr := opponent.Name, opponent.Abbreviation
				enriched.OpponentName = &name
				enriched.OpponentAbbr = &abbr
			}
		}

		if total, ok, err := r.totals.GetByGameAndTeam(ctx, row.GameID, row.TeamID); err != nil {
			return nil, err
		} else if ok {
			pts := total.Pts
			enriched.TeamPts = &pts
		}
		if row.OpponentID != nil {
			if total, ok, err := r.totals.GetByGameAndTeam(ctx, row.GameID, *row.OpponentID); err != nil {
				return nil, err
			} else if ok {
				pts := total.Pts
				enriched.OpponentPts = &pts
			}
		}

		enriched.GameResult = report.DeriveResult(filter.ResultPolicy, enriched.TeamPts, enriched.OpponentPts)
		enriched.PtsPerMin = perMinute(row.Pts, row.Min)
		enriched.PMPerMin = perMinute(row.PlusMinus, row.Min)

		if row.GameDate != nil {
			month := int(row.GameDate.Month())
			dow := int(row.GameDate.Weekday())
			enriched.Month = &month
			enriched.DayOfWeek = &dow
		}

		key := rankKey{teamID: row.TeamID, season: row.Season}
		ranks, cached := rankCache[key]
		if !cached {
			ranks, err = r.dateRanks(ctx, row.TeamID, row.Season)
			if err != nil {
				return nil, err
			}
			rankCache[key] = ranks
		}
		enriched.GameIndex = gameIndexFromRanks(ranks, row.GameDate)

		out = append(out, enriched)
	}

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *ReportRepository) ListSeason(ctx context.Context, filter report.Filter) ([]report.SeasonRow, error) {
	rows, err := r.logs.ListByFilter(ctx, lineuplog.Filter{
		TeamID:        filter.TeamID,
		Season:        filter.Season,
		GroupID:       filter.GroupID,
		GroupQuantity: filter.GroupQuantity,
	})
	if err != nil {
		return nil, err
	}

	type groupKey struct {
		teamID        int64
		season        string
		groupQuantity int
		groupID       string
		groupName     string
		namePresent   bool
	}

	grouped := make(map[groupKey][]lineuplog.GameLog)
	for _, row := range rows {
		key := groupKey{
			teamID:        row.TeamID,
			season:        row.Season,
			groupQuantity: row.GroupQuantity,
			groupID:       row.GroupID,
		}
		if row.GroupName != nil {
			key.groupName = *row.GroupName
			key.namePresent = true
		}
		grouped[key] = append(grouped[key], row)
	}

	out := make([]report.SeasonRow, 0, len(grouped))
	for key, members := range grouped {
		aggregate := report.SeasonRow{
			TeamID:        key.teamID,
			Season:        key.season,
			GroupQuantity: key.groupQuantity,
			GroupID:       key.groupID,
		}
		if key.namePresent {
			name := key.groupName
			aggregate.GroupName = &name
		}

		distinctGames := make(map[string]struct{}, len(members))
		var minutes, homePM, awayPM, homePts, awayPts stats
		var plusMinuses, points stats

		for _, member := range members {
			distinctGames[member.GameID] = struct{}{}

			if member.PlusMinus != nil && *member.PlusMinus > 0 {
				aggregate.GamesPositive++
			}
			if member.Min != nil {
				minutes.add(*member.Min)
			}
			if member.PlusMinus != nil {
				plusMinuses.add(float64(*member.PlusMinus))
				if member.IsHome != nil {
					if *member.IsHome {
						homePM.add(float64(*member.PlusMinus))
					} else {
						awayPM.add(float64(*member.PlusMinus))
					}
				}
			}
			if member.Pts != nil {
				points.add(float64(*member.Pts))
				if member.IsHome != nil {
					if *member.IsHome {
						homePts.add(float64(*member.Pts))
					} else {
						awayPts.add(float64(*member.Pts))
					}
				}
			}
		}

		aggregate.GamesPlayed = len(distinctGames)
		aggregate.TotalMin = minutes.sum
		aggregate.TotalPlusMinus = int(plusMinuses.sum)
		aggregate.TotalPts = int(points.sum)
		aggregate.AvgMinPerGame = minutes.mean()
		aggregate.AvgPlusMinus = plusMinuses.mean()
		aggregate.AvgPts = points.mean()
		aggregate.StdDevPlusMinus = plusMinuses.sampleStdDev()
		aggregate.HomeAvgPlusMinus = homePM.meanOrNil()
		aggregate.AwayAvgPlusMinus = awayPM.meanOrNil()
		aggregate.HomeAvgPts = homePts.meanOrNil()
		aggregate.AwayAvgPts = awayPts.meanOrNil()

		out = append(out, aggregate)
	}

	sort.Slice(out, func(i, j int) bool { return lessByGroupOrder(out[i], out[j]) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// dateRanks dense-ranks the distinct stored dates of a team-season,
// matching the rank the SQL view computes over the whole base table.
func (r *ReportRepository) dateRanks(ctx context.Context, teamID int64, season string) (map[string]int, error) {
	all, err := r.logs.ListByFilter(ctx, lineuplog.Filter{TeamID: teamID, Season: season})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var days []string
	for _, item := range all {
		if item.GameDate == nil {
			continue
		}
		day := item.GameDate.Format("2006-01-02")
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Strings(days)

	ranks := make(map[string]int, len(days))
	for i, day := range days {
		ranks[day] = i + 1
	}
	return ranks, nil
}

// Rows without a date rank after every dated game.
func gameIndexFromRanks(ranks map[string]int, date *time.Time) int {
	if date == nil {
		return len(ranks) + 1
	}
	if rank, ok := ranks[date.Format("2006-01-02")]; ok {
		return rank
	}
	return len(ranks) + 1
}

func perMinute(value *int, minutes *float64) float64 {
	if minutes == nil || *minutes == 0 {
		return 0
	}
	if value == nil {
		return 0
	}
	return float64(*value) / *minutes
}

type stats struct {
	sum   float64
	sumSq float64
	n     int
}

func (s *stats) add(v float64) {
	s.sum += v
	s.sumSq += v * v
	s.n++
}

func (s *stats) mean() float64 {
	if s.n == 0 {
		return 0
	}
	return s.sum / float64(s.n)
}

func (s *stats) meanOrNil() *float64 {
	if s.n == 0 {
		return nil
	}
	mean := s.sum / float64(s.n)
	return &mean
}

// sampleStdDev returns the n-1 standard deviation, nil below two
// samples.
func (s *stats) sampleStdDev() *float64 {
	if s.n < 2 {
		return nil
	}
	mean := s.sum / float64(s.n)
	variance := (s.sumSq - float64(s.n)*mean*mean) / float64(s.n-1)
	if variance < 0 {
		variance = 0
	}
	sd := math.Sqrt(variance)
	return &sd
}

func lessByGroupOrder(a, b report.SeasonRow) bool {
	if a.TeamID != b.TeamID {
		return a.TeamID < b.TeamID
	}
	if a.Season != b.Season {
		return a.Season < b.Season
	}
	if a.GroupQuantity != b.GroupQuantity {
		return a.GroupQuantity < b.GroupQuantity
	}
	return a.GroupID < b.GroupID
}
