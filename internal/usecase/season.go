package usecase

import (
	"fmt"
	"regexp"
	"time"
)

var seasonPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// CurrentSeason derives the NBA season label for a point in time.
// Seasons start in October: before that month the previous season is
// still the current one.
func CurrentSeason(now time.Time) string {
	year := now.Year()
	if now.Month() < time.October {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// ValidateSeason checks the "YYYY-YY" label format and that the two
// halves are consecutive years.
func ValidateSeason(season string) error {
	if !seasonPattern.MatchString(season) {
		return fmt.Errorf("%w: season must look like 2024-25, got %q", ErrInvalidInput, season)
	}

	var startYear, endSuffix int
	if _, err := fmt.Sscanf(season, "%4d-%2d", &startYear, &endSuffix); err != nil {
		return fmt.Errorf("%w: season must look like 2024-25, got %q", ErrInvalidInput, season)
	}
	if (startYear+1)%100 != endSuffix {
		return fmt.Errorf("%w: season years must be consecutive, got %q", ErrInvalidInput, season)
	}
	return nil
}
