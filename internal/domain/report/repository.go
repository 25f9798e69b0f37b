package report

import "context"

// Repository produces the two derived read models. Rows come back
// without player flags; callers attach those at report time.
type Repository interface {
	ListPerGame(ctx context.Context, filter Filter) ([]PerGameRow, error)
	ListSeason(ctx context.Context, filter Filter) ([]SeasonRow, error)
}
