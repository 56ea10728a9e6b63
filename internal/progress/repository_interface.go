package progress

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, r *Record) (*Record, error)
	List(ctx context.Context, userID int, f HistoryFilter) ([]Record, error)
	Summary(ctx context.Context, userID int, f HistoryFilter) (*Summary, error)
}
