package registration

import (
	"context"
	"time"
)

type Repository interface {
	// Register locks the session row, builds a Snapshot and lets decide veto
	// the booking before the row is inserted or reactivated.
	Register(ctx context.Context, userID, sessionID int, decide func(Snapshot) error) (*Registration, error)
	GetByID(ctx context.Context, id int) (*Registration, error)
	// Cancel refunds a paid fee in the same transaction; the returned row says
	// whether it did.
	Cancel(ctx context.Context, id int, reason string) (*Registration, error)
	SetAttendance(ctx context.Context, id int, status string, attendedAt *time.Time) (*Registration, error)
	Pay(ctx context.Context, id int) (*Registration, error)
	ListByUser(ctx context.Context, userID int, status string, limit, offset int) ([]Registration, error)
	ListBySession(ctx context.Context, sessionID int) ([]Registration, error)
	HasAttended(ctx context.Context, userID, sessionID int) (bool, error)
	StatsByDay(ctx context.Context, from, to time.Time) ([]DayStats, error)
	StatsByTrainer(ctx context.Context, from, to time.Time) ([]TrainerStats, error)
}
