package feedback

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, f *Feedback) (*Feedback, error)
	GetByID(ctx context.Context, id int) (*Feedback, error)
	ListBySession(ctx context.Context, sessionID int, status string, limit, offset int) ([]Feedback, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]Feedback, error)
	Moderate(ctx context.Context, id int, status string, moderatorID int, notes string) (*Feedback, error)
}
