package training

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Session) (*Session, error)
	GetByID(ctx context.Context, id int) (*Session, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Session, error)
	ListUpcoming(ctx context.Context, from time.Time, filter ListFilter) ([]Session, error)
	ListByTrainer(ctx context.Context, trainerID, limit, offset int) ([]Session, error)
	ListForUser(ctx context.Context, userID int, from, to time.Time) ([]Session, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	SetModeration(ctx context.Context, id int, status, moderationStatus, notes string) error
	ApplyRating(ctx context.Context, id int, score float64) (*RatingSummary, error)
	CreateOccurrences(ctx context.Context, template Session, scheduleID int, starts []time.Time) (int, error)
}
