package schedule

import "context"

type Repository interface {
	Create(ctx context.Context, s *Schedule) (*Schedule, error)
	GetByID(ctx context.Context, id int) (*Schedule, error)
	ListByTrainer(ctx context.Context, trainerID int) ([]Schedule, error)
	Delete(ctx context.Context, id int) error
}
