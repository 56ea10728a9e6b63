package goal

import "context"

type Repository interface {
	Create(ctx context.Context, g *Goal) (*Goal, error)
	GetByID(ctx context.Context, id int) (*Goal, error)
	ListByUser(ctx context.Context, userID int, status string) ([]Goal, error)
	// SaveProgress persists the goal's progress fields and, when given, the
	// achievement earned by this update in the same transaction.
	SaveProgress(ctx context.Context, g Goal, earned *Achievement) error
	UpdateStatus(ctx context.Context, id int, status string) error
	ListAchievements(ctx context.Context, userID int) ([]Achievement, error)
}
