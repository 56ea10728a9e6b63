package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n Create) (*Notification, error)
	ListByUser(ctx context.Context, userID int, unreadOnly bool, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, userID int) (int, error)
	MarkRead(ctx context.Context, id, userID int) error
	MarkAllRead(ctx context.Context, userID int) (int64, error)
}
