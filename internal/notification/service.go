package notification

import (
	"context"

	"fitplatform/internal/logger"
	"fitplatform/internal/user"
)

type Service interface {
	Send(ctx context.Context, n Create) (*Notification, error)
	List(ctx context.Context, userID int, unreadOnly bool, limit, offset int) ([]Notification, error)
	UnreadCount(ctx context.Context, userID int) (int, error)
	MarkRead(ctx context.Context, userID, id int) error
	MarkAllRead(ctx context.Context, userID int) (int64, error)
}

// Recipients resolves the address an email copy goes to.
type Recipients interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Mailer interface {
	SendNotification(ctx context.Context, to, name, title, message string) error
}

type service struct {
	repo       Repository
	recipients Recipients
	mailer     Mailer
}

func NewService(repo Repository, recipients Recipients, mailer Mailer) Service {
	return &service{
		repo:       repo,
		recipients: recipients,
		mailer:     mailer,
	}
}

// Send stores the notification and, when requested, queues an email copy.
// Email failures are logged and do not fail the call.
func (s *service) Send(ctx context.Context, n Create) (*Notification, error) {
	if n.Type == "" {
		n.Type = TypeSystem
	}

	created, err := s.repo.Create(ctx, n)
	if err != nil {
		return nil, err
	}

	if n.SendEmail && s.mailer != nil && s.recipients != nil {
		s.mail(ctx, created)
	}
	return created, nil
}

func (s *service) mail(ctx context.Context, n *Notification) {
	u, err := s.recipients.FindByID(ctx, n.UserID)
	if err != nil {
		logger.Warn("notification recipient lookup failed", "user_id", n.UserID, "error", err)
		return
	}
	if err := s.mailer.SendNotification(ctx, u.Email, u.Name, n.Title, n.Message); err != nil {
		logger.Warn("notification email not queued", "notification_id", n.ID, "error", err)
	}
}

func (s *service) List(ctx context.Context, userID int, unreadOnly bool, limit, offset int) ([]Notification, error) {
	return s.repo.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *service) UnreadCount(ctx context.Context, userID int) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *service) MarkRead(ctx context.Context, userID, id int) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *service) MarkAllRead(ctx context.Context, userID int) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}
