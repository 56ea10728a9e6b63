package feedback

import (
	"context"
	"errors"
	"fmt"

	"fitplatform/internal/auth"
	"fitplatform/internal/logger"
	"fitplatform/internal/metrics"
	"fitplatform/internal/notification"
	"fitplatform/internal/training"
)

var (
	ErrNotAttended = errors.New("only attendees can leave feedback")
	ErrForbidden   = errors.New("only admins can moderate feedback")
)

type Service interface {
	Submit(ctx context.Context, userID, sessionID int, req CreateRequest) (*Feedback, error)
	ListForSession(ctx context.Context, sessionID, limit, offset int) ([]Feedback, error)
	ListPending(ctx context.Context, actor auth.Actor, limit, offset int) ([]Feedback, error)
	Approve(ctx context.Context, actor auth.Actor, id int, notes string) (*Feedback, error)
	Reject(ctx context.Context, actor auth.Actor, id int, notes string) (*Feedback, error)
}

// Sessions resolves the rated session and folds approved scores into it.
type Sessions interface {
	Get(ctx context.Context, id int) (*training.Session, error)
	ApplyRating(ctx context.Context, id int, score float64) (*training.RatingSummary, error)
}

type Attendance interface {
	HasAttended(ctx context.Context, userID, sessionID int) (bool, error)
}

type Notifier interface {
	Send(ctx context.Context, n notification.Create) (*notification.Notification, error)
}

type service struct {
	repo       Repository
	sessions   Sessions
	attendance Attendance
	notifier   Notifier
}

func NewService(repo Repository, sessions Sessions, attendance Attendance, notifier Notifier) Service {
	return &service{
		repo:       repo,
		sessions:   sessions,
		attendance: attendance,
		notifier:   notifier,
	}
}

func (s *service) Submit(ctx context.Context, userID, sessionID int, req CreateRequest) (*Feedback, error) {
	if _, err := s.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	attended, err := s.attendance.HasAttended(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !attended {
		return nil, ErrNotAttended
	}

	created, err := s.repo.Create(ctx, &Feedback{
		UserID:      userID,
		SessionID:   sessionID,
		Title:       req.Title,
		Comment:     req.Comment,
		Rating:      req.Rating,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordFeedback(StatusPending)
	logger.Info("feedback submitted", "feedback_id", created.ID, "session_id", sessionID, "user_id", userID)

	return created, nil
}

func (s *service) ListForSession(ctx context.Context, sessionID, limit, offset int) ([]Feedback, error) {
	items, err := s.repo.ListBySession(ctx, sessionID, StatusApproved, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = items[i].Public()
	}
	return items, nil
}

func (s *service) ListPending(ctx context.Context, actor auth.Actor, limit, offset int) ([]Feedback, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.ListByStatus(ctx, StatusPending, limit, offset)
}

// Approve publishes the feedback and adds its score to the session rating.
// The status flip happens first so a score is never counted twice.
func (s *service) Approve(ctx context.Context, actor auth.Actor, id int, notes string) (*Feedback, error) {
	f, err := s.moderate(ctx, actor, id, StatusApproved, notes)
	if err != nil {
		return nil, err
	}

	summary, err := s.sessions.ApplyRating(ctx, f.SessionID, f.Rating)
	if err != nil {
		logger.Error("approved feedback not folded into rating", "feedback_id", f.ID, "session_id", f.SessionID, "error", err)
		return nil, fmt.Errorf("apply rating: %w", err)
	}
	logger.Info("session rating updated", "session_id", f.SessionID, "average", summary.Average, "count", summary.Count)

	s.notify(ctx, f.UserID, "Feedback published", "Your feedback is now visible to other members.")
	return f, nil
}

func (s *service) Reject(ctx context.Context, actor auth.Actor, id int, notes string) (*Feedback, error) {
	f, err := s.moderate(ctx, actor, id, StatusRejected, notes)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, f.UserID, "Feedback rejected", "Your feedback was not published: "+notes)
	return f, nil
}

func (s *service) moderate(ctx context.Context, actor auth.Actor, id int, status, notes string) (*Feedback, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	// Surfaces not-found before the conditional update hides it.
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	f, err := s.repo.Moderate(ctx, id, status, actor.UserID, notes)
	if err != nil {
		return nil, err
	}

	metrics.RecordFeedback(status)
	logger.Info("feedback moderated", "feedback_id", id, "status", status, "moderator_id", actor.UserID)
	return f, nil
}

func (s *service) notify(ctx context.Context, userID int, title, message string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Send(ctx, notification.Create{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     notification.TypeModeration,
		Priority: notification.PriorityNormal,
	})
	if err != nil {
		logger.Warn("notification not stored", "user_id", userID, "error", err)
	}
}
