package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitplatform/internal/auth"
	"fitplatform/internal/logger"
	"fitplatform/internal/metrics"
	"fitplatform/internal/notification"
	"fitplatform/internal/training"
	"fitplatform/internal/user"
	"fitplatform/internal/wallet"
)

var (
	ErrForbidden     = errors.New("not allowed to manage this registration")
	ErrNothingToPay  = errors.New("registration has no pending payment")
	ErrPaymentFailed = errors.New("payment could not be completed")
	ErrInvalidRange  = errors.New("stats range must end after it starts and span at most a year")
)

const maxStatsRange = 366 * 24 * time.Hour

type Service interface {
	Register(ctx context.Context, actor auth.Actor, sessionID int) (*Registration, error)
	Cancel(ctx context.Context, actor auth.Actor, id int, reason string) (*Registration, error)
	MarkAttendance(ctx context.Context, actor auth.Actor, id int, status string) (*Registration, error)
	Pay(ctx context.Context, actor auth.Actor, id int) (*Registration, error)
	ListMine(ctx context.Context, userID int, status string, limit, offset int) ([]Registration, error)
	ListForSession(ctx context.Context, actor auth.Actor, sessionID int) ([]Registration, error)
	HasAttended(ctx context.Context, userID, sessionID int) (bool, error)
	Stats(ctx context.Context, from, to time.Time) (*Stats, error)
}

type Sessions interface {
	GetByID(ctx context.Context, id int) (*training.Session, error)
}

type Users interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Notifier interface {
	Send(ctx context.Context, n notification.Create) (*notification.Notification, error)
}

type Mailer interface {
	SendRegistrationConfirmation(ctx context.Context, to, name, title string, when time.Time) error
	SendCancellation(ctx context.Context, to, name, title string, refunded bool) error
}

type service struct {
	repo     Repository
	sessions Sessions
	users    Users
	notifier Notifier
	mailer   Mailer
	policy   Policy
	now      func() time.Time
}

func NewService(
	repo Repository,
	sessions Sessions,
	users Users,
	notifier Notifier,
	mailer Mailer,
	policy Policy,
) Service {
	return &service{
		repo:     repo,
		sessions: sessions,
		users:    users,
		notifier: notifier,
		mailer:   mailer,
		policy:   policy,
		now:      time.Now,
	}
}

func (s *service) Register(ctx context.Context, actor auth.Actor, sessionID int) (*Registration, error) {
	now := s.now()

	var session training.Session
	reg, err := s.repo.Register(ctx, actor.UserID, sessionID, func(snap Snapshot) error {
		session = snap.Session
		return s.policy.CheckRegister(actor.UserID, snap, now)
	})
	if err != nil {
		metrics.RecordRegistration(outcome(err))
		return nil, err
	}
	metrics.RecordRegistration("registered")

	if reg.PaymentStatus == PaymentPending {
		s.charge(ctx, reg)
	}

	logger.Info("session booked", "registration_id", reg.ID, "user_id", reg.UserID, "session_id", reg.SessionID)

	message := fmt.Sprintf("You are registered for %q on %s.", session.Title, session.StartTime.Format(time.RFC1123))
	if reg.PaymentStatus == PaymentPending {
		message += " Payment is pending: top up your wallet and pay before the session."
	}
	s.notify(ctx, reg.UserID, notification.TypeRegistration, "Registration confirmed", message)
	s.mail(ctx, reg.UserID, func(u *user.User) error {
		return s.mailer.SendRegistrationConfirmation(ctx, u.Email, u.Name, session.Title, session.StartTime)
	})

	return reg, nil
}

// charge debits the wallet; a failed debit leaves the registration pending.
func (s *service) charge(ctx context.Context, reg *Registration) {
	paid, err := s.repo.Pay(ctx, reg.ID)
	switch {
	case err == nil:
		metrics.RecordPayment("paid")
		reg.PaymentStatus = paid.PaymentStatus
	case errors.Is(err, wallet.ErrInsufficientBalance):
		metrics.RecordPayment("insufficient_funds")
	case errors.Is(err, ErrNothingToPay):
	default:
		metrics.RecordPayment("error")
		logger.Error("session payment failed", "registration_id", reg.ID, "error", err)
	}
}

func (s *service) Cancel(ctx context.Context, actor auth.Actor, id int, reason string) (*Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(reg.UserID) {
		return nil, ErrForbidden
	}

	session, err := s.sessions.GetByID(ctx, reg.SessionID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CheckCancel(*reg, *session, s.now()); err != nil {
		return nil, err
	}

	cancelled, err := s.repo.Cancel(ctx, reg.ID, reason)
	if err != nil {
		return nil, err
	}
	metrics.RecordCancellation()

	refund := cancelled.PaymentStatus == PaymentRefunded
	if refund {
		metrics.RecordPayment("refunded")
	}

	s.notify(ctx, reg.UserID, notification.TypeCancellation, "Registration cancelled",
		fmt.Sprintf("Your registration for %q has been cancelled.", session.Title))
	s.mail(ctx, reg.UserID, func(u *user.User) error {
		return s.mailer.SendCancellation(ctx, u.Email, u.Name, session.Title, refund)
	})

	return cancelled, nil
}

func (s *service) MarkAttendance(ctx context.Context, actor auth.Actor, id int, status string) (*Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, reg.SessionID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(session.TrainerID) {
		return nil, ErrForbidden
	}

	now := s.now()
	if err := s.policy.CheckAttendance(*reg, *session, status, now); err != nil {
		return nil, err
	}

	var attendedAt *time.Time
	if status == StatusAttended {
		attendedAt = &now
	}

	updated, err := s.repo.SetAttendance(ctx, reg.ID, status, attendedAt)
	if err != nil {
		return nil, err
	}
	metrics.RecordAttendance(status)

	if status == StatusAttended {
		s.notify(ctx, reg.UserID, notification.TypeAttendance, "Thanks for training with us",
			fmt.Sprintf("Your attendance at %q was recorded. You can now leave feedback.", session.Title))
	}

	return updated, nil
}

func (s *service) Pay(ctx context.Context, actor auth.Actor, id int) (*Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if reg.Status != StatusRegistered || reg.PaymentStatus != PaymentPending || reg.PaymentAmountCents <= 0 {
		return nil, ErrNothingToPay
	}

	// The row is checked again under lock; a concurrent cancel or payment wins.
	paid, err := s.repo.Pay(ctx, reg.ID)
	switch {
	case err == nil:
		metrics.RecordPayment("paid")
		return paid, nil
	case errors.Is(err, wallet.ErrInsufficientBalance):
		metrics.RecordPayment("insufficient_funds")
		return nil, err
	case errors.Is(err, ErrNothingToPay), errors.Is(err, ErrRegistrationNotFound):
		return nil, err
	default:
		metrics.RecordPayment("error")
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
}

func (s *service) ListMine(ctx context.Context, userID int, status string, limit, offset int) ([]Registration, error) {
	return s.repo.ListByUser(ctx, userID, status, limit, offset)
}

func (s *service) ListForSession(ctx context.Context, actor auth.Actor, sessionID int) ([]Registration, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(session.TrainerID) {
		return nil, ErrForbidden
	}
	return s.repo.ListBySession(ctx, sessionID)
}

func (s *service) HasAttended(ctx context.Context, userID, sessionID int) (bool, error) {
	return s.repo.HasAttended(ctx, userID, sessionID)
}

func (s *service) Stats(ctx context.Context, from, to time.Time) (*Stats, error) {
	if !to.After(from) || to.Sub(from) > maxStatsRange {
		return nil, ErrInvalidRange
	}

	byDay, err := s.repo.StatsByDay(ctx, from, to)
	if err != nil {
		return nil, err
	}
	byTrainer, err := s.repo.StatsByTrainer(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &Stats{From: from, To: to, ByDay: byDay, ByTrainer: byTrainer}, nil
}

func (s *service) notify(ctx context.Context, userID int, kind, title, message string) {
	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Send(ctx, notification.Create{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     kind,
		Priority: notification.PriorityNormal,
	})
	if err != nil {
		logger.Warn("notification not stored", "user_id", userID, "type", kind, "error", err)
	}
}

func (s *service) mail(ctx context.Context, userID int, send func(u *user.User) error) {
	if s.mailer == nil || s.users == nil {
		return
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		logger.Warn("email recipient lookup failed", "user_id", userID, "error", err)
		return
	}
	if err := send(u); err != nil {
		logger.Warn("email not queued", "user_id", userID, "error", err)
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrSessionFull):
		return "full"
	case errors.Is(err, ErrSessionStarted):
		return "started"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrOwnSession):
		return "own_session"
	case errors.Is(err, ErrSessionNotBookable):
		return "not_bookable"
	case errors.Is(err, training.ErrSessionNotFound):
		return "not_found"
	}
	return "error"
}
