package training

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitplatform/internal/auth"
	"fitplatform/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrForbidden          = errors.New("not allowed to manage this session")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidDuration    = errors.New("invalid session duration")
	ErrInvalidCapacity    = errors.New("invalid session capacity")
	ErrStartInPast        = errors.New("session must start in the future")
	ErrModerationRequired = errors.New("sessions are approved through moderation")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
)

// Limits bounds what trainers may publish.
type Limits struct {
	MinDuration     int
	MaxDuration     int
	MaxParticipants int
	DefaultCurrency string
	Location        *time.Location
}

func DefaultLimits() Limits {
	return Limits{
		MinDuration:     15,
		MaxDuration:     240,
		MaxParticipants: 100,
		DefaultCurrency: "RUB",
		Location:        time.UTC,
	}
}

type Service interface {
	Create(ctx context.Context, actor auth.Actor, req CreateSessionRequest) (*Session, error)
	Get(ctx context.Context, id int) (*Session, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Session, error)
	ListUpcoming(ctx context.Context, filter ListFilter) ([]Session, error)
	ListMine(ctx context.Context, trainerID, limit, offset int) ([]Session, error)
	Submit(ctx context.Context, actor auth.Actor, id int) (*Session, error)
	Approve(ctx context.Context, id int, notes string) (*Session, error)
	Reject(ctx context.Context, id int, notes string) (*Session, error)
	ChangeStatus(ctx context.Context, actor auth.Actor, id int, req UpdateStatusRequest) (*Session, error)
	Calendar(ctx context.Context, userID, year int, month time.Month) ([]Session, error)
	ApplyRating(ctx context.Context, id int, score float64) (*RatingSummary, error)
}

type service struct {
	repo   Repository
	limits Limits
	now    func() time.Time
}

func NewService(repo Repository, limits Limits) Service {
	if limits.Location == nil {
		limits.Location = time.UTC
	}
	return &service{
		repo:   repo,
		limits: limits,
		now:    time.Now,
	}
}

func (s *service) Create(ctx context.Context, actor auth.Actor, req CreateSessionRequest) (*Session, error) {
	if req.DurationMinutes < s.limits.MinDuration || req.DurationMinutes > s.limits.MaxDuration {
		return nil, fmt.Errorf("%w: must be between %d and %d minutes",
			ErrInvalidDuration, s.limits.MinDuration, s.limits.MaxDuration)
	}
	if req.MaxParticipants < 1 || req.MaxParticipants > s.limits.MaxParticipants {
		return nil, fmt.Errorf("%w: max participants must be between 1 and %d",
			ErrInvalidCapacity, s.limits.MaxParticipants)
	}
	minParticipants := req.MinParticipants
	if minParticipants == 0 {
		minParticipants = 1
	}
	if minParticipants > req.MaxParticipants {
		return nil, fmt.Errorf("%w: min participants exceeds max", ErrInvalidCapacity)
	}
	if !req.StartTime.After(s.now()) {
		return nil, ErrStartInPast
	}

	session := &Session{
		PublicID:          uuid.New(),
		Title:             strings.TrimSpace(req.Title),
		Description:       req.Description,
		TrainerID:         actor.UserID,
		StartTime:         req.StartTime.UTC(),
		DurationMinutes:   req.DurationMinutes,
		TrainingType:      orDefault(req.TrainingType, TypeGroup),
		Difficulty:        orDefault(req.Difficulty, "beginner"),
		MaxParticipants:   req.MaxParticipants,
		MinParticipants:   minParticipants,
		Status:            StatusDraft,
		ModerationStatus:  ModerationPending,
		PriceCents:        req.PriceCents,
		Currency:          strings.ToUpper(orDefault(req.Currency, s.limits.DefaultCurrency)),
		Tags:              nonNil(req.Tags),
		RequiredEquipment: nonNil(req.RequiredEquipment),
	}

	created, err := s.repo.Create(ctx, session)
	if err != nil {
		return nil, err
	}

	logger.Info("session created", "session_id", created.ID, "trainer_id", created.TrainerID)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Session, error) {
	return s.repo.GetByPublicID(ctx, publicID)
}

func (s *service) ListUpcoming(ctx context.Context, filter ListFilter) ([]Session, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.ListUpcoming(ctx, s.now(), filter)
}

func (s *service) ListMine(ctx context.Context, trainerID, limit, offset int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListByTrainer(ctx, trainerID, limit, offset)
}

func (s *service) Submit(ctx context.Context, actor auth.Actor, id int) (*Session, error) {
	session, err := s.managed(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if session.Status != StatusDraft {
		return nil, fmt.Errorf("%w: only drafts can be submitted", ErrInvalidTransition)
	}

	if err := s.repo.SetModeration(ctx, id, StatusPending, ModerationPending, session.ModerationNotes); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Approve(ctx context.Context, id int, notes string) (*Session, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != StatusPending {
		return nil, fmt.Errorf("%w: session is not awaiting moderation", ErrInvalidTransition)
	}

	if err := s.repo.SetModeration(ctx, id, StatusApproved, ModerationApproved, notes); err != nil {
		return nil, err
	}
	logger.Info("session approved", "session_id", id)
	return s.repo.GetByID(ctx, id)
}

// Reject returns a pending session to draft so the trainer can revise it.
func (s *service) Reject(ctx context.Context, id int, notes string) (*Session, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != StatusPending {
		return nil, fmt.Errorf("%w: session is not awaiting moderation", ErrInvalidTransition)
	}

	if err := s.repo.SetModeration(ctx, id, StatusDraft, ModerationRejected, notes); err != nil {
		return nil, err
	}
	logger.Info("session rejected", "session_id", id)
	return s.repo.GetByID(ctx, id)
}

func (s *service) ChangeStatus(ctx context.Context, actor auth.Actor, id int, req UpdateStatusRequest) (*Session, error) {
	if !ValidStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, req.Status)
	}

	session, err := s.managed(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	override := req.Force && actor.IsAdmin()
	if !override {
		if req.Status == StatusApproved && !actor.IsAdmin() {
			return nil, ErrModerationRequired
		}
		if !CanTransition(session.Status, req.Status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, req.Status)
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}

	logger.Info("session status changed",
		"session_id", id, "from", session.Status, "to", req.Status, "forced", override)
	session.Status = req.Status
	return session, nil
}

func (s *service) Calendar(ctx context.Context, userID, year int, month time.Month) ([]Session, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.limits.Location)
	to := from.AddDate(0, 1, 0)
	return s.repo.ListForUser(ctx, userID, from, to)
}

func (s *service) ApplyRating(ctx context.Context, id int, score float64) (*RatingSummary, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidRating
	}
	return s.repo.ApplyRating(ctx, id, score)
}

func (s *service) managed(ctx context.Context, actor auth.Actor, id int) (*Session, error) {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(session.TrainerID) {
		return nil, ErrForbidden
	}
	return session, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
