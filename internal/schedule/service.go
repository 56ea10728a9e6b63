package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitplatform/internal/auth"
	"fitplatform/internal/logger"
	"fitplatform/internal/metrics"
	"fitplatform/internal/training"
)

const (
	maxWindow = 366 * 24 * time.Hour

	// A new schedule may start at most a year back and five years ahead.
	maxStartAge  = 366 * 24 * time.Hour
	maxStartLead = 5 * 366 * 24 * time.Hour
)

var (
	ErrForbidden      = errors.New("not allowed to manage this schedule")
	ErrInvalidWindow  = errors.New("invalid date window")
	ErrDurationLimits = errors.New("occurrence duration outside allowed limits")
)

// SessionStore is the part of the session repository schedules depend on.
type SessionStore interface {
	GetByID(ctx context.Context, id int) (*training.Session, error)
	CreateOccurrences(ctx context.Context, template training.Session, scheduleID int, starts []time.Time) (int, error)
}

type Service interface {
	Create(ctx context.Context, actor auth.Actor, req CreateScheduleRequest) (*Schedule, error)
	Get(ctx context.Context, id int) (*Schedule, error)
	ListMine(ctx context.Context, trainerID int) ([]Schedule, error)
	Delete(ctx context.Context, actor auth.Actor, id int) error
	Preview(ctx context.Context, actor auth.Actor, id int, from, to time.Time) ([]time.Time, error)
	Expand(ctx context.Context, actor auth.Actor, id int, from, to time.Time) (*ExpandResult, error)
}

type service struct {
	repo     Repository
	sessions SessionStore
	limits   training.Limits
	now      func() time.Time
}

func NewService(repo Repository, sessions SessionStore, limits training.Limits) Service {
	if limits.Location == nil {
		limits.Location = time.UTC
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		limits:   limits,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, actor auth.Actor, req CreateScheduleRequest) (*Schedule, error) {
	template, err := s.sessions.GetByID(ctx, req.TemplateSessionID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(template.TrainerID) {
		return nil, ErrForbidden
	}

	sched, err := scheduleFromRequest(req)
	if err != nil {
		return nil, err
	}
	today := dateOf(s.now())
	if sched.StartDate.Before(today.Add(-maxStartAge)) || sched.StartDate.After(today.Add(maxStartLead)) {
		return nil, &InvalidRuleError{Field: "start_date", Reason: "must be within a year back and five years ahead"}
	}
	if _, err := sched.Rule(); err != nil {
		return nil, err
	}
	if err := s.checkDuration(*sched); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, sched)
	if err != nil {
		return nil, err
	}

	logger.Info("schedule created",
		"schedule_id", created.ID, "template_session_id", created.TemplateSessionID, "pattern", created.Pattern)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int) (*Schedule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListMine(ctx context.Context, trainerID int) ([]Schedule, error) {
	return s.repo.ListByTrainer(ctx, trainerID)
}

func (s *service) Delete(ctx context.Context, actor auth.Actor, id int) error {
	if _, _, err := s.managed(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Preview returns the start times Expand would materialize, without writing.
func (s *service) Preview(ctx context.Context, actor auth.Actor, id int, from, to time.Time) ([]time.Time, error) {
	sched, _, err := s.managed(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return s.startTimes(*sched, from, to)
}

// Expand creates a session for each occurrence in [from, to] that does not
// exist yet, copying the template session.
func (s *service) Expand(ctx context.Context, actor auth.Actor, id int, from, to time.Time) (*ExpandResult, error) {
	sched, template, err := s.managed(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	starts, err := s.startTimes(*sched, from, to)
	if err != nil {
		return nil, err
	}

	duration, err := sched.Duration()
	if err != nil {
		return nil, err
	}
	occurrence := *template
	occurrence.DurationMinutes = int(duration / time.Minute)
	occurrence.RegistrationsCount = 0

	created, err := s.sessions.CreateOccurrences(ctx, occurrence, sched.ID, starts)
	if err != nil {
		return nil, fmt.Errorf("materialize occurrences: %w", err)
	}

	metrics.RecordOccurrences(sched.Pattern, created)
	logger.Info("schedule expanded",
		"schedule_id", sched.ID, "occurrences", len(starts), "created", created)

	return &ExpandResult{ScheduleID: sched.ID, Occurrences: len(starts), Created: created}, nil
}

func (s *service) startTimes(sched Schedule, from, to time.Time) ([]time.Time, error) {
	if to.Sub(from) > maxWindow {
		return nil, fmt.Errorf("%w: at most 366 days", ErrInvalidWindow)
	}

	rule, err := sched.Rule()
	if err != nil {
		return nil, err
	}

	dates, err := Generate(rule, from, to)
	if err != nil {
		return nil, err
	}

	starts := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		start, err := sched.StartAt(d, s.limits.Location)
		if err != nil {
			return nil, err
		}
		starts = append(starts, start.UTC())
	}
	return starts, nil
}

func (s *service) managed(ctx context.Context, actor auth.Actor, id int) (*Schedule, *training.Session, error) {
	sched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	template, err := s.sessions.GetByID(ctx, sched.TemplateSessionID)
	if err != nil {
		return nil, nil, err
	}
	if !actor.CanManage(template.TrainerID) {
		return nil, nil, ErrForbidden
	}
	return sched, template, nil
}

func (s *service) checkDuration(sched Schedule) error {
	d, err := sched.Duration()
	if err != nil {
		return err
	}
	minutes := int(d / time.Minute)
	if minutes < s.limits.MinDuration || minutes > s.limits.MaxDuration {
		return fmt.Errorf("%w: %d minutes", ErrDurationLimits, minutes)
	}
	return nil
}

func scheduleFromRequest(req CreateScheduleRequest) (*Schedule, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, &InvalidRuleError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
	}

	sched := &Schedule{
		TemplateSessionID: req.TemplateSessionID,
		Pattern:           req.Pattern,
		Interval:          req.Interval,
		StartTimeOfDay:    req.StartTime,
		EndTimeOfDay:      req.EndTime,
		StartDate:         start,
		MaxOccurrences:    req.MaxOccurrences,
		Weekdays:          []int64{},
		Exceptions:        []string{},
	}
	if sched.Interval == 0 {
		sched.Interval = 1
	}
	if req.EndDate != "" {
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return nil, &InvalidRuleError{Field: "end_date", Reason: "must be YYYY-MM-DD"}
		}
		sched.EndDate = &end
	}
	for _, wd := range req.Weekdays {
		sched.Weekdays = append(sched.Weekdays, int64(wd))
	}
	sched.Exceptions = append(sched.Exceptions, req.Exceptions...)

	return sched, nil
}

// ParseWindow reads a from/to pair of YYYY-MM-DD dates.
func ParseWindow(req WindowRequest) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidWindow)
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidWindow)
	}
	return from, to, nil
}
