package goal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitplatform/internal/logger"
	"fitplatform/internal/metrics"
	"fitplatform/internal/notification"
	"fitplatform/internal/user"
)

var (
	ErrForbidden     = errors.New("not allowed to access this goal")
	ErrGoalNotActive = errors.New("goal is not active")
	ErrInvalidDates  = errors.New("target date must be after start date")
)

type Service interface {
	Create(ctx context.Context, userID int, req CreateGoalRequest) (*View, error)
	Get(ctx context.Context, userID, id int) (*View, error)
	List(ctx context.Context, userID int, status string) ([]View, error)
	UpdateProgress(ctx context.Context, userID, id int, value float64) (*View, error)
	Cancel(ctx context.Context, userID, id int) (*View, error)
	Achievements(ctx context.Context, userID int) (*AchievementList, error)
	ApplyActivity(ctx context.Context, userID int, a Activity) ([]Goal, error)
}

type Users interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Notifier interface {
	Send(ctx context.Context, n notification.Create) (*notification.Notification, error)
}

type Mailer interface {
	SendGoalCompleted(ctx context.Context, to, name, goal string) error
}

type service struct {
	repo     Repository
	users    Users
	notifier Notifier
	mailer   Mailer
	now      func() time.Time
}

func NewService(repo Repository, users Users, notifier Notifier, mailer Mailer) Service {
	return &service{
		repo:     repo,
		users:    users,
		notifier: notifier,
		mailer:   mailer,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID int, req CreateGoalRequest) (*View, error) {
	now := s.now()

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.StartDate != "" {
		parsed, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid start_date: %w", err)
		}
		start = parsed
	}

	var target *time.Time
	if req.TargetDate != "" {
		parsed, err := time.Parse(dateLayout, req.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("invalid target_date: %w", err)
		}
		if !parsed.After(start) {
			return nil, ErrInvalidDates
		}
		target = &parsed
	}

	created, err := s.repo.Create(ctx, &Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		GoalType:    req.GoalType,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		StartDate:   start,
		TargetDate:  target,
		Status:      StatusActive,
	})
	if err != nil {
		return nil, err
	}

	view := NewView(*created, now)
	return &view, nil
}

func (s *service) owned(ctx context.Context, userID, id int) (*Goal, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, ErrForbidden
	}
	return g, nil
}

func (s *service) Get(ctx context.Context, userID, id int) (*View, error) {
	g, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	view := NewView(*g, s.now())
	return &view, nil
}

func (s *service) List(ctx context.Context, userID int, status string) ([]View, error) {
	goals, err := s.repo.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]View, 0, len(goals))
	for _, g := range goals {
		views = append(views, NewView(g, now))
	}
	return views, nil
}

func (s *service) UpdateProgress(ctx context.Context, userID, id int, value float64) (*View, error) {
	g, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if g.Status != StatusActive {
		return nil, ErrGoalNotActive
	}

	now := s.now()
	updated, err := s.save(ctx, *g, SetProgress(*g, value, now))
	if err != nil {
		return nil, err
	}

	view := NewView(updated, now)
	return &view, nil
}

func (s *service) Cancel(ctx context.Context, userID, id int) (*View, error) {
	g, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if g.Status != StatusActive {
		return nil, ErrGoalNotActive
	}

	if err := s.repo.UpdateStatus(ctx, g.ID, StatusCancelled); err != nil {
		return nil, err
	}
	g.Status = StatusCancelled

	view := NewView(*g, s.now())
	return &view, nil
}

func (s *service) Achievements(ctx context.Context, userID int) (*AchievementList, error) {
	items, err := s.repo.ListAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := &AchievementList{Items: items}
	for _, a := range items {
		list.TotalPoints += a.Points
	}
	return list, nil
}

// ApplyActivity feeds an activity into every active goal of the user that it
// matches and returns the goals that changed.
func (s *service) ApplyActivity(ctx context.Context, userID int, a Activity) ([]Goal, error) {
	goals, err := s.repo.ListByUser(ctx, userID, StatusActive)
	if err != nil {
		return nil, err
	}

	now := s.now()
	changed := []Goal{}
	for _, g := range goals {
		if !Matches(g, a) {
			continue
		}
		updated, err := s.save(ctx, g, ApplyActivity(g, a, now))
		if err != nil {
			return changed, fmt.Errorf("goal %d: %w", g.ID, err)
		}
		changed = append(changed, updated)
	}
	return changed, nil
}

// save persists after and, if this update completed the goal, records the
// achievement and tells the owner.
func (s *service) save(ctx context.Context, before, after Goal) (Goal, error) {
	completedNow := before.Status != StatusCompleted && after.Status == StatusCompleted

	var earned *Achievement
	if completedNow {
		goalID := after.ID
		earned = &Achievement{
			UserID:          after.UserID,
			GoalID:          &goalID,
			Title:           "Goal achieved: " + after.Title,
			Description:     fmt.Sprintf("You reached your goal %q!", after.Title),
			AchievementType: AchievementGoalCompletion,
			Points:          GoalCompletionPoints,
		}
	}

	if err := s.repo.SaveProgress(ctx, after, earned); err != nil {
		return before, err
	}

	if completedNow {
		metrics.RecordGoalCompleted(after.GoalType)
		logger.Info("goal completed", "goal_id", after.ID, "user_id", after.UserID)
		s.celebrate(ctx, after)
	}
	return after, nil
}

func (s *service) celebrate(ctx context.Context, g Goal) {
	if s.notifier != nil {
		_, err := s.notifier.Send(ctx, notification.Create{
			UserID:   g.UserID,
			Title:    "Goal achieved",
			Message:  fmt.Sprintf("Congratulations! You reached %q and earned %d points.", g.Title, GoalCompletionPoints),
			Type:     notification.TypeGoal,
			Priority: notification.PriorityHigh,
		})
		if err != nil {
			logger.Warn("goal notification not stored", "goal_id", g.ID, "error", err)
		}
	}

	if s.mailer == nil || s.users == nil {
		return
	}
	u, err := s.users.FindByID(ctx, g.UserID)
	if err != nil {
		logger.Warn("goal owner lookup failed", "goal_id", g.ID, "error", err)
		return
	}
	if err := s.mailer.SendGoalCompleted(ctx, u.Email, u.Name, g.Title); err != nil {
		logger.Warn("goal email not queued", "goal_id", g.ID, "error", err)
	}
}
