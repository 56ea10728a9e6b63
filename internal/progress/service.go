package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitplatform/internal/goal"
	"fitplatform/internal/logger"
)

var (
	ErrFutureDate         = errors.New("date cannot be in the future")
	ErrDateTooOld         = errors.New("date is more than ten years in the past")
	ErrBloodPressure      = errors.New("systolic pressure must be greater than diastolic")
	ErrSessionNotAttended = errors.New("session was not attended")
)

const maxRecordAge = 3650 * 24 * time.Hour

type Service interface {
	Add(ctx context.Context, userID int, req CreateRecordRequest) (*AddResult, error)
	History(ctx context.Context, userID int, f HistoryFilter) ([]RecordView, error)
	Summary(ctx context.Context, userID int, f HistoryFilter) (*Summary, error)
}

// GoalTracker moves a user's goals forward from a new activity record.
type GoalTracker interface {
	ApplyActivity(ctx context.Context, userID int, a goal.Activity) ([]goal.Goal, error)
}

type Attendance interface {
	HasAttended(ctx context.Context, userID, sessionID int) (bool, error)
}

type service struct {
	repo       Repository
	goals      GoalTracker
	attendance Attendance
	now        func() time.Time
}

func NewService(repo Repository, goals GoalTracker, attendance Attendance) Service {
	return &service{
		repo:       repo,
		goals:      goals,
		attendance: attendance,
		now:        time.Now,
	}
}

func (s *service) Add(ctx context.Context, userID int, req CreateRecordRequest) (*AddResult, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return nil, ErrFutureDate
	}
	if today.Sub(date) > maxRecordAge {
		return nil, ErrDateTooOld
	}
	if req.BloodPressureSystolic != nil && req.BloodPressureDiastolic != nil &&
		*req.BloodPressureSystolic <= *req.BloodPressureDiastolic {
		return nil, ErrBloodPressure
	}

	if req.SessionID != nil {
		attended, err := s.attendance.HasAttended(ctx, userID, *req.SessionID)
		if err != nil {
			return nil, err
		}
		if !attended {
			return nil, ErrSessionNotAttended
		}
	}

	source := req.Source
	if source == "" {
		source = SourceManual
	}

	created, err := s.repo.Create(ctx, &Record{
		UserID:                 userID,
		SessionID:              req.SessionID,
		Date:                   date,
		ActivityType:           req.ActivityType,
		DurationMinutes:        req.DurationMinutes,
		CaloriesBurned:         req.CaloriesBurned,
		DistanceKm:             req.DistanceKm,
		WeightKg:               req.WeightKg,
		BodyFatPercentage:      req.BodyFatPercentage,
		MuscleMassKg:           req.MuscleMassKg,
		RestingHeartRate:       req.RestingHeartRate,
		BloodPressureSystolic:  req.BloodPressureSystolic,
		BloodPressureDiastolic: req.BloodPressureDiastolic,
		SleepMinutes:           req.SleepMinutes,
		EnergyLevel:            req.EnergyLevel,
		Mood:                   req.Mood,
		Notes:                  req.Notes,
		Source:                 source,
	})
	if err != nil {
		return nil, err
	}

	result := &AddResult{Record: NewRecordView(*created)}

	// Goal tracking failures are logged; the record stays.
	updated, err := s.goals.ApplyActivity(ctx, userID, goal.Activity{
		ActivityType: created.ActivityType,
		Distance:     created.DistanceKm,
		Calories:     created.CaloriesBurned,
		Weight:       created.WeightKg,
	})
	if err != nil {
		logger.Error("failed to apply activity to goals", "user_id", userID, "record_id", created.ID, "error", err)
	} else {
		result.UpdatedGoals = len(updated)
	}

	logger.Info("activity recorded", "user_id", userID, "record_id", created.ID, "activity_type", created.ActivityType)

	return result, nil
}

func (s *service) History(ctx context.Context, userID int, f HistoryFilter) ([]RecordView, error) {
	records, err := s.repo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}

	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, NewRecordView(r))
	}
	return views, nil
}

func (s *service) Summary(ctx context.Context, userID int, f HistoryFilter) (*Summary, error) {
	return s.repo.Summary(ctx, userID, f)
}
