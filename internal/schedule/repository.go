package schedule

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrScheduleNotFound = errors.New("schedule not found")

const scheduleColumns = `id, template_session_id, pattern, repeat_interval, weekdays, start_time_of_day,
	end_time_of_day, start_date, end_date, max_occurrences, exceptions, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Schedule) (*Schedule, error) {
	query := `
		INSERT INTO training_schedules (template_session_id, pattern, repeat_interval, weekdays,
			start_time_of_day, end_time_of_day, start_date, end_date, max_occurrences, exceptions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + scheduleColumns

	var created Schedule
	err := r.db.GetContext(ctx, &created, query,
		s.TemplateSessionID, s.Pattern, s.Interval, s.Weekdays,
		s.StartTimeOfDay, s.EndTimeOfDay, s.StartDate, s.EndDate, s.MaxOccurrences, s.Exceptions)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Schedule, error) {
	var s Schedule
	err := r.db.GetContext(ctx, &s, `SELECT `+scheduleColumns+` FROM training_schedules WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListByTrainer(ctx context.Context, trainerID int) ([]Schedule, error) {
	query := `
		SELECT ` + scheduleColumns + ` FROM training_schedules
		WHERE template_session_id IN (SELECT id FROM sessions WHERE trainer_id = $1)
		ORDER BY start_date`

	schedules := []Schedule{}
	if err := r.db.SelectContext(ctx, &schedules, query, trainerID); err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM training_schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
