package training

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitplatform/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionColumns lists the sessions table columns in Session field order.
const SessionColumns = `id, public_id, title, description, trainer_id, schedule_id, start_time,
	duration_minutes, training_type, difficulty, max_participants, min_participants, status,
	moderation_status, moderation_notes, price_cents, currency, tags, required_equipment,
	average_rating, total_ratings, registrations_count, created_at, updated_at`

const insertSession = `
	INSERT INTO sessions (public_id, title, description, trainer_id, schedule_id, start_time,
		duration_minutes, training_type, difficulty, max_participants, min_participants, status,
		moderation_status, price_cents, currency, tags, required_equipment)
	VALUES (:public_id, :title, :description, :trainer_id, :schedule_id, :start_time,
		:duration_minutes, :training_type, :difficulty, :max_participants, :min_participants, :status,
		:moderation_status, :price_cents, :currency, :tags, :required_equipment)`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Session) (*Session, error) {
	query, args, err := r.db.BindNamed(insertSession+` RETURNING `+SessionColumns, s)
	if err != nil {
		return nil, err
	}

	var created Session
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Session, error) {
	return r.getOne(ctx, `SELECT `+SessionColumns+` FROM sessions WHERE id = $1`, id)
}

func (r *repository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*Session, error) {
	return r.getOne(ctx, `SELECT `+SessionColumns+` FROM sessions WHERE public_id = $1`, publicID)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*Session, error) {
	var s Session
	err := r.db.GetContext(ctx, &s, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListUpcoming(ctx context.Context, from time.Time, filter ListFilter) ([]Session, error) {
	query := `SELECT ` + SessionColumns + ` FROM sessions
		WHERE status IN ('approved', 'active') AND start_time > $1`
	args := []interface{}{from}

	if filter.TrainingType != "" {
		args = append(args, filter.TrainingType)
		query += fmt.Sprintf(" AND training_type = $%d", len(args))
	}
	if filter.Difficulty != "" {
		args = append(args, filter.Difficulty)
		query += fmt.Sprintf(" AND difficulty = $%d", len(args))
	}
	if filter.TrainerID > 0 {
		args = append(args, filter.TrainerID)
		query += fmt.Sprintf(" AND trainer_id = $%d", len(args))
	}

	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY start_time LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) ListByTrainer(ctx context.Context, trainerID, limit, offset int) ([]Session, error) {
	sessions := []Session{}
	err := r.db.SelectContext(ctx, &sessions,
		`SELECT `+SessionColumns+` FROM sessions WHERE trainer_id = $1 ORDER BY start_time DESC LIMIT $2 OFFSET $3`,
		trainerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) ListForUser(ctx context.Context, userID int, from, to time.Time) ([]Session, error) {
	query := `
		SELECT ` + SessionColumns + ` FROM sessions
		WHERE start_time >= $2 AND start_time < $3
		  AND id IN (SELECT session_id FROM registrations WHERE user_id = $1 AND status IN ('registered', 'attended'))
		ORDER BY start_time`

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, userID, from, to); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) SetModeration(ctx context.Context, id int, status, moderationStatus, notes string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET status = $1, moderation_status = $2, moderation_notes = $3, updated_at = NOW() WHERE id = $4`,
		status, moderationStatus, notes, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *repository) ApplyRating(ctx context.Context, id int, score float64) (*RatingSummary, error) {
	var summary RatingSummary
	err := db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var current RatingSummary
		err := tx.QueryRowxContext(ctx,
			`SELECT average_rating, total_ratings FROM sessions WHERE id = $1 FOR UPDATE`, id,
		).Scan(&current.Average, &current.Count)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}

		summary = current.Add(score)
		_, err = tx.ExecContext(ctx,
			`UPDATE sessions SET average_rating = $1, total_ratings = $2, updated_at = NOW() WHERE id = $3`,
			summary.Average, summary.Count, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// CreateOccurrences inserts a copy of template for every start time. Starts
// already materialized for the schedule are skipped.
func (r *repository) CreateOccurrences(ctx context.Context, template Session, scheduleID int, starts []time.Time) (int, error) {
	created := 0
	err := db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, start := range starts {
			s := template
			s.PublicID = uuid.New()
			s.ScheduleID = &scheduleID
			s.StartTime = start

			query, args, err := tx.BindNamed(insertSession+
				` ON CONFLICT (schedule_id, start_time) WHERE schedule_id IS NOT NULL DO NOTHING`, &s)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			created += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
