package goal

import (
	"context"
	"database/sql"
	"errors"

	"fitplatform/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrGoalNotFound = errors.New("goal not found")

const goalColumns = `id, user_id, title, description, goal_type, target_value, current_value, unit,
	start_date, target_date, percentage, status, created_at, updated_at, completed_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, g *Goal) (*Goal, error) {
	var created Goal
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO goals (user_id, title, description, goal_type, target_value, current_value, unit,
			start_date, target_date, percentage, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+goalColumns,
		g.UserID, g.Title, g.Description, g.GoalType, g.TargetValue, g.CurrentValue, g.Unit,
		g.StartDate, g.TargetDate, g.Percentage, g.Status)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Goal, error) {
	var g Goal
	err := r.db.GetContext(ctx, &g, `SELECT `+goalColumns+` FROM goals WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int, status string) ([]Goal, error) {
	goals := []Goal{}
	var err error
	if status != "" {
		err = r.db.SelectContext(ctx, &goals,
			`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC`,
			userID, status)
	} else {
		err = r.db.SelectContext(ctx, &goals,
			`SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	}
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *repository) SaveProgress(ctx context.Context, g Goal, earned *Achievement) error {
	return db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE goals
			SET current_value = $1, percentage = $2, status = $3, completed_at = $4, updated_at = NOW()
			WHERE id = $5`,
			g.CurrentValue, g.Percentage, g.Status, g.CompletedAt, g.ID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrGoalNotFound
		}

		if earned == nil {
			return nil
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO achievements (user_id, goal_id, title, description, achievement_type, points)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			earned.UserID, earned.GoalID, earned.Title, earned.Description, earned.AchievementType, earned.Points)
		return err
	})
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrGoalNotFound
	}
	return nil
}

func (r *repository) ListAchievements(ctx context.Context, userID int) ([]Achievement, error) {
	list := []Achievement{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT id, user_id, goal_id, title, description, achievement_type, points, achieved_at
		FROM achievements WHERE user_id = $1 ORDER BY achieved_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return list, nil
}
