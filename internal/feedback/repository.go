package feedback

import (
	"context"
	"database/sql"
	"errors"

	"fitplatform/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrAlreadySubmitted = errors.New("feedback for this session already submitted")
	ErrAlreadyModerated = errors.New("feedback already moderated")
)

const feedbackColumns = `id, user_id, session_id, title, comment, rating, is_anonymous, moderation_status,
	moderated_by, moderation_notes, moderated_at, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Feedback) (*Feedback, error) {
	var created Feedback
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO feedbacks (user_id, session_id, title, comment, rating, is_anonymous, moderation_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+feedbackColumns,
		f.UserID, f.SessionID, f.Title, f.Comment, f.Rating, f.IsAnonymous, StatusPending)
	if db.IsUniqueViolation(err) {
		return nil, ErrAlreadySubmitted
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Feedback, error) {
	var f Feedback
	err := r.db.GetContext(ctx, &f, `SELECT `+feedbackColumns+` FROM feedbacks WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeedbackNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID int, status string, limit, offset int) ([]Feedback, error) {
	items := []Feedback{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+feedbackColumns+` FROM feedbacks
		WHERE session_id = $1 AND moderation_status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`,
		sessionID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]Feedback, error) {
	items := []Feedback{}
	err := r.db.SelectContext(ctx, &items, `
		SELECT `+feedbackColumns+` FROM feedbacks
		WHERE moderation_status = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Moderate moves pending feedback to status. Only one moderation can win.
func (r *repository) Moderate(ctx context.Context, id int, status string, moderatorID int, notes string) (*Feedback, error) {
	var f Feedback
	err := r.db.GetContext(ctx, &f, `
		UPDATE feedbacks
		SET moderation_status = $1, moderated_by = $2, moderation_notes = $3, moderated_at = NOW()
		WHERE id = $4 AND moderation_status = 'pending'
		RETURNING `+feedbackColumns,
		status, moderatorID, notes, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlreadyModerated
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}
