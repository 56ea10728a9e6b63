package registration

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitplatform/internal/db"
	"fitplatform/internal/training"
	"fitplatform/internal/wallet"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrRegistrationNotFound = errors.New("registration not found")

const registrationColumns = `id, user_id, session_id, status, payment_status, payment_amount_cents,
	registered_at, cancelled_at, attended_at, cancellation_reason`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Register(ctx context.Context, userID, sessionID int, decide func(Snapshot) error) (*Registration, error) {
	var reg Registration

	err := db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		snap, err := r.snapshot(ctx, tx, userID, sessionID)
		if err != nil {
			return err
		}
		if err := decide(*snap); err != nil {
			return err
		}

		payment := PaymentNotRequired
		if snap.Session.PriceCents > 0 {
			payment = PaymentPending
		}

		if snap.Existing != nil {
			err = tx.GetContext(ctx, &reg, `
				UPDATE registrations
				SET status = 'registered', registered_at = NOW(), cancelled_at = NULL, attended_at = NULL,
				    cancellation_reason = '', payment_status = $2, payment_amount_cents = $3
				WHERE id = $1
				RETURNING `+registrationColumns,
				snap.Existing.ID, payment, snap.Session.PriceCents)
		} else {
			err = tx.GetContext(ctx, &reg, `
				INSERT INTO registrations (user_id, session_id, status, payment_status, payment_amount_cents)
				VALUES ($1, $2, 'registered', $3, $4)
				RETURNING `+registrationColumns,
				userID, sessionID, payment, snap.Session.PriceCents)
		}
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE sessions SET registrations_count = registrations_count + 1, updated_at = NOW() WHERE id = $1`,
			sessionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &reg, nil
}

func (r *repository) snapshot(ctx context.Context, tx *sqlx.Tx, userID, sessionID int) (*Snapshot, error) {
	snap := &Snapshot{}

	err := tx.GetContext(ctx, &snap.Session,
		`SELECT `+training.SessionColumns+` FROM sessions WHERE id = $1 FOR UPDATE`, sessionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, training.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := tx.GetContext(ctx, &snap.Registered,
		`SELECT COUNT(*) FROM registrations WHERE session_id = $1 AND status = 'registered'`, sessionID); err != nil {
		return nil, err
	}

	var existing Registration
	err = tx.GetContext(ctx, &existing,
		`SELECT `+registrationColumns+` FROM registrations WHERE user_id = $1 AND session_id = $2`, userID, sessionID)
	switch {
	case err == nil:
		snap.Existing = &existing
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	var ids []int64
	if err := tx.SelectContext(ctx, &ids,
		`SELECT session_id FROM registrations WHERE user_id = $1 AND status = 'registered' AND session_id <> $2`,
		userID, sessionID); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return snap, nil
	}

	var held []training.Session
	if err := tx.SelectContext(ctx, &held, `
		SELECT `+training.SessionColumns+` FROM sessions
		WHERE id = ANY($1) AND start_time + make_interval(mins => duration_minutes) > $2
		ORDER BY start_time`,
		pq.Array(ids), snap.Session.StartTime); err != nil {
		return nil, err
	}
	for _, s := range held {
		snap.Bookings = append(snap.Bookings, Booking{Status: StatusRegistered, Session: s})
	}

	return snap, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Registration, error) {
	var reg Registration
	err := r.db.GetContext(ctx, &reg, `SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func lockRegistration(ctx context.Context, tx *sqlx.Tx, id int) (*Registration, error) {
	var reg Registration
	err := tx.GetContext(ctx, &reg,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1 FOR UPDATE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Cancel only succeeds on a registered row and frees the seat it held. A paid
// fee goes back to the wallet in the same transaction.
func (r *repository) Cancel(ctx context.Context, id int, reason string) (*Registration, error) {
	var reg Registration

	err := db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		locked, err := lockRegistration(ctx, tx, id)
		if err != nil {
			return err
		}
		if locked.Status != StatusRegistered {
			return ErrRegistrationNotActive
		}

		payment := locked.PaymentStatus
		if payment == PaymentPaid && locked.PaymentAmountCents > 0 {
			if _, err := wallet.Apply(ctx, tx, locked.UserID, locked.PaymentAmountCents, wallet.TxSessionRefund); err != nil {
				return err
			}
			payment = PaymentRefunded
		}

		if err := tx.GetContext(ctx, &reg, `
			UPDATE registrations
			SET status = 'cancelled', cancelled_at = NOW(), cancellation_reason = $2, payment_status = $3
			WHERE id = $1
			RETURNING `+registrationColumns,
			id, reason, payment); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE sessions SET registrations_count = GREATEST(registrations_count - 1, 0), updated_at = NOW() WHERE id = $1`,
			reg.SessionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &reg, nil
}

func (r *repository) SetAttendance(ctx context.Context, id int, status string, attendedAt *time.Time) (*Registration, error) {
	var reg Registration
	err := r.db.GetContext(ctx, &reg, `
		UPDATE registrations SET status = $2, attended_at = $3
		WHERE id = $1 AND status = 'registered'
		RETURNING `+registrationColumns,
		id, status, attendedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotActive
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Pay debits the fee of a registered, pending row and marks it paid in one
// transaction. Anything else is ErrNothingToPay.
func (r *repository) Pay(ctx context.Context, id int) (*Registration, error) {
	var reg Registration

	err := db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		locked, err := lockRegistration(ctx, tx, id)
		if err != nil {
			return err
		}
		if locked.Status != StatusRegistered || locked.PaymentStatus != PaymentPending || locked.PaymentAmountCents <= 0 {
			return ErrNothingToPay
		}

		if _, err := wallet.Apply(ctx, tx, locked.UserID, -locked.PaymentAmountCents, wallet.TxSessionPayment); err != nil {
			return err
		}

		return tx.GetContext(ctx, &reg,
			`UPDATE registrations SET payment_status = 'paid' WHERE id = $1 RETURNING `+registrationColumns, id)
	})
	if err != nil {
		return nil, err
	}

	return &reg, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int, status string, limit, offset int) ([]Registration, error) {
	list := []Registration{}
	var err error
	if status != "" {
		err = r.db.SelectContext(ctx, &list, `
			SELECT `+registrationColumns+` FROM registrations
			WHERE user_id = $1 AND status = $2
			ORDER BY registered_at DESC LIMIT $3 OFFSET $4`, userID, status, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &list, `
			SELECT `+registrationColumns+` FROM registrations
			WHERE user_id = $1
			ORDER BY registered_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID int) ([]Registration, error) {
	list := []Registration{}
	err := r.db.SelectContext(ctx, &list,
		`SELECT `+registrationColumns+` FROM registrations WHERE session_id = $1 ORDER BY registered_at`, sessionID)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) HasAttended(ctx context.Context, userID, sessionID int) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM registrations WHERE user_id = $1 AND session_id = $2 AND status = 'attended')`,
		userID, sessionID)
}
