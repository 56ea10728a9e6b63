package registration

import (
	"time"

	"fitplatform/internal/training"
)

const (
	StatusRegistered = "registered"
	StatusCancelled  = "cancelled"
	StatusAttended   = "attended"
	StatusNoShow     = "no_show"
)

const (
	PaymentNotRequired = "not_required"
	PaymentPending     = "pending"
	PaymentPaid        = "paid"
	PaymentRefunded    = "refunded"
)

type Registration struct {
	ID                 int        `db:"id" json:"id"`
	UserID             int        `db:"user_id" json:"user_id"`
	SessionID          int        `db:"session_id" json:"session_id"`
	Status             string     `db:"status" json:"status"`
	PaymentStatus      string     `db:"payment_status" json:"payment_status"`
	PaymentAmountCents int64      `db:"payment_amount_cents" json:"payment_amount_cents"`
	RegisteredAt       time.Time  `db:"registered_at" json:"registered_at"`
	CancelledAt        *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	AttendedAt         *time.Time `db:"attended_at" json:"attended_at,omitempty"`
	CancellationReason string     `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
}

// Snapshot is the locked state a registration decision is made against.
type Snapshot struct {
	Session    training.Session
	Registered int
	Existing   *Registration
	Bookings   []Booking
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type AttendanceRequest struct {
	Status string `json:"status" binding:"required,oneof=attended no_show"`
}
