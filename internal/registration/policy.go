package registration

import (
	"errors"
	"fmt"
	"time"

	"fitplatform/internal/training"
)

var (
	ErrAlreadyRegistered         = errors.New("already registered for this session")
	ErrOwnSession                = errors.New("trainers cannot book their own sessions")
	ErrSessionNotBookable        = errors.New("session is not open for registration")
	ErrSessionStarted            = errors.New("session has already started")
	ErrSessionFull               = errors.New("session is full")
	ErrConflict                  = errors.New("time conflict with another registration")
	ErrCancellationWindowExpired = errors.New("cancellation window has expired")
	ErrAttendanceWindowExpired   = errors.New("attendance window has expired")
	ErrRegistrationNotActive     = errors.New("registration is not active")
	ErrInvalidTransition         = errors.New("invalid registration status transition")
)

// Policy carries the time windows that gate cancellation and attendance.
type Policy struct {
	CancellationWindow    time.Duration
	AttendanceGracePeriod time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		CancellationWindow:    time.Hour,
		AttendanceGracePeriod: 24 * time.Hour,
	}
}

// CanTransition reports whether a registration may move from one status to another.
func CanTransition(from, to string) bool {
	switch from {
	case StatusRegistered:
		return to == StatusCancelled || to == StatusAttended || to == StatusNoShow
	case StatusCancelled:
		return to == StatusRegistered
	}
	return false
}

// CheckRegister decides whether userID may take a seat given the locked snapshot.
func (p Policy) CheckRegister(userID int, snap Snapshot, now time.Time) error {
	session := snap.Session

	if snap.Existing != nil && snap.Existing.Status == StatusRegistered {
		return ErrAlreadyRegistered
	}
	if session.TrainerID == userID {
		return ErrOwnSession
	}
	if !session.IsBookable() {
		return ErrSessionNotBookable
	}
	if !now.Before(session.StartTime) {
		return ErrSessionStarted
	}
	if snap.Existing != nil && !CanTransition(snap.Existing.Status, StatusRegistered) {
		return ErrInvalidTransition
	}
	if snap.Registered >= session.MaxParticipants {
		return ErrSessionFull
	}
	if other := FindConflict(session, snap.Bookings); other != nil {
		return fmt.Errorf("%w: %s", ErrConflict, other.Title)
	}
	return nil
}

func (p Policy) CheckCancel(reg Registration, session training.Session, now time.Time) error {
	if reg.Status != StatusRegistered {
		return ErrRegistrationNotActive
	}
	if !now.Before(session.StartTime.Add(-p.CancellationWindow)) {
		return ErrCancellationWindowExpired
	}
	return nil
}

func (p Policy) CheckAttendance(reg Registration, session training.Session, status string, now time.Time) error {
	if status != StatusAttended && status != StatusNoShow {
		return ErrInvalidTransition
	}
	if !CanTransition(reg.Status, status) {
		return ErrRegistrationNotActive
	}
	if now.After(session.EndTime().Add(p.AttendanceGracePeriod)) {
		return ErrAttendanceWindowExpired
	}
	return nil
}
