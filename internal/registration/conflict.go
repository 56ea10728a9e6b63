package registration

import "fitplatform/internal/training"

// Booking is a user's registration paired with the session it holds.
type Booking struct {
	Status  string
	Session training.Session
}

// FindConflict returns the first session in existing that overlaps candidate,
// or nil. Only registered bookings count and the candidate itself is skipped.
func FindConflict(candidate training.Session, existing []Booking) *training.Session {
	for _, b := range existing {
		if b.Status != StatusRegistered {
			continue
		}
		if candidate.ID != 0 && b.Session.ID == candidate.ID {
			continue
		}
		if candidate.Overlaps(b.Session) {
			s := b.Session
			return &s
		}
	}
	return nil
}
