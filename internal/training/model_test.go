package training

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestSession_EndTime(t *testing.T) {
	s := Session{StartTime: at(10, 0), DurationMinutes: 90}
	assert.Equal(t, at(11, 30), s.EndTime())
}

func TestSession_Overlaps(t *testing.T) {
	base := Session{StartTime: at(10, 0), DurationMinutes: 60}

	tests := []struct {
		name  string
		other Session
		want  bool
	}{
		{"partial overlap", Session{StartTime: at(10, 30), DurationMinutes: 60}, true},
		{"contained", Session{StartTime: at(10, 15), DurationMinutes: 15}, true},
		{"back to back after", Session{StartTime: at(11, 0), DurationMinutes: 60}, false},
		{"back to back before", Session{StartTime: at(9, 0), DurationMinutes: 60}, false},
		{"disjoint", Session{StartTime: at(14, 0), DurationMinutes: 60}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base))
		})
	}
}

func TestSessionView_Availability(t *testing.T) {
	view := NewSessionView(Session{MaxParticipants: 10, RegistrationsCount: 4, StartTime: at(9, 0), DurationMinutes: 45})
	assert.Equal(t, 6, view.AvailableSpots)
	assert.False(t, view.IsFull)
	assert.Equal(t, at(9, 45), view.EndTime)

	full := NewSessionView(Session{MaxParticipants: 3, RegistrationsCount: 5})
	assert.Equal(t, 0, full.AvailableSpots)
	assert.True(t, full.IsFull)
}

func TestSession_IsBookable(t *testing.T) {
	for status, want := range map[string]bool{
		StatusDraft:     false,
		StatusPending:   false,
		StatusApproved:  true,
		StatusActive:    true,
		StatusCompleted: false,
		StatusCancelled: false,
	} {
		assert.Equal(t, want, Session{Status: status}.IsBookable(), status)
	}
}

func TestRatingSummary_Add(t *testing.T) {
	var r RatingSummary

	r = r.Add(5)
	assert.Equal(t, RatingSummary{Average: 5, Count: 1}, r)

	r = r.Add(4)
	assert.Equal(t, RatingSummary{Average: 4.5, Count: 2}, r)

	r = r.Add(4)
	assert.Equal(t, 3, r.Count)
	assert.InDelta(t, 4.33, r.Average, 1e-9)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusDraft, StatusPending, true},
		{StatusPending, StatusApproved, true},
		{StatusApproved, StatusActive, true},
		{StatusActive, StatusCompleted, true},
		{StatusApproved, StatusCompleted, true},
		{StatusDraft, StatusCancelled, true},
		{StatusActive, StatusCancelled, true},
		{StatusApproved, StatusPending, false},
		{StatusActive, StatusDraft, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusDraft, false},
		{StatusDraft, StatusDraft, false},
		{StatusDraft, "archived", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
