package training

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

const (
	TypeGroup      = "group"
	TypeIndividual = "individual"
	TypeOnline     = "online"
)

type Session struct {
	ID                 int            `db:"id" json:"id"`
	PublicID           uuid.UUID      `db:"public_id" json:"public_id"`
	Title              string         `db:"title" json:"title"`
	Description        string         `db:"description" json:"description"`
	TrainerID          int            `db:"trainer_id" json:"trainer_id"`
	ScheduleID         *int           `db:"schedule_id" json:"schedule_id,omitempty"`
	StartTime          time.Time      `db:"start_time" json:"start_time"`
	DurationMinutes    int            `db:"duration_minutes" json:"duration_minutes"`
	TrainingType       string         `db:"training_type" json:"training_type"`
	Difficulty         string         `db:"difficulty" json:"difficulty"`
	MaxParticipants    int            `db:"max_participants" json:"max_participants"`
	MinParticipants    int            `db:"min_participants" json:"min_participants"`
	Status             string         `db:"status" json:"status"`
	ModerationStatus   string         `db:"moderation_status" json:"moderation_status"`
	ModerationNotes    string         `db:"moderation_notes" json:"moderation_notes,omitempty"`
	PriceCents         int64          `db:"price_cents" json:"price_cents"`
	Currency           string         `db:"currency" json:"currency"`
	Tags               pq.StringArray `db:"tags" json:"tags"`
	RequiredEquipment  pq.StringArray `db:"required_equipment" json:"required_equipment"`
	AverageRating      float64        `db:"average_rating" json:"average_rating"`
	TotalRatings       int            `db:"total_ratings" json:"total_ratings"`
	RegistrationsCount int            `db:"registrations_count" json:"registrations_count"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

func (s Session) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Overlaps reports whether the half-open intervals [start, end) of both sessions intersect.
func (s Session) Overlaps(other Session) bool {
	return s.StartTime.Before(other.EndTime()) && s.EndTime().After(other.StartTime)
}

// IsBookable reports whether clients may register for the session.
func (s Session) IsBookable() bool {
	return s.Status == StatusApproved || s.Status == StatusActive
}

func (s Session) AvailableSpots(registered int) int {
	if spots := s.MaxParticipants - registered; spots > 0 {
		return spots
	}
	return 0
}

func (s Session) Rating() RatingSummary {
	return RatingSummary{Average: s.AverageRating, Count: s.TotalRatings}
}

// SessionView is the API representation of a session with derived fields.
type SessionView struct {
	Session
	EndTime        time.Time `json:"end_time"`
	AvailableSpots int       `json:"available_spots"`
	IsFull         bool      `json:"is_full"`
}

func NewSessionView(s Session) SessionView {
	spots := s.AvailableSpots(s.RegistrationsCount)
	return SessionView{
		Session:        s,
		EndTime:        s.EndTime(),
		AvailableSpots: spots,
		IsFull:         spots == 0,
	}
}

func NewSessionViews(sessions []Session) []SessionView {
	views := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, NewSessionView(s))
	}
	return views
}

// RatingSummary is a running average of 1-5 scores.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Add folds a score into the summary, rounding the average to two decimals.
func (r RatingSummary) Add(score float64) RatingSummary {
	total := r.Average*float64(r.Count) + score
	count := r.Count + 1
	return RatingSummary{
		Average: math.Round(total/float64(count)*100) / 100,
		Count:   count,
	}
}

type CreateSessionRequest struct {
	Title             string    `json:"title" binding:"required,min=3,max=200"`
	Description       string    `json:"description" binding:"max=5000"`
	StartTime         time.Time `json:"start_time" binding:"required"`
	DurationMinutes   int       `json:"duration_minutes" binding:"required"`
	TrainingType      string    `json:"training_type" binding:"omitempty,oneof=group individual online"`
	Difficulty        string    `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	MaxParticipants   int       `json:"max_participants" binding:"required"`
	MinParticipants   int       `json:"min_participants" binding:"omitempty,min=1"`
	PriceCents        int64     `json:"price_cents" binding:"min=0"`
	Currency          string    `json:"currency" binding:"omitempty,len=3"`
	Tags              []string  `json:"tags" binding:"omitempty,max=20,dive,min=1,max=50"`
	RequiredEquipment []string  `json:"required_equipment" binding:"omitempty,max=20,dive,min=1,max=100"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=draft pending approved active completed cancelled"`
	Force  bool   `json:"force"`
}

type ModerationRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

type ListFilter struct {
	TrainingType string
	Difficulty   string
	TrainerID    int
	Limit        int
	Offset       int
}
