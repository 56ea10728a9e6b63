package notification

import "time"

const (
	TypeRegistration = "registration"
	TypeCancellation = "cancellation"
	TypeAttendance   = "attendance"
	TypeGoal         = "goal"
	TypeFeedback     = "feedback"
	TypeModeration   = "moderation"
	TypeSystem       = "system"
)

const (
	PriorityLow    = 0
	PriorityNormal = 1
	PriorityHigh   = 2
)

type Notification struct {
	ID        int        `db:"id" json:"id"`
	UserID    int        `db:"user_id" json:"user_id"`
	Title     string     `db:"title" json:"title"`
	Message   string     `db:"message" json:"message"`
	Type      string     `db:"notification_type" json:"type"`
	ActionURL string     `db:"action_url" json:"action_url,omitempty"`
	Priority  int        `db:"priority" json:"priority"`
	IsRead    bool       `db:"is_read" json:"is_read"`
	SendEmail bool       `db:"send_email" json:"send_email"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	ReadAt    *time.Time `db:"read_at" json:"read_at,omitempty"`
}

// Create describes a notification to deliver to one user.
type Create struct {
	UserID    int    `json:"user_id" binding:"required,min=1"`
	Title     string `json:"title" binding:"required,max=200"`
	Message   string `json:"message" binding:"required"`
	Type      string `json:"type" binding:"omitempty,oneof=registration cancellation attendance goal feedback moderation system"`
	ActionURL string `json:"action_url" binding:"omitempty,max=500"`
	Priority  int    `json:"priority" binding:"min=0,max=2"`
	SendEmail bool   `json:"send_email"`
}
