package feedback

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Feedback struct {
	ID               int        `db:"id" json:"id"`
	UserID           int        `db:"user_id" json:"user_id,omitempty"`
	SessionID        int        `db:"session_id" json:"session_id"`
	Title            string     `db:"title" json:"title"`
	Comment          string     `db:"comment" json:"comment"`
	Rating           float64    `db:"rating" json:"rating"`
	IsAnonymous      bool       `db:"is_anonymous" json:"is_anonymous"`
	ModerationStatus string     `db:"moderation_status" json:"moderation_status"`
	ModeratedBy      *int       `db:"moderated_by" json:"moderated_by,omitempty"`
	ModerationNotes  string     `db:"moderation_notes" json:"moderation_notes,omitempty"`
	ModeratedAt      *time.Time `db:"moderated_at" json:"moderated_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// IsVisible reports whether other users may see the feedback.
func (f Feedback) IsVisible() bool {
	return f.ModerationStatus == StatusApproved
}

// Public strips moderation details, and the author when anonymous.
func (f Feedback) Public() Feedback {
	if f.IsAnonymous {
		f.UserID = 0
	}
	f.ModeratedBy = nil
	f.ModerationNotes = ""
	return f
}

type CreateRequest struct {
	Title       string  `json:"title" binding:"max=200" example:"Great class"`
	Comment     string  `json:"comment" binding:"required,min=10,max=5000" example:"Tough but well paced session"`
	Rating      float64 `json:"rating" binding:"required,min=1,max=5" example:"5"`
	IsAnonymous bool    `json:"is_anonymous"`
}

type ApproveRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

type RejectRequest struct {
	Notes string `json:"notes" binding:"required,max=1000" example:"Off-topic"`
}
