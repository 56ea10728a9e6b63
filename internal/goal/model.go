package goal

import "time"

const (
	TypeWeightLoss      = "weight_loss"
	TypeMuscleGain      = "muscle_gain"
	TypeEndurance       = "endurance"
	TypeStrength        = "strength"
	TypeFlexibility     = "flexibility"
	TypeRunningDistance = "running_distance"
	TypeCyclingDistance = "cycling_distance"
	TypeCalorieBurn     = "calorie_burn"
	TypeBodyFat         = "body_fat"
	TypeOther           = "other"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

const (
	AchievementGoalCompletion = "goal_completion"
	GoalCompletionPoints      = 100
)

const dateLayout = "2006-01-02"

type Goal struct {
	ID           int        `db:"id" json:"id"`
	UserID       int        `db:"user_id" json:"user_id"`
	Title        string     `db:"title" json:"title"`
	Description  string     `db:"description" json:"description"`
	GoalType     string     `db:"goal_type" json:"goal_type"`
	TargetValue  float64    `db:"target_value" json:"target_value"`
	CurrentValue float64    `db:"current_value" json:"current_value"`
	Unit         string     `db:"unit" json:"unit"`
	StartDate    time.Time  `db:"start_date" json:"start_date"`
	TargetDate   *time.Time `db:"target_date" json:"target_date,omitempty"`
	Percentage   float64    `db:"percentage" json:"percentage"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
	CompletedAt  *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// Activity is the slice of an activity record that can move a goal.
type Activity struct {
	ActivityType string
	Distance     *float64
	Calories     *float64
	Weight       *float64
}

type Achievement struct {
	ID              int       `db:"id" json:"id"`
	UserID          int       `db:"user_id" json:"user_id"`
	GoalID          *int      `db:"goal_id" json:"goal_id,omitempty"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	AchievementType string    `db:"achievement_type" json:"achievement_type"`
	Points          int       `db:"points" json:"points"`
	AchievedAt      time.Time `db:"achieved_at" json:"achieved_at"`
}

type AchievementList struct {
	Items       []Achievement `json:"items"`
	TotalPoints int           `json:"total_points"`
}

// View decorates a goal with values derived at read time.
type View struct {
	Goal
	OnTrack       bool `json:"on_track"`
	DaysRemaining *int `json:"days_remaining,omitempty"`
}

type CreateGoalRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=200"`
	Description string  `json:"description" binding:"max=2000"`
	GoalType    string  `json:"goal_type" binding:"required,oneof=weight_loss muscle_gain endurance strength flexibility running_distance cycling_distance calorie_burn body_fat other"`
	TargetValue float64 `json:"target_value" binding:"required,gt=0,lte=1000000"`
	Unit        string  `json:"unit" binding:"max=20"`
	StartDate   string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	TargetDate  string  `json:"target_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateProgressRequest struct {
	CurrentValue *float64 `json:"current_value" binding:"required"`
}
