package progress

import (
	"math"
	"time"
)

const (
	SourceManual   = "manual"
	SourceWearable = "wearable"
	SourceImport   = "import"
)

const dateLayout = "2006-01-02"

// Record is one day's entry for a single activity type.
type Record struct {
	ID                     int       `db:"id" json:"id"`
	UserID                 int       `db:"user_id" json:"user_id"`
	SessionID              *int      `db:"session_id" json:"session_id,omitempty"`
	Date                   time.Time `db:"date" json:"date"`
	ActivityType           string    `db:"activity_type" json:"activity_type"`
	DurationMinutes        int       `db:"duration_minutes" json:"duration_minutes"`
	CaloriesBurned         *float64  `db:"calories_burned" json:"calories_burned,omitempty"`
	DistanceKm             *float64  `db:"distance_km" json:"distance_km,omitempty"`
	WeightKg               *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	BodyFatPercentage      *float64  `db:"body_fat_percentage" json:"body_fat_percentage,omitempty"`
	MuscleMassKg           *float64  `db:"muscle_mass_kg" json:"muscle_mass_kg,omitempty"`
	RestingHeartRate       *int      `db:"resting_heart_rate" json:"resting_heart_rate,omitempty"`
	BloodPressureSystolic  *int      `db:"blood_pressure_systolic" json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int      `db:"blood_pressure_diastolic" json:"blood_pressure_diastolic,omitempty"`
	SleepMinutes           *int      `db:"sleep_minutes" json:"sleep_minutes,omitempty"`
	EnergyLevel            *int      `db:"energy_level" json:"energy_level,omitempty"`
	Mood                   *int      `db:"mood" json:"mood,omitempty"`
	Notes                  string    `db:"notes" json:"notes"`
	Source                 string    `db:"source" json:"source"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
}

// Pace returns minutes per kilometre, or nil without a distance.
func (r Record) Pace() *float64 {
	if r.DistanceKm == nil || *r.DistanceKm <= 0 || r.DurationMinutes <= 0 {
		return nil
	}
	v := round2(float64(r.DurationMinutes) / *r.DistanceKm)
	return &v
}

func (r Record) CaloriesPerMinute() *float64 {
	if r.CaloriesBurned == nil || r.DurationMinutes <= 0 {
		return nil
	}
	v := round2(*r.CaloriesBurned / float64(r.DurationMinutes))
	return &v
}

type RecordView struct {
	Record
	PaceMinPerKm      *float64 `json:"pace_min_per_km,omitempty"`
	CaloriesPerMinute *float64 `json:"calories_per_minute,omitempty"`
}

func NewRecordView(r Record) RecordView {
	return RecordView{
		Record:            r,
		PaceMinPerKm:      r.Pace(),
		CaloriesPerMinute: r.CaloriesPerMinute(),
	}
}

type CreateRecordRequest struct {
	Date                   string   `json:"date" binding:"required,datetime=2006-01-02" example:"2025-03-01"`
	ActivityType           string   `json:"activity_type" binding:"required,max=50" example:"running"`
	SessionID              *int     `json:"session_id" binding:"omitempty,gt=0"`
	DurationMinutes        int      `json:"duration_minutes" binding:"required,min=1,max=1440" example:"45"`
	CaloriesBurned         *float64 `json:"calories_burned" binding:"omitempty,min=0,max=10000"`
	DistanceKm             *float64 `json:"distance_km" binding:"omitempty,min=0,max=1000"`
	WeightKg               *float64 `json:"weight_kg" binding:"omitempty,min=20,max=300"`
	BodyFatPercentage      *float64 `json:"body_fat_percentage" binding:"omitempty,min=3,max=60"`
	MuscleMassKg           *float64 `json:"muscle_mass_kg" binding:"omitempty,min=10,max=200"`
	RestingHeartRate       *int     `json:"resting_heart_rate" binding:"omitempty,min=30,max=200"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic" binding:"omitempty,min=60,max=250"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic" binding:"omitempty,min=40,max=150"`
	SleepMinutes           *int     `json:"sleep_minutes" binding:"omitempty,min=0,max=1440"`
	EnergyLevel            *int     `json:"energy_level" binding:"omitempty,min=1,max=10"`
	Mood                   *int     `json:"mood" binding:"omitempty,min=1,max=10"`
	Notes                  string   `json:"notes" binding:"max=2000"`
	Source                 string   `json:"source" binding:"omitempty,oneof=manual wearable import"`
}

// HistoryFilter bounds a history query; nil dates leave that end open.
type HistoryFilter struct {
	From         *time.Time
	To           *time.Time
	ActivityType string
	Limit        int
	Offset       int
}

type Summary struct {
	Records              int      `db:"records" json:"records"`
	TotalDurationMinutes int      `db:"total_duration_minutes" json:"total_duration_minutes"`
	TotalCalories        float64  `db:"total_calories" json:"total_calories"`
	TotalDistanceKm      float64  `db:"total_distance_km" json:"total_distance_km"`
	LatestWeightKg       *float64 `db:"-" json:"latest_weight_kg,omitempty"`
}

type AddResult struct {
	Record       RecordView `json:"record"`
	UpdatedGoals int        `json:"updated_goals"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
