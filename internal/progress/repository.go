package progress

import (
	"context"
	"database/sql"
	"errors"

	"fitplatform/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrDuplicateRecord = errors.New("a record for this activity already exists on that date")

const recordColumns = `id, user_id, session_id, date, activity_type, duration_minutes, calories_burned,
	distance_km, weight_kg, body_fat_percentage, muscle_mass_kg, resting_heart_rate,
	blood_pressure_systolic, blood_pressure_diastolic, sleep_minutes, energy_level, mood,
	notes, source, created_at`

// filterClause expects user_id, from, to and activity type as $1..$4.
const filterClause = `user_id = $1
	AND ($2::date IS NULL OR date >= $2::date)
	AND ($3::date IS NULL OR date <= $3::date)
	AND ($4 = '' OR activity_type = $4)`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *Record) (*Record, error) {
	var created Record
	err := r.db.GetContext(ctx, &created, `
		INSERT INTO activity_records (user_id, session_id, date, activity_type, duration_minutes,
			calories_burned, distance_km, weight_kg, body_fat_percentage, muscle_mass_kg,
			resting_heart_rate, blood_pressure_systolic, blood_pressure_diastolic, sleep_minutes,
			energy_level, mood, notes, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+recordColumns,
		rec.UserID, rec.SessionID, rec.Date, rec.ActivityType, rec.DurationMinutes,
		rec.CaloriesBurned, rec.DistanceKm, rec.WeightKg, rec.BodyFatPercentage, rec.MuscleMassKg,
		rec.RestingHeartRate, rec.BloodPressureSystolic, rec.BloodPressureDiastolic, rec.SleepMinutes,
		rec.EnergyLevel, rec.Mood, rec.Notes, rec.Source)
	if db.IsUniqueViolation(err) {
		return nil, ErrDuplicateRecord
	}
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) List(ctx context.Context, userID int, f HistoryFilter) ([]Record, error) {
	records := []Record{}
	err := r.db.SelectContext(ctx, &records, `
		SELECT `+recordColumns+` FROM activity_records
		WHERE `+filterClause+`
		ORDER BY date DESC, id DESC
		LIMIT $5 OFFSET $6`,
		userID, f.From, f.To, f.ActivityType, f.Limit, f.Offset)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Summary(ctx context.Context, userID int, f HistoryFilter) (*Summary, error) {
	var s Summary
	err := r.db.GetContext(ctx, &s, `
		SELECT COUNT(*) AS records,
			COALESCE(SUM(duration_minutes), 0) AS total_duration_minutes,
			COALESCE(SUM(calories_burned), 0) AS total_calories,
			COALESCE(SUM(distance_km), 0) AS total_distance_km
		FROM activity_records
		WHERE `+filterClause,
		userID, f.From, f.To, f.ActivityType)
	if err != nil {
		return nil, err
	}

	var weight float64
	err = r.db.GetContext(ctx, &weight, `
		SELECT weight_kg FROM activity_records
		WHERE `+filterClause+` AND weight_kg IS NOT NULL
		ORDER BY date DESC, id DESC
		LIMIT 1`,
		userID, f.From, f.To, f.ActivityType)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, err
	default:
		s.LatestWeightKg = &weight
	}

	return &s, nil
}
