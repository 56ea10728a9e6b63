package registration

import (
	"context"
	"time"
)

type DayStats struct {
	Day        string `db:"day" json:"day"`
	Registered int    `db:"registered" json:"registered"`
	Cancelled  int    `db:"cancelled" json:"cancelled"`
	Attended   int    `db:"attended" json:"attended"`
	NoShow     int    `db:"no_show" json:"no_show"`
}

type TrainerStats struct {
	TrainerID   int    `db:"trainer_id" json:"trainer_id"`
	TrainerName string `db:"trainer_name" json:"trainer_name"`
	Registered  int    `db:"registered" json:"registered"`
	Cancelled   int    `db:"cancelled" json:"cancelled"`
	Attended    int    `db:"attended" json:"attended"`
}

// Stats covers registrations created in [From, To).
type Stats struct {
	From      time.Time      `json:"from"`
	To        time.Time      `json:"to"`
	ByDay     []DayStats     `json:"by_day"`
	ByTrainer []TrainerStats `json:"by_trainer"`
}

func (r *repository) StatsByDay(ctx context.Context, from, to time.Time) ([]DayStats, error) {
	query := `
SELECT
  TO_CHAR(DATE(registered_at), 'YYYY-MM-DD')   AS day,
  COUNT(*) FILTER (WHERE status = 'registered') AS registered,
  COUNT(*) FILTER (WHERE status = 'cancelled')  AS cancelled,
  COUNT(*) FILTER (WHERE status = 'attended')   AS attended,
  COUNT(*) FILTER (WHERE status = 'no_show')    AS no_show
FROM registrations
WHERE registered_at >= $1 AND registered_at < $2
GROUP BY DATE(registered_at)
ORDER BY day`

	stats := []DayStats{}
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *repository) StatsByTrainer(ctx context.Context, from, to time.Time) ([]TrainerStats, error) {
	query := `
SELECT
  u.id   AS trainer_id,
  u.name AS trainer_name,
  COUNT(r.id) FILTER (WHERE r.status = 'registered') AS registered,
  COUNT(r.id) FILTER (WHERE r.status = 'cancelled')  AS cancelled,
  COUNT(r.id) FILTER (WHERE r.status = 'attended')   AS attended
FROM registrations r
JOIN sessions s ON s.id = r.session_id
JOIN users u ON u.id = s.trainer_id
WHERE r.registered_at >= $1 AND r.registered_at < $2
GROUP BY u.id, u.name
ORDER BY u.id`

	stats := []TrainerStats{}
	if err := r.db.SelectContext(ctx, &stats, query, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}
