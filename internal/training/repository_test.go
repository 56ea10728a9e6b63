package training

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionRowColumns = []string{
	"id", "public_id", "title", "description", "trainer_id", "schedule_id", "start_time",
	"duration_minutes", "training_type", "difficulty", "max_participants", "min_participants", "status",
	"moderation_status", "moderation_notes", "price_cents", "currency", "tags", "required_equipment",
	"average_rating", "total_ratings", "registrations_count", "created_at", "updated_at",
}

func sessionRow(id int, start time.Time) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, uuid.New().String(), "Yoga", "", 7, nil, start,
		60, TypeGroup, "beginner", 10, 1, StatusApproved,
		ModerationApproved, "", int64(0), "RUB", "{yoga,stretch}", "{}",
		4.5, 2, 3, now, now,
	}
}

// Named queries need the postgres bindvar style, so the mock is registered
// under that driver name.
func setupSessionMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, close := setupSessionMock(t)
	defer close()

	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).AddRow(sessionRow(1, start)...))

	s, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Yoga", s.Title)
	assert.Equal(t, []string{"yoga", "stretch"}, []string(s.Tags))
	assert.Nil(t, s.ScheduleID)
	assert.Equal(t, start, s.StartTime)

	mock.ExpectQuery(regexp.QuoteMeta("FROM sessions WHERE id = $1")).
		WithArgs(2).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create(t *testing.T) {
	repo, mock, close := setupSessionMock(t)
	defer close()

	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sessions")).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).AddRow(sessionRow(11, start)...))

	created, err := repo.Create(context.Background(), &Session{
		PublicID:        uuid.New(),
		Title:           "Yoga",
		TrainerID:       7,
		StartTime:       start,
		DurationMinutes: 60,
		Tags:            []string{"yoga"},
	})
	require.NoError(t, err)
	assert.Equal(t, 11, created.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListUpcoming_Filters(t *testing.T) {
	repo, mock, close := setupSessionMock(t)
	defer close()

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("AND training_type = $2 AND difficulty = $3 ORDER BY start_time LIMIT $4 OFFSET $5")).
		WithArgs(from, TypeOnline, "advanced", 20, 40).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns))

	sessions, err := repo.ListUpcoming(context.Background(), from, ListFilter{
		TrainingType: TypeOnline,
		Difficulty:   "advanced",
		Limit:        20,
		Offset:       40,
	})
	require.NoError(t, err)
	assert.Empty(t, sessions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock, close := setupSessionMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET status = $1")).
		WithArgs(StatusActive, 404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 404, StatusActive)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRepository_ApplyRating(t *testing.T) {
	repo, mock, close := setupSessionMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT average_rating, total_ratings FROM sessions WHERE id = $1 FOR UPDATE")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"average_rating", "total_ratings"}).AddRow(4.0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE sessions SET average_rating = $1, total_ratings = $2")).
		WithArgs(4.5, 2, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	summary, err := repo.ApplyRating(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, RatingSummary{Average: 4.5, Count: 2}, *summary)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateOccurrences_SkipsExisting(t *testing.T) {
	repo, mock, close := setupSessionMock(t)
	defer close()

	starts := []time.Time{
		time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC),
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (schedule_id, start_time) WHERE schedule_id IS NOT NULL DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (schedule_id, start_time) WHERE schedule_id IS NOT NULL DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	n, err := repo.CreateOccurrences(context.Background(), Session{Title: "Spin", TrainerID: 7}, 4, starts)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
