package schedule

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scheduleRowColumns = []string{
	"id", "template_session_id", "pattern", "repeat_interval", "weekdays", "start_time_of_day",
	"end_time_of_day", "start_date", "end_date", "max_occurrences", "exceptions", "created_at", "updated_at",
}

func setupScheduleMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	return NewRepository(sqlxDB), mock, func() { sqlxDB.Close() }
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, close := setupScheduleMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM training_schedules WHERE id = $1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(scheduleRowColumns).
			AddRow(3, 1, PatternWeekly, 2, "{1,3,5}", "18:00", "19:00", day(2025, 3, 3), nil, 10, "{2025-05-05}", now, now))

	s, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 5}, []int64(s.Weekdays))
	assert.Equal(t, []string{"2025-05-05"}, []string(s.Exceptions))
	require.NotNil(t, s.MaxOccurrences)
	assert.Equal(t, 10, *s.MaxOccurrences)
	assert.Nil(t, s.EndDate)

	rule, err := s.Rule()
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, rule.Weekdays)

	mock.ExpectQuery(regexp.QuoteMeta("FROM training_schedules WHERE id = $1")).
		WithArgs(9).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestRepository_Create(t *testing.T) {
	repo, mock, close := setupScheduleMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO training_schedules")).
		WithArgs(1, PatternDaily, 1, sqlmock.AnyArg(), "07:00", "08:00", day(2025, 1, 1), nil, nil, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(scheduleRowColumns).
			AddRow(5, 1, PatternDaily, 1, "{}", "07:00", "08:00", day(2025, 1, 1), nil, nil, "{}", now, now))

	s, err := repo.Create(context.Background(), &Schedule{
		TemplateSessionID: 1,
		Pattern:           PatternDaily,
		Interval:          1,
		StartTimeOfDay:    "07:00",
		EndTimeOfDay:      "08:00",
		StartDate:         day(2025, 1, 1),
		Weekdays:          []int64{},
		Exceptions:        []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, s.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock, close := setupScheduleMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM training_schedules WHERE id = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 5), ErrScheduleNotFound)
}
