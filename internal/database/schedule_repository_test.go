package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/transit-data-service/internal/models"
)

var scheduleCols = []string{"schedule_id", "line_id", "dow", "start_time", "end_time", "headway_minutes"}

func TestCreateSchedule(t *testing.T) {
	lineID := uuid.New().String()

	t.Run("Success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewScheduleRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM line_schedules`).
			WithArgs(lineID, 1).
			WillReturnRows(sqlmock.NewRows(scheduleCols))
		mock.ExpectExec(`INSERT INTO line_schedules`).
			WithArgs(sqlmock.AnyArg(), lineID, 1, "06:00", "23:00", 10).
			WillReturnResult(sqlmock.NewResult(0, 1))

		schedule, err := repo.CreateSchedule(lineID, 1, "06:00", "23:00", 10, false)
		require.NoError(t, err)
		assert.Equal(t, 10, schedule.HeadwayMinutes)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate Day Without Replace", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewScheduleRepository(db)

		mock.ExpectQuery(`SELECT (.+) FROM line_schedules`).
			WithArgs(lineID, 1).
			WillReturnRows(sqlmock.NewRows(scheduleCols).
				AddRow(uuid.New().String(), lineID, 1, "06:00", "23:00", 10))

		_, err := repo.CreateSchedule(lineID, 1, "07:00", "22:00", 15, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrConflict))
	})

	t.Run("Replace Updates In Place", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewScheduleRepository(db)

		existingID := uuid.New().String()
		mock.ExpectQuery(`SELECT (.+) FROM line_schedules`).
			WithArgs(lineID, 1).
			WillReturnRows(sqlmock.NewRows(scheduleCols).
				AddRow(existingID, lineID, 1, "06:00", "23:00", 10))
		mock.ExpectExec(`UPDATE line_schedules`).
			WithArgs("07:00", "22:00", 15, existingID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		schedule, err := repo.CreateSchedule(lineID, 1, "07:00", "22:00", 15, true)
		require.NoError(t, err)
		assert.Equal(t, existingID, schedule.ID)
		assert.Equal(t, 15, schedule.HeadwayMinutes)
	})

	t.Run("Dow Out Of Range", func(t *testing.T) {
		db, _ := newTestDB(t)
		repo := NewScheduleRepository(db)

		_, err := repo.CreateSchedule(lineID, 7, "06:00", "23:00", 10, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run("Non Positive Headway", func(t *testing.T) {
		db, _ := newTestDB(t)
		repo := NewScheduleRepository(db)

		_, err := repo.CreateSchedule(lineID, 1, "06:00", "23:00", 0, false)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrValidation))
	})
}

func TestGetScheduleForDay(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewScheduleRepository(db)

	lineID := uuid.New().String()
	mock.ExpectQuery(`SELECT (.+) FROM line_schedules`).
		WithArgs(lineID, 3).
		WillReturnRows(sqlmock.NewRows(scheduleCols))

	schedule, err := repo.GetScheduleForDay(lineID, 3)
	require.Error(t, err)
	assert.Nil(t, schedule)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
