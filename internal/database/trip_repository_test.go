package database

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/transit-data-service/internal/models"
)

func TestCreateTrip(t *testing.T) {
	plannedStart := time.Now().Add(time.Hour)

	t.Run("With Tracked Stop", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewTripRepository(db)

		stopID := uuid.New().String()
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO trips`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO trip_stops`).
			WithArgs(sqlmock.AnyArg(), stopID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		trip, err := repo.CreateTrip(NewTripInput{
			UserID:        uuid.New().String(),
			LineID:        uuid.New().String(),
			PlannedStart:  plannedStart,
			TrackedStopID: stopID,
		})
		require.NoError(t, err)
		assert.True(t, trip.UserID.Valid)
		assert.False(t, trip.OriginStopID.Valid)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Anonymous Without Tracking", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewTripRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO trips`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		trip, err := repo.CreateTrip(NewTripInput{PlannedStart: plannedStart})
		require.NoError(t, err)
		assert.False(t, trip.UserID.Valid)
		assert.False(t, trip.LineID.Valid)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Line Rolls Back", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewTripRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO trips`).
			WillReturnError(foreignKeyViolation())
		mock.ExpectRollback()

		_, err := repo.CreateTrip(NewTripInput{
			LineID:       uuid.New().String(),
			PlannedStart: plannedStart,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrReferential))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTripStopUpdates(t *testing.T) {
	tripID := uuid.New().String()
	now := time.Now()

	t.Run("Set ETA", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewTripRepository(db)

		mock.ExpectExec(`UPDATE trip_stops SET eta`).
			WithArgs(now, tripID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetTripStopETA(tripID, now))
	})

	t.Run("Set ETA Without Tracked Stop", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewTripRepository(db)

		mock.ExpectExec(`UPDATE trip_stops SET eta`).
			WithArgs(now, tripID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetTripStopETA(tripID, now)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run("Record Arrival", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewTripRepository(db)

		mock.ExpectExec(`UPDATE trip_stops SET ata`).
			WithArgs(now, tripID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.RecordActualArrival(tripID, now))
	})
}

func TestGetUserHistory(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewTripRepository(db)

	userID := uuid.New().String()
	now := time.Now()
	cols := []string{"trip_id", "line_id", "planned_start", "planned_end", "origin_name", "dest_name"}

	mock.ExpectQuery(`SELECT (.+) FROM trips t`).
		WithArgs(userID, 10).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.New().String(), uuid.New().String(), now, nil, "Aliados", "Foz").
			AddRow(uuid.New().String(), nil, now.Add(-24*time.Hour), nil, nil, nil))

	history, err := repo.GetUserHistory(userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Aliados", history[0].OriginName.String)
	// a deleted stop leaves the name NULL, the row survives
	assert.False(t, history[1].OriginName.Valid)
}
