package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// newServiceDB wires a sqlmock connection through sqlx so services can be
// exercised over the real repositories.
func newServiceDB(t *testing.T) (database.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDb.Close() })

	return &database.PostgresDB{DB: sqlx.NewDb(mockDb, "sqlmock")}, mock
}

func testSchedule(start, end string, headway int) *models.LineSchedule {
	return &models.LineSchedule{
		ID:             "sched-1",
		LineID:         "line-1",
		Dow:            1,
		StartTime:      start,
		EndTime:        end,
		HeadwayMinutes: headway,
	}
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestNextDepartureBeforeWindow(t *testing.T) {
	dep, err := nextDeparture(testSchedule("06:00", "23:00", 10), at(5, 30))
	require.NoError(t, err)
	assert.Equal(t, at(6, 0), dep)
}

func TestNextDepartureSnapsToGrid(t *testing.T) {
	sched := testSchedule("06:00", "23:00", 10)

	dep, err := nextDeparture(sched, at(6, 1))
	require.NoError(t, err)
	assert.Equal(t, at(6, 10), dep)

	// exactly on the grid departs immediately
	dep, err = nextDeparture(sched, at(6, 20))
	require.NoError(t, err)
	assert.Equal(t, at(6, 20), dep)
}

func TestNextDepartureAfterWindow(t *testing.T) {
	_, err := nextDeparture(testSchedule("06:00", "23:00", 10), at(23, 5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestNextDepartureMalformedClock(t *testing.T) {
	_, err := nextDeparture(testSchedule("six", "23:00", 10), at(8, 0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestOffsetOf(t *testing.T) {
	entries := []*models.ItineraryEntry{entry("a", 0), entry("b", 420)}

	off, ok := offsetOf(entries, "b")
	assert.True(t, ok)
	assert.Equal(t, 420, off)

	_, ok = offsetOf(entries, "z")
	assert.False(t, ok)
}

func newEtaService(db database.DB) *EtaService {
	return NewEtaService(
		database.NewTripRepository(db),
		database.NewLineRepository(db),
		database.NewScheduleRepository(db),
		quietLogger(),
	)
}

var (
	tripCols      = []string{"trip_id", "user_id", "line_id", "origin_stop_id", "dest_stop_id", "planned_start", "planned_end", "created_at"}
	tripStopCols  = []string{"trip_id", "stop_id", "eta", "ata"}
	itineraryCols = []string{"stop_id", "stop_code", "stop_name", "scheduled_seconds_from_start"}
	scheduleCols  = []string{"schedule_id", "line_id", "dow", "start_time", "end_time", "headway_minutes"}
)

func TestProjectTripETA(t *testing.T) {
	tripID := uuid.New().String()
	lineID := uuid.New().String()
	stopA := uuid.New().String()
	stopB := uuid.New().String()
	// a Monday, dow 1
	plannedStart := at(8, 3)

	t.Run("Success", func(t *testing.T) {
		db, mock := newServiceDB(t)
		svc := newEtaService(db)

		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(tripCols).
				AddRow(tripID, nil, lineID, nil, nil, plannedStart, nil, plannedStart))
		mock.ExpectQuery(`SELECT (.+) FROM trip_stops`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(tripStopCols).
				AddRow(tripID, stopB, nil, nil))
		mock.ExpectQuery(`SELECT (.+) FROM stop_times st`).
			WithArgs(lineID).
			WillReturnRows(sqlmock.NewRows(itineraryCols).
				AddRow(stopA, "B_STOP_ALIADOS", "Aliados", 0).
				AddRow(stopB, "B_STOP_SAO_BENTO", "São Bento", 420))
		mock.ExpectQuery(`SELECT (.+) FROM line_schedules`).
			WithArgs(lineID, 1).
			WillReturnRows(sqlmock.NewRows(scheduleCols).
				AddRow(uuid.New().String(), lineID, 1, "06:00", "23:00", 10))
		mock.ExpectExec(`UPDATE trip_stops SET eta`).
			WithArgs(sqlmock.AnyArg(), tripID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		eta, err := svc.ProjectTripETA(tripID)
		require.NoError(t, err)
		// 08:03 snaps to the 08:10 departure, plus 420s to the tracked stop
		assert.Equal(t, at(8, 17), eta)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Trip Without Line", func(t *testing.T) {
		db, mock := newServiceDB(t)
		svc := newEtaService(db)

		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(tripCols).
				AddRow(tripID, nil, nil, nil, nil, plannedStart, nil, plannedStart))

		_, err := svc.ProjectTripETA(tripID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run("Tracked Stop Not On Itinerary", func(t *testing.T) {
		db, mock := newServiceDB(t)
		svc := newEtaService(db)

		stray := uuid.New().String()
		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(tripCols).
				AddRow(tripID, nil, lineID, nil, nil, plannedStart, nil, plannedStart))
		mock.ExpectQuery(`SELECT (.+) FROM trip_stops`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(tripStopCols).
				AddRow(tripID, stray, nil, nil))
		mock.ExpectQuery(`SELECT (.+) FROM stop_times st`).
			WithArgs(lineID).
			WillReturnRows(sqlmock.NewRows(itineraryCols).
				AddRow(stopA, "B_STOP_ALIADOS", "Aliados", 0).
				AddRow(stopB, "B_STOP_SAO_BENTO", "São Bento", 420))

		_, err := svc.ProjectTripETA(tripID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNotFound))
		assert.Contains(t, err.Error(), stray)
	})

	t.Run("Origin Not On Itinerary", func(t *testing.T) {
		db, mock := newServiceDB(t)
		svc := newEtaService(db)

		strayOrigin := uuid.New().String()
		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(tripCols).
				AddRow(tripID, nil, lineID, strayOrigin, nil, plannedStart, nil, plannedStart))
		mock.ExpectQuery(`SELECT (.+) FROM trip_stops`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(tripStopCols).
				AddRow(tripID, stopB, nil, nil))
		mock.ExpectQuery(`SELECT (.+) FROM stop_times st`).
			WithArgs(lineID).
			WillReturnRows(sqlmock.NewRows(itineraryCols).
				AddRow(stopA, "B_STOP_ALIADOS", "Aliados", 0).
				AddRow(stopB, "B_STOP_SAO_BENTO", "São Bento", 420))

		_, err := svc.ProjectTripETA(tripID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run("Tracked Stop Precedes Origin", func(t *testing.T) {
		db, mock := newServiceDB(t)
		svc := newEtaService(db)

		mock.ExpectQuery(`SELECT (.+) FROM trips`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(tripCols).
				AddRow(tripID, nil, lineID, stopB, nil, plannedStart, nil, plannedStart))
		mock.ExpectQuery(`SELECT (.+) FROM trip_stops`).
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows(tripStopCols).
				AddRow(tripID, stopA, nil, nil))
		mock.ExpectQuery(`SELECT (.+) FROM stop_times st`).
			WithArgs(lineID).
			WillReturnRows(sqlmock.NewRows(itineraryCols).
				AddRow(stopA, "B_STOP_ALIADOS", "Aliados", 0).
				AddRow(stopB, "B_STOP_SAO_BENTO", "São Bento", 420))

		_, err := svc.ProjectTripETA(tripID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrValidation))
	})
}
