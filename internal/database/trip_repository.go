package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// TripRepository handles trips and trip_stops database operations
type TripRepository struct {
	db DB
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db DB) *TripRepository {
	return &TripRepository{db: db}
}

// NewTripInput carries the optional references of a planned journey. Empty
// strings persist as NULL.
type NewTripInput struct {
	UserID       string
	LineID       string
	OriginStopID string
	DestStopID   string
	PlannedStart time.Time
	PlannedEnd   *time.Time
	// TrackedStopID, when set, creates the trip's single trip_stops row
	TrackedStopID string
}

func nullable(s string) models.NullString {
	var ns models.NullString
	if s != "" {
		ns.Valid = true
		ns.String = s
	}
	return ns
}

// CreateTrip stores a trip and, when a tracked stop is given, its single
// trip_stops row, in one transaction.
func (r *TripRepository) CreateTrip(in NewTripInput) (*models.Trip, error) {
	trip := &models.Trip{
		ID:           uuid.New().String(),
		UserID:       nullable(in.UserID),
		LineID:       nullable(in.LineID),
		OriginStopID: nullable(in.OriginStopID),
		DestStopID:   nullable(in.DestStopID),
		PlannedStart: in.PlannedStart,
		CreatedAt:    time.Now(),
	}
	if in.PlannedEnd != nil {
		trip.PlannedEnd.Valid = true
		trip.PlannedEnd.Time = *in.PlannedEnd
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertTrip := `
		INSERT INTO trips (
			trip_id, user_id, line_id, origin_stop_id, dest_stop_id,
			planned_start, planned_end, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.Exec(insertTrip,
		trip.ID, trip.UserID, trip.LineID, trip.OriginStopID, trip.DestStopID,
		trip.PlannedStart, trip.PlannedEnd, trip.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", domainErr(err))
	}

	if in.TrackedStopID != "" {
		insertStop := `
			INSERT INTO trip_stops (trip_id, stop_id)
			VALUES ($1, $2)
		`
		if _, err := tx.Exec(insertStop, trip.ID, in.TrackedStopID); err != nil {
			return nil, fmt.Errorf("failed to create trip stop: %w", domainErr(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trip: %w", err)
	}

	return trip, nil
}

// GetTripByID retrieves a trip by ID
func (r *TripRepository) GetTripByID(id string) (*models.Trip, error) {
	var trip models.Trip

	query := `
		SELECT trip_id, user_id, line_id, origin_stop_id, dest_stop_id,
		       planned_start, planned_end, created_at
		FROM trips
		WHERE trip_id = $1
	`

	if err := r.db.Get(&trip, query, id); err != nil {
		return nil, fmt.Errorf("failed to get trip %s: %w", id, domainErr(err))
	}

	return &trip, nil
}

// GetTripStop returns the trip's single tracked stop, or NotFound
func (r *TripRepository) GetTripStop(tripID string) (*models.TripStop, error) {
	var ts models.TripStop

	query := `
		SELECT trip_id, stop_id, eta, ata
		FROM trip_stops
		WHERE trip_id = $1
	`

	if err := r.db.Get(&ts, query, tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trip %s has no tracked stop: %w", tripID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trip stop: %w", err)
	}

	return &ts, nil
}

// SetTripStopETA stores the projected arrival for the trip's tracked stop
func (r *TripRepository) SetTripStopETA(tripID string, eta time.Time) error {
	result, err := r.db.Exec(`UPDATE trip_stops SET eta = $1 WHERE trip_id = $2`, eta, tripID)
	if err != nil {
		return fmt.Errorf("failed to set trip eta: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trip %s has no tracked stop: %w", tripID, models.ErrNotFound)
	}

	return nil
}

// RecordActualArrival stores the actual arrival time for the tracked stop
func (r *TripRepository) RecordActualArrival(tripID string, ata time.Time) error {
	result, err := r.db.Exec(`UPDATE trip_stops SET ata = $1 WHERE trip_id = $2`, ata, tripID)
	if err != nil {
		return fmt.Errorf("failed to record arrival: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trip %s has no tracked stop: %w", tripID, models.ErrNotFound)
	}

	return nil
}

// GetUserHistory returns a user's most recent trips with stop names resolved
func (r *TripRepository) GetUserHistory(userID string, limit int) ([]*models.TripHistoryEntry, error) {
	var history []*models.TripHistoryEntry

	query := `
		SELECT t.trip_id, t.line_id, t.planned_start, t.planned_end,
		       o.name AS origin_name, d.name AS dest_name
		FROM trips t
		LEFT JOIN stops o ON t.origin_stop_id = o.stop_id
		LEFT JOIN stops d ON t.dest_stop_id = d.stop_id
		WHERE t.user_id = $1
		ORDER BY t.planned_start DESC
		LIMIT $2
	`

	if err := r.db.Select(&history, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get trip history for user %s: %w", userID, err)
	}

	return history, nil
}
