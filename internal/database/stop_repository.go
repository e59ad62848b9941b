package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// StopRepository handles stop database operations
type StopRepository struct {
	db DB
}

// NewStopRepository creates a new stop repository
func NewStopRepository(db DB) *StopRepository {
	return &StopRepository{db: db}
}

// CreateStop creates a new stop. Pass hasCoords=false for stops without a
// surveyed position.
func (r *StopRepository) CreateStop(code, name string, lat, lon float64, hasCoords bool) (*models.Stop, error) {
	stop := &models.Stop{
		ID:   uuid.New().String(),
		Code: code,
		Name: name,
	}
	if hasCoords {
		stop.Lat.Valid = true
		stop.Lat.Float64 = lat
		stop.Lon.Valid = true
		stop.Lon.Float64 = lon
	}

	query := `
		INSERT INTO stops (stop_id, code, name, lat, lon)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, stop.ID, stop.Code, stop.Name, stop.Lat, stop.Lon)
	if err != nil {
		return nil, fmt.Errorf("failed to create stop: %w", domainErr(err))
	}

	return stop, nil
}

// GetStopByID retrieves a stop by ID
func (r *StopRepository) GetStopByID(id string) (*models.Stop, error) {
	var stop models.Stop

	query := `
		SELECT stop_id, code, name, lat, lon
		FROM stops
		WHERE stop_id = $1
	`

	if err := r.db.Get(&stop, query, id); err != nil {
		return nil, fmt.Errorf("failed to get stop %s: %w", id, domainErr(err))
	}

	return &stop, nil
}

// GetStopByCode retrieves a stop by its unique code
func (r *StopRepository) GetStopByCode(code string) (*models.Stop, error) {
	var stop models.Stop

	query := `
		SELECT stop_id, code, name, lat, lon
		FROM stops
		WHERE code = $1
	`

	if err := r.db.Get(&stop, query, code); err != nil {
		return nil, fmt.Errorf("failed to get stop by code: %w", domainErr(err))
	}

	return &stop, nil
}

// ListStops retrieves all stops ordered by name
func (r *StopRepository) ListStops() ([]*models.Stop, error) {
	var stops []*models.Stop

	query := `
		SELECT stop_id, code, name, lat, lon
		FROM stops
		ORDER BY name
	`

	if err := r.db.Select(&stops, query); err != nil {
		return nil, fmt.Errorf("failed to list stops: %w", err)
	}

	return stops, nil
}
