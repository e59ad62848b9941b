package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// VehicleRepository handles vehicle database operations
type VehicleRepository struct {
	db DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// CreateVehicle creates a new vehicle. Capacity, when given, must be
// positive; model and capacity may both be absent.
func (r *VehicleRepository) CreateVehicle(plate, model string, capacity int) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		ID:     uuid.New().String(),
		Plate:  plate,
		Active: true,
	}
	if model != "" {
		vehicle.Model.Valid = true
		vehicle.Model.String = model
	}
	if capacity != 0 {
		if capacity < 0 {
			return nil, fmt.Errorf("capacity must be positive: %w", models.ErrValidation)
		}
		vehicle.Capacity.Valid = true
		vehicle.Capacity.Int64 = int64(capacity)
	}

	query := `
		INSERT INTO vehicles (vehicle_id, plate, model, capacity, active)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, vehicle.ID, vehicle.Plate, vehicle.Model, vehicle.Capacity, vehicle.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", domainErr(err))
	}

	return vehicle, nil
}

// GetVehicleByID retrieves a vehicle by ID
func (r *VehicleRepository) GetVehicleByID(id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle

	query := `
		SELECT vehicle_id, plate, model, capacity, active
		FROM vehicles
		WHERE vehicle_id = $1
	`

	if err := r.db.Get(&vehicle, query, id); err != nil {
		return nil, fmt.Errorf("failed to get vehicle %s: %w", id, domainErr(err))
	}

	return &vehicle, nil
}

// GetVehicleByPlate retrieves a vehicle by its unique plate
func (r *VehicleRepository) GetVehicleByPlate(plate string) (*models.Vehicle, error) {
	var vehicle models.Vehicle

	query := `
		SELECT vehicle_id, plate, model, capacity, active
		FROM vehicles
		WHERE plate = $1
	`

	if err := r.db.Get(&vehicle, query, plate); err != nil {
		return nil, fmt.Errorf("failed to get vehicle by plate: %w", domainErr(err))
	}

	return &vehicle, nil
}

// ListActiveVehicles retrieves active vehicles ordered by plate
func (r *VehicleRepository) ListActiveVehicles() ([]*models.Vehicle, error) {
	var vehicles []*models.Vehicle

	query := `
		SELECT vehicle_id, plate, model, capacity, active
		FROM vehicles
		WHERE active = TRUE
		ORDER BY plate
	`

	if err := r.db.Select(&vehicles, query); err != nil {
		return nil, fmt.Errorf("failed to list active vehicles: %w", err)
	}

	return vehicles, nil
}

// SetActive flips the vehicle active flag
func (r *VehicleRepository) SetActive(id string, active bool) error {
	result, err := r.db.Exec(`UPDATE vehicles SET active = $1 WHERE vehicle_id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("failed to update vehicle status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("vehicle %s: %w", id, models.ErrNotFound)
	}

	return nil
}
