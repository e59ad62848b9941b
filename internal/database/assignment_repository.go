package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// AssignmentRepository handles driver_assignments database operations and
// enforces the central invariant: at most one open assignment per driver and
// per vehicle at any time.
type AssignmentRepository struct {
	db DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `assignment_id, driver_id, vehicle_id, line_id, start_ts, end_ts`

// CreateAssignment opens a new assignment for (driver, vehicle, line). The
// open-assignment check and the insert run in one transaction: the existing
// open rows are locked FOR UPDATE before the check so two concurrent creates
// for the same driver or vehicle serialize, and the partial unique indexes
// close the race for engines where the lock alone is not enough. Returns
// Conflict when either party already has an open assignment.
func (r *AssignmentRepository) CreateAssignment(driverID, vehicleID, lineID string, startTs time.Time) (*models.DriverAssignment, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	checkQuery := `
		SELECT ` + assignmentColumns + `
		FROM driver_assignments
		WHERE (driver_id = $1 OR vehicle_id = $2)
		  AND end_ts IS NULL
		FOR UPDATE
	`

	var open []*models.DriverAssignment
	if err := tx.Select(&open, checkQuery, driverID, vehicleID); err != nil {
		return nil, fmt.Errorf("failed to check open assignments: %w", err)
	}
	for _, a := range open {
		if a.DriverID == driverID {
			return nil, fmt.Errorf("driver %s already has open assignment %s: %w",
				driverID, a.ID, models.ErrConflict)
		}
		return nil, fmt.Errorf("vehicle %s already has open assignment %s: %w",
			vehicleID, a.ID, models.ErrConflict)
	}

	assignment := &models.DriverAssignment{
		ID:        uuid.New().String(),
		DriverID:  driverID,
		VehicleID: vehicleID,
		LineID:    lineID,
		StartTs:   startTs,
	}

	insertQuery := `
		INSERT INTO driver_assignments (assignment_id, driver_id, vehicle_id, line_id, start_ts)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := tx.Exec(insertQuery, assignment.ID, assignment.DriverID,
		assignment.VehicleID, assignment.LineID, assignment.StartTs); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", domainErr(err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit assignment: %w", domainErr(err))
	}

	return assignment, nil
}

// CloseAssignment transitions an assignment from Open to Closed. Closed is
// terminal: closing an already-closed assignment, or closing with
// endTs <= start_ts, yields InvalidState.
func (r *AssignmentRepository) CloseAssignment(id string, endTs time.Time) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var assignment models.DriverAssignment
	getQuery := `
		SELECT ` + assignmentColumns + `
		FROM driver_assignments
		WHERE assignment_id = $1
		FOR UPDATE
	`
	if err := tx.Get(&assignment, getQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("assignment %s: %w", id, models.ErrNotFound)
		}
		return fmt.Errorf("failed to get assignment %s: %w", id, err)
	}

	if assignment.EndTs.Valid {
		return fmt.Errorf("assignment %s already closed: %w", id, models.ErrInvalidState)
	}
	if !endTs.After(assignment.StartTs) {
		return fmt.Errorf("end_ts must be after start_ts: %w", models.ErrInvalidState)
	}

	updateQuery := `
		UPDATE driver_assignments
		SET end_ts = $1
		WHERE assignment_id = $2
		  AND end_ts IS NULL
	`
	result, err := tx.Exec(updateQuery, endTs, id)
	if err != nil {
		return fmt.Errorf("failed to close assignment: %w", domainErr(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("assignment %s already closed: %w", id, models.ErrInvalidState)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit close: %w", err)
	}

	return nil
}

// OpenAssignmentForDriver returns the driver's open assignment, or nil when
// there is none
func (r *AssignmentRepository) OpenAssignmentForDriver(driverID string) (*models.DriverAssignment, error) {
	return r.openAssignmentBy("driver_id", driverID)
}

// OpenAssignmentForVehicle returns the vehicle's open assignment, or nil
// when there is none
func (r *AssignmentRepository) OpenAssignmentForVehicle(vehicleID string) (*models.DriverAssignment, error) {
	return r.openAssignmentBy("vehicle_id", vehicleID)
}

func (r *AssignmentRepository) openAssignmentBy(column, id string) (*models.DriverAssignment, error) {
	var assignment models.DriverAssignment

	query := `
		SELECT ` + assignmentColumns + `
		FROM driver_assignments
		WHERE ` + column + ` = $1
		  AND end_ts IS NULL
	`

	err := r.db.Get(&assignment, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open assignment: %w", err)
	}

	return &assignment, nil
}

// GetAssignmentByID retrieves an assignment by ID
func (r *AssignmentRepository) GetAssignmentByID(id string) (*models.DriverAssignment, error) {
	var assignment models.DriverAssignment

	query := `
		SELECT ` + assignmentColumns + `
		FROM driver_assignments
		WHERE assignment_id = $1
	`

	if err := r.db.Get(&assignment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get assignment %s: %w", id, domainErr(err))
	}

	return &assignment, nil
}

// ActiveAssignmentsForLine returns the assignments currently in effect on a
// line: started, and either open or ending in the future.
func (r *AssignmentRepository) ActiveAssignmentsForLine(lineID string, now time.Time) ([]*models.DriverAssignment, error) {
	var assignments []*models.DriverAssignment

	query := `
		SELECT ` + assignmentColumns + `
		FROM driver_assignments
		WHERE line_id = $1
		  AND start_ts <= $2
		  AND (end_ts IS NULL OR end_ts > $2)
	`

	if err := r.db.Select(&assignments, query, lineID, now); err != nil {
		return nil, fmt.Errorf("failed to list active assignments for line %s: %w", lineID, err)
	}

	return assignments, nil
}

// ListOpenAssignments returns every open assignment ordered by start time
func (r *AssignmentRepository) ListOpenAssignments() ([]*models.DriverAssignment, error) {
	var assignments []*models.DriverAssignment

	query := `
		SELECT ` + assignmentColumns + `
		FROM driver_assignments
		WHERE end_ts IS NULL
		ORDER BY start_ts
	`

	if err := r.db.Select(&assignments, query); err != nil {
		return nil, fmt.Errorf("failed to list open assignments: %w", err)
	}

	return assignments, nil
}
