package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// DriverRepository handles driver database operations
type DriverRepository struct {
	db DB
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(db DB) *DriverRepository {
	return &DriverRepository{db: db}
}

// CreateDriver creates a new driver
func (r *DriverRepository) CreateDriver(fullName, licenseNo string, hireDate time.Time) (*models.Driver, error) {
	driver := &models.Driver{
		ID:        uuid.New().String(),
		FullName:  fullName,
		LicenseNo: licenseNo,
		HireDate:  hireDate,
	}

	query := `
		INSERT INTO drivers (driver_id, full_name, license_no, hire_date)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(query, driver.ID, driver.FullName, driver.LicenseNo, driver.HireDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", domainErr(err))
	}

	return driver, nil
}

// GetDriverByID retrieves a driver by ID
func (r *DriverRepository) GetDriverByID(id string) (*models.Driver, error) {
	var driver models.Driver

	query := `
		SELECT driver_id, full_name, license_no, hire_date
		FROM drivers
		WHERE driver_id = $1
	`

	if err := r.db.Get(&driver, query, id); err != nil {
		return nil, fmt.Errorf("failed to get driver %s: %w", id, domainErr(err))
	}

	return &driver, nil
}

// GetDriverByLicense retrieves a driver by license number
func (r *DriverRepository) GetDriverByLicense(licenseNo string) (*models.Driver, error) {
	var driver models.Driver

	query := `
		SELECT driver_id, full_name, license_no, hire_date
		FROM drivers
		WHERE license_no = $1
	`

	if err := r.db.Get(&driver, query, licenseNo); err != nil {
		return nil, fmt.Errorf("failed to get driver by license: %w", domainErr(err))
	}

	return &driver, nil
}

// ListDrivers retrieves all drivers ordered by ID
func (r *DriverRepository) ListDrivers() ([]*models.Driver, error) {
	var drivers []*models.Driver

	query := `
		SELECT driver_id, full_name, license_no, hire_date
		FROM drivers
		ORDER BY driver_id
	`

	if err := r.db.Select(&drivers, query); err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	return drivers, nil
}

// DeleteDriver removes a driver. Their assignments cascade with the row.
func (r *DriverRepository) DeleteDriver(id string) error {
	result, err := r.db.Exec(`DELETE FROM drivers WHERE driver_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", domainErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("driver %s: %w", id, models.ErrNotFound)
	}

	return nil
}
