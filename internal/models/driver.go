package models

import "time"

// Driver is an operator of vehicles. Deleting a driver cascades to their
// assignments.
type Driver struct {
	ID        string    `json:"id" db:"driver_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	LicenseNo string    `json:"license_no" db:"license_no"`
	HireDate  time.Time `json:"hire_date" db:"hire_date"`
}

// Vehicle is a bus, tram or metro unit. Plate is unique; capacity, when
// present, must be positive.
type Vehicle struct {
	ID       string     `json:"id" db:"vehicle_id"`
	Plate    string     `json:"plate" db:"plate"`
	Model    NullString `json:"model,omitempty" db:"model"`
	Capacity NullInt64  `json:"capacity,omitempty" db:"capacity"`
	Active   bool       `json:"active" db:"active"`
}
