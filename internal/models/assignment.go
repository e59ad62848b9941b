package models

import "time"

// DriverAssignment links one driver, one vehicle and one line over the time
// window [start_ts, end_ts). An assignment with no end_ts is open; setting
// end_ts closes it permanently. Open -> Closed is the only transition.
type DriverAssignment struct {
	ID        string    `json:"id" db:"assignment_id"`
	DriverID  string    `json:"driver_id" db:"driver_id"`
	VehicleID string    `json:"vehicle_id" db:"vehicle_id"`
	LineID    string    `json:"line_id" db:"line_id"`
	StartTs   time.Time `json:"start_ts" db:"start_ts"`
	EndTs     NullTime  `json:"end_ts,omitempty" db:"end_ts"`
}

// Open reports whether the assignment has not been closed
func (a *DriverAssignment) Open() bool {
	return !a.EndTs.Valid
}
