package models

import "time"

// Trip is a passenger's planned journey. Every reference except the planned
// start is optional; user_id is set to NULL when the user is deleted.
type Trip struct {
	ID           string     `json:"id" db:"trip_id"`
	UserID       NullString `json:"user_id,omitempty" db:"user_id"`
	LineID       NullString `json:"line_id,omitempty" db:"line_id"`
	OriginStopID NullString `json:"origin_stop_id,omitempty" db:"origin_stop_id"`
	DestStopID   NullString `json:"dest_stop_id,omitempty" db:"dest_stop_id"`
	PlannedStart time.Time  `json:"planned_start" db:"planned_start"`
	PlannedEnd   NullTime   `json:"planned_end,omitempty" db:"planned_end"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// TripStop carries the estimated and actual arrival for the single tracked
// stop of a trip. trip_id alone is the primary key, so at most one stop per
// trip is tracked.
type TripStop struct {
	TripID string   `json:"trip_id" db:"trip_id"`
	StopID string   `json:"stop_id" db:"stop_id"`
	ETA    NullTime `json:"eta,omitempty" db:"eta"`
	ATA    NullTime `json:"ata,omitempty" db:"ata"`
}

// TripHistoryEntry is one row of a user's trip history with stop names
// resolved.
type TripHistoryEntry struct {
	TripID       string     `json:"trip_id" db:"trip_id"`
	LineID       NullString `json:"line_id,omitempty" db:"line_id"`
	OriginName   NullString `json:"origin_name,omitempty" db:"origin_name"`
	DestName     NullString `json:"dest_name,omitempty" db:"dest_name"`
	PlannedStart time.Time  `json:"planned_start" db:"planned_start"`
	PlannedEnd   NullTime   `json:"planned_end,omitempty" db:"planned_end"`
}
