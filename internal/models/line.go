package models

// Line modes
const (
	ModeBus   = "bus"
	ModeTram  = "tram"
	ModeMetro = "metro"
)

// ValidMode reports whether mode is one of the accepted line modes
func ValidMode(mode string) bool {
	return mode == ModeBus || mode == ModeTram || mode == ModeMetro
}

// Line is a transit line. It owns an ordered itinerary (stop_times) and a
// weekly schedule (line_schedules); both are cascade-deleted with the line.
type Line struct {
	ID     string `json:"id" db:"line_id"`
	Code   string `json:"code" db:"code"`
	Name   string `json:"name" db:"name"`
	Mode   string `json:"mode" db:"line_mode"`
	Active bool   `json:"active" db:"active"`
}

// LineSchedule is the service window for one (line, day-of-week) pair.
// Start and end times are stored as HH:MM strings.
type LineSchedule struct {
	ID             string `json:"id" db:"schedule_id"`
	LineID         string `json:"line_id" db:"line_id"`
	Dow            int    `json:"dow" db:"dow"`
	StartTime      string `json:"start_time" db:"start_time"`
	EndTime        string `json:"end_time" db:"end_time"`
	HeadwayMinutes int    `json:"headway_minutes" db:"headway_minutes"`
}

// StopTime places one stop on a line's itinerary at a scheduled offset in
// seconds from the start of the line. (line_id, stop_id) is unique.
type StopTime struct {
	ID            string `json:"id" db:"stop_time_id"`
	LineID        string `json:"line_id" db:"line_id"`
	StopID        string `json:"stop_id" db:"stop_id"`
	OffsetSeconds int    `json:"scheduled_seconds_from_start" db:"scheduled_seconds_from_start"`
}

// ItineraryEntry is one stop of a line's itinerary joined with its offset,
// ordered ascending by offset.
type ItineraryEntry struct {
	StopID        string `json:"stop_id" db:"stop_id"`
	StopCode      string `json:"stop_code" db:"stop_code"`
	StopName      string `json:"stop_name" db:"stop_name"`
	OffsetSeconds int    `json:"offset_seconds" db:"scheduled_seconds_from_start"`
}
