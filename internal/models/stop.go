package models

// Stop is a physical boarding point. Coordinates may be absent.
type Stop struct {
	ID   string      `json:"id" db:"stop_id"`
	Code string      `json:"code" db:"code"`
	Name string      `json:"name" db:"name"`
	Lat  NullFloat64 `json:"lat,omitempty" db:"lat"`
	Lon  NullFloat64 `json:"lon,omitempty" db:"lon"`
}
