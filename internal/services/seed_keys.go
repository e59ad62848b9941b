package services

import "fmt"

// Seed natural keys. The seed loader never relies on opaque primary keys for
// idempotency; every generated row is identified by a deterministic
// human-readable key derived here. The derivation is pure: same inputs,
// same key, no state.

// ModePrefix maps a line mode to its single-letter seed prefix
func ModePrefix(mode string) string {
	switch mode {
	case "metro":
		return "M"
	case "tram":
		return "T"
	default:
		return "B"
	}
}

// LineCode derives the full seeded line code, e.g. LINE_M_A
func LineCode(mode, shortCode string) string {
	return fmt.Sprintf("LINE_%s_%s", ModePrefix(mode), shortCode)
}

// VehicleKey derives the seeded vehicle plate, e.g. VEH_LINE_M_A_01
func VehicleKey(lineCode string, seq int) string {
	return fmt.Sprintf("VEH_%s_%02d", lineCode, seq)
}

// DriverKey derives the seeded driver license number, e.g. DRV_LINE_M_A_01
func DriverKey(lineCode string, seq int) string {
	return fmt.Sprintf("DRV_%s_%02d", lineCode, seq)
}

// AssignmentKey derives the logical key of a seeded assignment. Assignments
// carry no natural column; the key only names the row in reports.
func AssignmentKey(lineCode string, seq int) string {
	return fmt.Sprintf("ASG_%s_%02d", lineCode, seq)
}

// StopKey derives the seeded stop code, e.g. M_STOP_TRINDADE
func StopKey(mode, slug string) string {
	return fmt.Sprintf("%s_STOP_%s", ModePrefix(mode), slug)
}

// StopTimeKey derives the logical key of a seeded stop_time row
func StopTimeKey(lineID string, seq int) string {
	return fmt.Sprintf("ST_%s_%d", lineID, seq)
}

// ScheduleKey derives the logical key of a seeded line_schedule row
func ScheduleKey(lineID string, dow int) string {
	return fmt.Sprintf("LS_%s_%d", lineID, dow)
}
