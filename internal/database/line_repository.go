package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// LineRepository handles line and itinerary database operations
type LineRepository struct {
	db DB
}

// NewLineRepository creates a new line repository
func NewLineRepository(db DB) *LineRepository {
	return &LineRepository{db: db}
}

// CreateLine creates a new line
func (r *LineRepository) CreateLine(code, name, mode string) (*models.Line, error) {
	if !models.ValidMode(mode) {
		return nil, fmt.Errorf("invalid line mode %q: %w", mode, models.ErrValidation)
	}

	line := &models.Line{
		ID:     uuid.New().String(),
		Code:   code,
		Name:   name,
		Mode:   mode,
		Active: true,
	}

	query := `
		INSERT INTO lines (line_id, code, name, line_mode, active)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, line.ID, line.Code, line.Name, line.Mode, line.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %w", domainErr(err))
	}

	return line, nil
}

// GetLineByID retrieves a line by ID
func (r *LineRepository) GetLineByID(id string) (*models.Line, error) {
	var line models.Line

	query := `
		SELECT line_id, code, name, line_mode, active
		FROM lines
		WHERE line_id = $1
	`

	if err := r.db.Get(&line, query, id); err != nil {
		return nil, fmt.Errorf("failed to get line %s: %w", id, domainErr(err))
	}

	return &line, nil
}

// GetLineByCode retrieves a line by its unique code
func (r *LineRepository) GetLineByCode(code string) (*models.Line, error) {
	var line models.Line

	query := `
		SELECT line_id, code, name, line_mode, active
		FROM lines
		WHERE code = $1
	`

	if err := r.db.Get(&line, query, code); err != nil {
		return nil, fmt.Errorf("failed to get line by code: %w", domainErr(err))
	}

	return &line, nil
}

// ListActiveLines retrieves active lines ordered by mode then code
func (r *LineRepository) ListActiveLines() ([]*models.Line, error) {
	var lines []*models.Line

	query := `
		SELECT line_id, code, name, line_mode, active
		FROM lines
		WHERE active = TRUE
		ORDER BY line_mode, code
	`

	if err := r.db.Select(&lines, query); err != nil {
		return nil, fmt.Errorf("failed to list active lines: %w", err)
	}

	return lines, nil
}

// GetItinerary returns the line's stops joined with their offsets, strictly
// ordered by ascending offset. A line with zero stop_times yields NotFound.
func (r *LineRepository) GetItinerary(lineID string) ([]*models.ItineraryEntry, error) {
	var entries []*models.ItineraryEntry

	query := `
		SELECT s.stop_id, s.code AS stop_code, s.name AS stop_name,
		       st.scheduled_seconds_from_start
		FROM stop_times st
		JOIN stops s ON s.stop_id = st.stop_id
		WHERE st.line_id = $1
		ORDER BY st.scheduled_seconds_from_start
	`

	if err := r.db.Select(&entries, query, lineID); err != nil {
		return nil, fmt.Errorf("failed to get itinerary for line %s: %w", lineID, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("line %s has no itinerary: %w", lineID, models.ErrNotFound)
	}

	return entries, nil
}

// AddStopTime places a stop on a line's itinerary. The (line, stop) pair is
// unique; a duplicate yields Conflict, a missing line or stop yields a
// referential error.
func (r *LineRepository) AddStopTime(lineID, stopID string, offsetSeconds int) (*models.StopTime, error) {
	if offsetSeconds < 0 {
		return nil, fmt.Errorf("offset must be non-negative: %w", models.ErrValidation)
	}

	st := &models.StopTime{
		ID:            uuid.New().String(),
		LineID:        lineID,
		StopID:        stopID,
		OffsetSeconds: offsetSeconds,
	}

	query := `
		INSERT INTO stop_times (stop_time_id, line_id, stop_id, scheduled_seconds_from_start)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(query, st.ID, st.LineID, st.StopID, st.OffsetSeconds)
	if err != nil {
		return nil, fmt.Errorf("failed to add stop time: %w", domainErr(err))
	}

	return st, nil
}

// DeleteLine removes a line; its stop_times and schedules cascade
func (r *LineRepository) DeleteLine(id string) error {
	result, err := r.db.Exec(`DELETE FROM lines WHERE line_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete line: %w", domainErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("line %s: %w", id, models.ErrNotFound)
	}

	return nil
}
