package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// ScheduleRepository handles line_schedules database operations. The schema
// does not enforce one schedule per (line, dow); this layer does.
type ScheduleRepository struct {
	db DB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateSchedule inserts a service window for (line, dow). When a schedule
// already exists for that pair it is rejected with Conflict unless replace is
// set, in which case the existing row is updated in place.
func (r *ScheduleRepository) CreateSchedule(lineID string, dow int, startTime, endTime string, headwayMinutes int, replace bool) (*models.LineSchedule, error) {
	if dow < 0 || dow > 6 {
		return nil, fmt.Errorf("dow %d out of range: %w", dow, models.ErrValidation)
	}
	if headwayMinutes <= 0 {
		return nil, fmt.Errorf("headway must be positive: %w", models.ErrValidation)
	}

	existing, err := r.GetScheduleForDay(lineID, dow)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if !replace {
			return nil, fmt.Errorf("schedule for line %s dow %d already exists: %w",
				lineID, dow, models.ErrConflict)
		}
		updateQuery := `
			UPDATE line_schedules
			SET start_time = $1, end_time = $2, headway_minutes = $3
			WHERE schedule_id = $4
		`
		if _, err := r.db.Exec(updateQuery, startTime, endTime, headwayMinutes, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to replace schedule: %w", domainErr(err))
		}
		existing.StartTime = startTime
		existing.EndTime = endTime
		existing.HeadwayMinutes = headwayMinutes
		return existing, nil
	}

	schedule := &models.LineSchedule{
		ID:             uuid.New().String(),
		LineID:         lineID,
		Dow:            dow,
		StartTime:      startTime,
		EndTime:        endTime,
		HeadwayMinutes: headwayMinutes,
	}

	insertQuery := `
		INSERT INTO line_schedules (schedule_id, line_id, dow, start_time, end_time, headway_minutes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.db.Exec(insertQuery, schedule.ID, schedule.LineID, schedule.Dow,
		schedule.StartTime, schedule.EndTime, schedule.HeadwayMinutes); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", domainErr(err))
	}

	return schedule, nil
}

// GetScheduleForDay returns the service window for (line, dow), or NotFound
func (r *ScheduleRepository) GetScheduleForDay(lineID string, dow int) (*models.LineSchedule, error) {
	var schedule models.LineSchedule

	query := `
		SELECT schedule_id, line_id, dow, start_time, end_time, headway_minutes
		FROM line_schedules
		WHERE line_id = $1 AND dow = $2
	`

	err := r.db.Get(&schedule, query, lineID, dow)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no schedule for line %s dow %d: %w", lineID, dow, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	return &schedule, nil
}

// ListSchedulesForLine returns the weekly schedule of a line ordered by dow
func (r *ScheduleRepository) ListSchedulesForLine(lineID string) ([]*models.LineSchedule, error) {
	var schedules []*models.LineSchedule

	query := `
		SELECT schedule_id, line_id, dow, start_time, end_time, headway_minutes
		FROM line_schedules
		WHERE line_id = $1
		ORDER BY dow
	`

	if err := r.db.Select(&schedules, query, lineID); err != nil {
		return nil, fmt.Errorf("failed to list schedules for line %s: %w", lineID, err)
	}

	return schedules, nil
}
