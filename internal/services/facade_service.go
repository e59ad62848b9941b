package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// FacadeService answers the read-side questions that cut across several
// tables: line summaries, staffing reports and trip progress. It composes
// the repositories and never writes.
type FacadeService struct {
	lines       *database.LineRepository
	schedules   *database.ScheduleRepository
	assignments *database.AssignmentRepository
	drivers     *database.DriverRepository
	vehicles    *database.VehicleRepository
	trips       *database.TripRepository
	logger      *logrus.Logger
}

// NewFacadeService creates a new facade service
func NewFacadeService(
	lines *database.LineRepository,
	schedules *database.ScheduleRepository,
	assignments *database.AssignmentRepository,
	drivers *database.DriverRepository,
	vehicles *database.VehicleRepository,
	trips *database.TripRepository,
	logger *logrus.Logger,
) *FacadeService {
	return &FacadeService{
		lines:       lines,
		schedules:   schedules,
		assignments: assignments,
		drivers:     drivers,
		vehicles:    vehicles,
		trips:       trips,
		logger:      logger,
	}
}

// LineSummary is a line with its ordered itinerary, weekly schedule and the
// end-to-end scheduled run time.
type LineSummary struct {
	Line           *models.Line             `json:"line"`
	Itinerary      []*models.ItineraryEntry `json:"itinerary"`
	Schedules      []*models.LineSchedule   `json:"schedules"`
	StopCount      int                      `json:"stop_count"`
	RunTimeSeconds int                      `json:"run_time_seconds"`
}

// LineSummaryByCode resolves a line by code and assembles its summary
func (s *FacadeService) LineSummaryByCode(code string) (*LineSummary, error) {
	line, err := s.lines.GetLineByCode(code)
	if err != nil {
		return nil, err
	}

	itinerary, err := s.lines.GetItinerary(line.ID)
	if err != nil {
		return nil, err
	}

	schedules, err := s.schedules.ListSchedulesForLine(line.ID)
	if err != nil {
		return nil, err
	}

	summary := &LineSummary{
		Line:      line,
		Itinerary: itinerary,
		Schedules: schedules,
		StopCount: len(itinerary),
	}
	if len(itinerary) > 0 {
		summary.RunTimeSeconds = itinerary[len(itinerary)-1].OffsetSeconds - itinerary[0].OffsetSeconds
	}

	return summary, nil
}

// StaffedAssignment is an assignment joined with its driver and vehicle
type StaffedAssignment struct {
	Assignment *models.DriverAssignment `json:"assignment"`
	Driver     *models.Driver           `json:"driver"`
	Vehicle    *models.Vehicle          `json:"vehicle"`
}

// LineStaffingReport lists who is serving a line at an instant
type LineStaffingReport struct {
	Line        *models.Line        `json:"line"`
	AsOf        time.Time           `json:"as_of"`
	Assignments []StaffedAssignment `json:"assignments"`
}

// StaffingForLine reports the assignments in effect on a line at the given
// instant, with drivers and vehicles resolved.
func (s *FacadeService) StaffingForLine(lineID string, at time.Time) (*LineStaffingReport, error) {
	line, err := s.lines.GetLineByID(lineID)
	if err != nil {
		return nil, err
	}

	active, err := s.assignments.ActiveAssignmentsForLine(lineID, at)
	if err != nil {
		return nil, err
	}

	report := &LineStaffingReport{
		Line:        line,
		AsOf:        at,
		Assignments: make([]StaffedAssignment, 0, len(active)),
	}

	for _, a := range active {
		driver, err := s.drivers.GetDriverByID(a.DriverID)
		if err != nil {
			return nil, err
		}
		vehicle, err := s.vehicles.GetVehicleByID(a.VehicleID)
		if err != nil {
			return nil, err
		}
		report.Assignments = append(report.Assignments, StaffedAssignment{
			Assignment: a,
			Driver:     driver,
			Vehicle:    vehicle,
		})
	}

	return report, nil
}

// StaffingForLineCode resolves a line by code and reports its staffing
func (s *FacadeService) StaffingForLineCode(code string, at time.Time) (*LineStaffingReport, error) {
	line, err := s.lines.GetLineByCode(code)
	if err != nil {
		return nil, err
	}
	return s.StaffingForLine(line.ID, at)
}

// Trip progress states
const (
	TripStatusPlanned = "planned"
	TripStatusTracked = "tracked"
	TripStatusArrived = "arrived"
)

// TripProgress is a trip with its tracked stop's estimate and outcome
type TripProgress struct {
	Trip         *models.Trip     `json:"trip"`
	TrackedStop  *models.TripStop `json:"tracked_stop,omitempty"`
	Status       string           `json:"status"`
	DelaySeconds *int64           `json:"delay_seconds,omitempty"`
}

// TripProgressByID reports how a trip stands: planned when nothing is
// tracked, tracked once an ETA exists, arrived once the actual arrival is
// recorded. Delay is actual minus estimated, present only when both exist.
func (s *FacadeService) TripProgressByID(tripID string) (*TripProgress, error) {
	trip, err := s.trips.GetTripByID(tripID)
	if err != nil {
		return nil, err
	}

	progress := &TripProgress{Trip: trip, Status: TripStatusPlanned}

	tracked, err := s.trips.GetTripStop(tripID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return progress, nil
		}
		return nil, err
	}
	progress.TrackedStop = tracked

	if tracked.ETA.Valid {
		progress.Status = TripStatusTracked
	}
	if tracked.ATA.Valid {
		progress.Status = TripStatusArrived
		if tracked.ETA.Valid {
			delay := int64(tracked.ATA.Time.Sub(tracked.ETA.Time) / time.Second)
			progress.DelaySeconds = &delay
		}
	}

	return progress, nil
}
