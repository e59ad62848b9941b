package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// EtaService projects the arrival time at a trip's tracked stop from the
// line's schedule and itinerary.
type EtaService struct {
	trips     *database.TripRepository
	lines     *database.LineRepository
	schedules *database.ScheduleRepository
	logger    *logrus.Logger
}

// NewEtaService creates a new ETA service
func NewEtaService(trips *database.TripRepository, lines *database.LineRepository, schedules *database.ScheduleRepository, logger *logrus.Logger) *EtaService {
	return &EtaService{trips: trips, lines: lines, schedules: schedules, logger: logger}
}

// ProjectTripETA computes and stores the ETA for the trip's tracked stop.
//
// The projection takes the line's service window for the planned start's day
// of week, snaps the planned start forward to the next departure on the
// headway grid, and adds the scheduled travel time between the trip's origin
// (or the line's first stop when no origin is set) and the tracked stop.
func (s *EtaService) ProjectTripETA(tripID string) (time.Time, error) {
	var zero time.Time

	trip, err := s.trips.GetTripByID(tripID)
	if err != nil {
		return zero, err
	}
	if !trip.LineID.Valid {
		return zero, fmt.Errorf("trip %s has no line, cannot project eta: %w", tripID, models.ErrNotFound)
	}

	tracked, err := s.trips.GetTripStop(tripID)
	if err != nil {
		return zero, err
	}

	entries, err := s.lines.GetItinerary(trip.LineID.String)
	if err != nil {
		return zero, err
	}

	originOffset := entries[0].OffsetSeconds
	if trip.OriginStopID.Valid {
		off, ok := offsetOf(entries, trip.OriginStopID.String)
		if !ok {
			return zero, fmt.Errorf("origin stop %s is not on line %s: %w",
				trip.OriginStopID.String, trip.LineID.String, models.ErrNotFound)
		}
		originOffset = off
	}

	targetOffset, ok := offsetOf(entries, tracked.StopID)
	if !ok {
		return zero, fmt.Errorf("tracked stop %s is not on line %s: %w",
			tracked.StopID, trip.LineID.String, models.ErrNotFound)
	}
	if targetOffset < originOffset {
		return zero, fmt.Errorf("tracked stop precedes origin on line %s: %w",
			trip.LineID.String, models.ErrValidation)
	}

	dow := int(trip.PlannedStart.Weekday())
	schedule, err := s.schedules.GetScheduleForDay(trip.LineID.String, dow)
	if err != nil {
		return zero, err
	}

	departure, err := nextDeparture(schedule, trip.PlannedStart)
	if err != nil {
		return zero, err
	}

	eta := departure.Add(time.Duration(targetOffset-originOffset) * time.Second)
	if err := s.trips.SetTripStopETA(tripID, eta); err != nil {
		return zero, err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id":   tripID,
		"line_id":   trip.LineID.String,
		"departure": departure,
		"eta":       eta,
	}).Debug("Projected trip ETA")

	return eta, nil
}

func offsetOf(entries []*models.ItineraryEntry, stopID string) (int, bool) {
	for _, e := range entries {
		if e.StopID == stopID {
			return e.OffsetSeconds, true
		}
	}
	return 0, false
}

// nextDeparture snaps t forward to the next departure on the schedule's
// headway grid. Before the window it is the window start; after the last
// departure of the day there is no service and the projection fails.
func nextDeparture(schedule *models.LineSchedule, t time.Time) (time.Time, error) {
	var zero time.Time

	windowStart, err := atClock(t, schedule.StartTime)
	if err != nil {
		return zero, err
	}
	windowEnd, err := atClock(t, schedule.EndTime)
	if err != nil {
		return zero, err
	}

	if !t.After(windowStart) {
		return windowStart, nil
	}

	headway := time.Duration(schedule.HeadwayMinutes) * time.Minute
	elapsed := t.Sub(windowStart)
	intervals := elapsed / headway
	if elapsed%headway != 0 {
		intervals++
	}
	departure := windowStart.Add(intervals * headway)

	if departure.After(windowEnd) {
		return zero, fmt.Errorf("line %s has no departure after %s on dow %d: %w",
			schedule.LineID, t.Format("15:04"), schedule.Dow, models.ErrNotFound)
	}

	return departure, nil
}

// atClock places an HH:MM clock time on t's calendar day, in t's location
func atClock(day time.Time, clock string) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed schedule time %q: %w", clock, models.ErrValidation)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}
