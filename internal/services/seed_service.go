package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// SeedLine describes one line fixture together with its itinerary and the
// shape of its weekly service.
type SeedLine struct {
	ShortCode      string
	Name           string
	Mode           string
	Stops          []SeedStop
	HeadwayMinutes int
}

// SeedStop is one itinerary entry of a seed line
type SeedStop struct {
	Slug          string
	Name          string
	Lat, Lon      float64
	OffsetSeconds int
}

// vehicleSpec maps a line mode to the fixed seeded model and capacity
func vehicleSpec(mode string) (string, int) {
	switch mode {
	case models.ModeMetro:
		return "CRRC Tram", 244
	case models.ModeTram:
		return "Siemens Avenio", 210
	default:
		return "Mercedez-Benz Citaro", 44
	}
}

// DefaultSeedLines is the reference fixture set: one metro and one bus line
// around Porto.
func DefaultSeedLines() []SeedLine {
	return []SeedLine{
		{
			ShortCode:      "A",
			Name:           "Linha A",
			Mode:           models.ModeMetro,
			HeadwayMinutes: 6,
			Stops: []SeedStop{
				{Slug: "TRINDADE", Name: "Trindade", Lat: 41.1521, Lon: -8.6090, OffsetSeconds: 0},
				{Slug: "BOLHAO", Name: "Bolhão", Lat: 41.1495, Lon: -8.6054, OffsetSeconds: 300},
				{Slug: "CAMPANHA", Name: "Campanhã", Lat: 41.1486, Lon: -8.5854, OffsetSeconds: 600},
				{Slug: "DRAGAO", Name: "Estádio do Dragão", Lat: 41.1618, Lon: -8.5827, OffsetSeconds: 900},
			},
		},
		{
			ShortCode:      "500",
			Name:           "Linha 500",
			Mode:           models.ModeBus,
			HeadwayMinutes: 12,
			Stops: []SeedStop{
				{Slug: "ALIADOS", Name: "Aliados", Lat: 41.1481, Lon: -8.6110, OffsetSeconds: 0},
				{Slug: "SAO_BENTO", Name: "São Bento", Lat: 41.1456, Lon: -8.6105, OffsetSeconds: 420},
				{Slug: "RIBEIRA", Name: "Ribeira", Lat: 41.1407, Lon: -8.6113, OffsetSeconds: 840},
				{Slug: "FOZ", Name: "Foz", Lat: 41.1504, Lon: -8.6697, OffsetSeconds: 1260},
				{Slug: "MATOSINHOS_PRAIA", Name: "Matosinhos Praia", Lat: 41.1764, Lon: -8.6886, OffsetSeconds: 1680},
			},
		},
	}
}

// SeedReport summarizes one loader run
type SeedReport struct {
	Inserted int
	Skipped  int
}

func (r *SeedReport) add(inserted bool) {
	if inserted {
		r.Inserted++
	} else {
		r.Skipped++
	}
}

// SeedService populates reference data idempotently: every logical row is
// checked by its natural key before insert, so re-running against a
// partially seeded database inserts only what is missing. Missing parents
// are reported by key, never invented.
type SeedService struct {
	lines       *database.LineRepository
	stops       *database.StopRepository
	vehicles    *database.VehicleRepository
	drivers     *database.DriverRepository
	assignments *database.AssignmentRepository
	schedules   *database.ScheduleRepository
	logger      *logrus.Logger
}

// NewSeedService creates a new seed service
func NewSeedService(
	lines *database.LineRepository,
	stops *database.StopRepository,
	vehicles *database.VehicleRepository,
	drivers *database.DriverRepository,
	assignments *database.AssignmentRepository,
	schedules *database.ScheduleRepository,
	logger *logrus.Logger,
) *SeedService {
	return &SeedService{
		lines:       lines,
		stops:       stops,
		vehicles:    vehicles,
		drivers:     drivers,
		assignments: assignments,
		schedules:   schedules,
		logger:      logger,
	}
}

// Run seeds the fixture lines in dependency order: lines, then vehicles and
// drivers, then assignments, then stops, stop_times and schedules.
func (s *SeedService) Run(fixtures []SeedLine) (*SeedReport, error) {
	report := &SeedReport{}

	for _, fixture := range fixtures {
		if err := s.seedLine(fixture, report); err != nil {
			return report, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"inserted": report.Inserted,
		"skipped":  report.Skipped,
	}).Info("Seed run completed")

	return report, nil
}

func (s *SeedService) seedLine(fixture SeedLine, report *SeedReport) error {
	lineCode := LineCode(fixture.Mode, fixture.ShortCode)

	line, created, err := s.ensureLine(lineCode, fixture)
	if err != nil {
		return err
	}
	report.add(created)

	// two vehicles and two drivers per line, then one assignment per pair
	for seq := 1; seq <= 2; seq++ {
		vehicle, created, err := s.ensureVehicle(lineCode, fixture.Mode, seq)
		if err != nil {
			return err
		}
		report.add(created)

		driver, created, err := s.ensureDriver(lineCode, seq)
		if err != nil {
			return err
		}
		report.add(created)

		created, err = s.ensureAssignment(lineCode, seq, driver, vehicle, line)
		if err != nil {
			return err
		}
		report.add(created)
	}

	itinerary, err := s.existingStopIDs(line.ID)
	if err != nil {
		return err
	}

	for seq, st := range fixture.Stops {
		stop, created, err := s.ensureStop(fixture.Mode, st)
		if err != nil {
			return err
		}
		report.add(created)

		if itinerary[stop.ID] {
			report.add(false)
			continue
		}
		if _, err := s.lines.AddStopTime(line.ID, stop.ID, st.OffsetSeconds); err != nil {
			if errors.Is(err, models.ErrReferential) {
				return fmt.Errorf("seed stop_time %s: %w", StopTimeKey(line.ID, seq+1), err)
			}
			return err
		}
		report.add(true)
	}

	for dow := 0; dow <= 6; dow++ {
		created, err := s.ensureSchedule(line, dow, fixture.HeadwayMinutes)
		if err != nil {
			return err
		}
		report.add(created)
	}

	return nil
}

func (s *SeedService) ensureLine(lineCode string, fixture SeedLine) (*models.Line, bool, error) {
	line, err := s.lines.GetLineByCode(lineCode)
	if err == nil {
		return line, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	line, err = s.lines.CreateLine(lineCode, fixture.Name, fixture.Mode)
	if err != nil {
		return nil, false, fmt.Errorf("seed line %s: %w", lineCode, err)
	}
	s.logger.WithField("code", lineCode).Debug("Seeded line")
	return line, true, nil
}

func (s *SeedService) ensureVehicle(lineCode, mode string, seq int) (*models.Vehicle, bool, error) {
	plate := VehicleKey(lineCode, seq)

	vehicle, err := s.vehicles.GetVehicleByPlate(plate)
	if err == nil {
		return vehicle, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	model, capacity := vehicleSpec(mode)
	vehicle, err = s.vehicles.CreateVehicle(plate, model, capacity)
	if err != nil {
		return nil, false, fmt.Errorf("seed vehicle %s: %w", plate, err)
	}
	return vehicle, true, nil
}

func (s *SeedService) ensureDriver(lineCode string, seq int) (*models.Driver, bool, error) {
	license := DriverKey(lineCode, seq)

	driver, err := s.drivers.GetDriverByLicense(license)
	if err == nil {
		return driver, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	name := fmt.Sprintf("Seed Driver %s %02d", lineCode, seq)
	driver, err = s.drivers.CreateDriver(name, license, time.Now())
	if err != nil {
		return nil, false, fmt.Errorf("seed driver %s: %w", license, err)
	}
	return driver, true, nil
}

func (s *SeedService) ensureAssignment(lineCode string, seq int, driver *models.Driver, vehicle *models.Vehicle, line *models.Line) (bool, error) {
	key := AssignmentKey(lineCode, seq)
	if driver == nil || vehicle == nil || line == nil {
		return false, fmt.Errorf("seed assignment %s: missing parent: %w", key, models.ErrReferential)
	}

	open, err := s.assignments.OpenAssignmentForDriver(driver.ID)
	if err != nil {
		return false, err
	}
	if open != nil {
		return false, nil
	}
	open, err = s.assignments.OpenAssignmentForVehicle(vehicle.ID)
	if err != nil {
		return false, err
	}
	if open != nil {
		return false, nil
	}

	if _, err := s.assignments.CreateAssignment(driver.ID, vehicle.ID, line.ID, time.Now()); err != nil {
		return false, fmt.Errorf("seed assignment %s: %w", key, err)
	}
	return true, nil
}

func (s *SeedService) ensureStop(mode string, fixture SeedStop) (*models.Stop, bool, error) {
	code := StopKey(mode, fixture.Slug)

	stop, err := s.stops.GetStopByCode(code)
	if err == nil {
		return stop, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	stop, err = s.stops.CreateStop(code, fixture.Name, fixture.Lat, fixture.Lon, true)
	if err != nil {
		return nil, false, fmt.Errorf("seed stop %s: %w", code, err)
	}
	return stop, true, nil
}

// existingStopIDs returns the stop ids already on the line's itinerary
func (s *SeedService) existingStopIDs(lineID string) (map[string]bool, error) {
	ids := map[string]bool{}

	entries, err := s.lines.GetItinerary(lineID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ids, nil
		}
		return nil, err
	}
	for _, e := range entries {
		ids[e.StopID] = true
	}
	return ids, nil
}

func (s *SeedService) ensureSchedule(line *models.Line, dow, headway int) (bool, error) {
	key := ScheduleKey(line.ID, dow)

	_, err := s.schedules.GetScheduleForDay(line.ID, dow)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}

	start, end := "06:00", "23:00"
	if dow == 0 || dow == 6 {
		start, end = "07:00", "22:00"
		headway *= 2
	}

	if _, err := s.schedules.CreateSchedule(line.ID, dow, start, end, headway, false); err != nil {
		return false, fmt.Errorf("seed schedule %s: %w", key, err)
	}
	return true, nil
}
