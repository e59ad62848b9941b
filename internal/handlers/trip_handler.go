package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/internal/services"
)

// TripHandler handles HTTP requests for trips and trip tracking
type TripHandler struct {
	trips  *database.TripRepository
	eta    *services.EtaService
	facade *services.FacadeService
	logger *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips *database.TripRepository, eta *services.EtaService, facade *services.FacadeService, logger *logrus.Logger) *TripHandler {
	return &TripHandler{trips: trips, eta: eta, facade: facade, logger: logger}
}

// CreateTripRequest is the payload for POST /api/v1/trips. All references
// except planned_start are optional.
type CreateTripRequest struct {
	UserID        string     `json:"user_id"`
	LineID        string     `json:"line_id"`
	OriginStopID  string     `json:"origin_stop_id"`
	DestStopID    string     `json:"dest_stop_id"`
	PlannedStart  time.Time  `json:"planned_start" binding:"required"`
	PlannedEnd    *time.Time `json:"planned_end"`
	TrackedStopID string     `json:"tracked_stop_id"`
}

// CreateTrip handles POST /api/v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	trip, err := h.trips.CreateTrip(database.NewTripInput{
		UserID:        req.UserID,
		LineID:        req.LineID,
		OriginStopID:  req.OriginStopID,
		DestStopID:    req.DestStopID,
		PlannedStart:  req.PlannedStart,
		PlannedEnd:    req.PlannedEnd,
		TrackedStopID: req.TrackedStopID,
	})
	if err != nil {
		h.logger.WithError(err).Warn("Failed to create trip")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "trip": trip})
}

// GetTrip handles GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.trips.GetTripByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "trip": trip})
}

// ProjectETA handles POST /api/v1/trips/:id/eta
func (h *TripHandler) ProjectETA(c *gin.Context) {
	id := c.Param("id")

	eta, err := h.eta.ProjectTripETA(id)
	if err != nil {
		h.logger.WithError(err).WithField("trip_id", id).Warn("Failed to project ETA")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "eta": eta})
}

// RecordArrivalRequest is the payload for POST /api/v1/trips/:id/arrival.
// Ata defaults to now.
type RecordArrivalRequest struct {
	Ata *time.Time `json:"ata"`
}

// RecordArrival handles POST /api/v1/trips/:id/arrival
func (h *TripHandler) RecordArrival(c *gin.Context) {
	var req RecordArrivalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	ata := time.Now()
	if req.Ata != nil {
		ata = *req.Ata
	}

	if err := h.trips.RecordActualArrival(c.Param("id"), ata); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetProgress handles GET /api/v1/trips/:id/progress
func (h *TripHandler) GetProgress(c *gin.Context) {
	progress, err := h.facade.TripProgressByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "progress": progress})
}

// GetUserHistory handles GET /api/v1/users/:id/trips?limit=N
func (h *TripHandler) GetUserHistory(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 200 {
			badRequest(c, "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}

	history, err := h.trips.GetUserHistory(c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "trips": history})
}
