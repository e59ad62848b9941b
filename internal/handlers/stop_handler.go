package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
)

// StopHandler handles HTTP requests for stops
type StopHandler struct {
	stops  *database.StopRepository
	logger *logrus.Logger
}

// NewStopHandler creates a new stop handler
func NewStopHandler(stops *database.StopRepository, logger *logrus.Logger) *StopHandler {
	return &StopHandler{stops: stops, logger: logger}
}

// CreateStopRequest is the payload for POST /api/v1/stops. Lat and Lon are
// optional but must come together.
type CreateStopRequest struct {
	Code string   `json:"code" binding:"required"`
	Name string   `json:"name" binding:"required"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
}

// CreateStop handles POST /api/v1/stops
func (h *StopHandler) CreateStop(c *gin.Context) {
	var req CreateStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}
	if (req.Lat == nil) != (req.Lon == nil) {
		badRequest(c, "lat and lon must be provided together")
		return
	}

	var lat, lon float64
	hasCoords := req.Lat != nil
	if hasCoords {
		lat, lon = *req.Lat, *req.Lon
	}

	stop, err := h.stops.CreateStop(req.Code, req.Name, lat, lon, hasCoords)
	if err != nil {
		h.logger.WithError(err).WithField("code", req.Code).Warn("Failed to create stop")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "stop": stop})
}

// GetStop handles GET /api/v1/stops/:code
func (h *StopHandler) GetStop(c *gin.Context) {
	stop, err := h.stops.GetStopByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "stop": stop})
}

// ListStops handles GET /api/v1/stops
func (h *StopHandler) ListStops(c *gin.Context) {
	stops, err := h.stops.ListStops()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "stops": stops})
}
