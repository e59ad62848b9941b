package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
)

// FleetHandler handles HTTP requests for drivers and vehicles
type FleetHandler struct {
	drivers  *database.DriverRepository
	vehicles *database.VehicleRepository
	logger   *logrus.Logger
}

// NewFleetHandler creates a new fleet handler
func NewFleetHandler(drivers *database.DriverRepository, vehicles *database.VehicleRepository, logger *logrus.Logger) *FleetHandler {
	return &FleetHandler{drivers: drivers, vehicles: vehicles, logger: logger}
}

// CreateDriverRequest is the payload for POST /api/v1/drivers
type CreateDriverRequest struct {
	FullName  string `json:"full_name" binding:"required"`
	LicenseNo string `json:"license_no" binding:"required"`
	HireDate  string `json:"hire_date" binding:"required"` // YYYY-MM-DD
}

// CreateDriver handles POST /api/v1/drivers
func (h *FleetHandler) CreateDriver(c *gin.Context) {
	var req CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		badRequest(c, "hire_date must be YYYY-MM-DD")
		return
	}

	driver, err := h.drivers.CreateDriver(req.FullName, req.LicenseNo, hireDate)
	if err != nil {
		h.logger.WithError(err).WithField("license_no", req.LicenseNo).Warn("Failed to create driver")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "driver": driver})
}

// GetDriver handles GET /api/v1/drivers/:id
func (h *FleetHandler) GetDriver(c *gin.Context) {
	driver, err := h.drivers.GetDriverByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "driver": driver})
}

// ListDrivers handles GET /api/v1/drivers
func (h *FleetHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.drivers.ListDrivers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "drivers": drivers})
}

// DeleteDriver handles DELETE /api/v1/drivers/:id
func (h *FleetHandler) DeleteDriver(c *gin.Context) {
	if err := h.drivers.DeleteDriver(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// CreateVehicleRequest is the payload for POST /api/v1/vehicles
type CreateVehicleRequest struct {
	Plate    string `json:"plate" binding:"required"`
	Model    string `json:"model"`
	Capacity int    `json:"capacity"`
}

// CreateVehicle handles POST /api/v1/vehicles
func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	vehicle, err := h.vehicles.CreateVehicle(req.Plate, req.Model, req.Capacity)
	if err != nil {
		h.logger.WithError(err).WithField("plate", req.Plate).Warn("Failed to create vehicle")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "vehicle": vehicle})
}

// GetVehicle handles GET /api/v1/vehicles/:id
func (h *FleetHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicles.GetVehicleByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "vehicle": vehicle})
}

// ListVehicles handles GET /api/v1/vehicles
func (h *FleetHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicles.ListActiveVehicles()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "vehicles": vehicles})
}

// SetVehicleActiveRequest is the payload for PATCH /api/v1/vehicles/:id/active
type SetVehicleActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetVehicleActive handles PATCH /api/v1/vehicles/:id/active
func (h *FleetHandler) SetVehicleActive(c *gin.Context) {
	var req SetVehicleActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	if err := h.vehicles.SetActive(c.Param("id"), *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
