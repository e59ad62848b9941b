package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/internal/services"
)

// AssignmentHandler handles HTTP requests for driver assignments
type AssignmentHandler struct {
	assignments *database.AssignmentRepository
	facade      *services.FacadeService
	logger      *logrus.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignments *database.AssignmentRepository, facade *services.FacadeService, logger *logrus.Logger) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, facade: facade, logger: logger}
}

// CreateAssignmentRequest is the payload for POST /api/v1/assignments.
// StartTs defaults to now.
type CreateAssignmentRequest struct {
	DriverID  string     `json:"driver_id" binding:"required"`
	VehicleID string     `json:"vehicle_id" binding:"required"`
	LineID    string     `json:"line_id" binding:"required"`
	StartTs   *time.Time `json:"start_ts"`
}

// CreateAssignment handles POST /api/v1/assignments
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	startTs := time.Now()
	if req.StartTs != nil {
		startTs = *req.StartTs
	}

	assignment, err := h.assignments.CreateAssignment(req.DriverID, req.VehicleID, req.LineID, startTs)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"driver_id":  req.DriverID,
			"vehicle_id": req.VehicleID,
		}).Warn("Failed to create assignment")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "assignment": assignment})
}

// CloseAssignmentRequest is the payload for POST /api/v1/assignments/:id/close.
// EndTs defaults to now.
type CloseAssignmentRequest struct {
	EndTs *time.Time `json:"end_ts"`
}

// CloseAssignment handles POST /api/v1/assignments/:id/close
func (h *AssignmentHandler) CloseAssignment(c *gin.Context) {
	var req CloseAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	endTs := time.Now()
	if req.EndTs != nil {
		endTs = *req.EndTs
	}

	id := c.Param("id")
	if err := h.assignments.CloseAssignment(id, endTs); err != nil {
		h.logger.WithError(err).WithField("assignment_id", id).Warn("Failed to close assignment")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetAssignment handles GET /api/v1/assignments/:id
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	assignment, err := h.assignments.GetAssignmentByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "assignment": assignment})
}

// ListOpenAssignments handles GET /api/v1/assignments/open
func (h *AssignmentHandler) ListOpenAssignments(c *gin.Context) {
	assignments, err := h.assignments.ListOpenAssignments()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "assignments": assignments})
}

// LineStaffing handles GET /api/v1/lines/:code/staffing?at=RFC3339
func (h *AssignmentHandler) LineStaffing(c *gin.Context) {
	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, "at must be an RFC3339 timestamp")
			return
		}
		at = parsed
	}

	report, err := h.facade.StaffingForLineCode(c.Param("code"), at)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "staffing": report})
}
