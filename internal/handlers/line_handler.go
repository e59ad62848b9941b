package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/internal/services"
)

// LineHandler handles HTTP requests for lines, itineraries and schedules
type LineHandler struct {
	lines     *database.LineRepository
	schedules *database.ScheduleRepository
	validator *services.ItineraryValidator
	facade    *services.FacadeService
	logger    *logrus.Logger
}

// NewLineHandler creates a new line handler
func NewLineHandler(
	lines *database.LineRepository,
	schedules *database.ScheduleRepository,
	validator *services.ItineraryValidator,
	facade *services.FacadeService,
	logger *logrus.Logger,
) *LineHandler {
	return &LineHandler{
		lines:     lines,
		schedules: schedules,
		validator: validator,
		facade:    facade,
		logger:    logger,
	}
}

// CreateLineRequest is the payload for POST /api/v1/lines
type CreateLineRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
	Mode string `json:"mode" binding:"required"`
}

// CreateLine handles POST /api/v1/lines
func (h *LineHandler) CreateLine(c *gin.Context) {
	var req CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	line, err := h.lines.CreateLine(req.Code, req.Name, req.Mode)
	if err != nil {
		h.logger.WithError(err).WithField("code", req.Code).Warn("Failed to create line")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "line": line})
}

// ListLines handles GET /api/v1/lines
func (h *LineHandler) ListLines(c *gin.Context) {
	lines, err := h.lines.ListActiveLines()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "lines": lines})
}

// GetLineSummary handles GET /api/v1/lines/:code
func (h *LineHandler) GetLineSummary(c *gin.Context) {
	summary, err := h.facade.LineSummaryByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "summary": summary})
}

// GetItinerary handles GET /api/v1/lines/:code/itinerary
func (h *LineHandler) GetItinerary(c *gin.Context) {
	line, err := h.lines.GetLineByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.lines.GetItinerary(line.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	issues, err := h.validator.Validate(line.ID, entries)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"status": "success", "itinerary": entries}
	if len(issues) > 0 {
		resp["issues"] = issues
	}
	c.JSON(http.StatusOK, resp)
}

// AddStopTimeRequest is the payload for POST /api/v1/lines/:code/stops
type AddStopTimeRequest struct {
	StopID        string `json:"stop_id" binding:"required"`
	OffsetSeconds *int   `json:"offset_seconds" binding:"required"`
}

// AddStopTime handles POST /api/v1/lines/:code/stops
func (h *LineHandler) AddStopTime(c *gin.Context) {
	var req AddStopTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	line, err := h.lines.GetLineByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	st, err := h.lines.AddStopTime(line.ID, req.StopID, *req.OffsetSeconds)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"line_id": line.ID,
			"stop_id": req.StopID,
		}).Warn("Failed to add stop time")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "stop_time": st})
}

// CreateScheduleRequest is the payload for PUT /api/v1/lines/:code/schedules
type CreateScheduleRequest struct {
	Dow            *int   `json:"dow" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	HeadwayMinutes int    `json:"headway_minutes" binding:"required"`
	Replace        bool   `json:"replace"`
}

// CreateSchedule handles PUT /api/v1/lines/:code/schedules
func (h *LineHandler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	line, err := h.lines.GetLineByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	schedule, err := h.schedules.CreateSchedule(line.ID, *req.Dow,
		req.StartTime, req.EndTime, req.HeadwayMinutes, req.Replace)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "schedule": schedule})
}

// ListSchedules handles GET /api/v1/lines/:code/schedules
func (h *LineHandler) ListSchedules(c *gin.Context) {
	line, err := h.lines.GetLineByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	schedules, err := h.schedules.ListSchedulesForLine(line.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "schedules": schedules})
}

// DeleteLine handles DELETE /api/v1/lines/:code
func (h *LineHandler) DeleteLine(c *gin.Context) {
	line, err := h.lines.GetLineByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.lines.DeleteLine(line.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
