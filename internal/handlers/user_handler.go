package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
)

// UserHandler handles administrative HTTP requests for user accounts
type UserHandler struct {
	users  *database.UserRepository
	logger *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *database.UserRepository, logger *logrus.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.users.GetUserByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "user": user})
}

// ListUsers handles GET /api/v1/users?limit=N&offset=M
func (h *UserHandler) ListUsers(c *gin.Context) {
	limit := 50
	offset := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			badRequest(c, "limit must be between 1 and 500")
			return
		}
		limit = parsed
	}
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			badRequest(c, "offset must be non-negative")
			return
		}
		offset = parsed
	}

	users, err := h.users.ListUsers(limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "users": users})
}

// SetUserActiveRequest is the payload for PATCH /api/v1/users/:id/active
type SetUserActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetUserActive handles PATCH /api/v1/users/:id/active. Deactivation keeps
// the account and its history; only login is blocked.
func (h *UserHandler) SetUserActive(c *gin.Context) {
	var req SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	id := c.Param("id")
	if err := h.users.SetActive(id, *req.Active); err != nil {
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": id,
		"active":  *req.Active,
	}).Info("User active flag changed")

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// DeleteUser handles DELETE /api/v1/users/:id. Sessions cascade with the
// row; trips survive with user_id set to NULL.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.users.DeleteUser(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
