package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/transit-data-service/internal/database"
	"github.com/smarttransit/transit-data-service/internal/middleware"
	"github.com/smarttransit/transit-data-service/internal/models"
	"github.com/smarttransit/transit-data-service/internal/utils"
	"github.com/smarttransit/transit-data-service/pkg/password"
	"github.com/smarttransit/transit-data-service/pkg/token"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	users      *database.UserRepository
	sessions   *database.SessionRepository
	tokens     *token.Service
	sessionTTL time.Duration
	logger     *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	users *database.UserRepository,
	sessions *database.SessionRepository,
	tokens *token.Service,
	sessionTTL time.Duration,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:      users,
		sessions:   sessions,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// RegisterRequest is the payload for POST /api/v1/auth/register. Role
// defaults to passenger.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RolePassenger
	}

	user, err := h.users.CreateUser(req.Email, req.Password, req.FullName, role)
	if err != nil {
		h.logger.WithError(err).WithField("email", req.Email).Warn("Failed to register user")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "user": user})
}

// LoginRequest is the payload for POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/auth/login. A successful login stores a session
// row and returns a signed handle to it.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	user, err := h.users.GetUserByEmail(req.Email)
	if err != nil || !user.IsActive || !password.Verify(req.Password, user.PasswordHash) {
		// same response for unknown email, wrong password and disabled account
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Invalid credentials",
		})
		return
	}

	session, err := h.sessions.CreateSession(user.ID, h.sessionTTL,
		c.GetHeader("User-Agent"), utils.GetRealIP(c))
	if err != nil {
		h.logger.WithError(err).WithField("user_id", user.ID).Error("Failed to create session")
		respondError(c, err)
		return
	}

	signed, err := h.tokens.Mint(session.ID, user.ID, user.Role, session.IssuedAt, session.ExpiresAt)
	if err != nil {
		h.logger.WithError(err).Error("Failed to mint session token")
		respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":    user.ID,
		"session_id": session.ID,
	}).Info("User logged in")

	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"token":      signed,
		"expires_at": session.ExpiresAt,
		"user":       user,
	})
}

// Logout handles POST /api/v1/auth/logout. The session named by the caller's
// token is expired in place.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID, exists := c.Get(middleware.SessionIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Not authenticated",
		})
		return
	}

	if err := h.sessions.ExpireSession(sessionID.(string)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListMySessions handles GET /api/v1/auth/sessions
func (h *AuthHandler) ListMySessions(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Not authenticated",
		})
		return
	}

	sessions, err := h.sessions.ListSessionsForUser(userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "sessions": sessions})
}
