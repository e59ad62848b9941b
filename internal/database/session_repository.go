package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/transit-data-service/internal/models"
	"github.com/smarttransit/transit-data-service/internal/utils"
)

// SessionRepository handles user session storage. Validity is purely a
// matter of the stored expires_at; there is no token state here.
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession stores a new session for a user. The raw user agent is
// summarized and bounded before persisting. ttl must be positive, since the
// schema requires expires_at > issued_at.
func (r *SessionRepository) CreateSession(userID string, ttl time.Duration, rawUserAgent, ip string) (*models.UserSession, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive: %w", models.ErrValidation)
	}

	now := time.Now()
	session := &models.UserSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	if ua := utils.SummarizeUserAgent(rawUserAgent); ua != "" {
		session.UserAgent.Valid = true
		session.UserAgent.String = ua
	}
	if ip != "" {
		session.IP.Valid = true
		session.IP.String = ip
	}

	query := `
		INSERT INTO user_sessions (
			session_id, user_id, issued_at, expires_at, user_agent, ip
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		query,
		session.ID,
		session.UserID,
		session.IssuedAt,
		session.ExpiresAt,
		session.UserAgent,
		session.IP,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", domainErr(err))
	}

	return session, nil
}

// GetActiveSession returns the session if it exists and has not expired
func (r *SessionRepository) GetActiveSession(id string) (*models.UserSession, error) {
	var session models.UserSession

	query := `
		SELECT session_id, user_id, issued_at, expires_at, user_agent, ip
		FROM user_sessions
		WHERE session_id = $1
		  AND expires_at > NOW()
	`

	if err := r.db.Get(&session, query, id); err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, domainErr(err))
	}

	return &session, nil
}

// ExpireSession marks a session expired by moving expires_at to now
func (r *SessionRepository) ExpireSession(id string) error {
	query := `
		UPDATE user_sessions
		SET expires_at = NOW()
		WHERE session_id = $1
	`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to expire session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}

	return nil
}

// DeleteSession physically removes a session row
func (r *SessionRepository) DeleteSession(id string) error {
	result, err := r.db.Exec(`DELETE FROM user_sessions WHERE session_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}

	return nil
}

// ListSessionsForUser returns all sessions of one user, newest first
func (r *SessionRepository) ListSessionsForUser(userID string) ([]*models.UserSession, error) {
	var sessions []*models.UserSession

	query := `
		SELECT session_id, user_id, issued_at, expires_at, user_agent, ip
		FROM user_sessions
		WHERE user_id = $1
		ORDER BY issued_at DESC
	`

	if err := r.db.Select(&sessions, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list sessions for user %s: %w", userID, err)
	}

	return sessions, nil
}
