package models

import "time"

// User roles
const (
	RolePassenger = "passenger"
	RoleAdmin     = "admin"
)

// ValidRole reports whether role is one of the accepted user roles
func ValidRole(role string) bool {
	return role == RolePassenger || role == RoleAdmin
}

// User represents an account in the system. PasswordHash is opaque to every
// layer above pkg/password.
type User struct {
	ID           string    `json:"id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserSession represents a stored session belonging to exactly one user.
// Sessions are cascade-deleted with their user.
type UserSession struct {
	ID        string     `json:"id" db:"session_id"`
	UserID    string     `json:"user_id" db:"user_id"`
	IssuedAt  time.Time  `json:"issued_at" db:"issued_at"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	UserAgent NullString `json:"user_agent,omitempty" db:"user_agent"`
	IP        NullString `json:"ip,omitempty" db:"ip"`
}

// Active reports whether the session has not expired at the given instant
func (s *UserSession) Active(now time.Time) bool {
	return s.ExpiresAt.After(now)
}
