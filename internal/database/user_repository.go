package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smarttransit/transit-data-service/internal/models"
	"github.com/smarttransit/transit-data-service/pkg/password"
)

// UserRepository handles user database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser creates a new user. The plaintext password is hashed here and
// never stored; the hash stays opaque to everything above pkg/password.
func (r *UserRepository) CreateUser(email, plainPassword, fullName, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q: %w", role, models.ErrValidation)
	}

	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	query := `
		INSERT INTO users (
			user_id, email, password_hash, full_name, role, is_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.Exec(
		query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Role,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", domainErr(err))
	}

	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User

	query := `
		SELECT user_id, email, password_hash, full_name, role, is_active, created_at
		FROM users
		WHERE user_id = $1
	`

	if err := r.db.Get(&user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, domainErr(err))
	}

	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User

	query := `
		SELECT user_id, email, password_hash, full_name, role, is_active, created_at
		FROM users
		WHERE email = $1
	`

	if err := r.db.Get(&user, query, email); err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", domainErr(err))
	}

	return &user, nil
}

// SetActive soft-activates or soft-deactivates a user. Users referenced by
// trips are never hard-deleted; deactivation is the normal lifecycle end.
func (r *UserRepository) SetActive(id string, active bool) error {
	query := `
		UPDATE users
		SET is_active = $1
		WHERE user_id = $2
	`

	result, err := r.db.Exec(query, active, id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", domainErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}

	return nil
}

// DeleteUser hard-deletes a user. Sessions cascade with the row; trips keep
// existing with user_id set to NULL by the schema's SET NULL rule.
func (r *UserRepository) DeleteUser(id string) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", domainErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}

	return nil
}

// ListUsers retrieves users with pagination
func (r *UserRepository) ListUsers(limit, offset int) ([]*models.User, error) {
	var users []*models.User

	query := `
		SELECT user_id, email, password_hash, full_name, role, is_active, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	if err := r.db.Select(&users, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}
