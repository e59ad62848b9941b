package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/transit-data-service/internal/models"
	"github.com/smarttransit/transit-data-service/pkg/password"
)

func TestCreateUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(sqlmock.AnyArg(), "rider@example.com", sqlmock.AnyArg(), "Ana Maria", "passenger", true, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		user, err := repo.CreateUser("rider@example.com", "s3cret-pass", "Ana Maria", "passenger")
		require.NoError(t, err)
		assert.Equal(t, "rider@example.com", user.Email)
		assert.True(t, user.IsActive)
		// the stored hash verifies against the plain password and is not the
		// password itself
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
		assert.True(t, password.Verify("s3cret-pass", user.PasswordHash))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Invalid Role", func(t *testing.T) {
		db, _ := newTestDB(t)
		repo := NewUserRepository(db)

		user, err := repo.CreateUser("rider@example.com", "s3cret-pass", "Ana Maria", "superuser")
		require.Error(t, err)
		assert.Nil(t, user)
		assert.True(t, errors.Is(err, models.ErrValidation))
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(uniqueViolation())

		_, err := repo.CreateUser("rider@example.com", "s3cret-pass", "Ana Maria", "passenger")
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrConflict))
	})
}

func TestGetUserByID(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewUserRepository(db)

	id := uuid.New().String()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE user_id`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	user, err := repo.GetUserByID(id)
	require.Error(t, err)
	assert.Nil(t, user)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestSetUserActive(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewUserRepository(db)

	id := uuid.New().String()
	mock.ExpectExec(`UPDATE users`).
		WithArgs(false, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetActive(id, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewUserRepository(db)

		id := uuid.New().String()
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeleteUser(id))
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := NewUserRepository(db)

		id := uuid.New().String()
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteUser(id)
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})
}
