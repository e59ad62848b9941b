package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndParse(t *testing.T) {
	svc := NewService("test-secret")
	sessionID := uuid.New().String()
	userID := uuid.New().String()
	now := time.Now()

	signed, err := svc.Mint(sessionID, userID, "passenger", now, now.Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := svc.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "passenger", claims.Role)
	assert.Equal(t, userID, claims.Subject)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	svc := NewService("secret-a")
	signed, err := svc.Mint(uuid.New().String(), uuid.New().String(), "admin", time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	other := NewService("secret-b")
	_, err = other.Parse(signed)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	svc := NewService("test-secret")
	issued := time.Now().Add(-2 * time.Hour)
	signed, err := svc.Mint(uuid.New().String(), uuid.New().String(), "passenger", issued, issued.Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.Parse(signed)
	assert.Error(t, err)
}
