package services

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttransit/transit-data-service/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func entry(stopID string, offset int) *models.ItineraryEntry {
	return &models.ItineraryEntry{StopID: stopID, OffsetSeconds: offset}
}

func TestValidateMonotonicItinerary(t *testing.T) {
	v := NewItineraryValidator(true, quietLogger())

	issues, err := v.Validate("line-1", []*models.ItineraryEntry{
		entry("a", 0), entry("b", 300), entry("c", 600),
	})

	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidateStrictRejectsEqualOffsets(t *testing.T) {
	v := NewItineraryValidator(true, quietLogger())

	_, err := v.Validate("line-1", []*models.ItineraryEntry{
		entry("a", 0), entry("b", 300), entry("c", 300),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestValidateAdvisoryCollectsIssues(t *testing.T) {
	v := NewItineraryValidator(false, quietLogger())

	issues, err := v.Validate("line-1", []*models.ItineraryEntry{
		entry("a", 0), entry("b", 600), entry("c", 400), entry("d", 400),
	})

	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, 2, issues[0].Position)
	assert.Equal(t, "c", issues[0].StopID)
	assert.Equal(t, 400, issues[0].OffsetSeconds)
	assert.Equal(t, 600, issues[0].PrevOffset)
	assert.Equal(t, "d", issues[1].StopID)
}

func TestValidateSingleStopAndEmpty(t *testing.T) {
	v := NewItineraryValidator(true, quietLogger())

	issues, err := v.Validate("line-1", []*models.ItineraryEntry{entry("a", 120)})
	require.NoError(t, err)
	assert.Empty(t, issues)

	issues, err = v.Validate("line-1", nil)
	require.NoError(t, err)
	assert.Empty(t, issues)
}
