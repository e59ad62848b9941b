package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/smarttransit/transit-data-service/internal/models"
)

func uniqueViolation() error {
	return &pq.Error{Code: "23505"}
}

func foreignKeyViolation() error {
	return &pq.Error{Code: "23503"}
}

func checkViolation() error {
	return &pq.Error{Code: "23514"}
}

func TestDomainErr(t *testing.T) {
	assert.NoError(t, domainErr(nil))

	assert.True(t, errors.Is(domainErr(sql.ErrNoRows), models.ErrNotFound))
	assert.True(t, errors.Is(domainErr(uniqueViolation()), models.ErrConflict))
	assert.True(t, errors.Is(domainErr(foreignKeyViolation()), models.ErrReferential))
	assert.True(t, errors.Is(domainErr(checkViolation()), models.ErrValidation))

	// wrapped driver errors still translate
	wrapped := fmt.Errorf("insert failed: %w", uniqueViolation())
	assert.True(t, errors.Is(domainErr(wrapped), models.ErrConflict))

	// unrecognized errors pass through unchanged
	plain := errors.New("connection reset")
	assert.Equal(t, plain, domainErr(plain))
}
