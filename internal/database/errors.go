package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/smarttransit/transit-data-service/internal/models"
)

// domainErr translates driver-level failures into the domain error kinds so
// callers can match with errors.Is. Anything unrecognized passes through
// unchanged.
func domainErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return models.ErrConflict
		case "foreign_key_violation":
			return models.ErrReferential
		case "check_violation":
			return models.ErrValidation
		}
	}
	return err
}
