package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// newTestDB wires a sqlmock connection through sqlx so repositories can be
// exercised with their real Get/Select/Beginx paths.
func newTestDB(t *testing.T) (DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDb.Close() })

	return &PostgresDB{DB: sqlx.NewDb(mockDb, "sqlmock")}, mock
}
