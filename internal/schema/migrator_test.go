package schema

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigratorApply(t *testing.T) {
	t.Run("Applies every statement in order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		dialect := Postgres{}
		for _, stmt := range Statements(dialect) {
			mock.ExpectExec(regexp.QuoteMeta(stmt)).
				WillReturnResult(sqlmock.NewResult(0, 0))
		}

		m := NewMigrator(db, dialect)
		require.NoError(t, m.Apply())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Aborts on first failure and names the statement", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		dialect := Postgres{}
		stmts := Statements(dialect)
		mock.ExpectExec(regexp.QuoteMeta(stmts[0])).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(stmts[1])).
			WillReturnError(fmt.Errorf("permission denied"))

		m := NewMigrator(db, dialect)
		err = m.Apply()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "statement 2")
		assert.Contains(t, err.Error(), "permission denied")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
