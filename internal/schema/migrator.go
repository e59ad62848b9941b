package schema

import (
	"database/sql"
	"fmt"
)

// Execer is the slice of the database connection the migrator needs
type Execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// Statements compiles the whole schema with the given dialect, tables in
// dependency order, each table's indexes directly after it.
func Statements(d Dialect) []string {
	var stmts []string
	for _, t := range Tables() {
		stmts = append(stmts, d.CreateTable(t))
		for _, ix := range t.Indexes {
			stmts = append(stmts, d.CreateIndex(t, ix))
		}
	}
	return stmts
}

// Migrator applies the compiled schema to a database
type Migrator struct {
	db      Execer
	dialect Dialect
}

// NewMigrator creates a migrator for the given connection and dialect
func NewMigrator(db Execer, dialect Dialect) *Migrator {
	return &Migrator{db: db, dialect: dialect}
}

// Apply executes every DDL statement in order. Re-running against an already
// migrated database is a no-op. On failure it aborts immediately and reports
// the failing statement; DDL applied before the failure stays in place, since
// most engines do not run DDL transactionally.
func (m *Migrator) Apply() error {
	for i, stmt := range Statements(m.dialect) {
		if _, err := m.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration aborted at statement %d (%s): %w", i+1, firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
