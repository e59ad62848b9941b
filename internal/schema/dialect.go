package schema

import (
	"fmt"
	"strings"
)

// Dialect compiles table definitions to executable DDL. Every statement a
// dialect produces must be safe to re-run against a database that already
// carries the schema.
type Dialect interface {
	Name() string
	CreateTable(t Table) string
	CreateIndex(t Table, ix Index) string
}

// DialectByName resolves a configured dialect name
func DialectByName(name string) (Dialect, error) {
	switch name {
	case "postgres":
		return Postgres{}, nil
	case "oracle":
		return Oracle{}, nil
	default:
		return nil, fmt.Errorf("unknown schema dialect %q", name)
	}
}

// Postgres compiles the schema for PostgreSQL
type Postgres struct{}

// Name returns the dialect identifier
func (Postgres) Name() string { return "postgres" }

func (Postgres) columnType(c Column) string {
	switch c.Type {
	case TypeID:
		return "uuid"
	case TypeText:
		return "text"
	case TypeVarchar:
		return fmt.Sprintf("varchar(%d)", c.Size)
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "double precision"
	case TypeBool:
		return "boolean"
	case TypeTimestamp:
		return "timestamptz"
	}
	return "text"
}

// CreateTable emits CREATE TABLE IF NOT EXISTS with all constraints inline
func (d Postgres) CreateTable(t Table) string {
	var defs []string
	for _, c := range t.Columns {
		def := fmt.Sprintf("%s %s", c.Name, d.columnType(c))
		if c.NotNull {
			def += " NOT NULL"
		}
		if c.Unique {
			def += " UNIQUE"
		}
		defs = append(defs, def)
	}
	defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(t.PrimaryKey, ", ")))
	for _, u := range t.UniqueTogether {
		defs = append(defs, fmt.Sprintf("UNIQUE (%s)", strings.Join(u, ", ")))
	}
	for _, fk := range t.ForeignKeys {
		defs = append(defs, fmt.Sprintf(
			"FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE %s",
			fk.Column, fk.RefTable, fk.RefColumn, fk.OnDelete,
		))
	}
	for _, ck := range t.Checks {
		defs = append(defs, fmt.Sprintf("CONSTRAINT %s CHECK (%s)", ck.Name, ck.Expr))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.Name, strings.Join(defs, ",\n\t"))
}

// CreateIndex emits CREATE INDEX IF NOT EXISTS, partial when Where is set
func (d Postgres) CreateIndex(t Table, ix Index) string {
	unique := ""
	if ix.Unique {
		unique = "UNIQUE "
	}
	stmt := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
		unique, ix.Name, t.Name, strings.Join(ix.Columns, ", "))
	if ix.Where != "" {
		stmt += " WHERE " + ix.Where
	}
	return stmt
}

// Oracle compiles the schema for Oracle. Idempotency comes from PL/SQL
// blocks that swallow ORA-00955 (name already used by an existing object).
type Oracle struct{}

// Name returns the dialect identifier
func (Oracle) Name() string { return "oracle" }

func (Oracle) columnType(c Column) string {
	switch c.Type {
	case TypeID:
		return "CHAR(36)"
	case TypeText:
		return "VARCHAR2(4000)"
	case TypeVarchar:
		return fmt.Sprintf("VARCHAR2(%d)", c.Size)
	case TypeInt:
		return "NUMBER(10)"
	case TypeFloat:
		return "BINARY_DOUBLE"
	case TypeBool:
		return "NUMBER(1)"
	case TypeTimestamp:
		return "TIMESTAMP"
	}
	return "VARCHAR2(4000)"
}

func guarded(inner string) string {
	escaped := strings.ReplaceAll(inner, "'", "''")
	return fmt.Sprintf(
		"BEGIN\n\tEXECUTE IMMEDIATE '%s';\nEXCEPTION\n\tWHEN OTHERS THEN\n\t\tIF SQLCODE != -955 THEN RAISE; END IF;\nEND;",
		escaped,
	)
}

// CreateTable emits an existence-guarded CREATE TABLE block. Boolean columns
// become NUMBER(1) with a 0/1 check.
func (d Oracle) CreateTable(t Table) string {
	var defs []string
	checks := append([]Check(nil), t.Checks...)
	for _, c := range t.Columns {
		def := fmt.Sprintf("%s %s", c.Name, d.columnType(c))
		if c.NotNull {
			def += " NOT NULL"
		}
		if c.Unique {
			def += " UNIQUE"
		}
		defs = append(defs, def)
		if c.Type == TypeBool {
			checks = append(checks, Check{
				Name: fmt.Sprintf("ck_%s_%s_bool", t.Name, c.Name),
				Expr: fmt.Sprintf("%s IN (0,1)", c.Name),
			})
		}
	}
	defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(t.PrimaryKey, ", ")))
	for _, u := range t.UniqueTogether {
		defs = append(defs, fmt.Sprintf("UNIQUE (%s)", strings.Join(u, ", ")))
	}
	for _, fk := range t.ForeignKeys {
		// Oracle has no ON DELETE RESTRICT clause; the default NO ACTION is
		// equivalent for our purposes.
		clause := ""
		switch fk.OnDelete {
		case "CASCADE":
			clause = " ON DELETE CASCADE"
		case "SET NULL":
			clause = " ON DELETE SET NULL"
		}
		defs = append(defs, fmt.Sprintf(
			"FOREIGN KEY (%s) REFERENCES %s (%s)%s",
			fk.Column, fk.RefTable, fk.RefColumn, clause,
		))
	}
	for _, ck := range checks {
		defs = append(defs, fmt.Sprintf("CONSTRAINT %s CHECK (%s)", ck.Name, ck.Expr))
	}
	inner := fmt.Sprintf("CREATE TABLE %s (%s)", t.Name, strings.Join(defs, ", "))
	return guarded(inner)
}

// CreateIndex emits an existence-guarded CREATE INDEX block. Partial indexes
// compile to function-based indexes: rows outside the predicate map to NULL
// and Oracle does not index all-NULL keys.
func (d Oracle) CreateIndex(t Table, ix Index) string {
	unique := ""
	if ix.Unique {
		unique = "UNIQUE "
	}
	cols := strings.Join(ix.Columns, ", ")
	if ix.Where != "" {
		exprs := make([]string, len(ix.Columns))
		for i, c := range ix.Columns {
			exprs[i] = fmt.Sprintf("CASE WHEN %s THEN %s END", ix.Where, c)
		}
		cols = strings.Join(exprs, ", ")
	}
	inner := fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)", unique, ix.Name, t.Name, cols)
	return guarded(inner)
}
