package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableByName(t *testing.T, name string) Table {
	t.Helper()
	for _, tbl := range Tables() {
		if tbl.Name == name {
			return tbl
		}
	}
	t.Fatalf("table %s not defined", name)
	return Table{}
}

func TestTablesDependencyOrder(t *testing.T) {
	seen := map[string]bool{}
	for _, tbl := range Tables() {
		for _, fk := range tbl.ForeignKeys {
			if fk.RefTable != tbl.Name {
				assert.True(t, seen[fk.RefTable],
					"table %s references %s before it is defined", tbl.Name, fk.RefTable)
			}
		}
		seen[tbl.Name] = true
	}
	assert.Len(t, seen, 11)
}

func TestPostgresCreateTable(t *testing.T) {
	d := Postgres{}

	t.Run("Users", func(t *testing.T) {
		ddl := d.CreateTable(tableByName(t, "users"))
		assert.True(t, strings.HasPrefix(ddl, "CREATE TABLE IF NOT EXISTS users"))
		assert.Contains(t, ddl, "user_id uuid NOT NULL")
		assert.Contains(t, ddl, "email varchar(320) NOT NULL UNIQUE")
		assert.Contains(t, ddl, "is_active boolean NOT NULL")
		assert.Contains(t, ddl, "CONSTRAINT ck_users_role CHECK (role IN ('passenger','admin'))")
	})

	t.Run("Trips weak user reference", func(t *testing.T) {
		ddl := d.CreateTable(tableByName(t, "trips"))
		assert.Contains(t, ddl, "FOREIGN KEY (user_id) REFERENCES users (user_id) ON DELETE SET NULL")
	})

	t.Run("Assignments cascade from drivers", func(t *testing.T) {
		ddl := d.CreateTable(tableByName(t, "driver_assignments"))
		assert.Contains(t, ddl, "FOREIGN KEY (driver_id) REFERENCES drivers (driver_id) ON DELETE CASCADE")
		assert.Contains(t, ddl, "CONSTRAINT ck_assignments_window CHECK (end_ts IS NULL OR end_ts > start_ts)")
	})

	t.Run("Stop times composite uniqueness", func(t *testing.T) {
		ddl := d.CreateTable(tableByName(t, "stop_times"))
		assert.Contains(t, ddl, "UNIQUE (line_id, stop_id)")
	})
}

func TestPostgresPartialIndexes(t *testing.T) {
	d := Postgres{}
	tbl := tableByName(t, "driver_assignments")
	require.NotEmpty(t, tbl.Indexes)

	var driverIdx, vehicleIdx string
	for _, ix := range tbl.Indexes {
		switch ix.Name {
		case "ux_assignments_open_driver":
			driverIdx = d.CreateIndex(tbl, ix)
		case "ux_assignments_open_vehicle":
			vehicleIdx = d.CreateIndex(tbl, ix)
		}
	}

	assert.Equal(t,
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_assignments_open_driver ON driver_assignments (driver_id) WHERE end_ts IS NULL",
		driverIdx)
	assert.Equal(t,
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_assignments_open_vehicle ON driver_assignments (vehicle_id) WHERE end_ts IS NULL",
		vehicleIdx)
}

func TestOracleCreateTable(t *testing.T) {
	d := Oracle{}

	t.Run("Identifier and boolean mapping", func(t *testing.T) {
		ddl := d.CreateTable(tableByName(t, "vehicles"))
		assert.Contains(t, ddl, "vehicle_id CHAR(36) NOT NULL")
		assert.Contains(t, ddl, "active NUMBER(1) NOT NULL")
		assert.Contains(t, ddl, "CONSTRAINT ck_vehicles_active_bool CHECK (active IN (0,1))")
	})

	t.Run("Existence guard", func(t *testing.T) {
		ddl := d.CreateTable(tableByName(t, "users"))
		assert.Contains(t, ddl, "EXECUTE IMMEDIATE")
		assert.Contains(t, ddl, "-955")
		// literals inside the dynamic SQL must be doubled
		assert.Contains(t, ddl, "''passenger''")
	})
}

func TestOracleFunctionBasedIndex(t *testing.T) {
	d := Oracle{}
	tbl := tableByName(t, "driver_assignments")

	for _, ix := range tbl.Indexes {
		if ix.Name != "ux_assignments_open_driver" {
			continue
		}
		ddl := d.CreateIndex(tbl, ix)
		assert.Contains(t, ddl, "CASE WHEN end_ts IS NULL THEN driver_id END")
		assert.Contains(t, ddl, "UNIQUE INDEX")
		return
	}
	t.Fatal("open-driver index not defined")
}

func TestStatementsCoverAllTables(t *testing.T) {
	for _, d := range []Dialect{Postgres{}, Oracle{}} {
		stmts := Statements(d)
		joined := strings.Join(stmts, "\n")
		for _, tbl := range Tables() {
			assert.Contains(t, joined, tbl.Name, "dialect %s misses table %s", d.Name(), tbl.Name)
		}
	}
}
