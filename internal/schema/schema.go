// Package schema holds the target-agnostic definition of the transit schema
// and compiles it to a concrete SQL dialect. The repository layer never
// branches on dialect; everything dialect-specific lives here.
package schema

// ColType is a storage-independent column type
type ColType int

const (
	// TypeID is an opaque 36-character identifier (native UUID on Postgres,
	// CHAR(36) on Oracle)
	TypeID ColType = iota
	TypeText
	TypeVarchar
	TypeInt
	TypeFloat
	TypeBool
	TypeTimestamp
)

// Column describes one column of a table
type Column struct {
	Name    string
	Type    ColType
	Size    int // only for TypeVarchar
	NotNull bool
	Unique  bool
}

// ForeignKey describes a referential constraint. OnDelete is one of
// "CASCADE", "SET NULL" or "RESTRICT".
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string
}

// Check is a named check constraint with a dialect-neutral expression
type Check struct {
	Name string
	Expr string
}

// Index describes a secondary index. A non-empty Where makes it partial;
// dialects that lack partial indexes compile an equivalent form.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
	Where   string
}

// Table is one table of the schema
type Table struct {
	Name           string
	Columns        []Column
	PrimaryKey     []string
	UniqueTogether [][]string
	ForeignKeys    []ForeignKey
	Checks         []Check
	Indexes        []Index
}

// Tables lists the full schema in dependency order: referenced tables always
// precede their referrers, so foreign keys can be created inline.
func Tables() []Table {
	return []Table{
		{
			Name: "users",
			Columns: []Column{
				{Name: "user_id", Type: TypeID, NotNull: true},
				{Name: "email", Type: TypeVarchar, Size: 320, NotNull: true, Unique: true},
				{Name: "password_hash", Type: TypeVarchar, Size: 255, NotNull: true},
				{Name: "full_name", Type: TypeVarchar, Size: 200, NotNull: true},
				{Name: "role", Type: TypeVarchar, Size: 20, NotNull: true},
				{Name: "is_active", Type: TypeBool, NotNull: true},
				{Name: "created_at", Type: TypeTimestamp, NotNull: true},
			},
			PrimaryKey: []string{"user_id"},
			Checks: []Check{
				{Name: "ck_users_role", Expr: "role IN ('passenger','admin')"},
			},
		},
		{
			Name: "drivers",
			Columns: []Column{
				{Name: "driver_id", Type: TypeID, NotNull: true},
				{Name: "full_name", Type: TypeVarchar, Size: 200, NotNull: true},
				{Name: "license_no", Type: TypeVarchar, Size: 50, NotNull: true},
				{Name: "hire_date", Type: TypeTimestamp, NotNull: true},
			},
			PrimaryKey: []string{"driver_id"},
		},
		{
			Name: "vehicles",
			Columns: []Column{
				{Name: "vehicle_id", Type: TypeID, NotNull: true},
				{Name: "plate", Type: TypeVarchar, Size: 20, NotNull: true, Unique: true},
				{Name: "model", Type: TypeVarchar, Size: 100},
				{Name: "capacity", Type: TypeInt},
				{Name: "active", Type: TypeBool, NotNull: true},
			},
			PrimaryKey: []string{"vehicle_id"},
			Checks: []Check{
				{Name: "ck_vehicles_capacity", Expr: "capacity IS NULL OR capacity > 0"},
			},
		},
		{
			Name: "lines",
			Columns: []Column{
				{Name: "line_id", Type: TypeID, NotNull: true},
				{Name: "code", Type: TypeVarchar, Size: 50, NotNull: true, Unique: true},
				{Name: "name", Type: TypeVarchar, Size: 200, NotNull: true},
				{Name: "line_mode", Type: TypeVarchar, Size: 10, NotNull: true},
				{Name: "active", Type: TypeBool, NotNull: true},
			},
			PrimaryKey: []string{"line_id"},
			Checks: []Check{
				{Name: "ck_lines_mode", Expr: "line_mode IN ('bus','tram','metro')"},
			},
		},
		{
			Name: "stops",
			Columns: []Column{
				{Name: "stop_id", Type: TypeID, NotNull: true},
				{Name: "code", Type: TypeVarchar, Size: 50, NotNull: true, Unique: true},
				{Name: "name", Type: TypeVarchar, Size: 200, NotNull: true},
				{Name: "lat", Type: TypeFloat},
				{Name: "lon", Type: TypeFloat},
			},
			PrimaryKey: []string{"stop_id"},
		},
		{
			Name: "user_sessions",
			Columns: []Column{
				{Name: "session_id", Type: TypeID, NotNull: true},
				{Name: "user_id", Type: TypeID, NotNull: true},
				{Name: "issued_at", Type: TypeTimestamp, NotNull: true},
				{Name: "expires_at", Type: TypeTimestamp, NotNull: true},
				{Name: "user_agent", Type: TypeVarchar, Size: 4000},
				{Name: "ip", Type: TypeVarchar, Size: 64},
			},
			PrimaryKey: []string{"session_id"},
			ForeignKeys: []ForeignKey{
				{Column: "user_id", RefTable: "users", RefColumn: "user_id", OnDelete: "CASCADE"},
			},
			Checks: []Check{
				{Name: "ck_sessions_window", Expr: "expires_at > issued_at"},
			},
		},
		{
			Name: "line_schedules",
			Columns: []Column{
				{Name: "schedule_id", Type: TypeID, NotNull: true},
				{Name: "line_id", Type: TypeID, NotNull: true},
				{Name: "dow", Type: TypeInt, NotNull: true},
				{Name: "start_time", Type: TypeVarchar, Size: 5, NotNull: true},
				{Name: "end_time", Type: TypeVarchar, Size: 5, NotNull: true},
				{Name: "headway_minutes", Type: TypeInt, NotNull: true},
			},
			PrimaryKey: []string{"schedule_id"},
			ForeignKeys: []ForeignKey{
				{Column: "line_id", RefTable: "lines", RefColumn: "line_id", OnDelete: "CASCADE"},
			},
			Checks: []Check{
				{Name: "ck_schedules_dow", Expr: "dow BETWEEN 0 AND 6"},
				{Name: "ck_schedules_headway", Expr: "headway_minutes > 0"},
			},
		},
		{
			Name: "stop_times",
			Columns: []Column{
				{Name: "stop_time_id", Type: TypeID, NotNull: true},
				{Name: "line_id", Type: TypeID, NotNull: true},
				{Name: "stop_id", Type: TypeID, NotNull: true},
				{Name: "scheduled_seconds_from_start", Type: TypeInt, NotNull: true},
			},
			PrimaryKey:     []string{"stop_time_id"},
			UniqueTogether: [][]string{{"line_id", "stop_id"}},
			ForeignKeys: []ForeignKey{
				{Column: "line_id", RefTable: "lines", RefColumn: "line_id", OnDelete: "CASCADE"},
				{Column: "stop_id", RefTable: "stops", RefColumn: "stop_id", OnDelete: "RESTRICT"},
			},
			Checks: []Check{
				{Name: "ck_stop_times_offset", Expr: "scheduled_seconds_from_start >= 0"},
			},
		},
		{
			Name: "driver_assignments",
			Columns: []Column{
				{Name: "assignment_id", Type: TypeID, NotNull: true},
				{Name: "driver_id", Type: TypeID, NotNull: true},
				{Name: "vehicle_id", Type: TypeID, NotNull: true},
				{Name: "line_id", Type: TypeID, NotNull: true},
				{Name: "start_ts", Type: TypeTimestamp, NotNull: true},
				{Name: "end_ts", Type: TypeTimestamp},
			},
			PrimaryKey: []string{"assignment_id"},
			ForeignKeys: []ForeignKey{
				{Column: "driver_id", RefTable: "drivers", RefColumn: "driver_id", OnDelete: "CASCADE"},
				{Column: "vehicle_id", RefTable: "vehicles", RefColumn: "vehicle_id", OnDelete: "RESTRICT"},
				{Column: "line_id", RefTable: "lines", RefColumn: "line_id", OnDelete: "RESTRICT"},
			},
			Checks: []Check{
				{Name: "ck_assignments_window", Expr: "end_ts IS NULL OR end_ts > start_ts"},
			},
			// One open assignment per driver and per vehicle, closed at the
			// store so concurrent creators cannot race past the transactional
			// check in the repository.
			Indexes: []Index{
				{Name: "ux_assignments_open_driver", Columns: []string{"driver_id"}, Unique: true, Where: "end_ts IS NULL"},
				{Name: "ux_assignments_open_vehicle", Columns: []string{"vehicle_id"}, Unique: true, Where: "end_ts IS NULL"},
				{Name: "ix_assignments_line", Columns: []string{"line_id"}},
			},
		},
		{
			Name: "trips",
			Columns: []Column{
				{Name: "trip_id", Type: TypeID, NotNull: true},
				{Name: "user_id", Type: TypeID},
				{Name: "line_id", Type: TypeID},
				{Name: "origin_stop_id", Type: TypeID},
				{Name: "dest_stop_id", Type: TypeID},
				{Name: "planned_start", Type: TypeTimestamp, NotNull: true},
				{Name: "planned_end", Type: TypeTimestamp},
				{Name: "created_at", Type: TypeTimestamp, NotNull: true},
			},
			PrimaryKey: []string{"trip_id"},
			ForeignKeys: []ForeignKey{
				{Column: "user_id", RefTable: "users", RefColumn: "user_id", OnDelete: "SET NULL"},
				{Column: "line_id", RefTable: "lines", RefColumn: "line_id", OnDelete: "SET NULL"},
				{Column: "origin_stop_id", RefTable: "stops", RefColumn: "stop_id", OnDelete: "SET NULL"},
				{Column: "dest_stop_id", RefTable: "stops", RefColumn: "stop_id", OnDelete: "SET NULL"},
			},
			Indexes: []Index{
				{Name: "ix_trips_user", Columns: []string{"user_id"}},
			},
		},
		{
			// trip_id alone is the primary key: only a single stop per trip is
			// tracked, a modeling constraint inherited from the schema.
			Name: "trip_stops",
			Columns: []Column{
				{Name: "trip_id", Type: TypeID, NotNull: true},
				{Name: "stop_id", Type: TypeID, NotNull: true},
				{Name: "eta", Type: TypeTimestamp},
				{Name: "ata", Type: TypeTimestamp},
			},
			PrimaryKey: []string{"trip_id"},
			ForeignKeys: []ForeignKey{
				{Column: "trip_id", RefTable: "trips", RefColumn: "trip_id", OnDelete: "CASCADE"},
				{Column: "stop_id", RefTable: "stops", RefColumn: "stop_id", OnDelete: "RESTRICT"},
			},
		},
	}
}
