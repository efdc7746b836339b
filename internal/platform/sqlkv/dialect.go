package sqlkv

import (
	"github.com/pressly/goose/v3"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// dialect holds everything that differs between SQL backends.
type dialect struct {
	name string
	// sqlDriver is the name the database/sql driver registers under.
	sqlDriver string
	goose     goose.Dialect
	// maxOpenConns limits the pool; zero leaves the database/sql default.
	maxOpenConns int

	getSQL    string
	upsertSQL string
	deleteSQL string

	mapError func(error) error
}

var dialects = map[string]dialect{
	DriverSQLite: {
		name:      DriverSQLite,
		sqlDriver: "sqlite",
		goose:     goose.DialectSQLite3,
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		maxOpenConns: 1,
		getSQL:       `SELECT item_value FROM kv_items WHERE item_key = ?`,
		upsertSQL: `INSERT INTO kv_items (item_key, item_value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`,
		deleteSQL: `DELETE FROM kv_items WHERE item_key = ?`,
		mapError:  mapSQLiteError,
	},
	DriverPostgres: {
		name:      DriverPostgres,
		sqlDriver: "pgx",
		goose:     goose.DialectPostgres,
		getSQL:    `SELECT item_value FROM kv_items WHERE item_key = $1`,
		upsertSQL: `INSERT INTO kv_items (item_key, item_value, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`,
		deleteSQL: `DELETE FROM kv_items WHERE item_key = $1`,
		mapError:  mapPostgresError,
	},
	DriverMySQL: {
		name:      DriverMySQL,
		sqlDriver: "mysql",
		goose:     goose.DialectMySQL,
		getSQL:    `SELECT item_value FROM kv_items WHERE item_key = ?`,
		upsertSQL: `INSERT INTO kv_items (item_key, item_value, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE item_value = VALUES(item_value), updated_at = VALUES(updated_at)`,
		deleteSQL: `DELETE FROM kv_items WHERE item_key = ?`,
		mapError:  mapMySQLError,
	},
}

// Drivers returns the supported driver names.
func Drivers() []string {
	return []string{DriverSQLite, DriverPostgres, DriverMySQL}
}

func lookupDialect(driver string) (dialect, bool) {
	d, ok := dialects[driver]
	return d, ok
}
