package sqlkv

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskpad/internal/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrUnsupportedDriver is returned by Open for unknown driver names.
var ErrUnsupportedDriver = errors.New("unsupported storage driver")

// PostgreSQL error codes
const (
	// pgDiskFullCode is raised when the server runs out of disk space
	pgDiskFullCode = "53100"

	// pgProgramLimitCode covers values that exceed server limits
	pgProgramLimitCode = "54000"

	// pgAdminShutdownCode is raised when the server terminates the session
	pgAdminShutdownCode = "57P01"

	// pgConnectionClass prefixes every connection exception code
	pgConnectionClass = "08"
)

// MySQL error numbers
const (
	mysqlDiskFull       = 1021
	mysqlRecordFileFull = 1114
	mysqlPacketTooLarge = 1153
	mysqlServerGone     = 2006
	mysqlServerLost     = 2013
)

// mapCommonError handles errors every database/sql driver can return.
func mapCommonError(err error) error {
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// mapPostgresError maps a pgx error to a store error.
// Errors without a specific mapping are returned unchanged.
func mapPostgresError(err error) error {
	if err == nil {
		return nil
	}
	if mapped := mapCommonError(err); mapped != nil {
		return mapped
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgDiskFullCode, pgErr.Code == pgProgramLimitCode:
			return fmt.Errorf("%w: %v", store.ErrQuotaExceeded, err)
		case pgErr.Code == pgAdminShutdownCode, strings.HasPrefix(pgErr.Code, pgConnectionClass):
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	return err
}

// mapMySQLError maps a go-sql-driver/mysql error to a store error.
func mapMySQLError(err error) error {
	if err == nil {
		return nil
	}
	if mapped := mapCommonError(err); mapped != nil {
		return mapped
	}
	if errors.Is(err, mysql.ErrInvalidConn) {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDiskFull, mysqlRecordFileFull, mysqlPacketTooLarge:
			return fmt.Errorf("%w: %v", store.ErrQuotaExceeded, err)
		case mysqlServerGone, mysqlServerLost:
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
	}

	return err
}

// mapSQLiteError maps a modernc.org/sqlite error to a store error.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if mapped := mapCommonError(err); mapped != nil {
		return mapped
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		// Extended result codes carry the primary code in the low byte.
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_FULL, sqlite3.SQLITE_TOOBIG:
			return fmt.Errorf("%w: %v", store.ErrQuotaExceeded, err)
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_IOERR:
			return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}
	}

	return err
}
