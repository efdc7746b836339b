package testdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/taskpad/internal/platform/logger"
	"github.com/phrazzld/taskpad/internal/platform/sqlkv"
	"github.com/stretchr/testify/require"
)

// TestTimeout is the maximum time allowed for opening and cleaning a test database.
const TestTimeout = 10 * time.Second

// Environment variables holding DSNs for server-backed dialects.
const (
	PostgresDSNEnv = "TASKPAD_TEST_POSTGRES_DSN"
	MySQLDSNEnv    = "TASKPAD_TEST_MYSQL_DSN"
)

// DSN returns a connection string for driver, skipping the test when the
// dialect needs a server that was not configured.
func DSN(t *testing.T, driver string) string {
	t.Helper()

	switch driver {
	case sqlkv.DriverSQLite:
		return filepath.Join(t.TempDir(), "taskpad_test.db")
	case sqlkv.DriverPostgres:
		return envOrSkip(t, PostgresDSNEnv)
	case sqlkv.DriverMySQL:
		return envOrSkip(t, MySQLDSNEnv)
	default:
		t.Fatalf("unknown driver %q", driver)
		return ""
	}
}

// OpenStore opens a migrated store for driver with every existing row removed.
// The store is closed when the test finishes.
func OpenStore(t *testing.T, driver string) *sqlkv.Store {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	log, _ := logger.NewTestLogger(t)
	kv, err := sqlkv.Open(ctx, driver, DSN(t, driver), log)
	require.NoError(t, err, "failed to open %s test store", driver)

	Reset(t, kv)
	t.Cleanup(func() {
		Reset(t, kv)
		_ = kv.Close()
	})
	return kv
}

// Reset deletes every row from the kv_items table.
func Reset(t *testing.T, kv *sqlkv.Store) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	if kv.DB() == nil {
		return
	}
	// A closed store has nothing to clean.
	if err := kv.DB().PingContext(ctx); err != nil {
		return
	}
	_, err := kv.DB().ExecContext(ctx, "DELETE FROM kv_items")
	require.NoError(t, err, "failed to reset kv_items")
}

func envOrSkip(t *testing.T, name string) string {
	t.Helper()

	dsn := os.Getenv(name)
	if dsn == "" {
		t.Skipf("%s not set - skipping integration test", name)
	}
	return dsn
}
