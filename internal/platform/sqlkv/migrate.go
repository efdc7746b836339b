package sqlkv

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/phrazzld/taskpad/internal/redact"
	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationsFor returns the migration directory of one dialect.
func migrationsFor(d dialect) (fs.FS, error) {
	sub, err := fs.Sub(migrationsFS, "migrations/"+d.name)
	if err != nil {
		return nil, fmt.Errorf("failed to locate %s migrations: %w", d.name, err)
	}
	return sub, nil
}

// Migrate applies all pending migrations and returns the resulting schema
// version.
func (s *Store) Migrate(ctx context.Context) (int64, error) {
	fsys, err := migrationsFor(s.dialect)
	if err != nil {
		return 0, err
	}

	provider, err := goose.NewProvider(s.dialect.goose, s.db, fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		s.logger.Error("migration failed", "error", redact.Error(err))
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, r := range results {
		s.logger.Info("applied migration",
			"version", r.Source.Version,
			"duration", r.Duration.String())
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// SchemaVersion reports the currently applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int64, error) {
	fsys, err := migrationsFor(s.dialect)
	if err != nil {
		return 0, err
	}

	provider, err := goose.NewProvider(s.dialect.goose, s.db, fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider.GetDBVersion(ctx)
}
