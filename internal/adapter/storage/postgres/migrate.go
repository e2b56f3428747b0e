package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const downMarker = "-- +migrate Down"

// Migrate applies pending migrations in filename order and records each one
// in schema_migrations.
func Migrate(ctx context.Context, pool Pool, log zerolog.Logger) error {
	if _, err := pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (filename TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT now())`,
	); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		name := strings.TrimPrefix(file, "migrations/")

		var applied bool
		if err := pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, name,
		).Scan(&applied); err != nil {
			return fmt.Errorf("read migration state: %w", err)
		}
		if applied {
			continue
		}

		content, err := migrationFS.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, upSection(string(content))); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, `INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}

		log.Info().Str("migration", name).Msg("migration applied")
	}

	return nil
}

// upSection returns the part of a migration before the Down marker.
func upSection(content string) string {
	up, _, _ := strings.Cut(content, downMarker)
	return strings.TrimSpace(up)
}
