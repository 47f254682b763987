package database

import (
	"context"
	"fmt"
)

// Migration is one named, forward-only schema change
type Migration struct {
	Name string
	Up   string
}

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS _migrations (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		run_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// Migrate applies every migration not yet recorded in _migrations, in order.
// It returns the names of the migrations it applied.
func Migrate(ctx context.Context, db DBTX, migrations []Migration) ([]string, error) {
	if _, err := db.Exec(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []string
	for _, m := range migrations {
		var exists bool
		err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM _migrations WHERE name = $1)`, m.Name).Scan(&exists)
		if err != nil {
			return applied, fmt.Errorf("failed to check migration %s: %w", m.Name, err)
		}
		if exists {
			continue
		}

		if _, err := db.Exec(ctx, m.Up); err != nil {
			return applied, fmt.Errorf("failed to run migration %s: %w", m.Name, err)
		}
		if _, err := db.Exec(ctx, `INSERT INTO _migrations (name) VALUES ($1)`, m.Name); err != nil {
			return applied, fmt.Errorf("failed to record migration %s: %w", m.Name, err)
		}
		applied = append(applied, m.Name)
	}

	return applied, nil
}
